package events

import "strings"

// Sentiment is the event-level polarity label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// sentimentLexicons are the fixed keyword sets voted over the whole
// review text. The neutral set exists so explicitly lukewarm language can
// outvote a single stray polar word.
var sentimentLexicons = map[Sentiment][]string{
	SentimentPositive: {
		"excellent", "good", "great", "perfect", "amazing", "recommended",
		"love", "fantastic", "wonderful", "happy",
	},
	SentimentNegative: {
		"bad", "terrible", "horrible", "defective", "broken",
		"disappointing", "awful", "useless", "waste", "poor",
	},
	SentimentNeutral: {
		"normal", "average", "acceptable", "regular", "okay", "decent",
	},
}

// ScoreSentiment classifies a whole review text. It is the same vote the
// extractor attaches to every event in the review.
func ScoreSentiment(text string) Sentiment {
	return newSentimentScorer().Score(strings.ToLower(text))
}

type sentimentScorer struct{}

func newSentimentScorer() *sentimentScorer {
	return &sentimentScorer{}
}

// Score counts lexicon hits over the whole lowercased review text and
// returns the majority class, neutral on a tie. Substring containment
// mirrors the trigger scan; it overcounts inside longer words and that is
// accepted.
func (s *sentimentScorer) Score(lower string) Sentiment {
	counts := make(map[Sentiment]int, 3)
	for label, words := range sentimentLexicons {
		for _, w := range words {
			if strings.Contains(lower, w) {
				counts[label]++
			}
		}
	}

	pos, neg, neu := counts[SentimentPositive], counts[SentimentNegative], counts[SentimentNeutral]
	switch {
	case pos > neg && pos > neu:
		return SentimentPositive
	case neg > pos && neg > neu:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
