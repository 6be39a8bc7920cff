package patterns

import "regexp"

var (
	urlPattern     = regexp.MustCompile(`http[s]?://[^\s]+`)
	mentionPattern = regexp.MustCompile(`[@#]\w+`)
	unsafePattern  = regexp.MustCompile(`[^\w\s.,!?;:()\-'$]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// CleanText normalizes review text for downstream tokenization: strips
// URLs, mentions and hashtags, drops characters outside a safe punctuation
// set, and collapses whitespace. Idempotent: CleanText(CleanText(s)) ==
// CleanText(s).
func CleanText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = unsafePattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")

	// Trim without touching interior spacing.
	for len(text) > 0 && text[0] == ' ' {
		text = text[1:]
	}
	for len(text) > 0 && text[len(text)-1] == ' ' {
		text = text[:len(text)-1]
	}
	return text
}
