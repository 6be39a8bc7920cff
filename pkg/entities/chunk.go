package entities

import "unicode/utf8"

// DefaultChunkSize bounds how much text is handed to a statistical
// backend in one call. Long reviews are processed chunk by chunk with
// offsets corrected afterward; a chunk boundary may split an entity,
// which is an accepted fidelity trade-off.
const DefaultChunkSize = 1500

// boundaryWindow is how far back from a chunk limit we look for a
// sentence end before giving up and cutting mid-sentence.
const boundaryWindow = 200

type chunk struct {
	text   string
	offset int
}

func splitChunks(text string, size int) []chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(text) <= size {
		return []chunk{{text: text, offset: 0}}
	}

	var out []chunk
	pos := 0
	for pos < len(text) {
		end := pos + size
		if end >= len(text) {
			out = append(out, chunk{text: text[pos:], offset: pos})
			break
		}

		cut := end
		windowStart := end - boundaryWindow
		if windowStart < pos {
			windowStart = pos
		}
		for i := end - 1; i >= windowStart; i-- {
			c := text[i]
			if c == '.' || c == '!' || c == '?' || c == '\n' {
				cut = i + 1
				break
			}
		}
		// A mid-sentence cut must not split a multi-byte rune.
		for cut > pos && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == pos {
			cut = end
		}

		out = append(out, chunk{text: text[pos:cut], offset: pos})
		pos = cut
	}
	return out
}
