package search

import "strings"

// SplitText splits document text into chunks of at most maxChunkSize
// characters for embedding. Text at or under the limit is returned as a
// single chunk. Longer text is split on sentence boundaries, packing
// consecutive sentences greedily; a sentence too long to fit in a chunk
// of its own is packed word by word. A single word longer than the limit
// becomes its own oversized chunk rather than being dropped.
func SplitText(text string, maxChunkSize int) []string {
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	// Sentence boundaries only; newlines are folded into spaces first.
	sentences := strings.Split(strings.ReplaceAll(text, "\n", " "), ". ")

	var chunks []string
	var current string

	for _, sentence := range sentences {
		// The +1 is the period restored below; it counts against the limit.
		if len(current)+len(sentence)+1 > maxChunkSize {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
			if len(sentence)+1 > maxChunkSize {
				chunks = append(chunks, packWords(sentence, maxChunkSize)...)
				continue
			}
		}
		current += sentence + ". "
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}

	return chunks
}

// packWords splits a single oversized sentence into chunks of at most
// maxChunkSize characters along word boundaries.
func packWords(sentence string, maxChunkSize int) []string {
	words := strings.Fields(sentence)

	var chunks []string
	var current string

	for _, word := range words {
		if current == "" {
			// A word that alone exceeds the limit is emitted verbatim:
			// losing content is worse than an oversized chunk.
			if len(word) >= maxChunkSize {
				chunks = append(chunks, word)
				continue
			}
			current = word + " "
			continue
		}
		if len(current+word) >= maxChunkSize {
			chunks = append(chunks, strings.TrimSpace(current))
			current = ""
			if len(word) >= maxChunkSize {
				chunks = append(chunks, word)
				continue
			}
			current = word + " "
			continue
		}
		current += word + " "
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}

	return chunks
}
