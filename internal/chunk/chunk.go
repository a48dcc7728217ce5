package chunk

import "strings"

const DefaultSize = 300 // words per chunk, keeps each chunk within embedding input limits

// Words splits text into non-overlapping windows of size whitespace-delimited
// words, re-joined with single spaces. The last chunk may be shorter. Empty
// or whitespace-only input yields no chunks.
func Words(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
