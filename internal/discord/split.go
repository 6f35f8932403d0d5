package discord

import "strings"

// EmbedDescriptionLimit is the longest description a single lookup embed
// will carry. Discord accepts up to 4096 characters, but long stat blocks
// read better paged at the size of a regular message.
const EmbedDescriptionLimit = 2000

// SplitText splits text into chunks of at most limit characters. Chunks
// break at the last newline before the limit so paragraphs stay intact;
// a single line longer than the limit is cut mid-line.
func SplitText(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
