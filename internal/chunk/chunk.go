// Package chunk splits long text into overlapping fixed-width windows for
// contexts too large to submit whole. No mode calls it yet; document context
// is truncated flat instead. It is kept for retrieval-style chunking later.
package chunk

import "errors"

const (
	DefaultSize    = 1200
	DefaultOverlap = 200
)

// ErrChunkConfig reports an unusable size/overlap pair. overlap >= size
// would make the window advance zero or negative and loop forever.
var ErrChunkConfig = errors.New("chunk overlap must be non-negative and smaller than size")

// Chunk splits text into windows of size runes where consecutive windows
// share overlap runes of source text. Every chunk except the last has length
// exactly size; the last may be shorter. Pure function.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrChunkConfig
	}

	runes := []rune(text)
	step := size - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
