package driven

// Chunker splits extracted text into overlapping chunks.
type Chunker interface {
	// Split divides text into ordered chunks of roughly size runes with
	// the given overlap carried between consecutive chunks. The same
	// input always yields the same output.
	// Returns domain.ErrEmptyDocument when the text is blank.
	Split(text string, size, overlap int) ([]ChunkSpan, error)
}

// ChunkSpan is one split piece with its position in the source text.
type ChunkSpan struct {
	// Index is the zero-based chunk position.
	Index int

	// Text is the chunk content.
	Text string

	// CharStart is the rune offset of the chunk start.
	CharStart int

	// CharEnd is the rune offset one past the chunk end.
	CharEnd int
}
