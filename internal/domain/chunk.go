package domain

// Chunk is a bounded slice of article text held in the semantic index,
// tagged with the URL it was cut from. Immutable once indexed.
type Chunk struct {
	Content   string
	SourceURL string
}
