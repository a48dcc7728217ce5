package store

// Record is one stored FAQ chunk: the chunk text and its embedding, keyed by
// a generated unique id. Records are written once and never updated.
type Record struct {
	ID        string    `json:"id"`
	Document  string    `json:"document"`
	Embedding []float32 `json:"-"` // internal, not exposed in JSON responses
}
