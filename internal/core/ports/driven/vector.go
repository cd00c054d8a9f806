package driven

import "context"

// VectorIndex provides tenant-scoped semantic similarity search.
//
// A document's vectors are replaced as a unit: readers either see the
// full previous set or the full new set, never a mix.
type VectorIndex interface {
	// Upsert atomically replaces all vectors for a document.
	Upsert(ctx context.Context, tenantID, documentID string, entries []VectorEntry) error

	// Search finds the k most similar vectors within a tenant.
	// Hits are ordered by similarity descending; only entries with
	// similarity strictly above the threshold are returned. Ties keep
	// insertion order.
	Search(ctx context.Context, tenantID string, query []float32, k int, threshold float64) ([]VectorHit, error)

	// DeleteDocument removes all vectors for a document.
	DeleteDocument(ctx context.Context, tenantID, documentID string) error

	// Close releases resources.
	Close() error
}

// VectorEntry is one chunk vector to index.
type VectorEntry struct {
	// ChunkID is the chunk the vector belongs to.
	ChunkID string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int

	// Embedding is the chunk's vector.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the matched chunk's document.
	DocumentID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
