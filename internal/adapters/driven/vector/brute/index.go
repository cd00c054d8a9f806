// Package brute provides an exact cosine-similarity vector index held
// in memory. Search cost is linear in the number of indexed chunks,
// which is fine for the corpus sizes a single tenant uploads; the
// VectorIndex port keeps an ANN swap possible.
package brute

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one indexed chunk vector.
type entry struct {
	chunkID    string
	documentID string
	seq        uint64
	vec        []float32
	norm       float64
}

// tenantIndex holds one tenant's vectors, keyed by document.
type tenantIndex struct {
	docs map[string][]entry
}

// Index is a tenant-scoped in-memory vector index.
//
// A document's vectors are swapped as a unit under the write lock, so
// readers never observe a partially replaced document.
type Index struct {
	mu      sync.RWMutex
	tenants map[string]*tenantIndex
	dims    int
	nextSeq uint64
}

// New creates an empty index. Dimensionality is fixed by the first
// vector added.
func New() *Index {
	return &Index{tenants: make(map[string]*tenantIndex)}
}

// Upsert atomically replaces all vectors for a document.
func (i *Index) Upsert(_ context.Context, tenantID, documentID string, entries []driven.VectorEntry) error {
	if tenantID == "" || documentID == "" {
		return domain.ErrInvalidInput
	}

	// Validate and precompute norms outside the lock.
	prepared := make([]entry, len(entries))
	for n, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, e.ChunkID)
		}
		prepared[n] = entry{
			chunkID:    e.ChunkID,
			documentID: documentID,
			vec:        e.Embedding,
			norm:       vectorNorm(e.Embedding),
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for n := range prepared {
		if i.dims == 0 {
			i.dims = len(prepared[n].vec)
		}
		if len(prepared[n].vec) != i.dims {
			return fmt.Errorf("%w: got %d, index has %d",
				domain.ErrDimensionMismatch, len(prepared[n].vec), i.dims)
		}
		i.nextSeq++
		prepared[n].seq = i.nextSeq
	}

	ti, ok := i.tenants[tenantID]
	if !ok {
		ti = &tenantIndex{docs: make(map[string][]entry)}
		i.tenants[tenantID] = ti
	}
	ti.docs[documentID] = prepared
	return nil
}

// Search finds the k most similar vectors within a tenant. Hits are
// ordered by similarity descending; ties keep insertion order.
func (i *Index) Search(_ context.Context, tenantID string, query []float32, k int, threshold float64) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.dims != 0 && len(query) != i.dims {
		return nil, fmt.Errorf("%w: query has %d, index has %d",
			domain.ErrDimensionMismatch, len(query), i.dims)
	}

	ti, ok := i.tenants[tenantID]
	if !ok {
		return nil, nil
	}

	queryNorm := vectorNorm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	type scored struct {
		hit driven.VectorHit
		seq uint64
	}
	var matches []scored

	for _, doc := range ti.docs {
		for _, e := range doc {
			if e.norm == 0 {
				continue
			}
			sim := dot(query, e.vec) / (queryNorm * e.norm)
			// Strictly above: a hit at exactly the threshold is dropped,
			// so a threshold of 1.0 matches nothing.
			if sim <= threshold {
				continue
			}
			matches = append(matches, scored{
				hit: driven.VectorHit{
					ChunkID:    e.chunkID,
					DocumentID: e.documentID,
					Similarity: sim,
				},
				seq: e.seq,
			})
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].hit.Similarity != matches[b].hit.Similarity {
			return matches[a].hit.Similarity > matches[b].hit.Similarity
		}
		return matches[a].seq < matches[b].seq
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	hits := make([]driven.VectorHit, len(matches))
	for n, m := range matches {
		hits[n] = m.hit
	}
	return hits, nil
}

// DeleteDocument removes all vectors for a document.
func (i *Index) DeleteDocument(_ context.Context, tenantID, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if ti, ok := i.tenants[tenantID]; ok {
		delete(ti.docs, documentID)
	}
	return nil
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// vectorNorm returns the Euclidean norm.
func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// dot returns the dot product. Lengths must match.
func dot(a, b []float32) float64 {
	var sum float64
	for n := range a {
		sum += float64(a[n]) * float64(b[n])
	}
	return sum
}
