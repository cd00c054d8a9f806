package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

type documentFixture struct {
	service   *DocumentService
	docStore  *memory.DocumentStore
	blobStore *mockBlobStore
	vectors   *mockVectorIndex
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		docStore:  memory.NewDocumentStore(),
		blobStore: newMockBlobStore(),
		vectors:   newMockVectorIndex(),
	}
	f.service = NewDocumentService(f.docStore, f.blobStore, f.vectors)
	return f
}

func (f *documentFixture) seedDocument(t *testing.T, id, tenantID string) *domain.Document {
	t.Helper()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        id,
		TenantID:  tenantID,
		Filename:  id + ".txt",
		MIMEType:  "text/plain",
		Status:    domain.StatusIndexed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.docStore.SaveDocument(context.Background(), doc))
	return doc
}

func TestDocumentList(t *testing.T) {
	f := newDocumentFixture()
	f.seedDocument(t, "doc-1", "tenant-1")
	f.seedDocument(t, "doc-2", "tenant-1")
	f.seedDocument(t, "doc-3", "tenant-2")

	docs, err := f.service.List(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentList_Validation(t *testing.T) {
	f := newDocumentFixture()

	_, err := f.service.List(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentGet(t *testing.T) {
	f := newDocumentFixture()
	f.seedDocument(t, "doc-1", "tenant-1")

	doc, err := f.service.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.txt", doc.Filename)

	_, err = f.service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentDelete(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	f.seedDocument(t, "doc-1", "tenant-1")
	_, err := f.blobStore.Put(ctx, "tenant-1", "doc-1", []byte("payload"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, "doc-1"))

	_, err = f.docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.blobStore.Get(ctx, "tenant-1", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Contains(t, f.vectors.deleted, "doc-1")
}

func TestDocumentDelete_NotFound(t *testing.T) {
	f := newDocumentFixture()

	err := f.service.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
