// Package blob stores raw uploaded payloads on the local filesystem,
// one directory per tenant.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is a filesystem-backed blob store rooted at a base directory.
type Store struct {
	baseDir string
}

// NewStore creates the blob store rooted at baseDir. An empty baseDir
// defaults to ~/.regdoc/blobs.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".regdoc", "blobs")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the root blob directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Put stores a payload and returns its storage path.
func (s *Store) Put(ctx context.Context, tenantID, documentID string, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.blobPath(tenantID, documentID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating tenant directory: %w", err)
	}

	// Write to a temp file first so readers never see partial payloads.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0600); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return "", fmt.Errorf("finalizing blob: %w", err)
	}

	return path, nil
}

// Get retrieves a stored payload.
func (s *Store) Get(ctx context.Context, tenantID, documentID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.blobPath(tenantID, documentID)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return payload, nil
}

// Delete removes a stored payload. Missing payloads are ignored.
func (s *Store) Delete(ctx context.Context, tenantID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.blobPath(tenantID, documentID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// blobPath builds the on-disk path for a document payload. IDs must be
// plain path segments so a crafted ID cannot escape the base directory.
func (s *Store) blobPath(tenantID, documentID string) (string, error) {
	if !validSegment(tenantID) {
		return "", fmt.Errorf("%w: tenant id %q", domain.ErrInvalidInput, tenantID)
	}
	if !validSegment(documentID) {
		return "", fmt.Errorf("%w: document id %q", domain.ErrInvalidInput, documentID)
	}
	return filepath.Join(s.baseDir, tenantID, documentID+".bin"), nil
}

func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
