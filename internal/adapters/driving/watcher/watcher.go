// Package watcher ingests documents dropped into a watched directory.
// Files are uploaded once their writes settle, so partially copied
// files are never ingested.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// defaultDebounce is how long a file must stay quiet before ingestion.
const defaultDebounce = 500 * time.Millisecond

// Watcher uploads files dropped into a directory.
type Watcher struct {
	ingest   driving.IngestService
	tenantID string
	dir      string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the settle period before a file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the given directory.
func New(ingest driving.IngestService, tenantID, dir string, opts ...Option) (*Watcher, error) {
	if ingest == nil {
		return nil, fmt.Errorf("ingest service is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	w := &Watcher{
		ingest:   ingest,
		tenantID: tenantID,
		dir:      dir,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the directory until the context is cancelled. Each
// settled file is uploaded on its own goroutine; failures are logged
// and recorded on the document, never fatal to the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.wg.Wait()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.ingestable(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// schedule arms or resets the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.upload(ctx, path)
		}()
	})
}

// upload reads a settled file and runs it through ingestion.
func (w *Watcher) upload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Could not read %s: %v", path, err)
		return
	}

	doc, err := w.ingest.Upload(ctx, driving.UploadRequest{
		TenantID: w.tenantID,
		Filename: filepath.Base(path),
		Payload:  payload,
	})
	if err != nil {
		logger.Warn("Could not upload %s: %v", path, err)
		return
	}

	logger.Info("Picked up %s as document %s (%s)", path, doc.ID, doc.Status)
}

// ingestable filters out directories, hidden files, and temp files.
func (w *Watcher) ingestable(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	if strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".part") {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
