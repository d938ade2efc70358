// Package watcher keeps a directory of documents ingested.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"legalrag/internal/domain"
	"legalrag/internal/service"
)

// Ingester indexes one document.
type Ingester interface {
	IngestDocument(ctx context.Context, documentID, text string, metadata map[string]any) (service.IngestResult, error)
}

// Watcher ingests the files of a directory and re-ingests them when they change.
// Removed files are logged only; the index never evicts.
type Watcher struct {
	dir        string
	extensions []string
	ingester   Ingester
	logger     *slog.Logger
	fsw        *fsnotify.Watcher
}

// New creates a watcher on dir.
func New(dir string, extensions []string, ingester Ingester, logger *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{dir: dir, extensions: extensions, ingester: ingester, logger: logger, fsw: fsw}, nil
}

// IngestExisting ingests every matching file already in the directory and returns how
// many succeeded.
func (w *Watcher) IngestExisting(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !service.HasExtension(e.Name(), w.extensions) {
			continue
		}
		if w.ingest(ctx, filepath.Join(w.dir, e.Name())) {
			n++
		}
	}
	return n, nil
}

// Run ingests existing files, then follows changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	n, err := w.IngestExisting(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("watching directory", "dir", w.dir, "ingested", n, "extensions", w.extensions)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !service.HasExtension(event.Name, w.extensions) {
		return
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.ingest(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.logger.Info("document file removed, index unchanged", "path", event.Name)
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("read document failed", "path", path, "error", err)
		return false
	}
	id := service.DocumentIDFromPath(path)
	_, err = w.ingester.IngestDocument(ctx, id, string(data), map[string]any{"source": path})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		// files are often created empty and filled by a later write
		w.logger.Debug("skipping empty document", "path", path)
		return false
	case err != nil:
		w.logger.Warn("ingest failed", "path", path, "error", err)
		return false
	}
	return true
}
