package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Snapshot serves a read-only view of the persisted archive to query
// handlers. It reloads the file when the sync engine replaces it, so chat
// commands never pay a disk read per query and never observe a partial write
// (the engine persists via atomic rename).
type Snapshot struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	records []Record
}

// NewSnapshot loads the file at path and returns a snapshot over it. A
// missing or corrupt file yields an empty snapshot.
func NewSnapshot(path string, logger *slog.Logger) *Snapshot {
	s := &Snapshot{path: path, logger: logger}
	s.reload()
	return s
}

// Records returns the current snapshot contents, newest first. The returned
// slice must not be modified by callers.
func (s *Snapshot) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Refresh re-reads the file immediately. Used after a sync cycle persists in
// case file events are delayed.
func (s *Snapshot) Refresh() {
	s.reload()
}

// Watch reloads the snapshot whenever the archive file is rewritten. The
// watcher is registered on the parent directory because an atomic rename
// replaces the inode the file path points at. Blocks until ctx is done.
func (s *Snapshot) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create archive watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch archive directory: %w", err)
	}

	// Backup polling in case file events are missed.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.reload()
			}
		case err := <-watcher.Errors:
			s.logger.Warn("archive watcher error", "error", err)
		case <-ticker.C:
			s.reload()
		}
	}
}

func (s *Snapshot) reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("archive snapshot read failed", "path", s.path, "error", err)
		}
		s.mu.Lock()
		s.records = nil
		s.mu.Unlock()
		return
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("archive snapshot corrupt, keeping previous view", "path", s.path, "error", err)
		return
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}
