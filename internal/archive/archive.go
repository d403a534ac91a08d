// Package archive maintains the bounded local history of synced matches.
// The archive is an ordered, newest-first sequence of match records persisted
// as a pretty-printed JSON file so it stays inspectable by hand.
package archive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultCap bounds how many records the archive retains. Merges beyond the
// cap evict the oldest (tail) records.
const DefaultCap = 500

// Record is one synced match as seen by a tracked player. Records are never
// mutated after insertion.
type Record struct {
	MatchID   string `json:"matchId"`
	Champion  string `json:"champion"`
	Rune      string `json:"rune,omitempty"`
	Win       bool   `json:"win"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Archive holds the record sequence plus a companion ID set for O(1)
// membership checks. It is not safe for concurrent use; the sync engine owns
// it exclusively during a cycle (readers go through Snapshot).
type Archive struct {
	path    string
	cap     int
	records []Record
	known   map[string]struct{}
}

// Load reads the persisted archive from path. A missing or corrupt file is
// treated as an empty archive: the bot keeps running and resyncs over time.
func Load(path string, capacity int, logger *slog.Logger) *Archive {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	a := &Archive{
		path:  path,
		cap:   capacity,
		known: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("archive read failed, starting empty", "path", path, "error", err)
		}
		return a
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("archive corrupt, starting empty", "path", path, "error", err)
		return a
	}

	for _, r := range records {
		if _, dup := a.known[r.MatchID]; dup {
			continue
		}
		a.records = append(a.records, r)
		a.known[r.MatchID] = struct{}{}
	}
	a.truncate()
	return a
}

// Len returns the number of stored records.
func (a *Archive) Len() int {
	return len(a.records)
}

// Records returns a copy of the record sequence, newest first.
func (a *Archive) Records() []Record {
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// KnownIDs returns a copy of the set of stored match IDs.
func (a *Archive) KnownIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(a.known))
	for id := range a.known {
		out[id] = struct{}{}
	}
	return out
}

// Contains reports whether a match ID is already stored.
func (a *Archive) Contains(matchID string) bool {
	_, ok := a.known[matchID]
	return ok
}

// MergeNew prepends records ahead of the existing sequence, preserving the
// caller's order and the relative order of previously stored records, then
// truncates to the capacity. Records whose match ID is already stored are
// skipped, so merging the same batch twice is a no-op.
func (a *Archive) MergeNew(records []Record) {
	fresh := make([]Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := a.known[r.MatchID]; dup {
			continue
		}
		if _, dup := seen[r.MatchID]; dup {
			continue
		}
		seen[r.MatchID] = struct{}{}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return
	}

	merged := make([]Record, 0, len(fresh)+len(a.records))
	merged = append(merged, fresh...)
	merged = append(merged, a.records...)
	a.records = merged
	for _, r := range fresh {
		a.known[r.MatchID] = struct{}{}
	}
	a.truncate()
}

// Persist writes the current sequence back to disk atomically: the JSON is
// written to a temp file in the same directory and renamed over the target,
// so concurrent readers never observe a partial write.
func (a *Archive) Persist() error {
	data, err := json.MarshalIndent(a.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(a.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp archive: %w", err)
	}

	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}

// truncate drops tail records beyond the capacity and removes their IDs from
// the membership set.
func (a *Archive) truncate() {
	if len(a.records) <= a.cap {
		return
	}
	for _, r := range a.records[a.cap:] {
		delete(a.known, r.MatchID)
	}
	a.records = a.records[:a.cap]
}
