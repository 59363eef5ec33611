// Package oplogstats accumulates per-entry statistics of a MongoDB oplog.
//
// The package implements a streaming aggregator with bounded memory:
//  1. Pull oplog documents one at a time from a cursor.
//  2. Group them by "<namespace>:<operation>" and accumulate document counts
//     and serialized sizes per group.
//  3. Derive ranked snapshots with relative shares on demand.
//
// Memory usage is O(distinct entry names) regardless of how many documents
// are processed. Real oplogs have tens of namespaces and a handful of
// operation codes, so the table stays small even for very long streams.
package oplogstats

import (
	"slices"
	"strings"
)

// EntryStats holds the running statistics for a single oplog entry name.
type EntryStats struct {
	// DocCount is the number of documents seen for the entry.
	DocCount uint64

	// TotalSize is the total serialized size in bytes of those documents.
	TotalSize uint64
}

// Entry pairs an entry name with its statistics in a ranked snapshot.
type Entry struct {
	Name string
	EntryStats
}

// Stats is the aggregate table mapping entry names to their statistics.
//
// A Stats instance is exclusively owned by the run that created it: it is
// mutated by exactly one stream driver and read only between updates or after
// the driver has returned. It is NOT safe for concurrent use.
//
// Entries are created lazily on first observation and never removed or reset
// during a run; every counter is monotonically non-decreasing.
type Stats struct {
	entries map[string]*EntryStats

	// processed counts every successful update. It always equals the sum of
	// DocCount over all entries.
	processed uint64

	// totalSize is the running sum of TotalSize over all entries, kept so
	// share derivation is O(1).
	totalSize uint64
}

// NewStats returns a new, empty aggregate table.
func NewStats() *Stats {
	return &Stats{entries: make(map[string]*EntryStats)}
}

// Update accumulates one document of the given serialized size under name.
// The entry is created with zero statistics if absent. Update never fails.
func (s *Stats) Update(name string, size uint64) {
	stats, ok := s.entries[name]
	if !ok {
		stats = &EntryStats{}
		s.entries[name] = stats
	}
	stats.DocCount++
	stats.TotalSize += size

	s.processed++
	s.totalSize += size
}

// ProcessedCount returns the number of documents processed so far.
func (s *Stats) ProcessedCount() uint64 {
	return s.processed
}

// HasProcessedAny reports whether at least one document has been processed.
func (s *Stats) HasProcessedAny() bool {
	return s.processed > 0
}

// TotalSize returns the total serialized size of all processed documents.
func (s *Stats) TotalSize() uint64 {
	return s.totalSize
}

// EntryCount returns the number of distinct entry names tracked.
func (s *Stats) EntryCount() int {
	return len(s.entries)
}

// Snapshot returns a read-only ranked view of the table: entries ordered by
// TotalSize descending. Entries with equal TotalSize are ordered by name
// ascending; the tie-break is deliberate, so snapshots of the same table are
// always in the same order.
//
// The snapshot is a copy. Later updates do not change it.
func (s *Stats) Snapshot() []Entry {
	ranked := make([]Entry, 0, len(s.entries))
	for name, stats := range s.entries {
		ranked = append(ranked, Entry{Name: name, EntryStats: *stats})
	}
	slices.SortFunc(ranked, func(a, b Entry) int {
		if a.TotalSize != b.TotalSize {
			if a.TotalSize > b.TotalSize {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return ranked
}
