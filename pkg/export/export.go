// Package export writes statistics snapshots to Parquet files for later
// analysis outside the tool.
package export

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/eunmann/oplog-stats/pkg/oplogstats"
)

// Row is one ranked snapshot entry in an exported file.
type Row struct {
	Entry     string  `parquet:"entry"`
	DocCount  uint64  `parquet:"doc_count"`
	TotalSize uint64  `parquet:"total_size"`
	SharePct  float64 `parquet:"share_pct"`
}

// SnapshotRows converts the current state of stats into export rows, in
// ranked snapshot order.
func SnapshotRows(stats *oplogstats.Stats) []Row {
	snapshot := stats.Snapshot()
	rows := make([]Row, 0, len(snapshot))
	for _, entry := range snapshot {
		rows = append(rows, Row{
			Entry:     entry.Name,
			DocCount:  entry.DocCount,
			TotalSize: entry.TotalSize,
			SharePct:  oplogstats.Share(entry.TotalSize, stats.TotalSize()),
		})
	}
	return rows
}

// WriteSnapshot writes the current ranked snapshot of stats as a Parquet file
// at path.
func WriteSnapshot(path string, stats *oplogstats.Stats) error {
	if err := parquet.WriteFile(path, SnapshotRows(stats)); err != nil {
		return fmt.Errorf("write statistics snapshot to %s: %w", path, err)
	}
	return nil
}
