package oplogstats

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
)

// Share returns the percentage that size contributes to total. A zero total
// (possible only when every processed document was zero bytes) yields 0
// rather than NaN.
func Share(size, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(size) * 100 / float64(total)
}

// FormatShare renders a share percentage for display. Shares below 0.01 are
// reported as the literal "< 0.01"; everything else is rounded to two decimal
// places.
func FormatShare(share float64) string {
	if share < 0.01 {
		return "< 0.01"
	}
	return fmt.Sprintf("%.2f", share)
}

// HumanSize renders a byte count with decimal (1000-based) unit prefixes,
// file-size style.
func HumanSize(size uint64) string {
	return humanize.Bytes(size)
}

// RenderTable writes the ranked statistics table to w:
//
//	Entry       Documents  Total size  Share (%)
//	db.coll:i           2       150 B      88.24
func RenderTable(w io.Writer, stats *Stats) error {
	table := uitable.New()
	for _, col := range []int{1, 2, 3} {
		table.RightAlign(col)
	}
	table.AddRow("Entry", "Documents", "Total size", "Share (%)")
	total := stats.TotalSize()
	for _, entry := range stats.Snapshot() {
		table.AddRow(
			entry.Name,
			fmt.Sprintf("%d", entry.DocCount),
			HumanSize(entry.TotalSize),
			FormatShare(Share(entry.TotalSize, total)),
		)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}
