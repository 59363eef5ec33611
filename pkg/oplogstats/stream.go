package oplogstats

import (
	"errors"
	"fmt"

	"github.com/juju/mgo/v3/bson"
)

// Cursor is the pull primitive the stream driver consumes documents from.
// Next decodes the next document into result and reports whether one was
// available; after Next returns false, Err distinguishes end-of-stream (nil)
// from a producer failure.
//
// *mgo.Iter satisfies Cursor. The driver works the same over a network-backed
// cursor or an in-memory one; it never prefetches and never assumes random
// access.
type Cursor interface {
	Next(result interface{}) bool
	Err() error
}

// CollectConfig configures one Collect run.
type CollectConfig struct {
	// Limit is the maximum number of documents to process.
	Limit uint64

	// ReportEvery makes Collect call OnReport after every ReportEvery
	// processed documents. It must be positive when OnReport is set and has
	// no effect when OnReport is nil.
	ReportEvery uint64

	// OnReport is invoked synchronously from the processing loop. It may read
	// the Stats but must not mutate them.
	OnReport func(*Stats)

	// OnDocument, when set, is invoked after every successfully processed
	// document, regardless of the report cadence. It is meant for progress
	// tracking; failing documents are never counted.
	OnDocument func()
}

// Collect pulls documents from cursor and accumulates them into stats until
// the limit is reached, the cursor is exhausted, or something fails.
//
// On failure, stats keeps everything aggregated before the failing document;
// callers can render the partial table before surfacing the returned error.
// Collect itself never logs and never retries.
func Collect(cursor Cursor, stats *Stats, cfg CollectConfig) error {
	if cfg.OnReport != nil && cfg.ReportEvery == 0 {
		return errors.New("report cadence must be positive")
	}

	for remaining := cfg.Limit; remaining > 0; remaining-- {
		var doc bson.D
		if !cursor.Next(&doc) {
			if err := cursor.Err(); err != nil {
				return fmt.Errorf("pull a document from the oplog: %w", err)
			}
			break
		}

		name, size, err := ExtractEntry(doc)
		if err != nil {
			return fmt.Errorf("add info from an oplog document: %w", err)
		}
		stats.Update(name, size)

		if cfg.OnDocument != nil {
			cfg.OnDocument()
		}
		if cfg.OnReport != nil && cfg.ReportEvery > 0 && stats.ProcessedCount()%cfg.ReportEvery == 0 {
			cfg.OnReport(stats)
		}
	}
	return nil
}
