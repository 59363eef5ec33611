package logging

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/oplog-stats/pkg/humanfmt"
)

// DocumentProgress tracks progress through a bounded document stream and
// emits structured progress events on a document-count cadence.
//
// It is meant for the single-threaded collection loop: one goroutine records,
// the same goroutine reads.
type DocumentProgress struct {
	total     uint64
	processed uint64
	logEvery  uint64
	startTime time.Time
	log       zerolog.Logger
}

// NewDocumentProgress creates a tracker for a stream of total documents.
// Progress events are emitted roughly every 5% of the stream, and at the end.
func NewDocumentProgress(total uint64, log zerolog.Logger) *DocumentProgress {
	logEvery := total / 20
	if logEvery == 0 {
		logEvery = 1
	}
	return &DocumentProgress{
		total:     total,
		logEvery:  logEvery,
		startTime: time.Now(),
		log:       log,
	}
}

// Record counts one processed document, emitting a progress event when the
// cadence is reached.
func (p *DocumentProgress) Record() {
	p.processed++
	if p.processed%p.logEvery == 0 || p.processed == p.total {
		p.emit()
	}
}

// Processed returns the number of documents recorded so far.
func (p *DocumentProgress) Processed() uint64 {
	return p.processed
}

// Total returns the expected document count.
func (p *DocumentProgress) Total() uint64 {
	return p.total
}

// Pct returns the progress percentage (0-100).
func (p *DocumentProgress) Pct() float64 {
	if p.total == 0 {
		return 100.0
	}
	return float64(p.processed) * 100.0 / float64(p.total)
}

// ETA returns the estimated time remaining based on the average rate so far.
func (p *DocumentProgress) ETA() time.Duration {
	if p.processed == 0 || p.processed >= p.total {
		return 0
	}
	perDoc := time.Since(p.startTime) / time.Duration(p.processed)
	return perDoc * time.Duration(p.total-p.processed)
}

// Elapsed returns time since tracking started.
func (p *DocumentProgress) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

func (p *DocumentProgress) emit() {
	e := p.log.Info().
		Str("event", "progress").
		Uint64("processed", p.processed).
		Uint64("total", p.total).
		Float64("progress_pct", p.Pct())

	if eta := p.ETA(); eta > 0 {
		e = e.Int64("eta_ms", eta.Milliseconds())
		if IsPrettyMode() {
			e = e.Str("eta_h", humanfmt.Duration(eta))
		}
	}
	if IsPrettyMode() {
		e = e.Str("progress_h", humanfmt.CountUint64(p.processed)+"/"+humanfmt.CountUint64(p.total))
	}

	e.Msg("processing oplog documents")
}

// Finish emits a completion event with the final counts and elapsed time.
func (p *DocumentProgress) Finish() {
	e := p.log.Info().
		Str("event", "progress_finished").
		Uint64("processed", p.processed).
		Uint64("total", p.total).
		Int64("duration_ms", p.Elapsed().Milliseconds())

	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(p.Elapsed()))
	}

	e.Msg("finished processing oplog documents")
}
