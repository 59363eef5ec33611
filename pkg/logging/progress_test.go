package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDocumentProgress_BasicOperations(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	p := NewDocumentProgress(10, log)

	p.Record()
	p.Record()
	p.Record()

	if p.Processed() != 3 {
		t.Errorf("expected processed=3, got %d", p.Processed())
	}
	if p.Total() != 10 {
		t.Errorf("expected total=10, got %d", p.Total())
	}
	if pct := p.Pct(); pct != 30.0 {
		t.Errorf("expected progress 30%%, got %.1f%%", pct)
	}
}

func TestDocumentProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewDocumentProgress(0, zerolog.New(&buf))

	if pct := p.Pct(); pct != 100.0 {
		t.Errorf("expected 100%% for zero total, got %.1f%%", pct)
	}
	if eta := p.ETA(); eta != 0 {
		t.Errorf("expected zero ETA, got %v", eta)
	}
}

func TestDocumentProgress_EmitsOnCadence(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	// total=100 gives a log cadence of 5 documents.
	p := NewDocumentProgress(100, log)
	for i := 0; i < 10; i++ {
		p.Record()
	}

	events := strings.Count(buf.String(), `"event":"progress"`)
	if events != 2 {
		t.Errorf("expected 2 progress events after 10 of 100 documents, got %d:\n%s", events, buf.String())
	}
}

func TestDocumentProgress_Finish(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	p := NewDocumentProgress(2, log)
	p.Record()
	p.Record()
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, `"event":"progress_finished"`) {
		t.Errorf("expected a finish event, got:\n%s", out)
	}
	if !strings.Contains(out, `"processed":2`) {
		t.Errorf("expected final processed count, got:\n%s", out)
	}
}
