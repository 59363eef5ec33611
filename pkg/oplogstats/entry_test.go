package oplogstats

import (
	"errors"
	"testing"

	"github.com/juju/mgo/v3/bson"
)

func TestExtractEntry(t *testing.T) {
	doc := bson.D{
		{Name: "ts", Value: int64(1234567890)},
		{Name: "ns", Value: "db.coll"},
		{Name: "op", Value: "i"},
	}

	name, size, err := ExtractEntry(doc)
	if err != nil {
		t.Fatalf("ExtractEntry failed: %v", err)
	}
	if name != "db.coll:i" {
		t.Errorf("name = %q, want %q", name, "db.coll:i")
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if size != uint64(len(raw)) {
		t.Errorf("size = %d, want serialized length %d", size, len(raw))
	}
}

func TestExtractEntryIdempotent(t *testing.T) {
	doc := bson.D{
		{Name: "ns", Value: "db.coll"},
		{Name: "op", Value: "u"},
		{Name: "o", Value: bson.D{{Name: "x", Value: 1}}},
	}

	name1, size1, err := ExtractEntry(doc)
	if err != nil {
		t.Fatalf("first ExtractEntry failed: %v", err)
	}
	name2, size2, err := ExtractEntry(doc)
	if err != nil {
		t.Fatalf("second ExtractEntry failed: %v", err)
	}
	if name1 != name2 || size1 != size2 {
		t.Errorf("extraction not stable: (%q, %d) vs (%q, %d)", name1, size1, name2, size2)
	}
}

func TestExtractEntryCaseSensitive(t *testing.T) {
	doc := bson.D{
		{Name: "ns", Value: "DB.Coll"},
		{Name: "op", Value: "I"},
	}

	name, _, err := ExtractEntry(doc)
	if err != nil {
		t.Fatalf("ExtractEntry failed: %v", err)
	}
	if name != "DB.Coll:I" {
		t.Errorf("name = %q, want %q (no normalization)", name, "DB.Coll:I")
	}
}

func TestExtractEntryMissingFields(t *testing.T) {
	tests := []struct {
		desc      string
		doc       bson.D
		wantField string
	}{
		{
			desc:      "missing ns",
			doc:       bson.D{{Name: "op", Value: "i"}},
			wantField: "ns",
		},
		{
			desc:      "missing op",
			doc:       bson.D{{Name: "ns", Value: "db.coll"}},
			wantField: "op",
		},
		{
			desc:      "non-string ns",
			doc:       bson.D{{Name: "ns", Value: 42}, {Name: "op", Value: "i"}},
			wantField: "ns",
		},
		{
			desc:      "non-string op",
			doc:       bson.D{{Name: "ns", Value: "db.coll"}, {Name: "op", Value: 7}},
			wantField: "op",
		},
		{
			desc:      "empty document",
			doc:       bson.D{},
			wantField: "ns",
		},
	}

	for _, tt := range tests {
		_, _, err := ExtractEntry(tt.doc)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tt.desc)
			continue
		}
		var missing *MissingFieldError
		if !errors.As(err, &missing) {
			t.Errorf("%s: error %v is not a MissingFieldError", tt.desc, err)
			continue
		}
		if missing.Field != tt.wantField {
			t.Errorf("%s: missing field = %q, want %q", tt.desc, missing.Field, tt.wantField)
		}
	}
}
