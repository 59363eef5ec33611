package oplogstats

import (
	"fmt"

	"github.com/juju/mgo/v3/bson"
)

// nameSeparator joins the namespace and the operation code in an entry name.
// The "<ns>:<op>" form is part of the output format and must not change.
const nameSeparator = ":"

// MissingFieldError reports an oplog document that lacks one of the required
// string fields ("ns" or "op").
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %q entry in oplog document", e.Field)
}

// ExtractEntry derives the entry name and the serialized size in bytes of a
// single oplog document.
//
// The name is "<ns>:<op>", where ns is the namespace the entry applies to and
// op is the operation code (e.g. "i" for an insertion). Both fields must be
// present and string-valued. The size is the length of the document's BSON
// wire form, not an estimate.
//
// ExtractEntry is a pure function: the same document always yields the same
// name and size.
func ExtractEntry(doc bson.D) (name string, size uint64, err error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", 0, fmt.Errorf("serialize document to measure its size: %w", err)
	}

	ns, ok := stringField(doc, "ns")
	if !ok {
		return "", 0, &MissingFieldError{Field: "ns"}
	}
	op, ok := stringField(doc, "op")
	if !ok {
		return "", 0, &MissingFieldError{Field: "op"}
	}

	return ns + nameSeparator + op, uint64(len(raw)), nil
}

// stringField returns the named top-level field when it exists and holds a
// string.
func stringField(doc bson.D, name string) (string, bool) {
	for _, elem := range doc {
		if elem.Name == name {
			value, ok := elem.Value.(string)
			return value, ok
		}
	}
	return "", false
}
