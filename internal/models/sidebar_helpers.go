package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	errSectionDataMissing = errors.New("section data is required")
	errSectionTypeUnknown = errors.New("unknown section type")
)

// ErrSectionTypeUnknown is returned when a section carries a type
// outside the closed set.
var ErrSectionTypeUnknown = errSectionTypeUnknown

func strictDecoder(raw json.RawMessage) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec
}
