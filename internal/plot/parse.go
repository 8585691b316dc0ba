package plot

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseError reports a serialized plot that is not valid JSON.
type ParseError struct {
	// Offset is the byte offset of a syntax error, or -1 when unknown.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse plot at offset %d: %v", e.Offset, e.Err)
	}
	return "parse plot: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a serialized plot. Only input that is not valid JSON fails, with
// a *ParseError. Valid JSON whose shape does not fit Data and Layout (a top-level
// array, categorical coordinates, a surface grid) parses with Mismatch set; it is
// up to the renderer to reject it.
func Parse(s string) (Description, error) {
	raw := json.RawMessage(s)
	if !json.Valid(raw) {
		var v any
		err := json.Unmarshal(raw, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		pe := &ParseError{Offset: -1, Err: err}
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			pe.Offset = syn.Offset
		}
		return Description{}, pe
	}
	var d Description
	if err := json.Unmarshal(raw, &d); err != nil {
		return Description{Raw: raw, Mismatch: err}, nil
	}
	d.Raw = raw
	return d, nil
}
