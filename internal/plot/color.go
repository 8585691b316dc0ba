package plot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Colors is a marker color setting: one color for every point, one color string per
// point, or one number per point to be mapped onto a color scale.
type Colors struct {
	Values []string
	Scale  []float64
}

func (c *Colors) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Colors{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Colors{Values: []string{s}}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("marker color: %w", err)
	}
	var out Colors
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out.Values = append(out.Values, s)
			continue
		}
		var f float64
		if err := json.Unmarshal(r, &f); err != nil {
			return fmt.Errorf("marker color %d: %w", i, err)
		}
		out.Scale = append(out.Scale, f)
	}
	if len(out.Values) > 0 && len(out.Scale) > 0 {
		return errors.New("marker color: mixed strings and numbers")
	}
	*c = out
	return nil
}

func (c Colors) MarshalJSON() ([]byte, error) {
	switch {
	case len(c.Scale) > 0:
		return json.Marshal(c.Scale)
	case len(c.Values) == 1:
		return json.Marshal(c.Values[0])
	case len(c.Values) > 0:
		return json.Marshal(c.Values)
	}
	return []byte("null"), nil
}

// IsZero reports that no color was given.
func (c Colors) IsZero() bool { return len(c.Values) == 0 && len(c.Scale) == 0 }

// At returns the color string for point i when the colors are strings.
func (c Colors) At(i int) (string, bool) {
	switch {
	case len(c.Values) == 1:
		return c.Values[0], true
	case i >= 0 && i < len(c.Values):
		return c.Values[i], true
	}
	return "", false
}

// Range returns the smallest and largest number of a numeric color scale. ok is
// false when the colors are not a scale.
func (c Colors) Range() (lo, hi float64, ok bool) {
	if len(c.Scale) == 0 {
		return 0, 0, false
	}
	lo, hi = c.Scale[0], c.Scale[0]
	for _, v := range c.Scale[1:] {
		lo, hi = minmax(lo, hi, v)
	}
	return lo, hi, true
}

// Normalize maps v onto [0,1] over [lo,hi]. A flat range maps everything to 0.
func Normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
