package models

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FormSnapshot is the advisor form captured at the moment of a user action.
// Values are kept exactly as typed; parsing happens in the typed accessors.
type FormSnapshot struct {
	keys   []string
	values map[string]string
}

// ExtractSnapshot captures the posted form. Every field in fields gets an
// entry, in catalogue order, even if the browser did not send it. Any other
// posted keys follow in sorted order. Nothing is validated.
func ExtractSnapshot(values url.Values, fields []Field) FormSnapshot {
	s := FormSnapshot{values: make(map[string]string, len(values)+len(fields))}

	for _, f := range fields {
		s.set(f.Name, values.Get(f.Name))
	}

	var extra []string
	for k := range values {
		if _, ok := s.values[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		s.set(k, values.Get(k))
	}

	return s
}

// NewSnapshot builds a snapshot from ordered name/value pairs.
// A repeated name keeps its first position and its last value.
func NewSnapshot(pairs ...string) FormSnapshot {
	if len(pairs)%2 != 0 {
		panic("models: NewSnapshot needs name/value pairs")
	}
	s := FormSnapshot{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		s.set(pairs[i], pairs[i+1])
	}
	return s
}

func (s *FormSnapshot) set(name, value string) {
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = value
}

// Get returns the raw value of a field.
func (s FormSnapshot) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value returns the raw value of a field or "" when absent.
func (s FormSnapshot) Value(name string) string {
	return s.values[name]
}

// Keys returns the field names in capture order.
func (s FormSnapshot) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s FormSnapshot) Len() int {
	return len(s.keys)
}

// Float parses a numeric field. Surrounding whitespace is ignored and
// NaN or infinite values are refused.
func (s FormSnapshot) Float(name string) (float64, error) {
	raw, ok := s.values[name]
	if !ok {
		return 0, fmt.Errorf("field %q not in snapshot", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("field %q: %q is not a finite number", name, raw)
	}
	return v, nil
}

// MarshalJSON writes the snapshot as a flat object in capture order.
func (s FormSnapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
