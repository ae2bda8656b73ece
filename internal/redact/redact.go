// Package redact replaces the values of sensitive keys in decoded JSON
// documents. Matching is exact on key names at any depth; a matched key's
// whole subtree is replaced by the placeholder.
package redact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// DefaultPlaceholder replaces redacted values when none is configured
const DefaultPlaceholder = "[REDACTED]"

// Redactor holds a fixed key set and placeholder. It is safe for
// concurrent use.
type Redactor struct {
	keys        map[string]struct{}
	placeholder string
}

// New creates a Redactor. An empty placeholder selects DefaultPlaceholder.
func New(keys []string, placeholder string) *Redactor {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &Redactor{keys: set, placeholder: placeholder}
}

// Redact is a one-shot helper for New(keys, placeholder).Redact(value)
func Redact(value interface{}, keys []string, placeholder string) interface{} {
	return New(keys, placeholder).Redact(value)
}

// Placeholder returns the replacement value
func (r *Redactor) Placeholder() string {
	return r.placeholder
}

// Redact returns a deep copy of value with sensitive keys replaced.
// Objects must be map[string]interface{} and arrays []interface{}, as
// produced by encoding/json; anything else is a scalar and is returned as is.
func (r *Redactor) Redact(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			if _, ok := r.keys[key]; ok {
				out[key] = r.placeholder
				continue
			}
			out[key] = r.Redact(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = r.Redact(child)
		}
		return out
	default:
		return value
	}
}

// RedactJSON decodes data, redacts it and re-encodes it. Numbers keep
// their original text.
func (r *Redactor) RedactJSON(data []byte) ([]byte, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(r.Redact(doc))
}

// RedactRecord returns the redacted generic form of a record for detail
// display or export. GraphQL response payloads are redacted like any other
// nested object.
func (r *Redactor) RedactRecord(rec models.Record) (map[string]interface{}, error) {
	switch rec.Kind {
	case models.KindHTTP, models.KindGraphQL:
	default:
		return nil, fmt.Errorf("unknown record kind %q", rec.Kind)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	out, _ := r.Redact(doc).(map[string]interface{})
	return out, nil
}

func decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return doc, nil
}
