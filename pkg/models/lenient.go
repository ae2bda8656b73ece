package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Headers is a header map. Producers emit some header values as numbers
// or arrays; those are kept in string form, arrays joined with ", ".
// Null values are dropped.
type Headers map[string]string

// UnmarshalJSON implements json.Unmarshaler
func (h *Headers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*h = nil
		return nil
	}

	out := make(Headers, len(raw))
	for name, value := range raw {
		if s, ok := headerString(value); ok {
			out[name] = s
		}
	}
	*h = out
	return nil
}

func headerString(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	if list, ok := v.([]interface{}); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := scalarString(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	}
	return scalarString(v)
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// looseInt reads an integer field written either as a number or as a
// numeric string. Anything else is zero.
func looseInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

// tolerate drops field type mismatches. encoding/json still fills every
// other field when it reports one, so the record keeps what did decode.
func tolerate(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// UnmarshalJSON decodes an HTTP log, leaving mistyped fields at zero
func (h *HTTPLog) UnmarshalJSON(data []byte) error {
	type plain HTTPLog
	aux := struct {
		*plain
		Level json.RawMessage `json:"level"`
		PID   json.RawMessage `json:"pid"`
	}{plain: (*plain)(h)}

	if err := tolerate(json.Unmarshal(data, &aux)); err != nil {
		return err
	}
	h.Level = looseInt(aux.Level)
	h.PID = looseInt(aux.PID)
	return nil
}

// UnmarshalJSON decodes a response, accepting a string status code
func (r *HTTPResponse) UnmarshalJSON(data []byte) error {
	type plain HTTPResponse
	aux := struct {
		*plain
		StatusCode json.RawMessage `json:"status_code"`
	}{plain: (*plain)(r)}

	if err := tolerate(json.Unmarshal(data, &aux)); err != nil {
		return err
	}
	r.StatusCode = looseInt(aux.StatusCode)
	return nil
}

// UnmarshalJSON decodes a GraphQL log, leaving mistyped fields at zero
func (g *GraphQLLog) UnmarshalJSON(data []byte) error {
	type plain GraphQLLog
	aux := struct {
		*plain
		Level json.RawMessage `json:"level"`
		PID   json.RawMessage `json:"pid"`
	}{plain: (*plain)(g)}

	if err := tolerate(json.Unmarshal(data, &aux)); err != nil {
		return err
	}
	g.Level = looseInt(aux.Level)
	g.PID = looseInt(aux.PID)
	return nil
}
