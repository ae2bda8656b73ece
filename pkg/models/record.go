package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the record variants
type Kind string

const (
	KindHTTP    Kind = "http"
	KindGraphQL Kind = "graphql"
)

// Number is a numeric log field. Anything that is not a JSON number
// (strings, booleans, objects, null) decodes to zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// ObjectID is the `{"$oid": "..."}` identifier written by the log store
type ObjectID struct {
	OID string `json:"$oid"`
}

// HTTPLog is one logged HTTP request/response pair
type HTTPLog struct {
	ID        ObjectID     `json:"_id"`
	Level     int          `json:"level"`
	Time      Number       `json:"time"`
	PID       int          `json:"pid"`
	Hostname  string       `json:"hostname"`
	Request   HTTPRequest  `json:"request"`
	Response  HTTPResponse `json:"response"`
	Timestamp string       `json:"timestamp"`
}

// HTTPRequest is the request half of an HTTPLog
type HTTPRequest struct {
	IP        string     `json:"ip"`
	Method    string     `json:"method"`
	URL       RequestURL `json:"url"`
	Headers   Headers    `json:"headers,omitempty"`
	RequestID string     `json:"requestID"`
}

// RequestURL holds the parsed request target
type RequestURL struct {
	Path        string                 `json:"path"`
	Params      map[string]interface{} `json:"params,omitempty"`
	QueryString string                 `json:"queryString"`
}

// HTTPResponse is the response half of an HTTPLog. Time is the elapsed
// time in nanoseconds as written by the producing service.
type HTTPResponse struct {
	StatusCode int     `json:"status_code"`
	Time       Number  `json:"time"`
	Headers    Headers `json:"headers,omitempty"`
	Message    string  `json:"message"`
}

// GraphQLLog is one logged GraphQL operation. Duration is in milliseconds.
type GraphQLLog struct {
	ID            ObjectID        `json:"_id"`
	Level         int             `json:"level"`
	Time          Number          `json:"time"`
	PID           int             `json:"pid"`
	Hostname      string          `json:"hostname"`
	RequestID     string          `json:"requestID"`
	OperationName *string         `json:"operationName"`
	Query         string          `json:"query"`
	Response      json.RawMessage `json:"response,omitempty"`
	Duration      Number          `json:"duration"`
	Variables     string          `json:"variables"`
	UserAgent     string          `json:"userAgent"`
	UserID        *string         `json:"userId"`
	Message       string          `json:"message"`
	Timestamp     string          `json:"timestamp"`
}

// Record is a tagged union over HTTPLog and GraphQLLog. Exactly one of
// HTTP and GraphQL is set, as named by Kind.
type Record struct {
	Kind    Kind
	HTTP    *HTTPLog
	GraphQL *GraphQLLog
}

// NewHTTPRecord wraps an HTTP log
func NewHTTPRecord(h *HTTPLog) Record {
	return Record{Kind: KindHTTP, HTTP: h}
}

// NewGraphQLRecord wraps a GraphQL log
func NewGraphQLRecord(g *GraphQLLog) Record {
	return Record{Kind: KindGraphQL, GraphQL: g}
}

// ID returns the record identifier, falling back to the request id
func (r Record) ID() string {
	switch r.Kind {
	case KindHTTP:
		if r.HTTP.ID.OID != "" {
			return r.HTTP.ID.OID
		}
		return r.HTTP.Request.RequestID
	case KindGraphQL:
		if r.GraphQL.ID.OID != "" {
			return r.GraphQL.ID.OID
		}
		return r.GraphQL.RequestID
	}
	return ""
}

// GroupKey returns the endpoint path (HTTP) or operation name (GraphQL),
// or fallback when that field is absent.
func (r Record) GroupKey(fallback string) string {
	switch r.Kind {
	case KindHTTP:
		if r.HTTP.Request.URL.Path != "" {
			return r.HTTP.Request.URL.Path
		}
	case KindGraphQL:
		if r.GraphQL.OperationName != nil && *r.GraphQL.OperationName != "" {
			return *r.GraphQL.OperationName
		}
	}
	return fallback
}

// Latency returns response.time for HTTP records and duration for GraphQL
func (r Record) Latency() float64 {
	switch r.Kind {
	case KindHTTP:
		return float64(r.HTTP.Response.Time)
	case KindGraphQL:
		return float64(r.GraphQL.Duration)
	}
	return 0
}

// Method returns the HTTP method; GraphQL records have none
func (r Record) Method() string {
	switch r.Kind {
	case KindHTTP:
		return r.HTTP.Request.Method
	case KindGraphQL:
		return ""
	}
	return ""
}

// StatusCode returns the HTTP status code, 0 when absent or for GraphQL
func (r Record) StatusCode() int {
	switch r.Kind {
	case KindHTTP:
		return r.HTTP.Response.StatusCode
	case KindGraphQL:
		return 0
	}
	return 0
}

// UserAgent returns the request user agent, if recorded
func (r Record) UserAgent() string {
	switch r.Kind {
	case KindHTTP:
		return r.HTTP.Request.Headers["user-agent"]
	case KindGraphQL:
		return r.GraphQL.UserAgent
	}
	return ""
}

// ClientIP returns the client address for HTTP records
func (r Record) ClientIP() string {
	switch r.Kind {
	case KindHTTP:
		return r.HTTP.Request.IP
	case KindGraphQL:
		return ""
	}
	return ""
}

// RawTimestamp returns the ISO timestamp string as logged
func (r Record) RawTimestamp() string {
	switch r.Kind {
	case KindHTTP:
		return r.HTTP.Timestamp
	case KindGraphQL:
		return r.GraphQL.Timestamp
	}
	return ""
}

func (r Record) captureMillis() float64 {
	switch r.Kind {
	case KindHTTP:
		return float64(r.HTTP.Time)
	case KindGraphQL:
		return float64(r.GraphQL.Time)
	}
	return 0
}

// Timestamp parses the ISO timestamp, falling back to the numeric capture
// time. ok is false when neither is usable.
func (r Record) Timestamp() (ts time.Time, ok bool) {
	if raw := r.RawTimestamp(); raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t, true
		}
	}
	if ms := r.captureMillis(); ms > 0 {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}

// MarshalJSON encodes the active variant in its original log shape
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindHTTP:
		return json.Marshal(r.HTTP)
	case KindGraphQL:
		return json.Marshal(r.GraphQL)
	}
	return nil, fmt.Errorf("unknown record kind %q", r.Kind)
}
