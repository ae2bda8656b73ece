package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersKeepNonStringValues(t *testing.T) {
	var h Headers
	raw := `{"content-length": 1234, "x-ratio": 0.5, "dnt": false, "accept": ["a", 1, null], "x-meta": {"k": "v"}, "x-none": null, "host": "api"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &h))

	assert.Equal(t, Headers{
		"content-length": "1234",
		"x-ratio":        "0.5",
		"dnt":            "false",
		"accept":         "a, 1",
		"x-meta":         `{"k":"v"}`,
		"host":           "api",
	}, h)
}

func TestHeadersNonObjectIsEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `"gzip"`, `[1, 2]`} {
		var h Headers
		require.NoError(t, json.Unmarshal([]byte(raw), &h))
		assert.Nil(t, h, raw)
	}
}

func TestHTTPResponseStatusCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"number", `{"status_code": 404}`, 404},
		{"string", `{"status_code": "500"}`, 500},
		{"padded string", `{"status_code": " 201 "}`, 201},
		{"garbage", `{"status_code": "teapot"}`, 0},
		{"bool", `{"status_code": true}`, 0},
		{"missing", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r HTTPResponse
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			assert.Equal(t, tt.want, r.StatusCode)
		})
	}
}

func TestHTTPLogKeepsFieldsAroundMistypedOnes(t *testing.T) {
	raw := `{"_id": {"$oid": "x1"}, "hostname": 9, "pid": "41", "request": {"method": "GET", "ip": false}, "response": {"status_code": 200, "message": 3}}`

	var h HTTPLog
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	assert.Equal(t, "x1", h.ID.OID)
	assert.Empty(t, h.Hostname)
	assert.Equal(t, 41, h.PID)
	assert.Equal(t, "GET", h.Request.Method)
	assert.Equal(t, 200, h.Response.StatusCode)
}
