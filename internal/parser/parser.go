package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
	"github.com/valyala/fastjson"
)

// ErrUnknownFormat is returned for an unsupported dataset format
var ErrUnknownFormat = errors.New("unknown log format")

// pino log levels used by the producing service
const (
	levelInfo  = 30
	levelWarn  = 40
	levelError = 50
)

var parserPool fastjson.ParserPool

// LogParser interface for parsing different log formats
type LogParser interface {
	Parse(line string) (*models.Record, error)
}

// NewParser creates a parser based on the specified format
func NewParser(format string) (LogParser, error) {
	switch format {
	case "json", "ndjson":
		return &JSONParser{}, nil
	case "apache", "combined":
		return &ApacheParser{}, nil
	case "common":
		return &CommonLogParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSONParser parses one JSON-encoded HTTP or GraphQL record
type JSONParser struct{}

func (p *JSONParser) Parse(line string) (*models.Record, error) {
	fp := parserPool.Get()
	defer parserPool.Put(fp)

	v, err := fp.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON log: %w", err)
	}
	rec, err := decodeValue(v)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// decodeValue classifies a parsed object by the presence of a "query" key
// and decodes it into the matching variant.
func decodeValue(v *fastjson.Value) (models.Record, error) {
	if v.Type() != fastjson.TypeObject {
		return models.Record{}, fmt.Errorf("log record must be an object, got %s", v.Type())
	}

	raw := v.MarshalTo(nil)
	if v.Exists("query") {
		var g models.GraphQLLog
		if err := json.Unmarshal(raw, &g); err != nil {
			return models.Record{}, fmt.Errorf("failed to decode GraphQL log: %w", err)
		}
		return models.NewGraphQLRecord(&g), nil
	}

	var h models.HTTPLog
	if err := json.Unmarshal(raw, &h); err != nil {
		return models.Record{}, fmt.Errorf("failed to decode HTTP log: %w", err)
	}
	return models.NewHTTPRecord(&h), nil
}

// ApacheParser parses Apache Combined log format
type ApacheParser struct {
	regex *regexp.Regexp
}

func (p *ApacheParser) Parse(line string) (*models.Record, error) {
	// Apache Combined Log Format:
	// %h %l %u %t \"%r\" %>s %b \"%{Referer}i\" \"%{User-agent}i\"
	if p.regex == nil {
		p.regex = regexp.MustCompile(
			`^(\S+) \S+ \S+ \[([^\]]+)\] "(\S+) (\S+) \S+" (\d+) (\S+) "([^"]*)" "([^"]*)"`,
		)
	}

	matches := p.regex.FindStringSubmatch(line)
	if len(matches) != 9 {
		return nil, fmt.Errorf("invalid Apache log format")
	}

	h := accessLogRecord(matches[1], matches[2], matches[3], matches[4], matches[5], line)
	h.Request.Headers = map[string]string{"user-agent": matches[8]}
	if matches[7] != "" && matches[7] != "-" {
		h.Request.Headers["referer"] = matches[7]
	}

	rec := models.NewHTTPRecord(h)
	return &rec, nil
}

// CommonLogParser parses Common Log Format
type CommonLogParser struct {
	regex *regexp.Regexp
}

func (p *CommonLogParser) Parse(line string) (*models.Record, error) {
	// Common Log Format: %h %l %u %t \"%r\" %>s %b
	if p.regex == nil {
		p.regex = regexp.MustCompile(
			`^(\S+) \S+ \S+ \[([^\]]+)\] "(\S+) (\S+) \S+" (\d+) (\S+)`,
		)
	}

	matches := p.regex.FindStringSubmatch(line)
	if len(matches) != 7 {
		return nil, fmt.Errorf("invalid Common log format")
	}

	rec := models.NewHTTPRecord(accessLogRecord(matches[1], matches[2], matches[3], matches[4], matches[5], line))
	return &rec, nil
}

// accessLogRecord builds an HTTP record from the fields shared by the
// Apache and Common formats. Access logs carry no latency or id, so
// response time stays zero and the id is generated.
func accessLogRecord(ip, rawTime, method, target, status, line string) *models.HTTPLog {
	statusCode, _ := strconv.Atoi(status)
	path, query, _ := strings.Cut(target, "?")

	h := &models.HTTPLog{
		ID: models.ObjectID{OID: uuid.NewString()},
		Request: models.HTTPRequest{
			IP:     ip,
			Method: method,
			URL: models.RequestURL{
				Path:        path,
				Params:      queryParams(query),
				QueryString: query,
			},
		},
		Response: models.HTTPResponse{
			StatusCode: statusCode,
			Message:    line,
		},
	}

	if ts, err := time.Parse("02/Jan/2006:15:04:05 -0700", rawTime); err == nil {
		h.Timestamp = ts.UTC().Format(time.RFC3339Nano)
		h.Time = models.Number(ts.UnixMilli())
	}

	if statusCode >= 500 {
		h.Level = levelError
	} else if statusCode >= 400 {
		h.Level = levelWarn
	} else {
		h.Level = levelInfo
	}

	return h
}

func queryParams(query string) map[string]interface{} {
	values, err := url.ParseQuery(query)
	if err != nil || len(values) == 0 {
		return nil
	}
	params := make(map[string]interface{}, len(values))
	for k, v := range values {
		params[k] = v[0]
	}
	return params
}
