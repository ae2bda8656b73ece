package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "/v1/users", TruncateLabel("/v1/users"))
	assert.Equal(t, "/v1/organizatio...", TruncateLabel("/v1/organizations/42/members"))
	assert.Equal(t, "exactly-fifteen", TruncateLabel("exactly-fifteen"))
	assert.Equal(t, strings.Repeat("é", 15)+"...", TruncateLabel(strings.Repeat("é", 18)))
}

func TestFormatNanos(t *testing.T) {
	assert.Equal(t, "999.00 ns", FormatNanos(999))
	assert.Equal(t, "1.50 μs", FormatNanos(1500))
	assert.Equal(t, "2.25 ms", FormatNanos(2250000))
}

func TestFormatLatency(t *testing.T) {
	httpRec := models.NewHTTPRecord(&models.HTTPLog{Response: models.HTTPResponse{Time: 1500}})
	gqlRec := models.NewGraphQLRecord(&models.GraphQLLog{Duration: 42.060375})

	assert.Equal(t, "1.50 μs", FormatLatency(httpRec))
	assert.Equal(t, "42.06 ms", FormatLatency(gqlRec))
	assert.Equal(t, "50.0%", FormatPercent(0.5))
}

func TestFormatKindLatency(t *testing.T) {
	assert.Equal(t, "200.00 ns", FormatKindLatency(models.KindHTTP, 200))
	assert.Equal(t, "3.00 ms", FormatKindLatency(models.KindHTTP, 3e6))
	assert.Equal(t, "50.00 ms", FormatKindLatency(models.KindGraphQL, 50))
	assert.Equal(t, "12.50", FormatKindLatency("", 12.5))
}

func TestFormatTimestamp(t *testing.T) {
	rec := models.NewGraphQLRecord(&models.GraphQLLog{Timestamp: "2025-03-07T22:55:00Z"})
	assert.Equal(t, "2025-03-07 22:55:00", FormatTimestamp(rec))
	assert.Equal(t, "-", FormatTimestamp(models.NewGraphQLRecord(&models.GraphQLLog{})))
	assert.Equal(t, "-", FormatTime(time.Time{}))
}

func TestTopKeysChart(t *testing.T) {
	top := []models.KeyCount{
		{Key: "/v1/organizations/42/members", Count: 12},
		{Key: "/v1/users", Count: 7},
	}

	var png bytes.Buffer
	require.NoError(t, TopKeysChart(&png, top, FormatPNG))
	assert.True(t, bytes.HasPrefix(png.Bytes(), pngSignature))

	var svg bytes.Buffer
	require.NoError(t, TopKeysChart(&svg, top, FormatSVG))
	assert.Contains(t, svg.String(), "<svg")

	assert.ErrorIs(t, TopKeysChart(&svg, nil, FormatSVG), ErrNoData)
}

func TestLatencyChart(t *testing.T) {
	var buf bytes.Buffer
	err := LatencyChart(&buf, []models.KeyLatency{{Key: "GetMe", Latency: 42}, {Key: "unknown", Latency: 0}}, FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestDistributionChart(t *testing.T) {
	var buf bytes.Buffer
	err := DistributionChart(&buf, "Status Codes", StatusLabels(map[int]int{200: 3, 500: 1}), FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")

	assert.ErrorIs(t, DistributionChart(&buf, "Methods", map[string]int{}, FormatSVG), ErrNoData)
}

func TestTimelineChart(t *testing.T) {
	now := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	points := []models.TimelinePoint{
		{Timestamp: now.Add(-2 * time.Minute), Key: "/a", Latency: 100},
		{Timestamp: now.Add(-time.Minute), Key: "/a", Latency: 300},
		{Timestamp: now, Key: "/b", Latency: 200},
	}

	var buf bytes.Buffer
	require.NoError(t, TimelineChart(&buf, points, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	assert.ErrorIs(t, TimelineChart(&buf, points[:1], FormatPNG), ErrNoData)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
