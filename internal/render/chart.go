package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when a chart has nothing meaningful to draw
var ErrNoData = errors.New("not enough data to render chart")

// Format is an image output format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// TopKeysChart draws request counts per endpoint or operation
func TopKeysChart(w io.Writer, top []models.KeyCount, f Format) error {
	if len(top) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(top))
	peak := 0.0
	for i, kc := range top {
		bars[i] = chart.Value{Label: TruncateLabel(kc.Key), Value: float64(kc.Count)}
		if bars[i].Value > peak {
			peak = bars[i].Value
		}
	}
	return barChart(w, "Top Endpoints", bars, peak, f)
}

// LatencyChart draws mean latency per endpoint or operation
func LatencyChart(w io.Writer, top []models.KeyLatency, f Format) error {
	if len(top) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(top))
	peak := 0.0
	for i, kl := range top {
		bars[i] = chart.Value{Label: TruncateLabel(kl.Key), Value: kl.Latency}
		if kl.Latency > peak {
			peak = kl.Latency
		}
	}
	return barChart(w, "Mean Response Time", bars, peak, f)
}

// DistributionChart draws a pie of a method or status distribution.
// Slices are ordered by label for stable output.
func DistributionChart(w io.Writer, title string, dist map[string]int, f Format) error {
	labels := make([]string, 0, len(dist))
	total := 0
	for label, n := range dist {
		if n > 0 {
			labels = append(labels, label)
			total += n
		}
	}
	if total == 0 {
		return ErrNoData
	}
	sort.Strings(labels)

	values := make([]chart.Value, len(labels))
	for i, label := range labels {
		values[i] = chart.Value{Label: label, Value: float64(dist[label])}
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return pie.Render(f.provider(), w)
}

// StatusLabels converts a status distribution to DistributionChart input
func StatusLabels(dist map[int]int) map[string]int {
	out := make(map[string]int, len(dist))
	for code, n := range dist {
		out[strconv.Itoa(code)] += n
	}
	return out
}

// TimelineChart draws latency across the recent-activity window
func TimelineChart(w io.Writer, points []models.TimelinePoint, f Format) error {
	if len(points) < 2 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))
	peak := 0.0
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Latency
		ticks[i] = chart.Tick{Value: float64(i), Label: strconv.Itoa(i + 1)}
		if p.Latency > peak {
			peak = p.Latency
		}
	}

	graph := chart.Chart{
		Title:  "Request Timeline",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Request",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Latency",
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(peak)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Response Time",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(f.provider(), w)
}

func barChart(w io.Writer, title string, bars []chart.Value, peak float64, f Format) error {
	graph := chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: 48,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(peak)},
		},
		Bars: bars,
	}
	return graph.Render(f.provider(), w)
}

// headroom gives the y axis a non-degenerate range above the largest value
func headroom(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	return peak * 1.1
}
