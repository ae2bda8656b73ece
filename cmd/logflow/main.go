package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justin4957/logflow-api-analytics/internal/analyzer"
	"github.com/justin4957/logflow-api-analytics/internal/config"
	"github.com/justin4957/logflow-api-analytics/internal/dashboard"
	"github.com/justin4957/logflow-api-analytics/internal/parser"
	"github.com/justin4957/logflow-api-analytics/internal/redact"
	"github.com/justin4957/logflow-api-analytics/internal/render"
	"github.com/justin4957/logflow-api-analytics/internal/stream"
	"github.com/justin4957/logflow-api-analytics/internal/table"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
	"github.com/spf13/cobra"
)

const (
	version = "0.1.0"
)

var (
	// Dataset selection
	configPath    string
	datasetPath   string
	datasetFormat string
	timeRange     string

	// summary
	jsonOutput bool

	// redact
	recordID string

	// serve
	port    int
	noWatch bool

	// chart
	chartKind   string
	chartFormat string
	chartOut    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "logflow",
		Short: "LogFlow - API request-log analytics",
		Long: `LogFlow loads a static dataset of HTTP and GraphQL request logs,
aggregates it into per-endpoint statistics, and presents the result as a
web dashboard, a text summary, or chart images. Sensitive payload fields
are redacted before any record is displayed.

Examples:
  # Serve the dashboard and reload whenever the dataset changes
  logflow serve --dataset data/logs.json

  # Print a summary of the last day as JSON
  logflow summary --dataset data/logs.ndjson --range day --json

  # Redact a JSON document
  logflow redact payload.json

  # Show one record with sensitive fields hidden
  logflow redact --dataset data/logs.json --id 67c9d2e5f1a2b3c4d5e6f708

  # Write the top endpoints chart as SVG
  logflow chart --kind top --format svg -o top.svg`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "logflow.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&datasetPath, "dataset", "d", "", "Dataset file (overrides dataset_path)")
	rootCmd.PersistentFlags().StringVarP(&datasetFormat, "input-format", "f", "", "Dataset format: json, ndjson, apache, combined, common")
	rootCmd.PersistentFlags().StringVarP(&timeRange, "range", "r", "", "Time range: all, day, week, month")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Dashboard port (overrides dashboard.port)")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the dataset changes")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print aggregated statistics",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
	summaryCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")

	redactCmd := &cobra.Command{
		Use:   "redact [file]",
		Short: "Redact sensitive fields from a JSON document or a dataset record",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRedact,
	}
	redactCmd.Flags().StringVar(&recordID, "id", "", "Redact the dataset record with this id")

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a chart image",
		Args:  cobra.NoArgs,
		RunE:  runChart,
	}
	chartCmd.Flags().StringVarP(&chartKind, "kind", "k", "top", "Chart: top, latency, timeline, methods, status")
	chartCmd.Flags().StringVar(&chartFormat, "format", "png", "Image format: png, svg")
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(serveCmd, summaryCmd, redactCmd, chartCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of the config file
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if datasetPath != "" {
		cfg.DatasetPath = datasetPath
	}
	if datasetFormat != "" {
		cfg.DatasetFormat = datasetFormat
	}
	if timeRange != "" {
		cfg.AnalyticsConfig.TimeRange = timeRange
	}
	if port != 0 {
		cfg.DashboardConfig.Port = port
	}
	if noWatch {
		cfg.DashboardConfig.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loader(cfg *config.Config) stream.LoadFunc {
	return func(path string) ([]models.Record, error) {
		return parser.LoadFile(path, cfg.DatasetFormat)
	}
}

// summarize loads the dataset and aggregates the configured time range
func summarize(cfg *config.Config) (*models.Summary, error) {
	records, err := parser.LoadFile(cfg.DatasetPath, cfg.DatasetFormat)
	if err != nil {
		return nil, err
	}
	rng, err := analyzer.ParseTimeRange(cfg.AnalyticsConfig.TimeRange)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	agg := analyzer.NewAggregator(cfg.AnalyticsConfig)
	return agg.Aggregate(analyzer.FilterByRange(records, rng, now), now), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rng, err := analyzer.ParseTimeRange(cfg.AnalyticsConfig.TimeRange)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Shutting down...")
		cancel()
	}()

	server := dashboard.NewServer(
		cfg.DashboardConfig,
		analyzer.NewAggregator(cfg.AnalyticsConfig),
		redact.New(cfg.RedactionConfig.Fields, cfg.RedactionConfig.Placeholder),
		rng,
	)

	var updates <-chan stream.Snapshot
	if cfg.DashboardConfig.Watch {
		watcher := stream.NewDatasetWatcher(cfg.DatasetPath, loader(cfg))
		watcher.Debounce = time.Duration(cfg.DashboardConfig.DebounceMs) * time.Millisecond
		defer watcher.Stop()

		if updates, err = watcher.Start(ctx); err != nil {
			return err
		}
	} else {
		records, err := parser.LoadFile(cfg.DatasetPath, cfg.DatasetFormat)
		if err != nil {
			return err
		}
		server.Update(records)
	}

	log.Printf("Starting LogFlow v%s", version)
	log.Printf("Dashboard: http://%s:%d", cfg.DashboardConfig.Host, cfg.DashboardConfig.Port)
	return server.Start(ctx, updates)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	summary, err := summarize(cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	writeSummary(cmd.OutOrStdout(), summary)
	return nil
}

func runRedact(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	red := redact.New(cfg.RedactionConfig.Fields, cfg.RedactionConfig.Placeholder)

	if recordID != "" {
		records, err := parser.LoadFile(cfg.DatasetPath, cfg.DatasetFormat)
		if err != nil {
			return err
		}
		rec, ok := table.Find(records, recordID)
		if !ok {
			return fmt.Errorf("record %q not found in %s", recordID, cfg.DatasetPath)
		}
		detail, err := red.RedactRecord(rec)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	var data []byte
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out, err := red.RedactJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(chartFormat)
	if err != nil {
		return err
	}
	summary, err := summarize(cfg)
	if err != nil {
		return err
	}

	if chartOut == "" {
		return renderChart(cmd.OutOrStdout(), chartKind, summary, format)
	}
	return writeChartFile(chartOut, chartKind, summary, format)
}

// writeChartFile renders into path. A failed close is reported since the
// image may not have reached the disk.
func writeChartFile(path, kind string, summary *models.Summary, format render.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := renderChart(f, kind, summary, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func renderChart(w io.Writer, kind string, summary *models.Summary, format render.Format) error {
	switch kind {
	case "top":
		return render.TopKeysChart(w, summary.TopKeys, format)
	case "latency":
		return render.LatencyChart(w, summary.TopLatency, format)
	case "timeline":
		return render.TimelineChart(w, summary.Timeline, format)
	case "methods":
		return render.DistributionChart(w, "HTTP Methods", summary.MethodDistribution, format)
	case "status":
		return render.DistributionChart(w, "Status Codes", render.StatusLabels(summary.StatusDistribution), format)
	}
	return fmt.Errorf("unknown chart kind %q", kind)
}

func writeSummary(w io.Writer, s *models.Summary) {
	fmt.Fprintf(w, "Total requests:     %d (%d HTTP, %d GraphQL)\n", s.TotalRecords, s.HTTPRecords, s.GraphQLRecords)
	fmt.Fprintf(w, "Unique endpoints:   %d\n", s.UniqueKeys)
	fmt.Fprintf(w, "Mean response time: %s\n", render.FormatKindLatency(summaryKind(s), s.MeanLatency))
	fmt.Fprintf(w, "P95 response time:  %s\n", render.FormatKindLatency(summaryKind(s), s.P95Latency))
	fmt.Fprintf(w, "Success rate:       %s\n", render.FormatPercent(s.SuccessRate))

	if len(s.TopKeys) > 0 {
		fmt.Fprintln(w, "\nTop endpoints:")
		for _, kc := range s.TopKeys {
			fmt.Fprintf(w, "  %-20s %6d  %12s\n", render.TruncateLabel(kc.Key), kc.Count,
				render.FormatKindLatency(s.KindByKey[kc.Key], s.MeanLatencyByKey[kc.Key]))
		}
	}

	if len(s.Outliers) > 0 {
		fmt.Fprintln(w, "\nSlow requests:")
		for _, o := range s.Outliers {
			fmt.Fprintf(w, "  %-20s %-8s %12s  (expected %s)\n", render.TruncateLabel(o.Key), o.Severity,
				render.FormatKindLatency(o.Kind, o.Latency), render.FormatKindLatency(o.Kind, o.ExpectedLatency))
		}
	}

	if len(s.Timeline) > 0 {
		fmt.Fprintln(w, "\nRecent activity:")
		for i := len(s.Timeline) - 1; i >= 0; i-- {
			p := s.Timeline[i]
			fmt.Fprintf(w, "  %-16s %-19s %-20s %12s\n", p.Label, render.FormatTime(p.Timestamp),
				render.TruncateLabel(p.Key), render.FormatKindLatency(p.Kind, p.Latency))
		}
	}
}

// summaryKind is the latency unit of whole-dataset figures, known only
// when every record is of one kind.
func summaryKind(s *models.Summary) models.Kind {
	switch {
	case s.GraphQLRecords == 0 && s.HTTPRecords > 0:
		return models.KindHTTP
	case s.HTTPRecords == 0 && s.GraphQLRecords > 0:
		return models.KindGraphQL
	}
	return ""
}
