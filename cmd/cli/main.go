package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goaffect/adapters/api"
	"goaffect/adapters/excel"
	"goaffect/app"
	"goaffect/domain/affect"
	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/config"
	"goaffect/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goaffect",
		Short: "Deterministic emotion analytics over classified session data",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newFetchCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analyzerFlags holds per-command analyzer overrides. Zero values keep
// the configured defaults.
type analyzerFlags struct {
	windowSize         int
	percentile         float64
	minDuration        int
	intensityThreshold float64
}

func bindAnalyzerFlags(cmd *cobra.Command, f *analyzerFlags) {
	cmd.Flags().IntVar(&f.windowSize, "window-size", 0, "Volatility window size override")
	cmd.Flags().Float64Var(&f.percentile, "percentile", 0, "Critical-point percentile threshold override")
	cmd.Flags().IntVar(&f.minDuration, "min-duration", 0, "Transition minimum duration override")
	cmd.Flags().Float64Var(&f.intensityThreshold, "intensity-threshold", 0, "Transition magnitude threshold override")
}

func (f analyzerFlags) toOptions() *app.AnalysisOptions {
	if f == (analyzerFlags{}) {
		return nil
	}
	return &app.AnalysisOptions{
		VolatilityWindowSize:         f.windowSize,
		PercentileThreshold:          f.percentile,
		TransitionMinDuration:        f.minDuration,
		TransitionIntensityThreshold: f.intensityThreshold,
	}
}

func newAnalyzeCmd() *cobra.Command {
	var session string
	var outPath string
	var overrides analyzerFlags

	cmd := &cobra.Command{
		Use:   "analyze [session-file]",
		Short: "Analyze a session export and print the report",
		Long: `Run the full analysis over a session export and print the report JSON.

JSON exports carry records and optional dimensional maps; .xlsx and .csv
exports carry records only.

Example: goaffect analyze session.xlsx --session sess-42 --out report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], core.SessionID(session), outPath, overrides)
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Session to keep when the file holds several")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report JSON to a file instead of stdout")
	bindAnalyzerFlags(cmd, &overrides)

	return cmd
}

func newFetchCmd() *cobra.Command {
	var baseURL, apiKey, outPath string
	var overrides analyzerFlags

	cmd := &cobra.Command{
		Use:   "fetch [session-id]",
		Short: "Pull a session from the classifier API and analyze it",
		Long: `Fetch classified records, and dimensional maps when the source serves
them, for one session and run the full analysis.

The classifier endpoint comes from CLASSIFIER_API_URL and can be
overridden per invocation.

Example: goaffect fetch sess-42 --base-url https://classifier.internal/api`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), core.SessionID(args[0]), baseURL, apiKey, outPath, overrides)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Classifier base URL (overrides CLASSIFIER_API_URL)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Classifier API key (overrides CLASSIFIER_API_KEY)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report JSON to a file instead of stdout")
	bindAnalyzerFlags(cmd, &overrides)

	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var count int
	var noMaps bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Analyze a seeded synthetic session",
		Long: `Generate a deterministic synthetic session and run the full analysis.

The same seed always reproduces the same report fingerprint.

Example: goaffect demo --seed 42 --count 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), seed, count, noMaps, outPath)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the session generator")
	cmd.Flags().IntVar(&count, "count", 48, "Number of records to generate")
	cmd.Flags().BoolVar(&noMaps, "no-maps", false, "Generate records without dimensional maps")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report JSON to a file instead of stdout")

	return cmd
}

func runAnalyze(ctx context.Context, path string, session core.SessionID, outPath string, overrides analyzerFlags) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(optionsFromConfig(cfg.Analysis), nil, logger)

	var report *analysis.Report
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		records, maps, err := loadSessionFile(path, session)
		if err != nil {
			return err
		}
		report, err = service.Run(ctx, app.AnalysisRequest{
			SessionID: session,
			Records:   records,
			Maps:      maps,
			Options:   overrides.toOptions(),
		})
		if err != nil {
			return err
		}
	} else {
		report, err = service.RunFromSource(ctx, excel.NewReader(path, logger), session, overrides.toOptions())
		if err != nil {
			return err
		}
	}
	return outputReport(report, outPath)
}

func runFetch(ctx context.Context, session core.SessionID, baseURL, apiKey, outPath string, overrides analyzerFlags) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	readerCfg := readerConfigFrom(cfg.Source)
	if baseURL != "" {
		readerCfg.BaseURL = baseURL
	}
	if apiKey != "" {
		readerCfg.APIKey = apiKey
	}
	if readerCfg.APIKey == "" {
		readerCfg.AuthMethod = api.AuthNone
	}

	reader, err := api.NewReader(readerCfg, logger)
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(optionsFromConfig(cfg.Analysis), nil, logger)
	report, err := service.RunFromSource(ctx, reader, session, overrides.toOptions())
	if err != nil {
		return err
	}
	return outputReport(report, outPath)
}

func runDemo(ctx context.Context, seed int64, count int, noMaps bool, outPath string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	genConfig := testkit.DefaultSessionConfig()
	genConfig.Seed = seed
	genConfig.RecordCount = count
	genConfig.WithMaps = !noMaps

	records, maps, err := testkit.NewSessionGenerator(genConfig).GenerateSession()
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(optionsFromConfig(cfg.Analysis), nil, logger)
	report, err := service.Run(ctx, app.AnalysisRequest{
		SessionID: genConfig.SessionID,
		Records:   records,
		Maps:      maps,
	})
	if err != nil {
		return err
	}
	return outputReport(report, outPath)
}

// bootstrap loads .env, the configuration, and the logger
func bootstrap() (*config.Config, *internal.Logger, error) {
	// .env is optional; absence falls through to the process environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewDefaultLogger(), nil
}

func optionsFromConfig(cfg config.AnalysisConfig) app.AnalysisOptions {
	return app.AnalysisOptions{
		VolatilityWindowSize:         cfg.VolatilityWindowSize,
		PercentileThreshold:          cfg.PercentileThreshold,
		TransitionMinDuration:        cfg.TransitionMinDuration,
		TransitionIntensityThreshold: cfg.TransitionIntensityThreshold,
	}
}

// readerConfigFrom maps the environment-backed source settings onto the
// classifier reader configuration
func readerConfigFrom(src config.SourceConfig) api.ReaderConfig {
	readerCfg := api.DefaultReaderConfig()
	readerCfg.BaseURL = src.BaseURL
	readerCfg.APIKey = src.APIKey
	if src.DataPath != "" {
		readerCfg.DataPath = src.DataPath
	}
	if src.FieldMap.Timestamp != "" {
		readerCfg.Fields.Timestamp = src.FieldMap.Timestamp
	}
	if src.FieldMap.Session != "" {
		readerCfg.Fields.Session = src.FieldMap.Session
	}
	if src.FieldMap.Emotion != "" {
		readerCfg.Fields.Emotion = src.FieldMap.Emotion
	}
	if src.FieldMap.Intensity != "" {
		readerCfg.Fields.Intensity = src.FieldMap.Intensity
	}
	if src.Timeout > 0 {
		readerCfg.Timeout = src.Timeout
	}
	if src.PageLimit > 0 {
		readerCfg.PageLimit = src.PageLimit
	}
	return readerCfg
}

// sessionFile is the JSON session export layout
type sessionFile struct {
	SessionID core.SessionID   `json:"session_id"`
	Records   []emotion.Record `json:"records"`
	Maps      []affect.Map     `json:"maps,omitempty"`
}

// loadSessionFile reads a JSON export, validates every record and map at
// the boundary, and returns them in time order. A non-empty session keeps
// only matching records.
func loadSessionFile(path string, session core.SessionID) ([]emotion.Record, []affect.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read session file: %w", err)
	}

	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("unparseable session file: %w", err)
	}

	owner := session
	if owner.IsEmpty() {
		owner = file.SessionID
	}

	records := make([]emotion.Record, 0, len(file.Records))
	for i, raw := range file.Records {
		if !session.IsEmpty() && !raw.SessionID.IsEmpty() && raw.SessionID != session {
			continue
		}
		if raw.Timestamp.IsZero() {
			return nil, nil, fmt.Errorf("record %d: timestamp is required", i)
		}
		recordSession := raw.SessionID
		if recordSession.IsEmpty() {
			recordSession = owner
		}
		record, err := emotion.NewRecord(recordSession, raw.Timestamp, raw.Measurements)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	for i, m := range file.Maps {
		if err := m.Validate(); err != nil {
			return nil, nil, fmt.Errorf("map %d: %w", i, err)
		}
	}
	maps := append([]affect.Map(nil), file.Maps...)
	sort.SliceStable(maps, func(i, j int) bool {
		return maps[i].Timestamp.Before(maps[j].Timestamp)
	})

	return records, maps, nil
}

// outputReport prints or writes the report JSON and puts a short summary
// on stderr so stdout stays pipeable
func outputReport(report *analysis.Report, outPath string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(data))
	} else {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("💾 Report written to %s\n", outPath)
	}

	printSummary(report)
	return nil
}

func printSummary(report *analysis.Report) {
	r := report.Results
	fmt.Fprintf(os.Stderr, "\n📊 ANALYSIS SUMMARY\n")
	fmt.Fprintf(os.Stderr, "Session: %s\n", report.SessionID)
	fmt.Fprintf(os.Stderr, "Trends: %d  Transitions: %d  Critical Points: %d\n",
		len(r.Trends), len(r.Transitions), len(r.CriticalPoints))
	fmt.Fprintf(os.Stderr, "Relationships: %d  Patterns: %d\n",
		len(r.Relationships), len(r.Patterns))
	if len(report.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  Degraded phases:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", w)
		}
	}
	fmt.Fprintf(os.Stderr, "Fingerprint: %s\n", report.Fingerprint)
}
