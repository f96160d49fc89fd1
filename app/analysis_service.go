package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/analysis/patterns"
	"goaffect/internal/analysis/temporal"
	"goaffect/internal/errors"
	"goaffect/ports"
)

const analysisPhases = 7

// AnalysisOptions are per-run overrides of the configured tunables. Zero
// fields keep the configured value.
type AnalysisOptions struct {
	VolatilityWindowSize         int
	PercentileThreshold          float64
	TransitionMinDuration        int
	TransitionIntensityThreshold float64
}

// DefaultAnalysisOptions mirrors the analyzer defaults
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		VolatilityWindowSize:         temporal.DefaultVolatilityWindow,
		PercentileThreshold:          temporal.DefaultPercentileThreshold,
		TransitionMinDuration:        temporal.DefaultTransitionMinDuration,
		TransitionIntensityThreshold: temporal.DefaultTransitionIntensityThreshold,
	}
}

// AnalysisRequest carries one session's input through the engine
type AnalysisRequest struct {
	// SessionID may be left empty; the first record's session is used.
	SessionID core.SessionID

	Records []emotion.Record
	Maps    []affect.Map

	// Explicit progression windows. Both must be non-empty to take
	// effect; otherwise the record list is split at its midpoint.
	EarlyWindow []emotion.Record
	LateWindow  []emotion.Record

	Options *AnalysisOptions
}

// AnalysisService runs the full pipeline for one session and persists the
// finished report.
type AnalysisService struct {
	defaults AnalysisOptions
	ledger   ports.ReportWriterPort
	base     *internal.Logger
	log      *internal.Logger
}

// NewAnalysisService creates the service. A nil ledger disables
// persistence; runs still return their report.
func NewAnalysisService(defaults AnalysisOptions, ledger ports.ReportWriterPort, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		defaults: defaults,
		ledger:   ledger,
		base:     logger,
		log:      logger.WithComponent("analysis_service"),
	}
}

// Run executes all seven analysis phases concurrently, each phase writing
// its own result slot. Insufficient data degrades a phase to its empty
// result with a report warning; an internal fault degrades the same way
// at error level; any other phase error aborts the run. The report is
// fingerprinted and stored best-effort before returning.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*analysis.Report, error) {
	if len(req.Records) == 0 {
		return nil, errors.InvalidInput("analysis requires at least one emotion record")
	}

	session := req.SessionID
	if session.IsEmpty() {
		session = req.Records[0].SessionID
	}
	opts := s.effectiveOptions(req.Options)
	early, late := progressionWindows(req)

	trend := temporal.NewTrendAnalyzer(s.base)
	volatility := temporal.NewVolatilityAnalyzer(opts.VolatilityWindowSize, s.base)
	transition := temporal.NewTransitionDetector(opts.TransitionMinDuration, opts.TransitionIntensityThreshold, s.base)
	critical := temporal.NewCriticalPointDetector(opts.PercentileThreshold, s.base)
	progression := temporal.NewProgressionAnalyzer(s.base)
	relationship := temporal.NewRelationshipAnalyzer(s.base)
	engine := patterns.NewEngine(s.base)

	results := analysis.EmptyResults()
	slots := make([]string, analysisPhases)

	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{"trend", func(ctx context.Context) error {
			results.Trends = trend.Analyze(ctx, req.Records)
			return nil
		}},
		{"volatility", func(ctx context.Context) error {
			results.Volatility = volatility.Analyze(ctx, req.Records)
			return nil
		}},
		{"transition", func(ctx context.Context) error {
			transitions, err := transition.Analyze(ctx, req.Records)
			if err != nil {
				return err
			}
			results.Transitions = transitions
			return nil
		}},
		{"critical_point", func(ctx context.Context) error {
			results.CriticalPoints = critical.Analyze(ctx, req.Records)
			return nil
		}},
		{"progression", func(ctx context.Context) error {
			results.Progression = progression.Analyze(ctx, early, late)
			return nil
		}},
		{"relationship", func(ctx context.Context) error {
			relationships, err := relationship.Analyze(ctx, req.Records)
			if err != nil {
				return err
			}
			results.Relationships = relationships
			return nil
		}},
		{"pattern", func(ctx context.Context) error {
			if len(req.Maps) == 0 {
				s.log.Debug("no dimensional maps supplied, skipping multidimensional analysis")
				return nil
			}
			detected, err := engine.Analyze(ctx, req.Records, req.Maps)
			if err != nil {
				return err
			}
			results.Patterns = detected
			return nil
		}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range phases {
		g.Go(s.guardPhase(gctx, p.name, &slots[i], p.run))
	}
	if err := g.Wait(); err != nil {
		s.log.Error("session %s analysis aborted: %v", session, err)
		return nil, errors.Wrap(err, "analysis run failed")
	}

	// Warnings keep phase order so identical runs produce identical
	// reports.
	var warnings []string
	for _, slot := range slots {
		if slot != "" {
			warnings = append(warnings, slot)
		}
	}

	report := &analysis.Report{
		ID:          core.NewReportID(),
		SessionID:   session,
		GeneratedAt: core.Now(),
		Results:     results,
		Warnings:    warnings,
	}
	fingerprint, err := report.ComputeFingerprint()
	if err != nil {
		return nil, errors.Wrap(err, "report fingerprint failed")
	}
	report.Fingerprint = fingerprint

	if s.ledger != nil {
		if err := s.ledger.StoreReport(ctx, *report); err != nil {
			s.log.Warn("report %s not stored: %v", report.ID, err)
		}
	}

	s.log.Info("session %s analyzed: %d trend(s), %d transition(s), %d critical point(s), %d relationship(s), %d pattern(s), %d warning(s)",
		session, len(results.Trends), len(results.Transitions), len(results.CriticalPoints),
		len(results.Relationships), len(results.Patterns), len(warnings))
	return report, nil
}

// RunFromSource pulls one session's records and dimensional maps from a
// record source and runs the full pipeline over them.
func (s *AnalysisService) RunFromSource(ctx context.Context, source ports.RecordSourcePort, session core.SessionID, opts *AnalysisOptions) (*analysis.Report, error) {
	records, err := source.FetchRecords(ctx, session)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch records from %s", source.SourceName())
	}
	maps, err := source.FetchMaps(ctx, session)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch dimensional maps from %s", source.SourceName())
	}
	return s.Run(ctx, AnalysisRequest{
		SessionID: session,
		Records:   records,
		Maps:      maps,
		Options:   opts,
	})
}

// guardPhase wraps one phase with the degradation policy: insufficient
// data becomes the phase's empty result plus a report warning, a panic is
// treated the same way at error level, and anything else aborts the run.
func (s *AnalysisService) guardPhase(ctx context.Context, name string, slot *string, run func(context.Context) error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("%s phase fault: %v", name, r)
				*slot = fmt.Sprintf("%s analysis hit an internal fault and was skipped", name)
				err = nil
			}
		}()

		err = run(ctx)
		if err == nil {
			return nil
		}
		if core.IsInsufficientData(err) {
			s.log.Warn("%s degraded: %v", name, err)
			*slot = err.Error()
			return nil
		}
		return err
	}
}

func (s *AnalysisService) effectiveOptions(overrides *AnalysisOptions) AnalysisOptions {
	opts := s.defaults
	if overrides == nil {
		return opts
	}
	if overrides.VolatilityWindowSize > 0 {
		opts.VolatilityWindowSize = overrides.VolatilityWindowSize
	}
	if overrides.PercentileThreshold > 0 {
		opts.PercentileThreshold = overrides.PercentileThreshold
	}
	if overrides.TransitionMinDuration > 0 {
		opts.TransitionMinDuration = overrides.TransitionMinDuration
	}
	if overrides.TransitionIntensityThreshold > 0 {
		opts.TransitionIntensityThreshold = overrides.TransitionIntensityThreshold
	}
	return opts
}

// progressionWindows picks explicit windows when both are present and
// otherwise splits the record list at its midpoint.
func progressionWindows(req AnalysisRequest) (early, late []emotion.Record) {
	if len(req.EarlyWindow) > 0 && len(req.LateWindow) > 0 {
		return req.EarlyWindow, req.LateWindow
	}
	mid := len(req.Records) / 2
	return req.Records[:mid], req.Records[mid:]
}
