package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goaffect/adapters/memledger"
	"goaffect/domain/affect"
	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal/errors"
)

var serviceTestBase = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func stampAt(i int) core.Timestamp {
	return core.NewTimestamp(serviceTestBase.Add(time.Duration(i) * time.Minute))
}

// sessionRecords builds minute-spaced records reading intensities
// column-wise from series; shorter columns simply stop contributing.
func sessionRecords(series map[emotion.Type][]float64) []emotion.Record {
	length := 0
	types := make([]emotion.Type, 0, len(series))
	for typ, values := range series {
		types = append(types, typ)
		if len(values) > length {
			length = len(values)
		}
	}
	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			if types[j] < types[i] {
				types[i], types[j] = types[j], types[i]
			}
		}
	}

	records := make([]emotion.Record, 0, length)
	for i := 0; i < length; i++ {
		measurements := []emotion.Measurement{}
		for _, typ := range types {
			values := series[typ]
			if i < len(values) {
				measurements = append(measurements, emotion.Measurement{Type: typ, Intensity: values[i], Timestamp: stampAt(i)})
			}
		}
		records = append(records, emotion.Record{
			SessionID:    core.SessionID("session-full"),
			Timestamp:    stampAt(i),
			Measurements: measurements,
		})
	}
	return records
}

// fullSessionFixture exercises every phase: a joy arc with a sustained
// rise, fall, and peak; anger mirroring joy; oscillating valence maps
// with alternating quadrants and arousal-led dominance.
func fullSessionFixture() ([]emotion.Record, []affect.Map) {
	joy := []float64{0.1, 0.2, 0.3, 0.5, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	anger := make([]float64, len(joy))
	for i, v := range joy {
		anger[i] = 0.7 - v
	}
	records := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy:   joy,
		emotion.Anger: anger,
	})

	maps := make([]affect.Map, len(records))
	for i := range maps {
		valence := 0.5
		quadrant := affect.QuadrantLabel("positive")
		if i%2 == 1 {
			valence = -0.5
			quadrant = affect.QuadrantLabel("negative")
		}
		maps[i] = affect.Map{
			Timestamp: stampAt(i),
			Primary:   affect.Vector{Valence: valence},
			Quadrant:  quadrant,
			Dominant:  []affect.DimensionWeight{{Dimension: affect.Arousal, Value: 0.6}},
		}
	}
	return records, maps
}

type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) StoreReport(ctx context.Context, report analysis.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) FetchRecords(ctx context.Context, session core.SessionID) ([]emotion.Record, error) {
	args := m.Called(ctx, session)
	if records := args.Get(0); records != nil {
		return records.([]emotion.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordSource) FetchMaps(ctx context.Context, session core.SessionID) ([]affect.Map, error) {
	args := m.Called(ctx, session)
	if maps := args.Get(0); maps != nil {
		return maps.([]affect.Map), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordSource) SourceName() string { return "mock-source" }

func TestAnalysisService_RejectsEmptyInput(t *testing.T) {
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{})

	assert.Nil(t, report)
	assert.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalysisService_FullRunPopulatesEveryPhase(t *testing.T) {
	records, maps := fullSessionFixture()
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{Records: records, Maps: maps})

	assert.NoError(t, err)
	assert.Equal(t, core.SessionID("session-full"), report.SessionID)
	assert.False(t, report.ID.IsEmpty())
	assert.False(t, report.Fingerprint.IsEmpty())
	assert.Empty(t, report.Warnings)

	assert.Contains(t, report.Results.Trends, emotion.Joy)
	assert.Contains(t, report.Results.Volatility, emotion.Anger)
	assert.NotEmpty(t, report.Results.Transitions)
	assert.NotEmpty(t, report.Results.CriticalPoints)
	assert.NotEmpty(t, report.Results.Relationships)
	assert.NotEmpty(t, report.Results.Patterns)
}

func TestAnalysisService_IdenticalInputReproducesTheFingerprint(t *testing.T) {
	records, maps := fullSessionFixture()
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)
	req := AnalysisRequest{Records: records, Maps: maps}

	first, err := service.Run(context.Background(), req)
	assert.NoError(t, err)
	assert.NoError(t, first.VerifyFingerprint())

	for i := 0; i < 10; i++ {
		next, err := service.Run(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, first.Fingerprint, next.Fingerprint, "run %d fingerprint diverged", i)
		assert.Equal(t, first.Results, next.Results, "run %d results diverged", i)
		assert.NotEqual(t, first.ID, next.ID, "report IDs are run metadata and must differ")
	}
}

func TestAnalysisService_ThinInputDegradesWithWarnings(t *testing.T) {
	records := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy: {0.1, 0.9},
	})
	maps := []affect.Map{
		{Timestamp: stampAt(0), Quadrant: "positive"},
		{Timestamp: stampAt(1), Quadrant: "positive"},
	}
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{Records: records, Maps: maps})

	assert.NoError(t, err, "low data must never fail the run")
	assert.Len(t, report.Warnings, 3)
	assert.Contains(t, report.Warnings[0], "transition_detector")
	assert.Contains(t, report.Warnings[1], "relationship_analyzer")
	assert.Contains(t, report.Warnings[2], "pattern_engine")

	assert.Empty(t, report.Results.Transitions)
	assert.Empty(t, report.Results.Relationships)
	assert.Empty(t, report.Results.Patterns)
	// Two points still fit a trendline.
	assert.Contains(t, report.Results.Trends, emotion.Joy)
}

func TestAnalysisService_NoMapsSkipsPatternsWithoutWarning(t *testing.T) {
	records, _ := fullSessionFixture()
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{Records: records})

	assert.NoError(t, err)
	assert.Empty(t, report.Results.Patterns)
	for _, w := range report.Warnings {
		assert.False(t, strings.Contains(w, "pattern"), "absent maps are not a warning condition: %q", w)
	}
}

func TestAnalysisService_StoresTheReport(t *testing.T) {
	records, maps := fullSessionFixture()
	ledger := memledger.New()
	service := NewAnalysisService(DefaultAnalysisOptions(), ledger, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{Records: records, Maps: maps})

	assert.NoError(t, err)
	assert.Equal(t, 1, ledger.Len())
	stored, err := ledger.GetReport(context.Background(), report.ID)
	assert.NoError(t, err)
	assert.Equal(t, report.Fingerprint, stored.Fingerprint)
}

func TestAnalysisService_LedgerFailureDoesNotFailTheRun(t *testing.T) {
	records, _ := fullSessionFixture()
	writer := new(MockReportWriter)
	writer.On("StoreReport", mock.Anything, mock.Anything).Return(assert.AnError)
	service := NewAnalysisService(DefaultAnalysisOptions(), writer, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{Records: records})

	assert.NoError(t, err, "persistence is best-effort")
	assert.NotNil(t, report)
	writer.AssertExpectations(t)
}

func TestAnalysisService_ExplicitWindowsOverrideTheMidpointSplit(t *testing.T) {
	records := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy: {0.5, 0.5, 0.5, 0.5, 0.5},
	})
	early := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy: {0.2, 0.2},
	})
	late := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy: {0.8, 0.8},
	})
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.Run(context.Background(), AnalysisRequest{
		Records:     records,
		EarlyWindow: early,
		LateWindow:  late,
	})

	assert.NoError(t, err)
	// The midpoint split of a constant series would yield zero change.
	assert.InDelta(t, 0.6, report.Results.Progression.PositiveChange, 1e-9)
}

func TestAnalysisService_RunFromSourcePullsBothFeeds(t *testing.T) {
	records, maps := fullSessionFixture()
	session := core.SessionID("session-full")
	source := new(MockRecordSource)
	source.On("FetchRecords", mock.Anything, session).Return(records, nil)
	source.On("FetchMaps", mock.Anything, session).Return(maps, nil)
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.RunFromSource(context.Background(), source, session, nil)

	assert.NoError(t, err)
	assert.Equal(t, session, report.SessionID)
	assert.NotEmpty(t, report.Results.Patterns, "maps from the source must reach the pattern engine")
	source.AssertExpectations(t)
}

func TestAnalysisService_SourceFailureAbortsTheRun(t *testing.T) {
	session := core.SessionID("session-full")
	source := new(MockRecordSource)
	source.On("FetchRecords", mock.Anything, session).Return(nil, assert.AnError)
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	report, err := service.RunFromSource(context.Background(), source, session, nil)

	assert.Nil(t, report)
	assert.Error(t, err)
	source.AssertNotCalled(t, "FetchMaps", mock.Anything, mock.Anything)
}

func TestAnalysisService_OptionOverridesReachTheAnalyzers(t *testing.T) {
	records := sessionRecords(map[emotion.Type][]float64{
		emotion.Joy: {0.1, 0.9, 0.1, 0.9},
	})
	service := NewAnalysisService(DefaultAnalysisOptions(), nil, nil)

	defaulted, err := service.Run(context.Background(), AnalysisRequest{Records: records})
	assert.NoError(t, err)
	assert.Empty(t, defaulted.Results.Volatility, "four points sit below the default window of five")

	overridden, err := service.Run(context.Background(), AnalysisRequest{
		Records: records,
		Options: &AnalysisOptions{VolatilityWindowSize: 2},
	})
	assert.NoError(t, err)
	assert.Contains(t, overridden.Results.Volatility, emotion.Joy)
}
