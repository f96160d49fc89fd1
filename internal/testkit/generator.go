package testkit

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// SessionGeneratorConfig configures the synthetic session generator
type SessionGeneratorConfig struct {
	SessionID   core.SessionID `json:"session_id"`
	RecordCount int            `json:"record_count"`
	Step        time.Duration  `json:"step"`
	StartTime   time.Time      `json:"start_time"`
	NoiseSigma  float64        `json:"noise_sigma"`
	WithMaps    bool           `json:"with_maps"`
	Seed        int64          `json:"seed"`
}

// DefaultSessionConfig returns a mid-length session with light noise
func DefaultSessionConfig() SessionGeneratorConfig {
	return SessionGeneratorConfig{
		SessionID:   "session-demo",
		RecordCount: 48,
		Step:        time.Minute,
		StartTime:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		NoiseSigma:  0.04,
		WithMaps:    true,
		Seed:        42,
	}
}

// SessionGenerator synthesizes a believable emotional session: joy arcs up
// and eases off, anger declines, fear spikes mid-session, trust builds, and
// Gaussian noise jitters every reading. The same seed reproduces the same
// session byte for byte.
type SessionGenerator struct {
	config SessionGeneratorConfig
	rng    *rand.Rand
	noise  distuv.Normal
}

// NewSessionGenerator builds a generator with both random streams seeded
// from the config
func NewSessionGenerator(config SessionGeneratorConfig) *SessionGenerator {
	defaults := DefaultSessionConfig()
	if config.RecordCount < 1 {
		config.RecordCount = defaults.RecordCount
	}
	if config.Step <= 0 {
		config.Step = defaults.Step
	}
	if config.StartTime.IsZero() {
		config.StartTime = defaults.StartTime
	}
	if config.SessionID.IsEmpty() {
		config.SessionID = defaults.SessionID
	}
	return &SessionGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		noise: distuv.Normal{
			Mu:    0,
			Sigma: config.NoiseSigma,
			Src:   randv2.NewPCG(uint64(config.Seed), uint64(config.Seed)+1),
		},
	}
}

// GenerateSession produces the records and, when configured, the aligned
// dimensional maps for the whole session.
func (g *SessionGenerator) GenerateSession() ([]emotion.Record, []affect.Map, error) {
	records := make([]emotion.Record, 0, g.config.RecordCount)
	maps := make([]affect.Map, 0, g.config.RecordCount)

	for i := 0; i < g.config.RecordCount; i++ {
		progress := 0.0
		if g.config.RecordCount > 1 {
			progress = float64(i) / float64(g.config.RecordCount-1)
		}
		at := core.NewTimestamp(g.config.StartTime.Add(time.Duration(i) * g.config.Step))

		levels := g.emotionLevels(progress)
		measurements := []emotion.Measurement{
			{Type: emotion.Joy, Intensity: levels.joy},
			{Type: emotion.Trust, Intensity: levels.trust},
			{Type: emotion.Anger, Intensity: levels.anger},
			{Type: emotion.Fear, Intensity: levels.fear},
		}
		// Occasional surprise reading, like a real classifier emits
		if g.rng.Float64() < 0.08 {
			measurements = append(measurements, emotion.Measurement{
				Type:      emotion.Surprise,
				Intensity: clampUnit(0.3 + 0.3*g.rng.Float64()),
			})
		}

		record, err := emotion.NewRecord(g.config.SessionID, at, measurements)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)

		if g.config.WithMaps {
			maps = append(maps, g.mapFor(at, levels))
		}
	}
	return records, maps, nil
}

type levels struct {
	joy, trust, anger, fear float64
}

// emotionLevels evaluates the session arc at one point of progress in [0,1]
func (g *SessionGenerator) emotionLevels(progress float64) levels {
	spike := 0.5 * math.Exp(-math.Pow((progress-0.55)/0.08, 2))
	return levels{
		joy:   g.jitter(0.25 + 0.45*math.Sin(math.Pi*progress)),
		trust: g.jitter(0.30 + 0.30*progress),
		anger: g.jitter(0.55 - 0.35*progress),
		fear:  g.jitter(0.15 + spike),
	}
}

// mapFor derives a dimensional snapshot from the emotion levels at the
// same instant
func (g *SessionGenerator) mapFor(at core.Timestamp, l levels) affect.Map {
	vector := affect.Vector{
		Valence:   clampAxis(l.joy + l.trust - l.anger - l.fear),
		Arousal:   clampAxis(l.anger + l.fear - 0.4),
		Dominance: clampAxis(l.trust - l.fear),
	}
	return affect.Map{
		Timestamp: at,
		Primary:   vector,
		Quadrant:  quadrantFor(vector),
		Dominant:  rankDimensions(vector),
	}
}

func quadrantFor(v affect.Vector) affect.QuadrantLabel {
	arousal := "low-arousal"
	if v.Arousal >= 0 {
		arousal = "high-arousal"
	}
	polarity := "negative"
	if v.Valence >= 0 {
		polarity = "positive"
	}
	return affect.QuadrantLabel(arousal + " " + polarity)
}

// rankDimensions orders the axes by absolute value, strongest first
func rankDimensions(v affect.Vector) []affect.DimensionWeight {
	weights := []affect.DimensionWeight{
		{Dimension: affect.Valence, Value: v.Valence},
		{Dimension: affect.Arousal, Value: v.Arousal},
		{Dimension: affect.Dominance, Value: v.Dominance},
	}
	sort.SliceStable(weights, func(i, j int) bool {
		return math.Abs(weights[i].Value) > math.Abs(weights[j].Value)
	})
	return weights[:2]
}

func (g *SessionGenerator) jitter(base float64) float64 {
	if g.noise.Sigma == 0 {
		return clampUnit(base)
	}
	return clampUnit(base + g.noise.Rand())
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
