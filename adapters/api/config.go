package api

import (
	"strings"
	"time"

	"goaffect/internal/errors"
)

// Auth methods the classifier reader supports
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthAPIKey = "api_key"
)

// FieldPaths names the JSON paths inside one classifier record element.
// Paths are gjson syntax, so nested fields ("meta.session.id") work.
type FieldPaths struct {
	Timestamp string
	Session   string
	Emotion   string
	Intensity string
}

// ReaderConfig configures the classifier pull reader. DataPath locates the
// record array inside the response body; empty means the body itself is
// the array.
type ReaderConfig struct {
	BaseURL    string
	AuthMethod string
	APIKey     string
	DataPath   string
	Fields     FieldPaths
	Timeout    time.Duration
	PageLimit  int
	MaxPages   int
}

// DefaultReaderConfig returns the conventional classifier wire layout.
// BaseURL has no default; callers must supply it.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		AuthMethod: AuthBearer,
		DataPath:   "data.records",
		Fields: FieldPaths{
			Timestamp: "timestamp",
			Session:   "session_id",
			Emotion:   "emotion",
			Intensity: "intensity",
		},
		Timeout:   30 * time.Second,
		PageLimit: 500,
		MaxPages:  100,
	}
}

// Validate checks the configuration before any request is built
func (c ReaderConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.ConfigInvalid("classifier base URL is required")
	}
	switch c.AuthMethod {
	case AuthNone, AuthBearer, AuthAPIKey:
	default:
		return errors.ConfigInvalid("unknown auth method: " + c.AuthMethod)
	}
	if c.AuthMethod != AuthNone && strings.TrimSpace(c.APIKey) == "" {
		return errors.ConfigInvalid("auth method " + c.AuthMethod + " requires an API key")
	}
	if c.Fields.Timestamp == "" || c.Fields.Emotion == "" || c.Fields.Intensity == "" {
		return errors.ConfigInvalid("field paths for timestamp, emotion, and intensity are required")
	}
	if c.Timeout <= 0 {
		return errors.ConfigInvalid("classifier timeout must be positive")
	}
	if c.PageLimit < 1 {
		return errors.ConfigInvalid("classifier page limit must be at least 1")
	}
	if c.MaxPages < 1 {
		return errors.ConfigInvalid("classifier max pages must be at least 1")
	}
	return nil
}
