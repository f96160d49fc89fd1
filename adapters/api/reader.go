package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/errors"
	"goaffect/ports"
)

const sourceName = "classifier-api"

// Reader pulls classified emotion data from an upstream classifier API.
// It pages through the records endpoint, extracts the element array at
// the configured response path, and maps configured field paths onto
// measurements. Implements ports.RecordSourcePort.
type Reader struct {
	cfg    ReaderConfig
	client *http.Client
	log    *internal.Logger
}

var _ ports.RecordSourcePort = (*Reader)(nil)

// NewReader validates the configuration and builds a reader with a
// timeout-bounded HTTP client.
func NewReader(cfg ReaderConfig, logger *internal.Logger) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Reader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.WithComponent("classifier-reader"),
	}, nil
}

// SourceName identifies this source in logs and warnings
func (r *Reader) SourceName() string { return sourceName }

// FetchRecords pulls every record page for the session, merges elements
// sharing an exact timestamp into one record, and returns the records in
// time order.
func (r *Reader) FetchRecords(ctx context.Context, session core.SessionID) ([]emotion.Record, error) {
	elements, err := r.fetchAll(ctx, "/records", session)
	if err != nil {
		return nil, err
	}

	// One wire element is one measurement. Elements stamped with the
	// same instant belong to the same record.
	type pending struct {
		at           core.Timestamp
		measurements []emotion.Measurement
	}
	var groups []*pending
	index := make(map[int64]*pending)

	for i, el := range elements {
		at, err := r.parseStamp(el.Get(r.cfg.Fields.Timestamp))
		if err != nil {
			return nil, errors.IngestError(sourceName, fmt.Errorf("element %d: %w", i, err))
		}
		if r.cfg.Fields.Session != "" {
			if got := el.Get(r.cfg.Fields.Session).String(); got != "" && got != session.String() {
				r.log.Debug("Skipping element %d: session %s does not match %s", i, got, session)
				continue
			}
		}
		label, err := emotion.ParseType(el.Get(r.cfg.Fields.Emotion).String())
		if err != nil {
			return nil, errors.IngestError(sourceName, fmt.Errorf("element %d: %w", i, err))
		}
		m := emotion.Measurement{
			Type:      label,
			Intensity: el.Get(r.cfg.Fields.Intensity).Float(),
		}
		group, ok := index[at.UnixNano()]
		if !ok {
			group = &pending{at: at}
			index[at.UnixNano()] = group
			groups = append(groups, group)
		}
		group.measurements = append(group.measurements, m)
	}

	records := make([]emotion.Record, 0, len(groups))
	for _, g := range groups {
		record, err := emotion.NewRecord(session, g.at, g.measurements)
		if err != nil {
			return nil, errors.IngestError(sourceName, err)
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	r.log.Info("Fetched %d records for session %s", len(records), session)
	return records, nil
}

// FetchMaps pulls the session's dimensional snapshots. Sources without a
// maps endpoint answer 404, which degrades to an empty slice.
func (r *Reader) FetchMaps(ctx context.Context, session core.SessionID) ([]affect.Map, error) {
	elements, err := r.fetchAll(ctx, "/maps", session)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			r.log.Debug("Source has no maps endpoint; continuing without dimensional data")
			return []affect.Map{}, nil
		}
		return nil, err
	}

	maps := make([]affect.Map, 0, len(elements))
	for i, el := range elements {
		var payload mapPayload
		if err := json.Unmarshal([]byte(el.Raw), &payload); err != nil {
			return nil, errors.IngestError(sourceName, fmt.Errorf("map element %d: %w", i, err))
		}
		m, err := payload.toDomain()
		if err != nil {
			return nil, errors.IngestError(sourceName, fmt.Errorf("map element %d: %w", i, err))
		}
		maps = append(maps, m)
	}
	sort.SliceStable(maps, func(i, j int) bool {
		return maps[i].Timestamp.Before(maps[j].Timestamp)
	})

	r.log.Info("Fetched %d dimensional maps for session %s", len(maps), session)
	return maps, nil
}

// fetchAll pages through one endpoint until a short page, an empty page,
// or the page cap.
func (r *Reader) fetchAll(ctx context.Context, endpoint string, session core.SessionID) ([]gjson.Result, error) {
	var all []gjson.Result
	offset := 0
	for page := 0; page < r.cfg.MaxPages; page++ {
		elements, err := r.fetchPage(ctx, endpoint, session, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, elements...)
		if len(elements) < r.cfg.PageLimit {
			break
		}
		offset += len(elements)
	}
	return all, nil
}

// fetchPage performs one GET and extracts the element array from the
// response body at the configured data path.
func (r *Reader) fetchPage(ctx context.Context, endpoint string, session core.SessionID, offset int) ([]gjson.Result, error) {
	req, err := r.buildRequest(ctx, endpoint, session, offset)
	if err != nil {
		return nil, errors.IngestError(sourceName, err)
	}

	started := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(sourceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(sourceName, err)
	}
	r.log.Debug("GET %s -> %d (%d bytes, %v)", req.URL.Path, resp.StatusCode, len(body), time.Since(started))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFound(endpoint)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.ExternalServiceError(sourceName,
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path))
	}

	if r.cfg.DataPath == "" {
		parsed := gjson.ParseBytes(body)
		if !parsed.IsArray() {
			return nil, errors.IngestError(sourceName, fmt.Errorf("response body is not an array"))
		}
		return parsed.Array(), nil
	}

	data := gjson.GetBytes(body, r.cfg.DataPath)
	switch {
	case !data.Exists():
		return nil, errors.IngestError(sourceName,
			fmt.Errorf("no data found at path %q", r.cfg.DataPath))
	case data.IsArray():
		return data.Array(), nil
	case data.IsObject():
		// Single element responses are tolerated
		return []gjson.Result{data}, nil
	}
	return nil, errors.IngestError(sourceName,
		fmt.Errorf("data at path %q is neither array nor object", r.cfg.DataPath))
}

// buildRequest assembles the paged GET with auth headers
func (r *Reader) buildRequest(ctx context.Context, endpoint string, session core.SessionID, offset int) (*http.Request, error) {
	u, err := url.Parse(r.cfg.BaseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier URL: %w", err)
	}
	q := u.Query()
	q.Set("session_id", session.String())
	q.Set("limit", strconv.Itoa(r.cfg.PageLimit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	switch r.cfg.AuthMethod {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", r.cfg.APIKey)
	}
	return req, nil
}

// parseStamp accepts RFC3339 strings or unix seconds
func (r *Reader) parseStamp(res gjson.Result) (core.Timestamp, error) {
	switch res.Type {
	case gjson.String:
		t, err := time.Parse(time.RFC3339Nano, res.String())
		if err != nil {
			return core.Timestamp{}, fmt.Errorf("unparseable timestamp %q: %w", res.String(), err)
		}
		return core.NewTimestamp(t), nil
	case gjson.Number:
		sec := int64(res.Float())
		nsec := int64((res.Float() - float64(sec)) * 1e9)
		return core.NewTimestamp(time.Unix(sec, nsec).UTC()), nil
	}
	return core.Timestamp{}, fmt.Errorf("missing or invalid timestamp field %q", r.cfg.Fields.Timestamp)
}
