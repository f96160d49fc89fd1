// Package excel reads session logs exported as spreadsheets. Both .xlsx
// and .csv exports are handled by the same reader; rows carry timestamp,
// session, emotion, and intensity columns with or without a header row.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/errors"
	"goaffect/ports"
)

// Column positions when no header row is present
const (
	colTimestamp = 0
	colSession   = 1
	colEmotion   = 2
	colIntensity = 3
)

// Header aliases accepted for each column
var (
	timestampNames = []string{"timestamp", "time", "ts", "recorded_at"}
	sessionNames   = []string{"session", "session_id", "conversation", "conversation_id"}
	emotionNames   = []string{"emotion", "type", "label"}
	intensityNames = []string{"intensity", "value", "score"}
)

// Timestamp layouts tried for cell values that are not unix seconds
var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Reader pulls emotion records from an .xlsx or .csv session export.
// Implements ports.RecordSourcePort; spreadsheets carry no dimensional
// maps, so FetchMaps always answers empty.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

var _ ports.RecordSourcePort = (*Reader)(nil)

// NewReader builds a reader for the given file. The extension picks the
// decoder; anything that is not .csv is treated as a workbook.
func NewReader(filePath string, logger *internal.Logger) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Reader{
		filePath: filePath,
		fileType: fileType,
		log:      logger.WithComponent("file-reader"),
	}
}

// SourceName identifies this source in logs and warnings
func (r *Reader) SourceName() string {
	return "file:" + filepath.Base(r.filePath)
}

// FetchRecords reads every row, keeps the requested session, merges rows
// sharing an exact timestamp into one record, and returns records in
// time order. An empty session keeps every row.
func (r *Reader) FetchRecords(ctx context.Context, session core.SessionID) ([]emotion.Record, error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []emotion.Record{}, nil
	}

	cols, dataRows := resolveColumns(rows)

	type pending struct {
		at           core.Timestamp
		session      core.SessionID
		measurements []emotion.Measurement
	}
	var groups []*pending
	index := make(map[string]*pending)

	for i, row := range dataRows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlankRow(row) {
			continue
		}
		at, err := parseCellStamp(cell(row, cols.timestamp))
		if err != nil {
			return nil, errors.IngestError(r.SourceName(), fmt.Errorf("row %d: %w", i+1, err))
		}
		rowSession := session
		if cols.session >= 0 {
			if raw := cell(row, cols.session); raw != "" {
				if !session.IsEmpty() && raw != session.String() {
					continue
				}
				rowSession = core.SessionID(raw)
			}
		}
		label, err := emotion.ParseType(cell(row, cols.emotion))
		if err != nil {
			return nil, errors.IngestError(r.SourceName(), fmt.Errorf("row %d: %w", i+1, err))
		}
		intensity, err := strconv.ParseFloat(cell(row, cols.intensity), 64)
		if err != nil {
			return nil, errors.IngestError(r.SourceName(),
				fmt.Errorf("row %d: unparseable intensity %q", i+1, cell(row, cols.intensity)))
		}

		key := rowSession.String() + "|" + strconv.FormatInt(at.UnixNano(), 10)
		group, ok := index[key]
		if !ok {
			group = &pending{at: at, session: rowSession}
			index[key] = group
			groups = append(groups, group)
		}
		group.measurements = append(group.measurements, emotion.Measurement{
			Type:      label,
			Intensity: intensity,
		})
	}

	records := make([]emotion.Record, 0, len(groups))
	for _, g := range groups {
		record, err := emotion.NewRecord(g.session, g.at, g.measurements)
		if err != nil {
			return nil, errors.IngestError(r.SourceName(), err)
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	r.log.Info("Read %d records from %s", len(records), r.filePath)
	return records, nil
}

// FetchMaps answers empty: spreadsheet exports carry no dimensional data
func (r *Reader) FetchMaps(ctx context.Context, session core.SessionID) ([]affect.Map, error) {
	return []affect.Map{}, nil
}

func (r *Reader) readRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("session file not found: %s", r.filePath)
	}
	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	default:
		return r.readExcelRows()
	}
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// columnLayout holds resolved column indexes. session is -1 when the
// export has no session column.
type columnLayout struct {
	timestamp int
	session   int
	emotion   int
	intensity int
}

// resolveColumns detects an optional header row and maps named columns.
// Without a header the fixed timestamp, session, emotion, intensity
// order applies.
func resolveColumns(rows [][]string) (columnLayout, [][]string) {
	layout := columnLayout{
		timestamp: colTimestamp,
		session:   colSession,
		emotion:   colEmotion,
		intensity: colIntensity,
	}
	header := rows[0]
	if !isHeaderRow(header) {
		return layout, rows
	}

	layout.session = -1
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case matchesName(name, timestampNames):
			layout.timestamp = i
		case matchesName(name, sessionNames):
			layout.session = i
		case matchesName(name, emotionNames):
			layout.emotion = i
		case matchesName(name, intensityNames):
			layout.intensity = i
		}
	}
	return layout, rows[1:]
}

// isHeaderRow treats a first row as a header when its timestamp cell is
// not parseable as a time
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := parseCellStamp(strings.TrimSpace(row[0]))
	return err != nil
}

func matchesName(name string, candidates []string) bool {
	for _, candidate := range candidates {
		if name == candidate {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseCellStamp accepts unix seconds or any known layout
func parseCellStamp(raw string) (core.Timestamp, error) {
	if raw == "" {
		return core.Timestamp{}, fmt.Errorf("empty timestamp cell")
	}
	if sec, err := strconv.ParseFloat(raw, 64); err == nil {
		whole := int64(sec)
		nsec := int64((sec - float64(whole)) * 1e9)
		return core.NewTimestamp(time.Unix(whole, nsec).UTC()), nil
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return core.NewTimestamp(t), nil
		}
	}
	return core.Timestamp{}, fmt.Errorf("unparseable timestamp %q", raw)
}
