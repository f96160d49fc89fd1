package temporal

import (
	"time"

	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

var testBase = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// singleSeries builds minute-spaced records carrying one measurement each,
// all of the same emotion type.
func singleSeries(typ emotion.Type, intensities ...float64) []emotion.Record {
	records := make([]emotion.Record, len(intensities))
	for i, v := range intensities {
		records[i] = emotion.Record{
			SessionID: core.SessionID("session-test"),
			Timestamp: core.NewTimestamp(testBase.Add(time.Duration(i) * time.Minute)),
			Measurements: []emotion.Measurement{
				{Type: typ, Intensity: v, Timestamp: core.NewTimestamp(testBase.Add(time.Duration(i) * time.Minute))},
			},
		}
	}
	return records
}

// multiSeries builds minute-spaced records where record i carries one
// measurement per type, reading intensities column-wise from series.
func multiSeries(series map[emotion.Type][]float64) []emotion.Record {
	length := 0
	for _, values := range series {
		if len(values) > length {
			length = len(values)
		}
	}

	records := make([]emotion.Record, 0, length)
	for i := 0; i < length; i++ {
		at := core.NewTimestamp(testBase.Add(time.Duration(i) * time.Minute))
		measurements := []emotion.Measurement{}
		for _, typ := range sortedKeys(series) {
			values := series[typ]
			if i < len(values) {
				measurements = append(measurements, emotion.Measurement{Type: typ, Intensity: values[i], Timestamp: at})
			}
		}
		records = append(records, emotion.Record{
			SessionID:    core.SessionID("session-test"),
			Timestamp:    at,
			Measurements: measurements,
		})
	}
	return records
}

func sortedKeys(series map[emotion.Type][]float64) []emotion.Type {
	keys := make([]emotion.Type, 0, len(series))
	for typ := range series {
		keys = append(keys, typ)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return keys
}
