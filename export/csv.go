package export

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/SandroNardi/wireless-client-graph/model"
)

const logsHeader = "Timestamp - Level - Message"

// LogsCSV renders the log entries as a single-column CSV. Each entry
// already carries its timestamp and level in the line text.
func LogsCSV(entries []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{logsHeader}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := writer.Write([]string{entry}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// HistoryCSV renders the collected histories as a table: one timestamp
// column followed by one column per network, in network ID order. The
// timestamps come from the first network with samples; a network without
// a sample at a row reports 0.
func HistoryCSV(histories map[string]model.NetworkHistory) ([]byte, error) {
	ids := make([]string, 0, len(histories))
	for id := range histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	header := make([]string, 0, len(ids)+1)
	header = append(header, "Timestamp")
	var timestamps []string
	for _, id := range ids {
		header = append(header, histories[id].Name)
		if timestamps == nil && len(histories[id].History) > 0 {
			samples := histories[id].History
			timestamps = make([]string, len(samples))
			for i, sample := range samples {
				timestamps[i] = sample.StartTs
			}
		}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for i, ts := range timestamps {
		row := make([]string, 0, len(ids)+1)
		row = append(row, ts)
		for _, id := range ids {
			row = append(row, strconv.Itoa(sampleAt(histories[id].History, i)))
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func sampleAt(samples []model.ClientCount, i int) int {
	if i >= len(samples) || samples[i].ClientCount == nil {
		return 0
	}
	return *samples[i].ClientCount
}
