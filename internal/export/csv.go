// File path: internal/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/logicforge/logicforge/internal/store"
)

// RenderCSV flattens a program's outcomes and indicators into a spreadsheet.
// Outcomes without indicators still get one row so nothing is dropped.
func RenderCSV(record *store.ProgramRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"program_title", "outcome", "outcome_theme", "outcome_timeframe",
		"indicator_type", "indicator", "measurement_method",
		"baseline_value", "target_value", "frequency", "data_source",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, entry := range record.Outcomes {
		base := []string{
			record.Program.Title,
			entry.Outcome.Description,
			entry.Outcome.Theme,
			entry.Outcome.Timeframe,
		}
		if len(entry.Indicators) == 0 {
			row := append(append([]string{}, base...), "", "", "", "", "", "", "")
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			continue
		}
		for _, ind := range entry.Indicators {
			row := append(append([]string{}, base...),
				ind.Type,
				ind.Description,
				ind.MeasurementMethod,
				ind.BaselineValue,
				ind.TargetValue,
				ind.Frequency,
				ind.DataSource,
			)
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
