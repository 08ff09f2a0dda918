package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// CSVFormatter writes one header row and one row per month.
type CSVFormatter struct {
	Labels Labels
}

func (c CSVFormatter) Name() string      { return "csv" }
func (c CSVFormatter) Extension() string { return "csv" }

func (c CSVFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	labels := c.Labels
	if labels == (Labels{}) {
		labels = localeLabels["en"]
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(labels[:]); err != nil {
		return nil, err
	}
	for _, r := range schedule.Records {
		if err := w.Write(recordRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
