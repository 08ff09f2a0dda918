package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// HTMLFormatter produces a standalone HTML page with the schedule table and yearly totals.
type HTMLFormatter struct {
	Labels Labels
}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/schedule.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("schedule").Funcs(template.FuncMap{
	"amount": FormatAmount,
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"row":    recordRow,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	labels := h.Labels
	if labels == (Labels{}) {
		labels = localeLabels["en"]
	}

	var buf bytes.Buffer
	data := struct {
		*domain.Schedule
		Labels      Labels
		Highlights  Highlights
		Assumptions []string
	}{schedule, labels, AnalyzeSchedule(schedule), DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
