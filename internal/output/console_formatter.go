package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// consoleWidths are the fixed column widths of the console table.
var consoleWidths = [7]int{8, 12, 14, 16, 16, 12, 16}

// ConsoleFormatter renders the schedule as a fixed-width text table followed by per-year totals.
type ConsoleFormatter struct {
	Labels Labels
}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	labels := c.Labels
	if labels == (Labels{}) {
		labels = localeLabels["en"]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MONTHLY WITHHOLDING SCHEDULE %s - %s\n", schedule.Start, schedule.End)
	fmt.Fprintln(&buf)

	header := make([]string, len(labels))
	copy(header, labels[:])
	writeFixedRow(&buf, header)
	fmt.Fprintln(&buf, strings.Repeat("-", tableWidth()))
	for _, r := range schedule.Records {
		writeFixedRow(&buf, recordRow(r))
	}

	if len(schedule.Years) > 0 {
		fmt.Fprintln(&buf)
		for _, y := range schedule.Years {
			fmt.Fprintf(&buf, "%d (%s months): income %s, insurance & housing fund %s, tax %s\n",
				y.Year, intToString(y.Months), FormatCurrency(y.Income), FormatCurrency(y.Deduction), FormatCurrency(y.Tax))
		}
	}
	fmt.Fprintf(&buf, "Total tax withheld: %s\n", FormatCurrency(schedule.TotalTax()))
	return buf.Bytes(), nil
}

func writeFixedRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		fmt.Fprintf(buf, "%*s", consoleWidths[i], cell)
	}
	buf.WriteByte('\n')
}

func tableWidth() int {
	total := 0
	for _, w := range consoleWidths {
		total += w
	}
	return total
}
