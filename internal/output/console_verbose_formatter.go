package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// ConsoleVerboseFormatter renders the rules, highlights and the bracket applied each month.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "detailed" }
func (c ConsoleVerboseFormatter) Extension() string { return "report.txt" }

func (c ConsoleVerboseFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "DETAILED MONTHLY WITHHOLDING ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "Period: %s to %s\n", schedule.Start, schedule.End)
	if !schedule.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "Generated: %s\n", schedule.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	h := AnalyzeSchedule(schedule)
	fmt.Fprintln(&buf, "HIGHLIGHTS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Total tax withheld:     %s\n", FormatCurrency(schedule.TotalTax()))
	fmt.Fprintf(&buf, "Months with tax:        %d of %d\n", h.MonthsWithTax, len(schedule.Records))
	if !h.PeakMonth.IsZero() {
		fmt.Fprintf(&buf, "Highest withholding:    %s in %s\n", FormatCurrency(h.PeakTax), h.PeakMonth)
	}
	fmt.Fprintf(&buf, "Highest bracket:        %s\n", FormatPercentage(h.TopBracketRate.Mul(decimalHundred)))
	fmt.Fprintf(&buf, "Effective rate:         %s of paid salary\n", FormatPercentage(h.EffectiveRate))
	fmt.Fprintln(&buf)

	for _, y := range schedule.Years {
		fmt.Fprintf(&buf, "YEAR %d\n", y.Year)
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, r := range schedule.Records {
			if r.Month.Year != y.Year {
				continue
			}
			fmt.Fprintf(&buf, "  %s  taxable %14s  bracket %5s  quick %10s  tax %10s\n",
				r.Month, FormatAmount(r.TaxableIncome), FormatPercentage(r.Rate.Mul(decimalHundred)),
				FormatAmount(r.QuickDeduction), FormatAmount(r.Tax))
		}
		fmt.Fprintf(&buf, "  Income %s, insurance & housing fund %s, tax %s\n\n",
			FormatCurrency(y.Income), FormatCurrency(y.Deduction), FormatCurrency(y.Tax))
	}
	return buf.Bytes(), nil
}
