package output

import (
	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Highlights summarizes a schedule for the detailed reports.
type Highlights struct {
	PeakMonth      dateutil.YearMonth
	PeakTax        decimal.Decimal
	MonthsWithTax  int
	TopBracketRate decimal.Decimal
	// EffectiveRate is total tax over total paid salary, as a percentage.
	EffectiveRate decimal.Decimal
}

// AnalyzeSchedule finds the month with the highest withholding and the highest bracket reached.
func AnalyzeSchedule(schedule *domain.Schedule) Highlights {
	var h Highlights
	if len(schedule.Records) == 0 {
		return h
	}
	paid := decimal.Zero
	for _, r := range schedule.Records {
		paid = paid.Add(r.Salary)
		if r.Tax.IsPositive() {
			h.MonthsWithTax++
		}
		if h.PeakMonth.IsZero() || r.Tax.GreaterThan(h.PeakTax) {
			h.PeakMonth, h.PeakTax = r.Month, r.Tax
		}
		if r.TaxableIncome.IsPositive() && r.Rate.GreaterThan(h.TopBracketRate) {
			h.TopBracketRate = r.Rate
		}
	}
	if paid.IsPositive() {
		h.EffectiveRate = schedule.TotalTax().Div(paid).Mul(decimalHundred).Round(2)
	}
	return h
}

var decimalHundred = decimal.NewFromInt(100)

// FormatPercentage renders a value already expressed in percent.
func FormatPercentage(v decimal.Decimal) string { return v.StringFixed(2) + "%" }
