package domain

import (
	"time"

	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// YearAccumulator carries the year-to-date totals of one calendar year at full precision.
type YearAccumulator struct {
	Year             int             `json:"year"`
	Months           int             `json:"months"`
	Income           decimal.Decimal `json:"income"`
	SocialInsurance  decimal.Decimal `json:"social_insurance"`
	SpecialDeduction decimal.Decimal `json:"special_deduction"`
	TaxPaid          decimal.Decimal `json:"tax_paid"`
}

// NewYearAccumulator returns a zeroed accumulator for year.
func NewYearAccumulator(year int) *YearAccumulator {
	return &YearAccumulator{Year: year}
}

// SeededYearAccumulator returns the accumulator of the first year of a run.
// Social insurance always starts at zero.
func SeededYearAccumulator(year int, initial InitialAccumulated) *YearAccumulator {
	return &YearAccumulator{
		Year:             year,
		Income:           initial.Income,
		SpecialDeduction: initial.SpecialDeduction,
		TaxPaid:          initial.TaxPaid,
	}
}

// MonthRecord is one row of the withholding schedule. Amounts are rounded to cents.
// Rate and QuickDeduction are the bracket applied to the un-rounded taxable income.
type MonthRecord struct {
	Month            dateutil.YearMonth `json:"month"`
	Salary           decimal.Decimal    `json:"salary"`
	MonthlyDeduction decimal.Decimal    `json:"monthly_deduction"`
	CumulativeIncome decimal.Decimal    `json:"cumulative_income"`
	TaxableIncome    decimal.Decimal    `json:"taxable_income"`
	Tax              decimal.Decimal    `json:"tax"`
	CumulativeTax    decimal.Decimal    `json:"cumulative_tax"`
	Rate             decimal.Decimal    `json:"rate"`
	QuickDeduction   decimal.Decimal    `json:"quick_deduction"`
}

// YearSummary totals the months of one calendar year that fall inside the run.
type YearSummary struct {
	Year      int             `json:"year"`
	Months    int             `json:"months"`
	Income    decimal.Decimal `json:"income"`
	Deduction decimal.Decimal `json:"deduction"`
	Tax       decimal.Decimal `json:"tax"`
}

// Schedule is the complete result of a run.
type Schedule struct {
	Start       dateutil.YearMonth `json:"start"`
	End         dateutil.YearMonth `json:"end"`
	GeneratedAt time.Time          `json:"generated_at"`
	Records     []MonthRecord      `json:"records"`
	Years       []YearSummary      `json:"years"`
}

// TotalTax sums the tax withheld over every record of the schedule.
func (s *Schedule) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Records {
		total = total.Add(r.Tax)
	}
	return total
}

// RecordFor returns the record of month ym.
func (s *Schedule) RecordFor(ym dateutil.YearMonth) (MonthRecord, bool) {
	for _, r := range s.Records {
		if r.Month == ym {
			return r, true
		}
	}
	return MonthRecord{}, false
}
