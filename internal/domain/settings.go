package domain

import (
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// StandardWorkingDays is the average number of paid working days in a month used to prorate salary.
var StandardWorkingDays = decimal.RequireFromString("21.75")

// Settings is the validated input of one withholding run. It is read once and never mutated.
type Settings struct {
	Start           dateutil.YearMonth                     `json:"start"`
	End             dateutil.YearMonth                     `json:"end"`
	MonthlySalary   decimal.Decimal                        `json:"monthly_salary"`
	Adjustments     []SalaryAdjustment                     `json:"salary_adjustments"`
	WorkedDays      map[dateutil.YearMonth]decimal.Decimal `json:"worked_days"`
	Insurance       InsuranceRates                         `json:"insurance_rates"`
	HousingFundRate decimal.Decimal                        `json:"housing_fund_rate"`
	Initial         InitialAccumulated                     `json:"initial_accumulated"`
}

// SalaryAdjustment changes the nominal monthly salary from Effective onward.
type SalaryAdjustment struct {
	Effective dateutil.YearMonth `json:"effective"`
	NewSalary decimal.Decimal    `json:"new_salary"`
}

// InsuranceRates holds the employee share of each social insurance, as fractions of salary.
type InsuranceRates struct {
	Pension      decimal.Decimal `json:"pension"`
	Unemployment decimal.Decimal `json:"unemployment"`
	Medical      decimal.Decimal `json:"medical"`
}

// Total returns the combined insurance rate.
func (r InsuranceRates) Total() decimal.Decimal {
	return r.Pension.Add(r.Unemployment).Add(r.Medical)
}

// InitialAccumulated seeds the first calendar year of a run with amounts already declared
// before the range starts.
type InitialAccumulated struct {
	Income           decimal.Decimal `json:"income"`
	SpecialDeduction decimal.Decimal `json:"special_deduction"`
	TaxPaid          decimal.Decimal `json:"tax_paid"`
}

// Range returns the inclusive month range of the run.
func (s *Settings) Range() (dateutil.MonthRange, error) {
	return dateutil.NewMonthRange(s.Start, s.End)
}

// DeductionRate is the share of nominal salary withheld for insurance and housing fund.
func (s *Settings) DeductionRate() decimal.Decimal {
	return s.Insurance.Total().Add(s.HousingFundRate)
}

// WorkedDaysFor returns the worked days override for ym, or StandardWorkingDays.
func (s *Settings) WorkedDaysFor(ym dateutil.YearMonth) (decimal.Decimal, bool) {
	if days, ok := s.WorkedDays[ym]; ok {
		return days, true
	}
	return StandardWorkingDays, false
}
