package calculation

import (
	money "github.com/rpgo/iit-withholding/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Comprehensive income brackets: the annual table of the individual income tax law
//    applied to year-to-date taxable income (cumulative withholding method).
//
// 2. Basic deduction: 5,000 per calendar month, counted from January through the current month.
//
// 3. Brackets are not indexed; the same table applies to every year of a run.

// BasicDeductionPerMonth is the monthly basic deduction of the cumulative withholding method.
var BasicDeductionPerMonth = decimal.NewFromInt(5000)

// TaxBracket is one row of the progressive table. A nil Max marks the unbounded top bracket.
type TaxBracket struct {
	Max            *decimal.Decimal
	Rate           decimal.Decimal
	QuickDeduction decimal.Decimal
}

// Contains reports whether taxable income falls under this bracket's upper threshold.
func (b TaxBracket) Contains(taxable decimal.Decimal) bool {
	return b.Max == nil || taxable.LessThanOrEqual(*b.Max)
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// CumulativeBrackets is the annual comprehensive income table, ascending by threshold.
var CumulativeBrackets = []TaxBracket{
	{Max: bound(36000), Rate: decimal.RequireFromString("0.03"), QuickDeduction: decimal.Zero},
	{Max: bound(144000), Rate: decimal.RequireFromString("0.10"), QuickDeduction: decimal.NewFromInt(2520)},
	{Max: bound(300000), Rate: decimal.RequireFromString("0.20"), QuickDeduction: decimal.NewFromInt(16920)},
	{Max: bound(420000), Rate: decimal.RequireFromString("0.25"), QuickDeduction: decimal.NewFromInt(31920)},
	{Max: bound(660000), Rate: decimal.RequireFromString("0.30"), QuickDeduction: decimal.NewFromInt(52920)},
	{Max: bound(960000), Rate: decimal.RequireFromString("0.35"), QuickDeduction: decimal.NewFromInt(85920)},
	{Max: nil, Rate: decimal.RequireFromString("0.45"), QuickDeduction: decimal.NewFromInt(181920)},
}

// BracketFor returns the first bracket whose upper threshold is at or above taxable income.
func BracketFor(taxable decimal.Decimal) TaxBracket {
	for _, b := range CumulativeBrackets {
		if b.Contains(taxable) {
			return b
		}
	}
	return CumulativeBrackets[len(CumulativeBrackets)-1]
}

// CumulativeTax returns the tax owed on year-to-date taxable income, never below zero.
// Negative taxable income falls in the first bracket and floors to zero.
func CumulativeTax(taxable decimal.Decimal) decimal.Decimal {
	b := BracketFor(taxable)
	tax := money.NewMoneyFromDecimal(taxable.Mul(b.Rate).Sub(b.QuickDeduction))
	return tax.FloorZero().Decimal
}

// MonthlyWithholding is the tax due this month: year-to-date tax minus tax already withheld, floored at zero.
func MonthlyWithholding(totalTax, alreadyPaid decimal.Decimal) decimal.Decimal {
	due := money.NewMoneyFromDecimal(totalTax).Sub(money.NewMoneyFromDecimal(alreadyPaid))
	return money.Max(due, money.Zero()).Decimal
}

// BasicDeduction returns the year-to-date basic deduction at calendar month number monthOfYear.
func BasicDeduction(monthOfYear int) decimal.Decimal {
	return BasicDeductionPerMonth.Mul(decimal.NewFromInt(int64(monthOfYear)))
}
