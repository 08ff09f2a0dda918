package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/shopspring/decimal"
)

// Labels are the human-readable headers of the seven report columns, in column order:
// month, salary, monthly deduction, cumulative income, taxable income, monthly tax, cumulative tax.
type Labels [7]string

var localeLabels = map[string]Labels{
	"en": {"Month", "Salary", "Insurance & Housing Fund", "YTD Income", "YTD Taxable Income", "Tax This Month", "YTD Tax Withheld"},
	"zh": {"Month", "Salary", "三险一金扣除", "本年度收入", "本年度计税收入", "当月税款", "本年度累积申报税额"},
}

// LabelsFor returns the header labels of locale. An empty locale means English.
func LabelsFor(locale string) (Labels, error) {
	l := strings.ToLower(strings.TrimSpace(locale))
	if l == "" {
		l = "en"
	}
	labels, ok := localeLabels[l]
	if !ok {
		return Labels{}, fmt.Errorf("unsupported locale %q (use en or zh)", locale)
	}
	return labels, nil
}

// amounts returns the six money columns of r in column order.
func amounts(r domain.MonthRecord) [6]decimal.Decimal {
	return [6]decimal.Decimal{r.Salary, r.MonthlyDeduction, r.CumulativeIncome, r.TaxableIncome, r.Tax, r.CumulativeTax}
}

// recordRow renders r as strings with two decimals.
func recordRow(r domain.MonthRecord) []string {
	row := make([]string, 0, len(Labels{}))
	row = append(row, r.Month.String())
	for _, a := range amounts(r) {
		row = append(row, FormatAmount(a))
	}
	return row
}
