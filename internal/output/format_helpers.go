package output

import (
	"strconv"

	money "github.com/rpgo/iit-withholding/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a plain amount with 2 decimals, as used in table cells.
func FormatAmount(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).String() }

// FormatCurrency renders an amount with the yuan sign and thousands separators, as used in totals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

func intToString(v int) string { return strconv.Itoa(v) }
