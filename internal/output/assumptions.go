package output

import (
	"fmt"

	"github.com/rpgo/iit-withholding/internal/calculation"
	"github.com/rpgo/iit-withholding/internal/domain"
)

// DefaultAssumptions lists the withholding rules rendered in detailed outputs.
var DefaultAssumptions = []string{
	fmt.Sprintf("Basic deduction: %s per calendar month of the year, year to date", FormatAmount(calculation.BasicDeductionPerMonth)),
	fmt.Sprintf("Paid salary is prorated over %s standard working days per month", domain.StandardWorkingDays.String()),
	"Insurance and housing fund are charged on the nominal salary, including months with leave",
	"Year-to-date totals restart every January; declared amounts seed only the first year",
	"Tax table: cumulative withholding brackets from 3% to 45%, quick deduction method",
	"Amounts are rounded to cents for display only",
}
