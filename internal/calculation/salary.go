package calculation

import (
	"slices"

	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// SalaryTimeline resolves the nominal salary of each month from a base salary and a list of
// adjustments. Months must be fed in ascending order; the cursor only moves forward.
type SalaryTimeline struct {
	adjustments []domain.SalaryAdjustment
	cursor      int
	current     decimal.Decimal
}

// NewSalaryTimeline copies and stable-sorts adjustments by effective month.
func NewSalaryTimeline(base decimal.Decimal, adjustments []domain.SalaryAdjustment) *SalaryTimeline {
	sorted := slices.Clone(adjustments)
	slices.SortStableFunc(sorted, func(a, b domain.SalaryAdjustment) int {
		return a.Effective.Compare(b.Effective)
	})
	return &SalaryTimeline{adjustments: sorted, current: base}
}

// Advance applies every pending adjustment effective on or before month and returns the salary
// in force. When several apply at once the last one in sorted order wins.
func (st *SalaryTimeline) Advance(month dateutil.YearMonth) decimal.Decimal {
	for st.cursor < len(st.adjustments) && !st.adjustments[st.cursor].Effective.After(month) {
		st.current = st.adjustments[st.cursor].NewSalary
		st.cursor++
	}
	return st.current
}
