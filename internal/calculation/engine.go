package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	money "github.com/rpgo/iit-withholding/pkg/decimal"
	"github.com/shopspring/decimal"
)

// WithholdingCalculator produces the monthly withholding schedule of a run.
type WithholdingCalculator struct {
	Logger Logger
}

// NewWithholdingCalculator creates a calculator with a no-op logger.
func NewWithholdingCalculator() *WithholdingCalculator {
	return &WithholdingCalculator{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculator. If nil is provided, a no-op logger is used.
func (wc *WithholdingCalculator) SetLogger(l Logger) {
	if l == nil {
		wc.Logger = NopLogger{}
		return
	}
	wc.Logger = l
}

func (wc *WithholdingCalculator) logger() Logger {
	if wc.Logger == nil {
		return NopLogger{}
	}
	return wc.Logger
}

// ValidateSettings rejects inputs the calculation cannot give a meaning to.
func ValidateSettings(s *domain.Settings) error {
	if s == nil {
		return ErrNilSettings
	}
	if _, err := s.Range(); err != nil {
		return err
	}
	if s.MonthlySalary.IsNegative() {
		return fmt.Errorf("%w: monthly salary cannot be negative", ErrInvalidSettings)
	}
	for _, adj := range s.Adjustments {
		if adj.NewSalary.IsNegative() {
			return fmt.Errorf("%w: salary adjustment %s cannot be negative", ErrInvalidSettings, adj.Effective)
		}
	}
	for ym, days := range s.WorkedDays {
		if days.IsNegative() {
			return fmt.Errorf("%w: worked days for %s cannot be negative, got %s", ErrInvalidSettings, ym, days)
		}
	}
	return nil
}

// yearTotals collects the in-range totals of one calendar year at full precision.
type yearTotals struct {
	months    int
	income    decimal.Decimal
	deduction decimal.Decimal
	tax       decimal.Decimal
}

// Run walks the range once, month by month, and returns the schedule.
func (wc *WithholdingCalculator) Run(ctx context.Context, settings *domain.Settings) (*domain.Schedule, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	log := wc.logger()
	months, _ := settings.Range()

	wc.warnOutOfRange(months, settings)

	timeline := NewSalaryTimeline(settings.MonthlySalary, settings.Adjustments)
	accumulators := make(map[int]*domain.YearAccumulator)
	totals := make(map[int]*yearTotals)
	deductionRate := settings.DeductionRate()

	schedule := &domain.Schedule{
		Start:       settings.Start,
		End:         settings.End,
		GeneratedAt: nowFunc(),
		Records:     make([]domain.MonthRecord, 0, months.Len()),
	}

	for month := range months.All() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("withholding run interrupted at %s: %w", month, err)
		}

		acc, ok := accumulators[month.Year]
		if !ok {
			if month.Year == settings.Start.Year {
				acc = domain.SeededYearAccumulator(month.Year, settings.Initial)
			} else {
				acc = domain.NewYearAccumulator(month.Year)
			}
			accumulators[month.Year] = acc
			totals[month.Year] = &yearTotals{}
			log.Debugf("opened year %d (income=%s special=%s paid=%s)",
				month.Year, acc.Income, acc.SpecialDeduction, acc.TaxPaid)
		}

		salary := timeline.Advance(month)
		days, _ := settings.WorkedDaysFor(month)

		record, step := stepMonth(acc, month, salary, days, deductionRate)
		schedule.Records = append(schedule.Records, record)

		t := totals[month.Year]
		t.months++
		t.income = t.income.Add(step.actualSalary)
		t.deduction = t.deduction.Add(step.deduction)
		t.tax = t.tax.Add(step.tax)

		log.Debugf("%s salary=%s actual=%s taxable=%s tax=%s",
			month, salary, record.Salary, record.TaxableIncome, record.Tax)
	}

	for _, year := range months.Years() {
		t := totals[year]
		schedule.Years = append(schedule.Years, domain.YearSummary{
			Year:      year,
			Months:    t.months,
			Income:    t.income.Round(2),
			Deduction: t.deduction.Round(2),
			Tax:       t.tax.Round(2),
		})
	}

	log.Infof("computed %d months from %s to %s, total tax %s",
		len(schedule.Records), settings.Start, settings.End, schedule.TotalTax().StringFixed(2))
	return schedule, nil
}

// monthStep holds the un-rounded amounts of one month.
type monthStep struct {
	actualSalary decimal.Decimal
	deduction    decimal.Decimal
	taxable      decimal.Decimal
	tax          decimal.Decimal
}

// stepMonth applies one month to the year accumulator and returns the rounded record.
// Insurance and housing fund are charged on the nominal salary, not the prorated one.
func stepMonth(acc *domain.YearAccumulator, month dateutil.YearMonth, salary, workedDays, deductionRate decimal.Decimal) (domain.MonthRecord, monthStep) {
	actual := money.NewMoneyFromDecimal(salary).Prorate(workedDays, domain.StandardWorkingDays).Decimal
	deduction := salary.Mul(deductionRate)

	acc.Months++
	acc.Income = acc.Income.Add(actual)
	acc.SocialInsurance = acc.SocialInsurance.Add(deduction)

	taxable := acc.Income.
		Sub(BasicDeduction(int(month.Month))).
		Sub(acc.SocialInsurance).
		Sub(acc.SpecialDeduction)

	bracket := BracketFor(taxable)
	total := CumulativeTax(taxable)
	tax := MonthlyWithholding(total, acc.TaxPaid)
	acc.TaxPaid = acc.TaxPaid.Add(tax)

	record := domain.MonthRecord{
		Month:            month,
		Salary:           actual.Round(2),
		MonthlyDeduction: deduction.Round(2),
		CumulativeIncome: acc.Income.Round(2),
		TaxableIncome:    taxable.Round(2),
		Tax:              tax.Round(2),
		CumulativeTax:    acc.TaxPaid.Round(2),
		Rate:             bracket.Rate,
		QuickDeduction:   bracket.QuickDeduction,
	}
	return record, monthStep{actualSalary: actual, deduction: deduction, taxable: taxable, tax: tax}
}

func (wc *WithholdingCalculator) warnOutOfRange(months dateutil.MonthRange, settings *domain.Settings) {
	log := wc.logger()
	for _, adj := range settings.Adjustments {
		if adj.Effective.After(months.End) {
			log.Warnf("salary adjustment effective %s is after the end of the range and never applies", adj.Effective)
		}
	}
	for ym, days := range settings.WorkedDays {
		if !months.Contains(ym) {
			log.Warnf("worked days override for %s is outside the range and is ignored", ym)
			continue
		}
		if days.GreaterThan(domain.StandardWorkingDays) {
			log.Warnf("worked days for %s (%s) exceed %s; paid salary is above the nominal salary",
				ym, days, domain.StandardWorkingDays)
		}
	}
}
