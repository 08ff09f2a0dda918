package domain

import (
	"testing"

	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsHelpers(t *testing.T) {
	feb := dateutil.MustParseYearMonth("2024-02")
	s := &Settings{
		Start: dateutil.MustParseYearMonth("2024-01"),
		End:   dateutil.MustParseYearMonth("2024-06"),
		Insurance: InsuranceRates{
			Pension:      decimal.RequireFromString("0.08"),
			Unemployment: decimal.RequireFromString("0.005"),
			Medical:      decimal.RequireFromString("0.02"),
		},
		HousingFundRate: decimal.RequireFromString("0.07"),
		WorkedDays:      map[dateutil.YearMonth]decimal.Decimal{feb: decimal.NewFromInt(10)},
	}

	assert.True(t, s.Insurance.Total().Equal(decimal.RequireFromString("0.105")))
	assert.True(t, s.DeductionRate().Equal(decimal.RequireFromString("0.175")))

	months, err := s.Range()
	require.NoError(t, err)
	assert.Equal(t, 6, months.Len())

	days, ok := s.WorkedDaysFor(feb)
	assert.True(t, ok)
	assert.True(t, days.Equal(decimal.NewFromInt(10)))

	days, ok = s.WorkedDaysFor(feb.Next())
	assert.False(t, ok)
	assert.True(t, days.Equal(StandardWorkingDays))

	s.End = dateutil.MustParseYearMonth("2023-12")
	_, err = s.Range()
	assert.ErrorIs(t, err, dateutil.ErrInvalidRange)
}

func TestSeededYearAccumulator(t *testing.T) {
	acc := SeededYearAccumulator(2024, InitialAccumulated{
		Income:           decimal.NewFromInt(100000),
		SpecialDeduction: decimal.NewFromInt(20000),
		TaxPaid:          decimal.NewFromInt(3000),
	})
	assert.Equal(t, 2024, acc.Year)
	assert.Zero(t, acc.Months)
	assert.True(t, acc.Income.Equal(decimal.NewFromInt(100000)))
	assert.True(t, acc.SocialInsurance.IsZero())
	assert.True(t, acc.TaxPaid.Equal(decimal.NewFromInt(3000)))

	fresh := NewYearAccumulator(2025)
	assert.True(t, fresh.Income.IsZero())
	assert.True(t, fresh.SpecialDeduction.IsZero())
}

func TestScheduleLookups(t *testing.T) {
	jan := dateutil.MustParseYearMonth("2024-01")
	s := &Schedule{Records: []MonthRecord{
		{Month: jan, Tax: decimal.RequireFromString("592.5")},
		{Month: jan.Next(), Tax: decimal.RequireFromString("837.5")},
	}}
	assert.True(t, s.TotalTax().Equal(decimal.NewFromInt(1430)))

	r, ok := s.RecordFor(jan.Next())
	require.True(t, ok)
	assert.True(t, r.Tax.Equal(decimal.RequireFromString("837.5")))

	_, ok = s.RecordFor(jan.AddMonths(5))
	assert.False(t, ok)
}
