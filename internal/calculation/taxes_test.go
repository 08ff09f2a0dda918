package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// TestCumulativeTax tests the progressive table on year-to-date taxable income
func TestCumulativeTax(t *testing.T) {
	tests := []struct {
		name        string
		taxable     string
		expectedTax string
		description string
	}{
		{name: "Negative taxable income", taxable: "-12000", expectedTax: "0.00", description: "Deductions exceed income"},
		{name: "Zero", taxable: "0", expectedTax: "0.00", description: "Nothing to tax"},
		{name: "First bracket", taxable: "19750", expectedTax: "592.50", description: "19750 x 3%"},
		{name: "First bracket ceiling", taxable: "36000", expectedTax: "1080.00", description: "36000 x 3%"},
		{name: "Just above first ceiling", taxable: "36000.01", expectedTax: "1080.00", description: "36000.01 x 10% - 2520"},
		{name: "Second bracket", taxable: "39500", expectedTax: "1430.00", description: "39500 x 10% - 2520"},
		{name: "Second bracket ceiling", taxable: "144000", expectedTax: "11880.00", description: "144000 x 10% - 2520"},
		{name: "Third bracket", taxable: "200000", expectedTax: "23080.00", description: "200000 x 20% - 16920"},
		{name: "Fourth bracket ceiling", taxable: "420000", expectedTax: "73080.00", description: "420000 x 25% - 31920"},
		{name: "Fifth bracket", taxable: "500000", expectedTax: "97080.00", description: "500000 x 30% - 52920"},
		{name: "Sixth bracket ceiling", taxable: "960000", expectedTax: "250080.00", description: "960000 x 35% - 85920"},
		{name: "Top bracket", taxable: "1000000", expectedTax: "268080.00", description: "1000000 x 45% - 181920"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := CumulativeTax(dec(tt.taxable))
			assert.Equal(t, tt.expectedTax, tax.StringFixed(2), tt.description)
		})
	}
}

// TestBracketContinuity checks that tax does not jump at any threshold
func TestBracketContinuity(t *testing.T) {
	for _, b := range CumulativeBrackets {
		if b.Max == nil {
			continue
		}
		at := CumulativeTax(*b.Max)
		above := CumulativeTax(b.Max.Add(dec("0.01")))
		diff := above.Sub(at)
		assert.True(t, diff.GreaterThanOrEqual(decimal.Zero), "tax decreased above %s", b.Max)
		assert.True(t, diff.LessThan(dec("0.01")), "tax jumped by %s above %s", diff, b.Max)
	}
}

func TestBracketFor(t *testing.T) {
	cases := []struct {
		taxable   string
		wantRate  string
		wantQuick int64
	}{
		{"-1", "0.03", 0},
		{"36000", "0.03", 0},
		{"36000.01", "0.10", 2520},
		{"144000", "0.10", 2520},
		{"144000.01", "0.20", 16920},
		{"300000", "0.20", 16920},
		{"300000.01", "0.25", 31920},
		{"420000", "0.25", 31920},
		{"420000.01", "0.30", 52920},
		{"660000", "0.30", 52920},
		{"660000.01", "0.35", 85920},
		{"960000", "0.35", 85920},
		{"960000.01", "0.45", 181920},
	}
	for _, c := range cases {
		t.Run(c.taxable, func(t *testing.T) {
			b := BracketFor(dec(c.taxable))
			assert.True(t, b.Rate.Equal(dec(c.wantRate)), "rate=%s", b.Rate)
			assert.True(t, b.QuickDeduction.Equal(decimal.NewFromInt(c.wantQuick)), "quick=%s", b.QuickDeduction)
		})
	}
}

func TestMonthlyWithholding(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{"Nothing withheld yet", "592.50", "0", "592.50"},
		{"Difference owed", "1430", "592.50", "837.50"},
		{"Already over-withheld", "2455", "3000", "0.00"},
		{"Exactly settled", "1000", "1000", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthlyWithholding(dec(tt.total), dec(tt.paid)).StringFixed(2))
		})
	}
}

func TestBasicDeduction(t *testing.T) {
	assert.Equal(t, "5000", BasicDeduction(1).String())
	assert.Equal(t, "30000", BasicDeduction(6).String())
	assert.Equal(t, "60000", BasicDeduction(12).String())
}
