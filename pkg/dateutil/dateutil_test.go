package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseYearMonth covers strict "YYYY-MM" parsing
func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    YearMonth
		wantErr bool
	}{
		{name: "Plain month", input: "2024-03", want: YearMonth{2024, time.March}},
		{name: "December", input: "2024-12", want: YearMonth{2024, time.December}},
		{name: "Surrounding spaces", input: " 2025-01 ", want: YearMonth{2025, time.January}},
		{name: "Month 13", input: "2024-13", wantErr: true},
		{name: "Single digit month", input: "2024-3", wantErr: true},
		{name: "Full date", input: "2024-03-01", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Garbage", input: "march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYearMonth(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidYearMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, MustParseYearMonth(got.String()), "String() must round-trip")
		})
	}
}

func TestYearMonthNext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Mid year", "2024-06", "2024-07"},
		{"November", "2024-11", "2024-12"},
		{"December wraps", "2024-12", "2025-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseYearMonth(tt.in).Next().String())
		})
	}
}

func TestYearMonthCompare(t *testing.T) {
	a := MustParseYearMonth("2024-05")
	b := MustParseYearMonth("2024-06")
	c := MustParseYearMonth("2025-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, b.Before(c))
	assert.Equal(t, 0, a.Compare(MustParseYearMonth("2024-05")))
	assert.False(t, a.After(a))
	assert.False(t, a.Before(a))
}

func TestYearMonthAddMonths(t *testing.T) {
	ym := MustParseYearMonth("2024-11")
	assert.Equal(t, "2025-02", ym.AddMonths(3).String())
	assert.Equal(t, "2023-12", ym.AddMonths(-11).String())
	assert.Equal(t, ym, ym.AddMonths(0))
}

func TestYearMonthText(t *testing.T) {
	var ym YearMonth
	require.NoError(t, ym.UnmarshalText([]byte("2026-10")))
	assert.Equal(t, YearMonth{2026, time.October}, ym)

	text, err := ym.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2026-10", string(text))

	assert.Error(t, ym.UnmarshalText([]byte("2026/10")))
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"Same month", "2024-01", "2024-01", 1},
		{"Quarter", "2024-01", "2024-03", 3},
		{"Across year", "2024-11", "2025-02", 4},
		{"Two full years", "2024-01", "2025-12", 24},
		{"Reversed", "2024-05", "2024-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(MustParseYearMonth(tt.start), MustParseYearMonth(tt.end)))
		})
	}
}

// TestMonthRangeEnumeration checks count, ordering and year rollover of the enumerator
func TestMonthRangeEnumeration(t *testing.T) {
	pairs := [][2]string{
		{"2024-01", "2024-01"},
		{"2024-01", "2024-12"},
		{"2024-11", "2025-01"},
		{"2023-07", "2026-02"},
	}

	for _, p := range pairs {
		t.Run(p[0]+"_"+p[1], func(t *testing.T) {
			r, err := NewMonthRange(MustParseYearMonth(p[0]), MustParseYearMonth(p[1]))
			require.NoError(t, err)

			months := r.Months()
			require.Len(t, months, r.Len())
			assert.Equal(t, r.Start, months[0])
			assert.Equal(t, r.End, months[len(months)-1])
			for i := 1; i < len(months); i++ {
				assert.True(t, months[i-1].Before(months[i]), "months must strictly increase")
				assert.Equal(t, months[i-1].Next(), months[i], "months must advance by exactly one")
			}
		})
	}
}

func TestMonthRangeRollover(t *testing.T) {
	r, err := NewMonthRange(MustParseYearMonth("2024-11"), MustParseYearMonth("2025-01"))
	require.NoError(t, err)

	var labels []string
	for ym := range r.All() {
		labels = append(labels, ym.String())
	}
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01"}, labels)
	assert.Equal(t, []int{2024, 2025}, r.Years())
}

func TestMonthRangeRestartable(t *testing.T) {
	r, err := NewMonthRange(MustParseYearMonth("2024-01"), MustParseYearMonth("2024-06"))
	require.NoError(t, err)

	seq := r.All()
	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)

	var again []YearMonth
	for ym := range seq {
		again = append(again, ym)
	}
	assert.Len(t, again, 6, "a second walk starts from the beginning")
}

func TestNewMonthRangeRejectsReversed(t *testing.T) {
	_, err := NewMonthRange(MustParseYearMonth("2024-05"), MustParseYearMonth("2024-04"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestMonthRangeContains(t *testing.T) {
	r, err := NewMonthRange(MustParseYearMonth("2024-03"), MustParseYearMonth("2024-09"))
	require.NoError(t, err)

	assert.True(t, r.Contains(MustParseYearMonth("2024-03")))
	assert.True(t, r.Contains(MustParseYearMonth("2024-09")))
	assert.False(t, r.Contains(MustParseYearMonth("2024-02")))
	assert.False(t, r.Contains(MustParseYearMonth("2024-10")))
}
