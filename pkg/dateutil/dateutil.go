package dateutil

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// YearMonthLayout is the textual form of a YearMonth ("2024-03").
const YearMonthLayout = "2006-01"

var (
	// ErrInvalidYearMonth is returned when a string is not a valid "YYYY-MM" label.
	ErrInvalidYearMonth = errors.New("invalid year-month")

	// ErrInvalidRange is returned when a month range starts after it ends.
	ErrInvalidRange = errors.New("invalid month range")
)

// YearMonth identifies a calendar month without a day component.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a YearMonth, normalizing out-of-range months the way time.Date does.
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a strict "YYYY-MM" label.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(YearMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseYearMonth is like ParseYearMonth but panics on error. Intended for tests and constants.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

// String returns the "YYYY-MM" label.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Next returns the following calendar month, wrapping December into January of the next year.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// AddMonths moves ym by n months (n may be negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(n))
}

// Compare returns -1, 0 or +1 depending on whether ym is before, equal to or after other.
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	}
	return 0
}

// Before reports whether ym is strictly before other.
func (ym YearMonth) Before(other YearMonth) bool { return ym.Compare(other) < 0 }

// After reports whether ym is strictly after other.
func (ym YearMonth) After(other YearMonth) bool { return ym.Compare(other) > 0 }

// Time returns midnight UTC on the first day of the month.
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// MarshalText implements encoding.TextMarshaler.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// MonthsBetween counts the months from start to end inclusive. It returns 0 when start is after end.
func MonthsBetween(start, end YearMonth) int {
	n := (end.Year-start.Year)*12 + int(end.Month) - int(start.Month) + 1
	if n < 0 {
		return 0
	}
	return n
}

// MonthRange is an inclusive span of calendar months.
type MonthRange struct {
	Start YearMonth
	End   YearMonth
}

// NewMonthRange validates that start does not come after end.
func NewMonthRange(start, end YearMonth) (MonthRange, error) {
	if start.After(end) {
		return MonthRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return MonthRange{Start: start, End: end}, nil
}

// Len returns the number of months in the range.
func (r MonthRange) Len() int {
	return MonthsBetween(r.Start, r.End)
}

// Contains reports whether ym falls inside the range.
func (r MonthRange) Contains(ym YearMonth) bool {
	return !ym.Before(r.Start) && !ym.After(r.End)
}

// All yields every month of the range in ascending order. Each call starts a fresh walk.
func (r MonthRange) All() iter.Seq[YearMonth] {
	return func(yield func(YearMonth) bool) {
		for ym := r.Start; !ym.After(r.End); ym = ym.Next() {
			if !yield(ym) {
				return
			}
		}
	}
}

// Months materializes the range.
func (r MonthRange) Months() []YearMonth {
	months := make([]YearMonth, 0, r.Len())
	for ym := range r.All() {
		months = append(months, ym)
	}
	return months
}

// Years returns the distinct calendar years touched by the range, ascending.
func (r MonthRange) Years() []int {
	if r.Start.After(r.End) {
		return nil
	}
	years := make([]int, 0, r.End.Year-r.Start.Year+1)
	for y := r.Start.Year; y <= r.End.Year; y++ {
		years = append(years, y)
	}
	return years
}
