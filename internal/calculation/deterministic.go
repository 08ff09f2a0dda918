package calculation

import "time"

// nowFunc stamps generated schedules (override in tests for determinism).
var nowFunc = func() time.Time { return time.Now().UTC() }

// SetNowFunc overrides the time provider (use only in tests). It returns a restore function.
func SetNowFunc(f func() time.Time) (restore func()) {
	prev := nowFunc
	nowFunc = f
	return func() { nowFunc = prev }
}
