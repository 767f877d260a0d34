// Package timegetter contains the default [domain.TimeGetter] implementation.
package timegetter

import (
	"time"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// TimeGetter implements [domain.TimeGetter] using the system clock.
type TimeGetter struct{}

// NewTimeGetter returns a new implementation of domain.TimeGetter.
func NewTimeGetter() domain.TimeGetter {
	return &TimeGetter{}
}

// GetTime implements [domain.TimeGetter].
func (t *TimeGetter) GetTime() time.Time {
	return time.Now()
}

// Func adapts an ordinary function to [domain.TimeGetter], which is handy for
// fixed or stepping clocks.
type Func func() time.Time

// GetTime implements [domain.TimeGetter].
func (f Func) GetTime() time.Time {
	return f()
}
