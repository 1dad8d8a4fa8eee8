package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// DateRange is an inclusive window of calendar dates. Zero values mean unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// HasStart reports whether the lower bound is set.
func (r DateRange) HasStart() bool { return !r.Start.IsZero() }

// HasEnd reports whether the upper bound is set.
func (r DateRange) HasEnd() bool { return !r.End.IsZero() }

// Contains reports whether the calendar date d lies inside the window.
func (r DateRange) Contains(d time.Time) bool {
	if r.HasStart() && d.Before(r.Start) {
		return false
	}
	if r.HasEnd() && d.After(r.End) {
		return false
	}
	return true
}

// DateOf converts an instant to its calendar date in loc.
// The result is midnight UTC of that date so dates compare with Before/After/Equal.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bar is one OHLCV observation for one trading session.
// Price fields are null when upstream reported no value (halted sessions).
type Bar struct {
	Date     time.Time
	Open     decimal.NullDecimal
	High     decimal.NullDecimal
	Low      decimal.NullDecimal
	Close    decimal.NullDecimal
	AdjClose decimal.NullDecimal
	Volume   *int64
}

// ActionType distinguishes corporate actions.
type ActionType string

const (
	ActionDividend ActionType = "dividend"
	ActionSplit    ActionType = "split"
)

// CorporateAction is a dividend (Value = cash amount) or a split (Value = ratio, 2-for-1 = 2).
type CorporateAction struct {
	Type  ActionType
	Date  time.Time
	Value decimal.Decimal
}

// InstrumentInfo is a sparse set of known metadata fields.
type InstrumentInfo map[string]any

// Universe is a named static list of symbols.
type Universe struct {
	Market  string
	Symbols []string
}
