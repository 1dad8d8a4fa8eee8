package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawBar is one upstream row before normalization.
type RawBar struct {
	Timestamp int64 // epoch seconds
	Open      decimal.NullDecimal
	High      decimal.NullDecimal
	Low       decimal.NullDecimal
	Close     decimal.NullDecimal
	AdjClose  decimal.NullDecimal
	Volume    *int64
}

// AllPricesNull reports whether the row is a non-trading placeholder.
func (b RawBar) AllPricesNull() bool {
	return !b.Open.Valid && !b.High.Valid && !b.Low.Valid && !b.Close.Valid
}

// RawAction is one upstream corporate action event. Value is the dividend
// amount or the split ratio.
type RawAction struct {
	Timestamp int64
	Value     decimal.Decimal
}

// RawActions is the canonical upstream list of one action type.
type RawActions struct {
	Type     ActionType
	Location *time.Location
	Items    []RawAction
}

// RawEvents holds the actions a chart payload embedded alongside its bars.
type RawEvents struct {
	Dividends []RawAction
	Splits    []RawAction
}

// RawSeries is the canonical bar payload every upstream shape is parsed into.
type RawSeries struct {
	Symbol   string
	Currency string
	Location *time.Location
	Rows     []RawBar
	// Events is nil when the source does not deliver actions with the bars.
	Events *RawEvents
}

// Actions returns the embedded events of type t as RawActions.
func (s *RawSeries) Actions(t ActionType) *RawActions {
	out := &RawActions{Type: t, Location: s.Location}
	if s.Events == nil {
		return out
	}
	switch t {
	case ActionDividend:
		out.Items = s.Events.Dividends
	case ActionSplit:
		out.Items = s.Events.Splits
	}
	return out
}

// RawInfo is upstream instrument metadata keyed by upstream field name
// (longName, currency, quoteType, marketCap, sector...).
type RawInfo map[string]any
