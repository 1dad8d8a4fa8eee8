package usecase

import (
	"sort"
	"time"

	"MarketGate/internal/domain/models"

	"github.com/shopspring/decimal"
)

// NormalizeBars converts a raw series into the public bar sequence: local
// trading dates, ascending and unique, optionally adjusted for the splits and
// dividends carried in raw.Events, then filtered to rng.
func NormalizeBars(raw *models.RawSeries, rng models.DateRange, adjust bool) []models.Bar {
	bars := []models.Bar{}
	if raw == nil {
		return bars
	}
	loc := raw.Location

	index := make(map[time.Time]int, len(raw.Rows))
	for _, r := range raw.Rows {
		if r.AllPricesNull() {
			continue
		}
		b := models.Bar{
			Date:     models.DateOf(time.Unix(r.Timestamp, 0), loc),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjClose,
			Volume:   r.Volume,
		}
		if i, ok := index[b.Date]; ok {
			bars[i] = b
			continue
		}
		index[b.Date] = len(bars)
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if adjust && raw.Events != nil {
		applyAdjustments(bars, eventsOf(raw.Events, loc))
	}

	out := bars[:0]
	for _, b := range bars {
		if rng.Contains(b.Date) {
			out = append(out, b)
		}
	}
	return out
}

// NormalizeActions converts raw events into dated actions inside rng,
// ascending, one per date. Non-positive values are dropped.
func NormalizeActions(raw *models.RawActions, rng models.DateRange) []models.CorporateAction {
	out := []models.CorporateAction{}
	if raw == nil {
		return out
	}

	index := map[time.Time]int{}
	for _, it := range raw.Items {
		if !it.Value.IsPositive() {
			continue
		}
		a := models.CorporateAction{
			Type:  raw.Type,
			Date:  models.DateOf(time.Unix(it.Timestamp, 0), raw.Location),
			Value: it.Value,
		}
		if !rng.Contains(a.Date) {
			continue
		}
		if i, ok := index[a.Date]; ok {
			out[i] = a
			continue
		}
		index[a.Date] = len(out)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// infoFields maps public info keys to upstream field names in priority order.
var infoFields = []struct {
	key     string
	sources []string
}{
	{"name", []string{"longName", "shortName"}},
	{"currency", []string{"currency"}},
	{"exchange", []string{"exchangeName", "fullExchangeName", "exchange"}},
	{"instrument_type", []string{"quoteType"}},
	{"market_cap", []string{"marketCap"}},
	{"sector", []string{"sector"}},
	{"industry", []string{"industry"}},
}

// NormalizeInfo picks the known public fields out of raw. Absent and empty
// upstream values are omitted.
func NormalizeInfo(raw models.RawInfo) models.InstrumentInfo {
	info := models.InstrumentInfo{}
	for _, f := range infoFields {
		for _, src := range f.sources {
			v, ok := raw[src]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			info[f.key] = v
			break
		}
	}
	return info
}

type datedAction struct {
	date  time.Time
	typ   models.ActionType
	value decimal.Decimal
}

// eventsOf flattens events into newest-first order. On equal dates a dividend
// sorts ahead of a split so a same-day split does not count as preceding it.
func eventsOf(ev *models.RawEvents, loc *time.Location) []datedAction {
	var out []datedAction
	add := func(items []models.RawAction, t models.ActionType) {
		for _, it := range items {
			if !it.Value.IsPositive() {
				continue
			}
			out = append(out, datedAction{
				date:  models.DateOf(time.Unix(it.Timestamp, 0), loc),
				typ:   t,
				value: it.Value,
			})
		}
	}
	add(ev.Dividends, models.ActionDividend)
	add(ev.Splits, models.ActionSplit)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].date.Equal(out[j].date) {
			return out[i].date.After(out[j].date)
		}
		return out[i].typ == models.ActionDividend && out[j].typ == models.ActionSplit
	})
	return out
}

type pendingDividend struct {
	amount decimal.Decimal
	// splits accumulated after the ex-date when the dividend was reached
	splitsAfter decimal.Decimal
}

// applyAdjustments walks bars newest to oldest, compounding the factor of
// every action dated after the current bar. bars must be ascending.
func applyAdjustments(bars []models.Bar, actions []datedAction) {
	one := decimal.NewFromInt(1)
	splitCum, divCum := one, one
	var pending []pendingDividend
	next := 0

	for i := len(bars) - 1; i >= 0; i-- {
		b := &bars[i]

		for next < len(actions) && actions[next].date.After(b.Date) {
			a := actions[next]
			next++
			switch a.typ {
			case models.ActionSplit:
				splitCum = splitCum.Mul(a.value)
			case models.ActionDividend:
				pending = append(pending, pendingDividend{amount: a.value, splitsAfter: splitCum})
			}
		}

		if len(pending) > 0 && b.Close.Valid && b.Close.Decimal.IsPositive() {
			for _, p := range pending {
				between := splitCum.Div(p.splitsAfter)
				ref := b.Close.Decimal.Div(between)
				factor := one.Sub(p.amount.Div(ref))
				if factor.IsPositive() {
					divCum = divCum.Mul(factor)
				}
			}
			pending = pending[:0]
		}

		if splitCum.Equal(one) && divCum.Equal(one) {
			continue
		}
		b.Open = scale(b.Open, splitCum, divCum)
		b.High = scale(b.High, splitCum, divCum)
		b.Low = scale(b.Low, splitCum, divCum)
		b.Close = scale(b.Close, splitCum, divCum)
		if b.Volume != nil && !splitCum.Equal(one) {
			v := decimal.NewFromInt(*b.Volume).Mul(splitCum).Round(0).IntPart()
			b.Volume = &v
		}
	}
}

func scale(p decimal.NullDecimal, splitCum, divCum decimal.Decimal) decimal.NullDecimal {
	if !p.Valid {
		return p
	}
	return decimal.NewNullDecimal(p.Decimal.Div(splitCum).Mul(divCum))
}
