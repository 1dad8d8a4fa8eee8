package yahoo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketGate/internal/domain/models"

	"github.com/shopspring/decimal"
)

// chartShape tags which upstream representation a chart body uses.
type chartShape int

const (
	shapeUnknown chartShape = iota
	// shapeColumnar: chart.result[0].timestamp[] with parallel indicator arrays.
	shapeColumnar
	// shapeFieldMap: {"open": {"<epoch>": v}, "close": {...}, ...} as emitted by
	// dataframe-style proxies.
	shapeFieldMap
)

func detectShape(top map[string]json.RawMessage) chartShape {
	if _, ok := top["chart"]; ok {
		return shapeColumnar
	}
	for k := range top {
		switch strings.ToLower(k) {
		case "open", "close", "high", "low":
			return shapeFieldMap
		}
	}
	return shapeUnknown
}

// parseChart turns any supported chart body into the canonical RawSeries.
// status is the HTTP status the body arrived with.
func parseChart(symbol string, status int, body []byte) (*models.RawSeries, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, models.UpstreamError(status, "malformed chart payload").WithError(err)
	}

	switch detectShape(top) {
	case shapeColumnar:
		return parseColumnar(symbol, status, top["chart"])
	case shapeFieldMap:
		return parseFieldMap(symbol, status, body)
	default:
		return nil, models.Internal(fmt.Errorf("chart %s: unrecognized payload shape", symbol))
	}
}

type chartMeta struct {
	Currency             string `json:"currency"`
	Symbol               string `json:"symbol"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	GMTOffset            *int   `json:"gmtoffset"`
}

type quoteColumns struct {
	Open   []decimal.NullDecimal `json:"open"`
	High   []decimal.NullDecimal `json:"high"`
	Low    []decimal.NullDecimal `json:"low"`
	Close  []decimal.NullDecimal `json:"close"`
	Volume []*int64              `json:"volume"`
}

type chartDividend struct {
	Amount decimal.Decimal `json:"amount"`
	Date   int64           `json:"date"`
}

type chartSplit struct {
	Date        int64           `json:"date"`
	Numerator   decimal.Decimal `json:"numerator"`
	Denominator decimal.Decimal `json:"denominator"`
}

type chartResult struct {
	Meta      chartMeta `json:"meta"`
	Timestamp []int64   `json:"timestamp"`
	Events    *struct {
		Dividends map[string]chartDividend `json:"dividends"`
		Splits    map[string]chartSplit    `json:"splits"`
	} `json:"events"`
	Indicators *struct {
		Quote    []quoteColumns `json:"quote"`
		AdjClose []struct {
			AdjClose []decimal.NullDecimal `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartBody struct {
	Result []chartResult `json:"result"`
	Error  *apiError     `json:"error"`
}

func parseColumnar(symbol string, status int, raw json.RawMessage) (*models.RawSeries, error) {
	var cb chartBody
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, models.UpstreamError(status, "malformed chart payload").WithError(err)
	}
	if cb.Error != nil && cb.Error.Code != "" {
		if cb.Error.notFound() {
			return nil, models.SymbolNotFound(symbol)
		}
		return nil, models.UpstreamError(status, cb.Error.message())
	}
	if len(cb.Result) == 0 {
		return nil, models.SymbolNotFound(symbol)
	}

	res := cb.Result[0]
	series := &models.RawSeries{
		Symbol:   symbol,
		Currency: res.Meta.Currency,
		Location: resolveLocation(res.Meta.ExchangeTimezoneName, res.Meta.GMTOffset),
		Events:   &models.RawEvents{},
	}

	if n := len(res.Timestamp); n > 0 {
		if res.Indicators == nil || len(res.Indicators.Quote) == 0 {
			return nil, models.Internal(fmt.Errorf("chart %s: %d timestamps without quote indicators", symbol, n))
		}
		q := res.Indicators.Quote[0]
		var adj []decimal.NullDecimal
		if len(res.Indicators.AdjClose) > 0 {
			adj = res.Indicators.AdjClose[0].AdjClose
		}
		for name, l := range map[string]int{
			"open": len(q.Open), "high": len(q.High), "low": len(q.Low),
			"close": len(q.Close), "volume": len(q.Volume), "adjclose": len(adj),
		} {
			if l != 0 && l != n {
				return nil, models.Internal(fmt.Errorf("chart %s: column %s has %d values for %d timestamps", symbol, name, l, n))
			}
		}

		series.Rows = make([]models.RawBar, n)
		for i, ts := range res.Timestamp {
			series.Rows[i] = models.RawBar{
				Timestamp: ts,
				Open:      at(q.Open, i),
				High:      at(q.High, i),
				Low:       at(q.Low, i),
				Close:     at(q.Close, i),
				AdjClose:  at(adj, i),
				Volume:    atVolume(q.Volume, i),
			}
		}
	}

	if res.Events != nil {
		for _, d := range res.Events.Dividends {
			series.Events.Dividends = append(series.Events.Dividends, models.RawAction{Timestamp: d.Date, Value: d.Amount})
		}
		for _, s := range res.Events.Splits {
			var ratio decimal.Decimal
			if !s.Denominator.IsZero() {
				ratio = s.Numerator.Div(s.Denominator)
			}
			series.Events.Splits = append(series.Events.Splits, models.RawAction{Timestamp: s.Date, Value: ratio})
		}
		sortActions(series.Events.Dividends)
		sortActions(series.Events.Splits)
	}

	return series, nil
}

type fieldMapPayload struct {
	Timezone  string                         `json:"timezone"`
	Currency  string                         `json:"currency"`
	Open      map[string]decimal.NullDecimal `json:"open"`
	High      map[string]decimal.NullDecimal `json:"high"`
	Low       map[string]decimal.NullDecimal `json:"low"`
	Close     map[string]decimal.NullDecimal `json:"close"`
	AdjClose  map[string]decimal.NullDecimal `json:"adj_close"`
	Volume    map[string]*int64              `json:"volume"`
	Dividends map[string]decimal.Decimal     `json:"dividends"`
	Splits    map[string]decimal.Decimal     `json:"splits"`
	// Table exports title the column instead.
	AdjCloseTitle map[string]decimal.NullDecimal `json:"Adj Close"`
}

func parseFieldMap(symbol string, status int, body []byte) (*models.RawSeries, error) {
	var p fieldMapPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, models.UpstreamError(status, "malformed chart payload").WithError(err)
	}

	rows := map[int64]*models.RawBar{}
	row := func(key string) (*models.RawBar, error) {
		ts, err := parseEpochKey(key)
		if err != nil {
			return nil, models.Internal(fmt.Errorf("chart %s: %w", symbol, err))
		}
		r, ok := rows[ts]
		if !ok {
			r = &models.RawBar{Timestamp: ts}
			rows[ts] = r
		}
		return r, nil
	}

	columns := []struct {
		values map[string]decimal.NullDecimal
		set    func(*models.RawBar, decimal.NullDecimal)
	}{
		{p.Open, func(r *models.RawBar, v decimal.NullDecimal) { r.Open = v }},
		{p.High, func(r *models.RawBar, v decimal.NullDecimal) { r.High = v }},
		{p.Low, func(r *models.RawBar, v decimal.NullDecimal) { r.Low = v }},
		{p.Close, func(r *models.RawBar, v decimal.NullDecimal) { r.Close = v }},
		{p.AdjCloseTitle, func(r *models.RawBar, v decimal.NullDecimal) { r.AdjClose = v }},
		{p.AdjClose, func(r *models.RawBar, v decimal.NullDecimal) { r.AdjClose = v }},
	}
	for _, col := range columns {
		for k, v := range col.values {
			r, err := row(k)
			if err != nil {
				return nil, err
			}
			col.set(r, v)
		}
	}
	for k, v := range p.Volume {
		r, err := row(k)
		if err != nil {
			return nil, err
		}
		r.Volume = v
	}

	series := &models.RawSeries{
		Symbol:   symbol,
		Currency: p.Currency,
		Location: resolveLocation(p.Timezone, nil),
		Rows:     make([]models.RawBar, 0, len(rows)),
		Events:   &models.RawEvents{},
	}
	for _, r := range rows {
		series.Rows = append(series.Rows, *r)
	}
	sort.Slice(series.Rows, func(i, j int) bool { return series.Rows[i].Timestamp < series.Rows[j].Timestamp })

	for k, v := range p.Dividends {
		ts, err := parseEpochKey(k)
		if err != nil {
			return nil, models.Internal(fmt.Errorf("chart %s: %w", symbol, err))
		}
		series.Events.Dividends = append(series.Events.Dividends, models.RawAction{Timestamp: ts, Value: v})
	}
	for k, v := range p.Splits {
		ts, err := parseEpochKey(k)
		if err != nil {
			return nil, models.Internal(fmt.Errorf("chart %s: %w", symbol, err))
		}
		series.Events.Splits = append(series.Events.Splits, models.RawAction{Timestamp: ts, Value: v})
	}
	sortActions(series.Events.Dividends)
	sortActions(series.Events.Splits)

	return series, nil
}

// parseEpochKey accepts epoch seconds or milliseconds.
func parseEpochKey(k string) (int64, error) {
	v, err := strconv.ParseInt(k, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp key %q", k)
	}
	if v > 1e11 || v < -1e11 {
		v /= 1000
	}
	return v, nil
}

func resolveLocation(name string, gmtoffset *int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtoffset != nil {
		return time.FixedZone(fmt.Sprintf("GMT%+d", *gmtoffset/3600), *gmtoffset)
	}
	return time.UTC
}

func sortActions(a []models.RawAction) {
	sort.SliceStable(a, func(i, j int) bool { return a[i].Timestamp < a[j].Timestamp })
}

func at(col []decimal.NullDecimal, i int) decimal.NullDecimal {
	if i < len(col) {
		return col[i]
	}
	return decimal.NullDecimal{}
}

func atVolume(col []*int64, i int) *int64 {
	if i < len(col) {
		return col[i]
	}
	return nil
}
