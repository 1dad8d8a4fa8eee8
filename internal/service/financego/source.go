// Package financego implements the library upstream strategy on top of
// github.com/piquette/finance-go.
package financego

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"MarketGate/internal/domain/models"
	drepo "MarketGate/internal/domain/repository"
	applogger "MarketGate/pkg/logger"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
)

// BarIterator is the part of *chart.Iter the source reads.
type BarIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Meta() finance.ChartMeta
	Err() error
}

// ChartFunc starts a chart query.
type ChartFunc func(params *chart.Params) BarIterator

// EquityFunc fetches one equity quote.
type EquityFunc func(symbol string) (*finance.Equity, error)

// Source serves bars and instrument info through finance-go. The library does
// not expose corporate actions, so dividends and splits go to the actions
// source.
type Source struct {
	actions drepo.MarketData
	timeout time.Duration
	logger  *applogger.Logger
	now     func() time.Time
	chart   ChartFunc
	equity  EquityFunc
}

// Option configures the source.
type Option func(*Source)

// WithTimeout bounds each library call.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(s *Source) { s.logger = l }
}

// WithChartFunc replaces chart.Get.
func WithChartFunc(f ChartFunc) Option {
	return func(s *Source) { s.chart = f }
}

// WithEquityFunc replaces equity.Get.
func WithEquityFunc(f EquityFunc) Option {
	return func(s *Source) { s.equity = f }
}

// WithBackend routes chart and quote calls through b. Payloads are screened
// before the library decodes them.
func WithBackend(b finance.Backend) Option {
	return func(s *Source) { s.useBackend(b) }
}

// WithClock overrides the clock used for an open-ended window.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a library source. actions serves FetchDividends and FetchSplits.
func New(actions drepo.MarketData, opts ...Option) *Source {
	s := &Source{
		actions: actions,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
	s.useBackend(finance.GetBackend(finance.YFinBackend))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) useBackend(b finance.Backend) {
	g := guardedBackend{next: b}
	charts := chart.Client{B: g}
	quotes := equity.Client{B: g}
	s.chart = func(p *chart.Params) BarIterator { return charts.Get(p) }
	s.equity = func(symbol string) (*finance.Equity, error) {
		it := quotes.ListP(&equity.Params{Symbols: []string{symbol}})
		if !it.Next() {
			return nil, it.Err()
		}
		return it.Equity(), nil
	}
}

// FetchBars reads the daily series through the chart iterator.
func (s *Source) FetchBars(ctx context.Context, symbol string, rng models.DateRange) (*models.RawSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, meta, err := s.readChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && meta.Symbol == "" && meta.Currency == "" {
		return nil, models.SymbolNotFound(symbol)
	}

	offset := meta.Gmtoffset
	return &models.RawSeries{
		Symbol:   symbol,
		Currency: meta.Currency,
		Location: location(meta.ExchangeTimezoneName, &offset),
		Rows:     rows,
	}, nil
}

// readChart runs the library query. The library indexes quote columns by
// timestamp count, so a drifted payload panics; that is reported as internal.
func (s *Source) readChart(ctx context.Context, symbol string, rng models.DateRange) (rows []models.RawBar, meta finance.ChartMeta, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, models.Internal(fmt.Errorf("finance-go chart %s: %v", symbol, r))
		}
	}()

	start, end := s.window(rng)
	it := s.chart(&chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	for it.Next() {
		b := it.Bar()
		if b == nil {
			continue
		}
		rows = append(rows, toRawBar(b))
	}
	if err := it.Err(); err != nil {
		return nil, meta, translate(ctx, symbol, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, meta, translate(ctx, symbol, err)
	}
	return rows, it.Meta(), nil
}

// FetchDividends delegates to the actions source.
func (s *Source) FetchDividends(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error) {
	if s.actions == nil {
		return nil, models.Internal(errors.New("library strategy has no actions source"))
	}
	return s.actions.FetchDividends(ctx, symbol, rng)
}

// FetchSplits delegates to the actions source.
func (s *Source) FetchSplits(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error) {
	if s.actions == nil {
		return nil, models.Internal(errors.New("library strategy has no actions source"))
	}
	return s.actions.FetchSplits(ctx, symbol, rng)
}

// FetchInfo maps the equity quote onto upstream field names. equity.Get takes
// no context, so the call is abandoned when ctx ends.
func (s *Source) FetchInfo(ctx context.Context, symbol string) (models.RawInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		eq  *finance.Equity
		err error
	}
	ch := make(chan result, 1)
	go func() {
		eq, err := s.equity(symbol)
		ch <- result{eq, err}
	}()

	var r result
	select {
	case r = <-ch:
	case <-ctx.Done():
		return nil, translate(ctx, symbol, ctx.Err())
	}
	if r.err != nil {
		return nil, translate(ctx, symbol, r.err)
	}
	if r.eq == nil {
		return nil, models.SymbolNotFound(symbol)
	}

	info := models.RawInfo{}
	put := func(k, v string) {
		if v != "" {
			info[k] = v
		}
	}
	put("longName", r.eq.LongName)
	put("shortName", r.eq.ShortName)
	put("currency", r.eq.CurrencyID)
	put("exchangeName", r.eq.FullExchangeName)
	put("exchange", r.eq.ExchangeID)
	put("quoteType", string(r.eq.QuoteType))
	if r.eq.MarketCap > 0 {
		info["marketCap"] = r.eq.MarketCap
	}
	return info, nil
}

func (s *Source) window(rng models.DateRange) (time.Time, time.Time) {
	start := time.Unix(0, 0).UTC()
	if rng.HasStart() {
		start = rng.Start.AddDate(0, 0, -1)
	}
	end := s.now().UTC()
	if rng.HasEnd() {
		end = rng.End.AddDate(0, 0, 2)
	}
	return start, end
}

// toRawBar maps a library bar. finance-go reports missing values as zero, so
// a zero price is treated as absent.
func toRawBar(b *finance.ChartBar) models.RawBar {
	vol := int64(b.Volume)
	return models.RawBar{
		Timestamp: int64(b.Timestamp),
		Open:      nonZero(b.Open),
		High:      nonZero(b.High),
		Low:       nonZero(b.Low),
		Close:     nonZero(b.Close),
		AdjClose:  nonZero(b.AdjClose),
		Volume:    &vol,
	}
}

func nonZero(d decimal.Decimal) decimal.NullDecimal {
	if d.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func location(name string, gmtoffset *int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtoffset != nil && *gmtoffset != 0 {
		return time.FixedZone(fmt.Sprintf("GMT%+d", *gmtoffset/3600), *gmtoffset)
	}
	return time.UTC
}

func translate(ctx context.Context, symbol string, err error) error {
	var me *models.Error
	if errors.As(err, &me) {
		return me
	}
	switch {
	case errors.Is(err, errNotFound):
		return models.SymbolNotFound(symbol)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.UpstreamTimeout(err)
	case errors.Is(err, context.Canceled):
		return models.UpstreamError(0, "upstream request canceled").WithError(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return models.UpstreamTimeout(err)
	}
	if strings.Contains(err.Error(), "Not Found") || strings.Contains(err.Error(), "No data found") {
		return models.SymbolNotFound(symbol)
	}
	return models.UpstreamError(0, err.Error()).WithError(err)
}

var _ drepo.MarketData = (*Source)(nil)
