package usecase

import (
	"context"
	"time"

	"MarketGate/internal/domain/models"
	domrepo "MarketGate/internal/domain/repository"
	domsvc "MarketGate/internal/domain/service"
	applogger "MarketGate/pkg/logger"
	xutil "MarketGate/pkg/util"
)

const (
	// MaxLimit caps the bars returned by one ohlcv request.
	MaxLimit = 20000

	outcomeOK = "ok"
)

// MarketDataUseCase runs the fetch and normalize pipeline for one request.
type MarketDataUseCase struct {
	source  domrepo.MarketData
	symbols domsvc.SymbolNormalizer
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewMarketDataUseCase(source domrepo.MarketData, symbols domsvc.SymbolNormalizer, metrics domrepo.Metrics, logger *applogger.Logger) *MarketDataUseCase {
	return &MarketDataUseCase{source: source, symbols: symbols, metrics: metrics, logger: logger}
}

type GetBarsParams struct {
	Symbol string
	Start  string
	End    string
	Adjust bool
	Limit  int
	Offset int
}

type GetBarsResult struct {
	Symbol string
	Bars   []models.Bar
}

type GetActionsParams struct {
	Symbol string
	Start  string
	End    string
}

type GetActionsResult struct {
	Symbol  string
	Actions []models.CorporateAction
}

type GetInfoResult struct {
	Symbol string
	Info   models.InstrumentInfo
}

// GetBars returns the daily bars for the window, adjusted when requested.
func (uc *MarketDataUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	sym, rng, err := uc.prepare(p.Symbol, p.Start, p.End)
	if err != nil {
		return nil, uc.fail("bars", err)
	}
	if p.Limit == 0 {
		p.Limit = MaxLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return nil, uc.fail("bars", models.InvalidRequest("limit must be between 1 and %d", MaxLimit))
	}
	if p.Offset < 0 {
		return nil, uc.fail("bars", models.InvalidRequest("offset must be >= 0"))
	}

	// Adjustment needs every action after the window, so the fetch stays open-ended.
	fetchRng := rng
	if p.Adjust {
		fetchRng.End = time.Time{}
	}

	raw, err := uc.fetchBars(ctx, sym, fetchRng)
	if err != nil {
		return nil, uc.fail("bars", err)
	}

	if p.Adjust && raw.Events == nil {
		events, err := uc.fetchEvents(ctx, sym, fetchRng)
		if err != nil {
			return nil, uc.fail("bars", err)
		}
		withEvents := *raw
		withEvents.Events = events
		raw = &withEvents
	}

	bars := NormalizeBars(raw, rng, p.Adjust)
	return &GetBarsResult{Symbol: sym, Bars: page(bars, p.Offset, p.Limit)}, nil
}

// GetDividends returns the dividends inside the window.
func (uc *MarketDataUseCase) GetDividends(ctx context.Context, p GetActionsParams) (*GetActionsResult, error) {
	return uc.getActions(ctx, "dividends", p, uc.source.FetchDividends)
}

// GetSplits returns the splits inside the window.
func (uc *MarketDataUseCase) GetSplits(ctx context.Context, p GetActionsParams) (*GetActionsResult, error) {
	return uc.getActions(ctx, "splits", p, uc.source.FetchSplits)
}

// GetInfo returns the sparse instrument metadata.
func (uc *MarketDataUseCase) GetInfo(ctx context.Context, symbol string) (*GetInfoResult, error) {
	sym, err := uc.symbols.Normalize(symbol)
	if err != nil {
		return nil, uc.fail("info", err)
	}

	start := time.Now()
	raw, err := uc.source.FetchInfo(ctx, sym)
	uc.observe("info", start, err)
	if err != nil {
		return nil, uc.fail("info", err)
	}
	return &GetInfoResult{Symbol: sym, Info: NormalizeInfo(raw)}, nil
}

type fetchActionsFunc func(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error)

func (uc *MarketDataUseCase) getActions(ctx context.Context, op string, p GetActionsParams, fetch fetchActionsFunc) (*GetActionsResult, error) {
	sym, rng, err := uc.prepare(p.Symbol, p.Start, p.End)
	if err != nil {
		return nil, uc.fail(op, err)
	}

	start := time.Now()
	raw, err := fetch(ctx, sym, rng)
	uc.observe(op, start, err)
	if err != nil {
		return nil, uc.fail(op, err)
	}
	return &GetActionsResult{Symbol: sym, Actions: NormalizeActions(raw, rng)}, nil
}

func (uc *MarketDataUseCase) fetchBars(ctx context.Context, sym string, rng models.DateRange) (*models.RawSeries, error) {
	start := time.Now()
	raw, err := uc.source.FetchBars(ctx, sym, rng)
	uc.observe("bars", start, err)
	return raw, err
}

// fetchEvents loads actions for sources that do not embed them in the bar payload.
func (uc *MarketDataUseCase) fetchEvents(ctx context.Context, sym string, rng models.DateRange) (*models.RawEvents, error) {
	start := time.Now()
	divs, err := uc.source.FetchDividends(ctx, sym, rng)
	uc.observe("dividends", start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	splits, err := uc.source.FetchSplits(ctx, sym, rng)
	uc.observe("splits", start, err)
	if err != nil {
		return nil, err
	}

	ev := &models.RawEvents{}
	if divs != nil {
		ev.Dividends = divs.Items
	}
	if splits != nil {
		ev.Splits = splits.Items
	}
	return ev, nil
}

// prepare validates the symbol and window before any upstream call.
func (uc *MarketDataUseCase) prepare(symbol, start, end string) (string, models.DateRange, error) {
	sym, err := uc.symbols.Normalize(symbol)
	if err != nil {
		return "", models.DateRange{}, err
	}
	rng, err := ParseRange(start, end)
	if err != nil {
		return "", models.DateRange{}, err
	}
	return sym, rng, nil
}

// ParseRange parses optional YYYY-MM-DD bounds into an inclusive window.
func ParseRange(start, end string) (models.DateRange, error) {
	s, err := xutil.ParseDate(start)
	if err != nil {
		return models.DateRange{}, models.InvalidDateRange("start: %v", err)
	}
	e, err := xutil.ParseDate(end)
	if err != nil {
		return models.DateRange{}, models.InvalidDateRange("end: %v", err)
	}
	rng := models.DateRange{Start: s, End: e}
	if rng.HasStart() && rng.HasEnd() && rng.Start.After(rng.End) {
		return models.DateRange{}, models.InvalidDateRange("start %s is after end %s", start, end)
	}
	return rng, nil
}

func (uc *MarketDataUseCase) observe(op string, start time.Time, err error) {
	if uc.metrics == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = string(models.KindOf(err))
	}
	uc.metrics.RecordUpstream(op, outcome, time.Since(start).Seconds())
}

func (uc *MarketDataUseCase) fail(op string, err error) error {
	kind := models.KindOf(err)
	if uc.metrics != nil {
		uc.metrics.RecordError(string(kind))
	}
	if uc.logger != nil {
		switch kind {
		case models.KindInternal:
			uc.logger.Error("pipeline failed", applogger.String("op", op), applogger.Error(err))
		case models.KindUpstreamError, models.KindUpstreamTimeout:
			uc.logger.Warn("upstream failed", applogger.String("op", op), applogger.Error(err))
		}
	}
	return err
}

func page(bars []models.Bar, offset, limit int) []models.Bar {
	if offset >= len(bars) {
		return []models.Bar{}
	}
	end := offset + limit
	if end > len(bars) {
		end = len(bars)
	}
	return bars[offset:end]
}
