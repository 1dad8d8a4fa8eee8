package financego_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/mocks"
	"MarketGate/internal/service/financego"
	xhttp "MarketGate/pkg/http"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeIter struct {
	bars []*finance.ChartBar
	meta finance.ChartMeta
	err  error
	pos  int
}

func (f *fakeIter) Next() bool {
	if f.pos >= len(f.bars) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeIter) Bar() *finance.ChartBar  { return f.bars[f.pos-1] }
func (f *fakeIter) Meta() finance.ChartMeta { return f.meta }
func (f *fakeIter) Err() error              { return f.err }

func bar(ts int, o, h, l, c string, v int) *finance.ChartBar {
	return &finance.ChartBar{
		Timestamp: ts,
		Open:      decimal.RequireFromString(o),
		High:      decimal.RequireFromString(h),
		Low:       decimal.RequireFromString(l),
		Close:     decimal.RequireFromString(c),
		Volume:    v,
	}
}

func TestSource_FetchBars(t *testing.T) {
	var params *chart.Params
	it := &fakeIter{
		bars: []*finance.ChartBar{
			bar(1577975400, "74.06", "75.15", "73.7975", "75.0875", 135480400),
			bar(1578061800, "0", "0", "0", "0", 0),
		},
		meta: finance.ChartMeta{Symbol: "AAPL", Currency: "USD", ExchangeTimezoneName: "America/New_York"},
	}
	src := financego.New(nil, financego.WithChartFunc(func(p *chart.Params) financego.BarIterator {
		params = p
		return it
	}))

	rng := models.DateRange{Start: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), End: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)}
	s, err := src.FetchBars(context.Background(), "AAPL", rng)
	require.NoError(t, err)

	require.Equal(t, "AAPL", params.Symbol)
	require.NotNil(t, params.Context)
	require.Equal(t, "USD", s.Currency)
	require.Equal(t, "America/New_York", s.Location.String())
	require.Nil(t, s.Events)
	require.Len(t, s.Rows, 2)
	require.True(t, s.Rows[0].Close.Valid)
	require.True(t, s.Rows[1].AllPricesNull())
}

func TestSource_FetchBarsErrors(t *testing.T) {
	cases := []struct {
		name string
		it   *fakeIter
		kind models.Kind
	}{
		{"remote not found", &fakeIter{err: errors.New("remote-error: Not Found")}, models.KindSymbolNotFound},
		{"empty meta", &fakeIter{}, models.KindSymbolNotFound},
		{"deadline", &fakeIter{err: context.DeadlineExceeded}, models.KindUpstreamTimeout},
		{"other", &fakeIter{err: errors.New("connection reset by peer")}, models.KindUpstreamError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := financego.New(nil, financego.WithChartFunc(func(*chart.Params) financego.BarIterator { return tc.it }))
			_, err := src.FetchBars(context.Background(), "NOPE", models.DateRange{})
			require.Equal(t, tc.kind, models.KindOf(err))
		})
	}
}

func TestSource_FetchInfo(t *testing.T) {
	eq := &finance.Equity{LongName: "Apple Inc.", MarketCap: 2950000000000}
	eq.ShortName = "Apple"
	eq.CurrencyID = "USD"
	eq.FullExchangeName = "NasdaqGS"
	eq.QuoteType = finance.QuoteTypeEquity

	var asked string
	src := financego.New(nil, financego.WithEquityFunc(func(symbol string) (*finance.Equity, error) {
		asked = symbol
		return eq, nil
	}))

	info, err := src.FetchInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", asked)
	require.Equal(t, "Apple Inc.", info["longName"])
	require.Equal(t, "USD", info["currency"])
	require.Equal(t, "NasdaqGS", info["exchangeName"])
	require.Equal(t, "EQUITY", info["quoteType"])
	require.Equal(t, int64(2950000000000), info["marketCap"])
	require.NotContains(t, info, "exchange")
}

func TestSource_FetchInfoNotFound(t *testing.T) {
	src := financego.New(nil, financego.WithEquityFunc(func(string) (*finance.Equity, error) { return nil, nil }))
	_, err := src.FetchInfo(context.Background(), "NOPE")
	require.Equal(t, models.KindSymbolNotFound, models.KindOf(err))
}

func TestSource_FetchInfoTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	src := financego.New(nil,
		financego.WithTimeout(20*time.Millisecond),
		financego.WithEquityFunc(func(string) (*finance.Equity, error) {
			<-release
			return nil, nil
		}),
	)
	_, err := src.FetchInfo(context.Background(), "AAPL")
	require.Equal(t, models.KindUpstreamTimeout, models.KindOf(err))
}

func TestSource_ActionsDelegate(t *testing.T) {
	ctrl := gomock.NewController(t)
	actions := mocks.NewMockMarketData(ctrl)
	src := financego.New(actions)

	want := &models.RawActions{Type: models.ActionDividend}
	actions.EXPECT().FetchDividends(gomock.Any(), "AAPL", gomock.Any()).Return(want, nil)
	actions.EXPECT().FetchSplits(gomock.Any(), "AAPL", gomock.Any()).Return(&models.RawActions{Type: models.ActionSplit}, nil)

	got, err := src.FetchDividends(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
	require.Same(t, want, got)

	_, err = src.FetchSplits(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
}

func libraryServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func fixedClock() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func newLibrarySource(t *testing.T, status int, body string) *financego.Source {
	t.Helper()
	srv := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	return financego.New(nil,
		financego.WithBackend(financego.NewBackend(xhttp.NewClient(), srv.URL)),
		financego.WithClock(fixedClock),
	)
}

const libraryChart = `{"chart":{"result":[{
  "meta":{"currency":"USD","symbol":"AAPL","exchangeTimezoneName":"America/New_York","gmtoffset":-18000},
  "timestamp":[1577975400,1578061800],
  "indicators":{
    "quote":[{"open":[74.06,74.2875],"high":[75.15,75.145],"low":[73.7975,74.125],"close":[75.0875,74.3575],"volume":[135480400,146322800]}],
    "adjclose":[{"adjclose":[73.15,72.44]}]
  }}],"error":null}}`

func TestSource_LibraryChart(t *testing.T) {
	var gotPath string
	srv := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(libraryChart))
	})
	src := financego.New(nil,
		financego.WithBackend(financego.NewBackend(xhttp.NewClient(), srv.URL)),
		financego.WithClock(fixedClock),
	)

	s, err := src.FetchBars(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
	require.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	require.Equal(t, "America/New_York", s.Location.String())
	require.Len(t, s.Rows, 2)
	require.Equal(t, "75.0875", s.Rows[0].Close.Decimal.String())
	require.Equal(t, "73.15", s.Rows[0].AdjClose.Decimal.String())
}

func TestSource_LibraryChartFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   models.Kind
		code   int
	}{
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, models.KindSymbolNotFound, 0},
		{"null result", http.StatusOK, `{"chart":{"result":null,"error":null}}`, models.KindSymbolNotFound, 0},
		{"not found", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`, models.KindSymbolNotFound, 0},
		{"server error", http.StatusInternalServerError, `oops`, models.KindUpstreamError, http.StatusInternalServerError},
		{"malformed", http.StatusOK, `{"chart":`, models.KindUpstreamError, http.StatusOK},
		{"columns shorter than timestamps", http.StatusOK, `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"timestamp":[1577975400,1578061800],
			"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1],"volume":[1]}]}}],"error":null}}`, models.KindInternal, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := newLibrarySource(t, tc.status, tc.body)
			var err error
			require.NotPanics(t, func() {
				_, err = src.FetchBars(context.Background(), "NOPE", models.DateRange{})
			})
			require.Equal(t, tc.kind, models.KindOf(err))
			require.Equal(t, tc.code, models.AsError(err).Status)
		})
	}
}

func TestSource_LibraryDefaultBackendEmptyResult(t *testing.T) {
	srv := libraryServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})
	src := financego.New(nil, financego.WithBackend(&finance.BackendConfiguration{
		Type:       finance.YFinBackend,
		URL:        srv.URL,
		HTTPClient: srv.Client(),
	}))

	var err error
	require.NotPanics(t, func() {
		_, err = src.FetchBars(context.Background(), "NOPE", models.DateRange{})
	})
	require.Equal(t, models.KindSymbolNotFound, models.KindOf(err))
}

func TestSource_LibraryQuote(t *testing.T) {
	src := newLibrarySource(t, http.StatusOK, `{"quoteResponse":{"result":[{"symbol":"AAPL","longName":"Apple Inc.","currency":"USD","quoteType":"EQUITY","marketCap":2950000000000}],"error":null}}`)
	info, err := src.FetchInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "Apple Inc.", info["longName"])
	require.Equal(t, int64(2950000000000), info["marketCap"])

	src = newLibrarySource(t, http.StatusOK, `{"quoteResponse":{"result":[],"error":null}}`)
	_, err = src.FetchInfo(context.Background(), "NOPE")
	require.Equal(t, models.KindSymbolNotFound, models.KindOf(err))
}
