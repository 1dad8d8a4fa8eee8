package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/service/yahoo"
	xhttp "MarketGate/pkg/http"

	"github.com/stretchr/testify/require"
)

const chartOK = `{"chart":{"result":[{
  "meta":{"currency":"USD","symbol":"AAPL","exchangeTimezoneName":"America/New_York"},
  "timestamp":[1577975400,1578061800],
  "events":{"dividends":{"1578061800":{"amount":0.1925,"date":1578061800}}},
  "indicators":{"quote":[{"open":[74.06,74.2875],"high":[75.15,75.145],"low":[73.7975,74.125],"close":[75.0875,74.3575],"volume":[135480400,146322800]}]}
}],"error":null}}`

func newClient(t *testing.T, h http.HandlerFunc, opts ...yahoo.ClientOption) *yahoo.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]yahoo.ClientOption{
		yahoo.WithChartBaseURL(srv.URL),
		yahoo.WithSummaryBaseURL(srv.URL),
		yahoo.WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
	}, opts...)
	return yahoo.NewClient(xhttp.NewClient(), opts...)
}

func day(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func TestClient_FetchBars(t *testing.T) {
	var got *http.Request
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartOK))
	})

	s, err := c.FetchBars(context.Background(), "AAPL", models.DateRange{Start: day("2020-01-02"), End: day("2020-01-03")})
	require.NoError(t, err)
	require.Len(t, s.Rows, 2)
	require.Len(t, s.Events.Dividends, 1)

	require.Equal(t, "/v8/finance/chart/AAPL", got.URL.Path)
	q := got.URL.Query()
	require.Equal(t, "1d", q.Get("interval"))
	require.Equal(t, "div,split", q.Get("events"))
	require.Equal(t, "1577836800", q.Get("period1")) // one day of padding before start
	require.Equal(t, "1578182400", q.Get("period2")) // two days after end
	require.Equal(t, "MarketGate/1.0", got.Header.Get("User-Agent"))
}

func TestClient_OpenEndedWindow(t *testing.T) {
	var got *http.Request
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(chartOK))
	})

	_, err := c.FetchBars(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
	require.Equal(t, "0", got.URL.Query().Get("period1"))
	require.Equal(t, "1704067200", got.URL.Query().Get("period2"))
}

func TestClient_FetchActions(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartOK))
	})

	divs, err := c.FetchDividends(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
	require.Equal(t, models.ActionDividend, divs.Type)
	require.Len(t, divs.Items, 1)
	require.Equal(t, "America/New_York", divs.Location.String())

	splits, err := c.FetchSplits(context.Background(), "AAPL", models.DateRange{})
	require.NoError(t, err)
	require.Equal(t, models.ActionSplit, splits.Type)
	require.Empty(t, splits.Items)
}

func TestClient_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   models.Kind
		code   int
	}{
		{"not found", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`, models.KindSymbolNotFound, 0},
		{"server error", http.StatusInternalServerError, `oops`, models.KindUpstreamError, 500},
		{"rate limited", http.StatusTooManyRequests, `Too Many Requests`, models.KindUpstreamError, 429},
		{"bad request", http.StatusBadRequest, `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`, models.KindUpstreamError, 400},
		{"malformed", http.StatusOK, `<html>`, models.KindUpstreamError, 200},
		{"malformed non-authoritative", http.StatusNonAuthoritativeInfo, `<html>`, models.KindUpstreamError, 203},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, models.KindSymbolNotFound, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.FetchBars(context.Background(), "NOPE", models.DateRange{})
			require.Error(t, err)
			e := models.AsError(err)
			require.Equal(t, tc.kind, e.Kind)
			require.Equal(t, tc.code, e.Status)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, yahoo.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.FetchBars(context.Background(), "AAPL", models.DateRange{})
	require.Equal(t, models.KindUpstreamTimeout, models.KindOf(err))
	require.Less(t, time.Since(start), time.Second)
}

func TestClient_Canceled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.FetchBars(ctx, "AAPL", models.DateRange{})
	require.Equal(t, models.KindUpstreamError, models.KindOf(err))
}

func TestClient_FetchInfo(t *testing.T) {
	var got *http.Request
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{
		  "price":{"longName":"Apple Inc.","shortName":"Apple","currency":"USD","exchangeName":"NasdaqGS","quoteType":"EQUITY","marketCap":{"raw":2950000000000,"fmt":"2.95T"}},
		  "summaryProfile":{"sector":"Technology","industry":"Consumer Electronics","website":""}
		}],"error":null}}`))
	})

	info, err := c.FetchInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "/v10/finance/quoteSummary/AAPL", got.URL.Path)
	require.Equal(t, "price,summaryProfile", got.URL.Query().Get("modules"))

	require.Equal(t, "Apple Inc.", info["longName"])
	require.Equal(t, int64(2950000000000), info["marketCap"])
	require.Equal(t, "Technology", info["sector"])
	require.NotContains(t, info, "website")
}

func TestClient_FetchInfoNotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOPE"}}}`))
	})

	_, err := c.FetchInfo(context.Background(), "NOPE")
	require.Equal(t, models.KindSymbolNotFound, models.KindOf(err))
}

func TestClient_FetchInfoMalformed(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":[`))
	})

	_, err := c.FetchInfo(context.Background(), "AAPL")
	e := models.AsError(err)
	require.Equal(t, models.KindUpstreamError, e.Kind)
	require.Equal(t, http.StatusOK, e.Status)
}
