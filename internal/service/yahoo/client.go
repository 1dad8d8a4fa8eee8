// Package yahoo implements the raw-HTTP upstream strategy against the
// Yahoo Finance chart and quoteSummary endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"MarketGate/internal/domain/models"
	drepo "MarketGate/internal/domain/repository"
	xhttp "MarketGate/pkg/http"
	applogger "MarketGate/pkg/logger"
)

const (
	DefaultChartBaseURL   = "https://query1.finance.yahoo.com"
	DefaultSummaryBaseURL = "https://query2.finance.yahoo.com"
	DefaultTimeout        = 10 * time.Second

	summaryModules = "price,summaryProfile"
)

// Client implements MarketData over plain HTTP. It holds no per-request state.
type Client struct {
	chartBaseURL   string
	summaryBaseURL string
	timeout        time.Duration
	http           *xhttp.Client
	logger         *applogger.Logger
	now            func() time.Time
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithChartBaseURL sets the chart endpoint base URL.
func WithChartBaseURL(u string) ClientOption {
	return func(c *Client) { c.chartBaseURL = u }
}

// WithSummaryBaseURL sets the quoteSummary endpoint base URL.
func WithSummaryBaseURL(u string) ClientOption {
	return func(c *Client) { c.summaryBaseURL = u }
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the clock used for an open-ended window.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client sharing the given pooled HTTP client.
func NewClient(httpClient *xhttp.Client, opts ...ClientOption) *Client {
	c := &Client{
		chartBaseURL:   DefaultChartBaseURL,
		summaryBaseURL: DefaultSummaryBaseURL,
		timeout:        DefaultTimeout,
		http:           httpClient,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	return c
}

// FetchBars returns the daily series with the events embedded in the same payload.
func (c *Client) FetchBars(ctx context.Context, symbol string, rng models.DateRange) (*models.RawSeries, error) {
	return c.fetchChart(ctx, symbol, rng)
}

// FetchDividends extracts dividend events from the chart payload.
func (c *Client) FetchDividends(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error) {
	s, err := c.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	return s.Actions(models.ActionDividend), nil
}

// FetchSplits extracts split events from the chart payload.
func (c *Client) FetchSplits(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error) {
	s, err := c.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	return s.Actions(models.ActionSplit), nil
}

// FetchInfo returns instrument metadata from quoteSummary.
func (c *Client) FetchInfo(ctx context.Context, symbol string) (models.RawInfo, error) {
	resp, err := c.get(ctx, &xhttp.RequestOptions{
		URL: c.summaryBaseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol),
		QueryParams: map[string][]string{
			"modules": {summaryModules},
		},
	})
	if err != nil {
		return nil, err
	}
	return parseSummary(symbol, resp.StatusCode, resp.Body)
}

func (c *Client) fetchChart(ctx context.Context, symbol string, rng models.DateRange) (*models.RawSeries, error) {
	p1, p2 := c.period(rng)
	resp, err := c.get(ctx, &xhttp.RequestOptions{
		URL: c.chartBaseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		QueryParams: map[string][]string{
			"period1":              {strconv.FormatInt(p1, 10)},
			"period2":              {strconv.FormatInt(p2, 10)},
			"interval":             {"1d"},
			"events":               {"div,split"},
			"includeAdjustedClose": {"true"},
		},
	})
	if err != nil {
		return nil, err
	}
	return parseChart(symbol, resp.StatusCode, resp.Body)
}

// period pads the calendar window by a day on each side because the exchange
// timezone is unknown until the payload arrives.
func (c *Client) period(rng models.DateRange) (int64, int64) {
	var p1 int64
	if rng.HasStart() {
		p1 = rng.Start.AddDate(0, 0, -1).Unix()
		if p1 < 0 {
			p1 = 0
		}
	}
	p2 := c.now().Unix()
	if rng.HasEnd() {
		p2 = rng.End.AddDate(0, 0, 2).Unix()
	}
	return p1, p2
}

// get performs one upstream call and translates transport and status failures.
func (c *Client) get(ctx context.Context, opts *xhttp.RequestOptions) (*xhttp.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.logger != nil {
		c.logger.Debug("yahoo request", applogger.String("url", opts.URL))
	}

	resp, err := c.http.SendRequest(ctx, opts)
	if err != nil {
		return nil, translateTransportError(err)
	}
	if !resp.OK() {
		if apiErr := findAPIError(resp.Body); apiErr != nil {
			if apiErr.notFound() {
				return nil, models.SymbolNotFound(symbolFromURL(opts.URL))
			}
			return nil, models.UpstreamError(resp.StatusCode, apiErr.message())
		}
		return nil, models.UpstreamError(resp.StatusCode, fmt.Sprintf("upstream status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	return resp, nil
}

func translateTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.UpstreamTimeout(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return models.UpstreamTimeout(err)
	}
	if errors.Is(err, context.Canceled) {
		return models.UpstreamError(0, "upstream request canceled").WithError(err)
	}
	return models.UpstreamError(0, "upstream request failed").WithError(err)
}

// apiError is the error object Yahoo embeds under chart.error / quoteSummary.error.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) notFound() bool { return e.Code == "Not Found" }

func (e *apiError) message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// findAPIError looks for {"<endpoint>": {"error": {...}}} in any top-level key.
func findAPIError(body []byte) *apiError {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	for _, raw := range env {
		var inner struct {
			Error *apiError `json:"error"`
		}
		if err := json.Unmarshal(raw, &inner); err != nil {
			continue
		}
		if inner.Error != nil && inner.Error.Code != "" {
			return inner.Error
		}
	}
	return nil
}

func symbolFromURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	seg := parsed.Path
	for i := len(seg) - 1; i >= 0; i-- {
		if seg[i] == '/' {
			seg = seg[i+1:]
			break
		}
	}
	if s, err := url.PathUnescape(seg); err == nil {
		return s
	}
	return seg
}

var _ drepo.MarketData = (*Client)(nil)
