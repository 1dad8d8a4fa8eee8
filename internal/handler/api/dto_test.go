package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/handler/api"
	"MarketGate/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOHLCVResponseNumbers(t *testing.T) {
	vol := int64(1200)
	res := &usecase.GetBarsResult{
		Symbol: "AAPL",
		Bars: []models.Bar{{
			Date:     time.Date(2020, 8, 28, 0, 0, 0, 0, time.UTC),
			High:     decimal.NewNullDecimal(decimal.RequireFromString("75.0")),
			Low:      decimal.NewNullDecimal(decimal.RequireFromString("73.7975")),
			Close:    decimal.NewNullDecimal(decimal.RequireFromString("74.35749816894531")),
			AdjClose: decimal.NewNullDecimal(decimal.RequireFromString("72.1")),
			Volume:   &vol,
		}},
	}

	out, err := json.Marshal(api.NewOHLCVResponse(res))
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL","bars":[{"date":"2020-08-28","open":null,"high":75.0,"low":73.7975,
		"close":74.35749816894531,"adj_close":72.1,"volume":1200}]}`, string(out))
	assert.Contains(t, string(out), `"close":74.35749816894531`)
}

func TestResponsesLeaveDecimalDefaults(t *testing.T) {
	out, err := json.Marshal(api.NewSplitsResponse(&usecase.GetActionsResult{
		Symbol:  "AAPL",
		Actions: []models.CorporateAction{{Date: time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC), Value: decimal.NewFromInt(4)}},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL","splits":[{"date":"2020-08-31","ratio":4}]}`, string(out))

	assert.False(t, decimal.MarshalJSONWithoutQuotes)
	plain, err := json.Marshal(decimal.RequireFromString("0.82"))
	require.NoError(t, err)
	assert.Equal(t, `"0.82"`, string(plain))
}
