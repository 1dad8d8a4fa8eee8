package repository

import (
	"context"

	"MarketGate/internal/domain/models"
)

// MarketData fetches raw market data from an upstream provider.
// Each call performs one logical upstream request; nothing is cached across calls.
//
//go:generate mockgen -package=mocks -destination=../../mocks/market_data.go -source=interfaces.go MarketData
type MarketData interface {
	FetchBars(ctx context.Context, symbol string, rng models.DateRange) (*models.RawSeries, error)
	FetchDividends(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error)
	FetchSplits(ctx context.Context, symbol string, rng models.DateRange) (*models.RawActions, error)
	FetchInfo(ctx context.Context, symbol string) (models.RawInfo, error)
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordUpstream(op, outcome string, seconds float64)
	RecordError(kind string)
}
