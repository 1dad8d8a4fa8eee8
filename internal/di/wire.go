//go:build wireinject
// +build wireinject

package di

import (
	"MarketGate/pkg/config"
	"MarketGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideLogProducer,

		// Upstream
		ProvideHTTPClient,
		ProvideYahooClient,
		ProvideMarketData,

		// Domain services
		ProvideSymbolNormalizer,
		ProvideUniverse,

		// Use cases
		ProvideMarketDataUseCase,

		// HTTP surface
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
