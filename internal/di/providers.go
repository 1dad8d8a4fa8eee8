package di

import (
	"context"
	"fmt"
	"time"

	"MarketGate/internal/domain/repository"
	domsvc "MarketGate/internal/domain/service"
	"MarketGate/internal/handler/api"
	"MarketGate/internal/service/financego"
	"MarketGate/internal/service/symbol"
	"MarketGate/internal/service/universe"
	"MarketGate/internal/service/yahoo"
	"MarketGate/internal/usecase"
	"MarketGate/pkg/config"
	xhttp "MarketGate/pkg/http"
	pkgkafka "MarketGate/pkg/kafka"
	"MarketGate/pkg/kv"
	applogger "MarketGate/pkg/logger"
	"MarketGate/pkg/metrics"
	"MarketGate/pkg/server"
)

const universeLoadTimeout = 5 * time.Second

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideLogProducer creates the Kafka producer used for log shipping.
// It returns nil when shipping is disabled.
func ProvideLogProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.LogShipping.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.LogShipping.Brokers),
		pkgkafka.WithClientID("marketgate"),
		pkgkafka.WithCompression("snappy"),
		pkgkafka.WithRequiredAcks(1),
		pkgkafka.WithBatchTimeout(time.Second),
		pkgkafka.WithWriteTimeout(10*time.Second),
		pkgkafka.WithMaxAttempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideHTTPClient creates the pooled upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Upstream.Timeout),
		xhttp.WithUserAgent(cfg.Upstream.UserAgent),
	)
}

// ProvideYahooClient creates the raw HTTP upstream client.
func ProvideYahooClient(httpClient *xhttp.Client, cfg *config.Config, logger *applogger.Logger) *yahoo.Client {
	return yahoo.NewClient(httpClient,
		yahoo.WithChartBaseURL(cfg.Upstream.ChartBaseURL),
		yahoo.WithSummaryBaseURL(cfg.Upstream.SummaryBaseURL),
		yahoo.WithTimeout(cfg.Upstream.Timeout),
		yahoo.WithLogger(logger),
	)
}

// ProvideMarketData selects the upstream strategy. The library strategy still
// reads corporate actions through the raw client.
func ProvideMarketData(cfg *config.Config, httpClient *xhttp.Client, raw *yahoo.Client, logger *applogger.Logger) repository.MarketData {
	if cfg.Upstream.Strategy == "library" {
		return financego.New(raw,
			financego.WithBackend(financego.NewBackend(httpClient, cfg.Upstream.ChartBaseURL)),
			financego.WithTimeout(cfg.Upstream.Timeout),
			financego.WithLogger(logger),
		)
	}
	return raw
}

// ProvideUniverse loads the universe table once at startup.
func ProvideUniverse(cfg *config.Config, logger *applogger.Logger) (domsvc.UniverseResolver, error) {
	var (
		table *universe.Table
		err   error
	)
	switch cfg.Universe.Source {
	case universe.SourceFile:
		table, err = universe.LoadFile(cfg.Universe.Path)
	case universe.SourceRedis:
		table, err = loadRedisUniverse(cfg)
	default:
		table, err = universe.LoadEmbedded()
	}
	if err != nil {
		return nil, err
	}
	logger.Info("universe loaded",
		applogger.String("source", cfg.Universe.Source),
		applogger.Strings("markets", table.Markets()),
	)
	return table, nil
}

func loadRedisUniverse(cfg *config.Config) (*universe.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), universeLoadTimeout)
	defer cancel()

	client, err := kv.New(ctx,
		kv.WithAddr(cfg.Universe.Redis.Addr),
		kv.WithPassword(cfg.Universe.Redis.Password),
		kv.WithDB(cfg.Universe.Redis.DB),
		kv.WithPrefix(cfg.Universe.Redis.KeyPrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	defer client.Close()

	return universe.LoadRedis(ctx, client)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSymbolNormalizer creates the symbol normalizer.
func ProvideSymbolNormalizer() domsvc.SymbolNormalizer {
	return symbol.New()
}

// ProvideMarketDataUseCase creates the market data use case.
func ProvideMarketDataUseCase(
	source repository.MarketData,
	symbols domsvc.SymbolNormalizer,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.MarketDataUseCase {
	return usecase.NewMarketDataUseCase(source, symbols, m, logger)
}

// ProvideHandler creates the public API handler.
func ProvideHandler(logger *applogger.Logger, uc *usecase.MarketDataUseCase, u domsvc.UniverseResolver) xhttp.Handler {
	return api.NewPublicEchoHandler(logger, uc, u)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, logger *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h, logger,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path, cfg.Metrics.SlowThreshold),
	)
}

// ProvideApp creates the application and attaches log shipping when configured.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	logger *applogger.Logger,
	producer *pkgkafka.Producer,
) *server.App {
	if producer != nil {
		logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.LogShipping.FlushInterval,
			CountThreshold: cfg.LogShipping.CountThreshold,
			Topic:          cfg.LogShipping.Topic,
			Publisher:      producer,
		})
	}
	return server.New(cfg, srv, logger, producer)
}
