package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketGate/pkg/config"
	xhttp "MarketGate/pkg/http"
	pkgkafka "MarketGate/pkg/kafka"
	applogger "MarketGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	logger     *applogger.Logger
	producer   *pkgkafka.Producer
}

// New creates a new App. producer may be nil when log shipping is off.
func New(cfg *config.Config, srv *xhttp.Server, logger *applogger.Logger, producer *pkgkafka.Producer) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		httpServer: srv,
		logger:     logger,
		producer:   producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and shuts down when ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("marketgate started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("upstream", a.cfg.Upstream.Strategy),
		applogger.Int("port", a.cfg.Server.Port),
	)

	<-ctx.Done()

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the server first so no request logs after the collector closes.
func (a *App) shutdown() error {
	var firstErr error

	// Server.Stop applies the configured shutdown timeout.
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	a.logger.RemoveCollector()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
