package api

import (
	"MarketGate/internal/domain/models"
	domsvc "MarketGate/internal/domain/service"
	"MarketGate/internal/usecase"
	xhttp "MarketGate/pkg/http"
	xlogger "MarketGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PublicEchoHandler serves the read-only market data endpoints.
type PublicEchoHandler struct {
	logger   *xlogger.Logger
	market   *usecase.MarketDataUseCase
	universe domsvc.UniverseResolver
}

func NewPublicEchoHandler(logger *xlogger.Logger, market *usecase.MarketDataUseCase, universe domsvc.UniverseResolver) *PublicEchoHandler {
	return &PublicEchoHandler{logger: logger, market: market, universe: universe}
}

func (h *PublicEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/public")
	g.GET("/ohlcv", h.OHLCV)
	g.GET("/dividends", h.Dividends)
	g.GET("/splits", h.Splits)
	g.GET("/info", h.Info)
	g.GET("/universe", h.Universe)

	e.GET("/health", h.Health)
}

func (h *PublicEchoHandler) OHLCV(c echo.Context) error {
	req := &models.OHLCVRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return fromValidation(verr)
	}

	res, err := h.market.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol: req.Symbol,
		Start:  req.Start,
		End:    req.End,
		Adjust: req.Adjusted(),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return toAppError(err)
	}
	return xhttp.SuccessResponse(c, NewOHLCVResponse(res))
}

func (h *PublicEchoHandler) Dividends(c echo.Context) error {
	req := &models.ActionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return fromValidation(verr)
	}

	res, err := h.market.GetDividends(c.Request().Context(), usecase.GetActionsParams{Symbol: req.Symbol, Start: req.Start, End: req.End})
	if err != nil {
		return toAppError(err)
	}
	return xhttp.SuccessResponse(c, NewDividendsResponse(res))
}

func (h *PublicEchoHandler) Splits(c echo.Context) error {
	req := &models.ActionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return fromValidation(verr)
	}

	res, err := h.market.GetSplits(c.Request().Context(), usecase.GetActionsParams{Symbol: req.Symbol, Start: req.Start, End: req.End})
	if err != nil {
		return toAppError(err)
	}
	return xhttp.SuccessResponse(c, NewSplitsResponse(res))
}

func (h *PublicEchoHandler) Info(c echo.Context) error {
	req := &models.InfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return fromValidation(verr)
	}

	res, err := h.market.GetInfo(c.Request().Context(), req.Symbol)
	if err != nil {
		return toAppError(err)
	}
	return xhttp.SuccessResponse(c, NewInfoResponse(res))
}

func (h *PublicEchoHandler) Universe(c echo.Context) error {
	req := &models.UniverseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return fromValidation(verr)
	}

	u, err := h.universe.Resolve(req.Market)
	if err != nil {
		return toAppError(err)
	}
	return xhttp.SuccessResponse(c, NewUniverseResponse(u))
}

// Health always reports ok; it never touches upstream.
func (h *PublicEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.HealthResponse{Status: "ok"})
}
