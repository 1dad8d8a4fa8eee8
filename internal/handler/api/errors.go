package api

import (
	"net/http"

	"MarketGate/internal/domain/models"
	xhttp "MarketGate/pkg/http"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind models.Kind) int {
	switch kind {
	case models.KindInvalidSymbol, models.KindInvalidDateRange, models.KindInvalidRequest:
		return http.StatusBadRequest
	case models.KindSymbolNotFound, models.KindUnknownMarket:
		return http.StatusNotFound
	case models.KindUpstreamError, models.KindUpstreamTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// toAppError converts a domain error for the response body.
func toAppError(err error) *xhttp.AppError {
	e := models.AsError(err)
	return xhttp.NewAppError(string(e.Kind), e.Message, StatusOf(e.Kind)).WithError(err)
}

// validationKinds maps request fields to the kind reported when they fail.
var validationKinds = map[string]models.Kind{
	"symbol": models.KindInvalidSymbol,
	"start":  models.KindInvalidDateRange,
	"end":    models.KindInvalidDateRange,
}

// fromValidation reports the first failed field.
func fromValidation(errs []xhttp.ValidationError) *xhttp.AppError {
	if len(errs) == 0 {
		return xhttp.NewAppError(string(models.KindInvalidRequest), "invalid request", http.StatusBadRequest)
	}
	first := errs[0]
	kind, ok := validationKinds[first.Field]
	if !ok {
		kind = models.KindInvalidRequest
	}
	return xhttp.NewAppError(string(kind), first.Message, StatusOf(kind))
}
