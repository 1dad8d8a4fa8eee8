package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketGate/pkg/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes func(e *echo.Echo)

func (r routes) RegisterRoutes(e *echo.Echo) { r(e) }

func newTestServer() *Server {
	return NewServer(routes(func(e *echo.Echo) {
		e.GET("/ok", func(c echo.Context) error {
			return SuccessResponse(c, HealthResponse{Status: "ok"})
		})
		e.GET("/app-error", func(c echo.Context) error {
			return NewAppError("SymbolNotFound", "symbol NOPE not found", http.StatusNotFound)
		})
		e.GET("/plain-error", func(c echo.Context) error {
			return errors.New("db exploded")
		})
		e.GET("/panic", func(c echo.Context) error {
			panic("boom")
		})
	}), nil, WithMetrics(false, "", 0))
}

func serve(s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) AppError {
	t.Helper()
	var body struct {
		Error AppError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestServer_ErrorBodies(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		path    string
		status  int
		kind    string
		message string
	}{
		{"/app-error", http.StatusNotFound, "SymbolNotFound", "symbol NOPE not found"},
		{"/plain-error", http.StatusInternalServerError, KindInternal, "internal error"},
		{"/panic", http.StatusInternalServerError, KindInternal, "internal error"},
		{"/no-such-route", http.StatusNotFound, "NotFound", "Not Found"},
	}
	for _, tc := range cases {
		rec := serve(s, http.MethodGet, tc.path, nil)
		require.Equal(t, tc.status, rec.Code, tc.path)
		e := decodeError(t, rec)
		assert.Equal(t, tc.kind, e.Kind, tc.path)
		assert.Equal(t, tc.message, e.Message, tc.path)
	}
}

func TestServer_RequestID(t *testing.T) {
	s := newTestServer()

	rec := serve(s, http.MethodGet, "/ok", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(middleware.HeaderRequestID), 36)

	rec = serve(s, http.MethodGet, "/ok", map[string]string{middleware.HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.HeaderRequestID))
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer()

	rec := serve(s, http.MethodGet, "/ok", map[string]string{"Origin": "https://example.org"})
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = serve(s, http.MethodOptions, "/ok", map[string]string{"Origin": "https://example.org"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodGet)
}

func TestAsAppError(t *testing.T) {
	e := AsAppError(echo.NewHTTPError(http.StatusMethodNotAllowed))
	assert.Equal(t, "MethodNotAllowed", e.Kind)
	assert.Equal(t, http.StatusMethodNotAllowed, e.Status)

	wrapped := AsAppError(errors.Join(errors.New("ctx"), NewAppError("InvalidSymbol", "bad", http.StatusBadRequest)))
	assert.Equal(t, "InvalidSymbol", wrapped.Kind)
}
