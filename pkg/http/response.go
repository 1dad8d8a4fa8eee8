package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a 200 JSON body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ErrorResponse writes the error body with the error's status.
func ErrorResponse(c echo.Context, appErr *AppError) error {
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorBody{Error: appErr})
}

// AppErrorResponse writes any error as an error body.
func AppErrorResponse(c echo.Context, err error) error {
	return ErrorResponse(c, AsAppError(err))
}
