// Package handlers contains the handlers for the API
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// serviceErrorResponse translates service errors into API responses.
// Upstream ERP failures surface as 502 so callers can tell them apart
// from problems in this service.
func serviceErrorResponse(c echo.Context, err error) error {
	var authErr *service.AuthFailedError
	var statusErr *servicelayer.StatusError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return response.ErrorResponse(c, http.StatusUnauthorized, "AuthenticationException", "No ERP credential bound to this token, log in again")
	case errors.Is(err, service.ErrInvalidDate):
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", err.Error())
	case errors.Is(err, servicelayer.ErrNotFound):
		return response.ErrorResponse(c, http.StatusNotFound, "NotFoundException", "Record not found")
	case errors.As(err, &authErr):
		return response.ErrorResponse(c, http.StatusBadGateway, "UpstreamAuthException", authErr.Error())
	case errors.As(err, &statusErr):
		return response.ErrorResponse(c, http.StatusBadGateway, "UpstreamException", statusErr.Error())
	default:
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
}

// callerKey returns the caller key set by the auth middleware.
func callerKey(c echo.Context) string {
	key, _ := c.Get("caller_key").(string)
	return key
}
