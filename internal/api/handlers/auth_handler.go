package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// AuthHandler is the handler for the auth API
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler for the auth API
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login validates ERP credentials and returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}
	if req.Username == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`username` is required")
	}
	if req.Password == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`password` is required")
	}

	result, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return response.ErrorResponse(c, http.StatusUnauthorized, "AuthenticationException", err.Error())
		}
		return serviceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, result)
}

// Logout releases the caller's ERP session and stored credential
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context(), callerKey(c)); err != nil {
		return serviceErrorResponse(c, err)
	}
	return response.SuccessResponse(c, "logged out")
}
