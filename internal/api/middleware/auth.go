package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/config"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// AuthMiddleware creates a new authorization middleware. It verifies the
// bearer token and puts the caller key (the token id) and the username
// into the request context for the handlers.
func AuthMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Missing Authorization header")
			}

			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Invalid Authorization header format")
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JwtSecret), nil
			}, jwt.WithIssuer(cfg.JwtIssuer))
			if err != nil || !token.Valid || claims.ID == "" {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Invalid or expired token")
			}

			// Add token data to context for use in handlers
			c.Set("caller_key", claims.ID)
			c.Set("username", claims.Subject)

			return next(c)
		}
	}
}
