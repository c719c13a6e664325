package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"menuqr-service/pkg/jwtutil"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// JWTAuthMiddleware validates the session token on every vendor-scoped
// route. It accepts the Authorization Bearer header and falls back to the
// token cookie set at login, which is what guards plain browser navigation.
// All failures produce the same generic message.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			tokenString := bearerToken(c)
			if tokenString == "" {
				if cookie, err := c.Cookie(jwtutil.TokenCookieName); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				log.Warn("Missing authorization token")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store vendor identity in context for later use
			c.Set("vendor_id", claims.VendorID)
			c.Set("email", claims.Email)

			log.Debug("Token validated",
				zap.Uint("vendor_id", claims.VendorID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
