package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"menuqr-service/internal/otp"
	"menuqr-service/pkg/jwtutil"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// AuthHandler implements the OTP login endpoints
type AuthHandler struct {
	issuer *otp.Issuer
	jwt    *jwtutil.JWTUtil
	env    string
}

// NewAuthHandler creates the login handler. env selects the cookie Secure
// flag ("production" enables it).
func NewAuthHandler(issuer *otp.Issuer, jwt *jwtutil.JWTUtil, env string) *AuthHandler {
	return &AuthHandler{issuer: issuer, jwt: jwt, env: env}
}

// SendOTP handles POST /auth/send-otp
func (h *AuthHandler) SendOTP(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OTPRequestCounter.Inc()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse OTP request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" {
		prometheus.RecordAuthError("missing_email")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	if err := h.issuer.RequestPasscode(req.Email); err != nil {
		log.Error("Failed to issue OTP", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("otp_issue_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send OTP"})
	}

	log.Info("OTP issued", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent successfully"})
}

// VerifyOTP handles POST /auth/verify-otp. On success it issues the session
// token, sets it as a cookie and returns it in the body.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OTPVerifyCounter.Inc()

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse OTP verification request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.OTP == "" {
		prometheus.RecordAuthError("incomplete_verification")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and OTP are required"})
	}

	vendor, err := h.issuer.VerifyPasscode(req.Email, req.OTP)
	if err != nil {
		if otp.IsCredentialFailure(err) {
			// One generic message for not-found, wrong and expired codes
			log.Warn("OTP verification failed", zap.String("email", req.Email))
			prometheus.RecordAuthError("invalid_otp")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired OTP"})
		}
		log.Error("OTP verification error", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("otp_verify_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	token, err := h.jwt.GenerateToken(vendor.Email, vendor.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	// HttpOnly stays off so the dashboard client can read the token;
	// a known, documented weakness of the current login flow
	c.SetCookie(&http.Cookie{
		Name:     jwtutil.TokenCookieName,
		Value:    token,
		HttpOnly: false,
		Secure:   h.env == "production",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.jwt.TokenMaxAge().Seconds()),
		Path:     "/",
	})

	prometheus.IncreaseActiveTokens()
	log.Info("Vendor logged in", zap.String("email", vendor.Email), zap.Uint("vendor_id", vendor.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP verified", "token": token})
}
