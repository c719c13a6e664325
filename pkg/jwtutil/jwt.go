package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"menuqr-service/pkg/config"
)

// TokenCookieName is the cookie carrying the session token for browser
// navigation
const TokenCookieName = "token"

// VendorClaims represents the JWT claims for an authenticated vendor
type VendorClaims struct {
	Email    string `json:"email"`
	VendorID uint   `json:"vendor_id"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
}

// ErrInvalidToken covers bad signature, malformed and expired tokens. The
// caller must not distinguish between those cases toward the end user.
var ErrInvalidToken = errors.New("invalid token")

// New creates a JWT utility with the given configuration. The signing key is
// mandatory: without it the service must refuse to issue or accept tokens.
func New(cfg *config.JWTConfig) (*JWTUtil, error) {
	if cfg == nil || cfg.SigningKey == "" {
		return nil, config.ErrMissingSigningKey
	}
	return &JWTUtil{config: cfg}, nil
}

// GenerateToken creates a signed token binding the vendor identity, valid for
// the configured window (7 days by default)
func (j *JWTUtil) GenerateToken(email string, vendorID uint) (string, error) {
	claims := VendorClaims{
		Email:    email,
		VendorID: vendorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*VendorClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&VendorClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*VendorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// TokenMaxAge returns the validity window, used for the cookie max-age
func (j *JWTUtil) TokenMaxAge() time.Duration {
	return time.Duration(j.config.ExpirationHours) * time.Hour
}
