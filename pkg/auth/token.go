// Package auth mints and verifies the opaque staff tokens the admin API
// hands out at login. The clients never inspect these; only the backend
// cares that they are JWTs.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/onepctclub/storefront/pkg/config"
)

const tokenIssuer = "onepct-admin"

var jwtSigningMethod = jwt.SigningMethodHS256

// StaffClaims carry the authenticated staff username.
type StaffClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// MintStaffToken issues a signed token for the staff user using the
// configured TTL.
func MintStaffToken(cfg config.StubConfig, now time.Time, username string) (string, error) {
	if cfg.JWTSecret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.JWTExpiryMinutes <= 0 {
		return "", fmt.Errorf("jwt expiry minutes must be positive")
	}

	claims := StaffClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpiryMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.JWTSecret))
}

// ParseStaffToken verifies signature, issuer and expiry and returns the
// claims.
func ParseStaffToken(cfg config.StubConfig, token string) (*StaffClaims, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &StaffClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
