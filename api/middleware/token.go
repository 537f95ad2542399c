package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/onepctclub/storefront/api/responses"
	pkgAuth "github.com/onepctclub/storefront/pkg/auth"
	"github.com/onepctclub/storefront/pkg/config"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

type ctxKeyUsername struct{}

// StaffToken validates the token query parameter the admin clients attach
// and seeds the context with the staff username. Missing or invalid tokens
// answer 401 so the client tears its session down.
func StaffToken(cfg config.StubConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.URL.Query().Get("token"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token"))
				return
			}

			claims, err := pkgAuth.ParseStaffToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUsername{}, claims.Username)
			if logg != nil {
				ctx = logg.WithField(ctx, "staff_username", claims.Username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffUsername reads the authenticated staff username from the context.
func StaffUsername(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUsername{}).(string); ok {
		return v
	}
	return ""
}

// APIKey enforces the database-REST surface's apikey header when the stub
// is configured with one; with no key configured the surface is open, which
// is what local development wants.
func APIKey(cfg config.StubConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.APIKey != "" && r.Header.Get("apikey") != cfg.APIKey {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
