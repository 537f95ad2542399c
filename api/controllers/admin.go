// Package controllers implements the stub backend's HTTP surface: the
// token-auth admin API and the database-REST insert endpoint the storefront
// clients talk to.
package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/onepctclub/storefront/api/responses"
	pkgAuth "github.com/onepctclub/storefront/pkg/auth"
	"github.com/onepctclub/storefront/pkg/config"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin exchanges configured staff credentials for a signed token.
func AdminLogin(cfg config.StubConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotConfigured, "admin credentials not configured"))
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
		if !userOK || !passOK {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials"))
			return
		}

		token, err := pkgAuth.MintStaffToken(cfg, time.Now(), req.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token"))
			return
		}

		responses.WriteFields(w, map[string]any{
			"token":    token,
			"username": req.Username,
		})
	}
}

// AdminLogout acknowledges the client's best-effort notification. Tokens
// are stateless here, so there is nothing to revoke server side.
func AdminLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		logg.Info(r.Context(), "admin logout")
		responses.WriteSuccess(w, nil)
	}
}
