// Package adminapi authenticates staff against the REST backend and keeps
// the bearer token alive across invocations. Expiry is detected reactively:
// the first 401 tears the session down, there is no timer.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onepctclub/storefront/internal/profile"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

const defaultLoginFailureDetail = "Invalid credentials"

// sessionStore is the slice of the profile store the session reads and
// writes.
type sessionStore interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(keys ...string) error
}

// Session is the staff auth state machine. State is derived from the
// persisted token: present means authenticated, absent means anonymous.
type Session struct {
	profile sessionStore
	baseURL string
	http    *http.Client
	logg    *logger.Logger

	// expired flips once a 401 is seen so the token is never reused within
	// this client lifetime even if another writer re-persists it.
	expired bool
}

func NewSession(p *profile.Store, baseURL string, httpClient *http.Client, logg *logger.Logger) *Session {
	return newSessionWithStore(p, baseURL, httpClient, logg)
}

func newSessionWithStore(store sessionStore, baseURL string, httpClient *http.Client, logg *logger.Logger) *Session {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Session{
		profile: store,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logg:    logg,
	}
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Detail   string `json:"detail"`
}

// Login exchanges credentials for a token and persists the session. A
// non-success response or a missing success flag leaves the session
// anonymous and surfaces the server detail, defaulting to
// "Invalid credentials".
func (s *Session) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/admin/login", bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "failed to connect to server")
	}
	defer resp.Body.Close()

	var decoded loginResponse
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !decoded.Success {
		detail := decoded.Detail
		if detail == "" {
			detail = defaultLoginFailureDetail
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, detail).WithStatus(resp.StatusCode)
	}

	if err := s.profile.Put(profile.KeyAdminToken, decoded.Token); err != nil {
		return err
	}
	if err := s.profile.Put(profile.KeyAdminUsername, decoded.Username); err != nil {
		return err
	}
	s.expired = false
	s.logg.Info(s.logg.WithField(ctx, "username", decoded.Username), "admin login")
	return nil
}

// Token returns the persisted token, false when the session is anonymous or
// has expired within this lifetime.
func (s *Session) Token() (string, bool, error) {
	if s.expired {
		return "", false, nil
	}
	token, ok, err := s.profile.Get(profile.KeyAdminToken)
	if err != nil {
		return "", false, err
	}
	return token, ok && token != "", nil
}

// Username returns the persisted staff username, empty when anonymous.
func (s *Session) Username() string {
	name, _, _ := s.profile.Get(profile.KeyAdminUsername)
	return name
}

// Authenticated reports whether a usable token is present.
func (s *Session) Authenticated() bool {
	_, ok, _ := s.Token()
	return ok
}

// Get issues an authenticated GET. The token rides as a query parameter,
// the observed backend contract. A 401 expires the session before the error
// is returned, so the caller can redirect to login.
func (s *Session) Get(ctx context.Context, path string) (*http.Response, error) {
	token, ok, err := s.Token()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")
	}

	u := fmt.Sprintf("%s%s?token=%s", s.baseURL, path, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "failed to connect to server")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		// The caller must always see the expiry signal; a storage failure
		// while clearing the persisted keys is logged, not surfaced, since
		// the in-memory poison already prevents token reuse.
		if err := s.Expire(ctx); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clearing expired session failed")
		}
		return nil, pkgerrors.New(pkgerrors.CodeAuthExpired, "session expired").WithStatus(http.StatusUnauthorized)
	}

	return resp, nil
}

// Expire clears the persisted session and poisons the in-memory token.
func (s *Session) Expire(ctx context.Context) error {
	s.expired = true
	s.logg.Warn(ctx, "admin session expired")
	return s.profile.Delete(profile.KeyAdminToken, profile.KeyAdminUsername)
}

// Logout notifies the backend best effort and unconditionally clears the
// local session.
func (s *Session) Logout(ctx context.Context) error {
	if token, ok, _ := s.Token(); ok {
		body, _ := json.Marshal(map[string]string{"token": token})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/admin/logout", bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.http.Do(req)
			if err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "logout notification failed")
			} else {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
		}
	}
	s.expired = false
	return s.profile.Delete(profile.KeyAdminToken, profile.KeyAdminUsername)
}
