package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onepctclub/storefront/internal/records"
	"github.com/onepctclub/storefront/pkg/config"
	"github.com/onepctclub/storefront/pkg/logger"
)

func testServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	db, err := records.OpenDB(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	svc, err := records.NewService(records.NewRepository(db))
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	srv := httptest.NewServer(NewRouter(cfg, logg, svc))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		Stub: config.StubConfig{
			AdminUsername:    "admin",
			AdminPassword:    "hunter2",
			JWTSecret:        "secret",
			JWTExpiryMinutes: 60,
			APIKey:           "stub-key",
		},
	}
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/admin/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	srv := testServer(t, testConfig())
	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := testServer(t, testConfig())
	resp, err := http.Get(srv.URL + "/api/admin/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminFlowEndToEnd(t *testing.T) {
	t.Parallel()

	srv := testServer(t, testConfig())
	token := login(t, srv)

	// One order through the legacy path, visible in the admin listing.
	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{
		"visitor_id": "v-1",
		"first_name": "Priya",
		"last_name": "Sharma",
		"email": "priya@example.com",
		"address": "MG Road",
		"house_number": "42",
		"city": "Bengaluru",
		"state": "Karnataka",
		"pin_code": "560001",
		"phone": "9876543210",
		"items": "[{\"id\":1,\"quantity\":2}]",
		"total_amount": 1998
	}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/admin/orders?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool               `json:"success"`
		Data    []records.OrderDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Priya Sharma", payload.Data[0].CustomerName)
	assert.Equal(t, 1998, payload.Data[0].Total)
}

func TestRESTInsertRequiresAPIKey(t *testing.T) {
	t.Parallel()

	srv := testServer(t, testConfig())

	resp, err := http.Post(srv.URL+"/rest/v1/selections", "application/json",
		strings.NewReader(`{"visitor_id":"v-1","product_id":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/rest/v1/selections",
		strings.NewReader(`{"visitor_id":"v-1","product_id":1,"quantity":1}`))
	require.NoError(t, err)
	req.Header.Set("apikey", "stub-key")
	req.Header.Set("Prefer", "return=minimal")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestDownloadServesSpreadsheet(t *testing.T) {
	t.Parallel()

	srv := testServer(t, testConfig())
	token := login(t, srv)

	resp, err := http.Get(srv.URL + "/api/admin/waitlist/download?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `waitlist_submissions.xlsx`)
}
