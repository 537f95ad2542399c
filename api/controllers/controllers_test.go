package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onepctclub/storefront/internal/records"
	"github.com/onepctclub/storefront/pkg/config"
	"github.com/onepctclub/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubRecords struct {
	waitlist []records.WaitlistEntry
	orders   []records.OrderEntry
	picks    []records.Selection
	details  []records.ShippingDetail

	waitlistDTOs []records.WaitlistDTO
	orderDTOs    []records.OrderDTO
	err          error
}

func (s *stubRecords) AddWaitlistEntry(_ context.Context, entry records.WaitlistEntry) error {
	s.waitlist = append(s.waitlist, entry)
	return s.err
}

func (s *stubRecords) AddOrderEntry(_ context.Context, entry records.OrderEntry) error {
	s.orders = append(s.orders, entry)
	return s.err
}

func (s *stubRecords) AddSelection(_ context.Context, sel records.Selection) error {
	s.picks = append(s.picks, sel)
	return s.err
}

func (s *stubRecords) AddShippingDetail(_ context.Context, detail records.ShippingDetail) error {
	s.details = append(s.details, detail)
	return s.err
}

func (s *stubRecords) Waitlist(context.Context) ([]records.WaitlistDTO, error) {
	return s.waitlistDTOs, s.err
}

func (s *stubRecords) Orders(context.Context) ([]records.OrderDTO, error) {
	return s.orderDTOs, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAdminLoginSuccess(t *testing.T) {
	t.Parallel()

	cfg := config.StubConfig{AdminUsername: "admin", AdminPassword: "hunter2", JWTSecret: "secret", JWTExpiryMinutes: 60}
	rec := postJSON(t, AdminLogin(cfg, testLogger()), "/api/admin/login",
		map[string]string{"username": "admin", "password": "hunter2"})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "admin", payload["username"])
	assert.NotEmpty(t, payload["token"])
}

func TestAdminLoginWrongPassword(t *testing.T) {
	t.Parallel()

	cfg := config.StubConfig{AdminUsername: "admin", AdminPassword: "hunter2", JWTSecret: "secret"}
	rec := postJSON(t, AdminLogin(cfg, testLogger()), "/api/admin/login",
		map[string]string{"username": "admin", "password": "nope"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Invalid credentials", payload["detail"])
}

func TestAdminLoginNotConfigured(t *testing.T) {
	t.Parallel()

	rec := postJSON(t, AdminLogin(config.StubConfig{}, testLogger()), "/api/admin/login",
		map[string]string{"username": "admin", "password": "hunter2"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWaitlistCapturesEntry(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	rec := postJSON(t, Waitlist(svc, testLogger()), "/api/waitlist", map[string]string{
		"firstName": "Priya",
		"lastName":  "Sharma",
		"email":     "priya@example.com",
		"phone":     "9876543210",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.waitlist, 1)
	assert.Equal(t, "priya@example.com", svc.waitlist[0].Email)
}

func TestWaitlistRequiresEmail(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	rec := postJSON(t, Waitlist(svc, testLogger()), "/api/waitlist", map[string]string{
		"firstName": "Priya",
		"email":     "   ",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.waitlist)
}

func TestOrdersLegacyWrite(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	rec := postJSON(t, Orders(svc, testLogger()), "/api/orders", map[string]any{
		"visitor_id":   "v-1",
		"first_name":   "Priya",
		"last_name":    "Sharma",
		"email":        "priya@example.com",
		"address":      "MG Road",
		"house_number": "42",
		"city":         "Bengaluru",
		"state":        "Karnataka",
		"pin_code":     "560001",
		"phone":        "9876543210",
		"items":        `[{"id":1,"quantity":2},{"id":2}]`,
		"total_amount": 1998,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.orders, 1)
	got := svc.orders[0]
	assert.Equal(t, "Priya Sharma", got.CustomerName)
	assert.Equal(t, "42, MG Road, Bengaluru, Karnataka, 560001", got.CustomerAddress)
	assert.Equal(t, 3, got.Items)
	assert.Equal(t, 1998, got.Total)
}

func restRequest(t *testing.T, svc records.Service, table string, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/rest/v1/{table}", RESTInsert(svc, testLogger()))
	req := httptest.NewRequest(http.MethodPost, "/rest/v1/"+table, strings.NewReader(body))
	req.Header.Set("Prefer", "return=minimal")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRESTInsertShippingDetails(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	rec := restRequest(t, svc, "shipping_details", `{
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
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
	require.Len(t, svc.details, 1)
	assert.Equal(t, "v-1", svc.details[0].VisitorID)
	assert.Equal(t, 1998, svc.details[0].TotalAmount)
}

func TestRESTInsertSelection(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{}
	rec := restRequest(t, svc, "selections", `{
		"visitor_id": "v-1",
		"product_id": 7,
		"name": "Hoodie",
		"color": "black",
		"size": "L",
		"price": 999,
		"quantity": 2
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.picks, 1)
	assert.Equal(t, 7, svc.picks[0].ProductID)
}

func TestRESTInsertUnknownTable(t *testing.T) {
	t.Parallel()

	rec := restRequest(t, &stubRecords{}, "nope", `{}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeBody(t, rec)
	assert.Contains(t, payload["message"], "does not exist")
}

func TestRESTInsertBadJSON(t *testing.T) {
	t.Parallel()

	rec := restRequest(t, &stubRecords{}, "selections", `{broken`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "invalid JSON body", payload["message"])
}

func TestAdminWaitlistList(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{waitlistDTOs: []records.WaitlistDTO{
		{FirstName: "Priya", Email: "priya@example.com", Timestamp: time.Now()},
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/waitlist", nil)
	rec := httptest.NewRecorder()
	AdminWaitlist(svc, testLogger())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Len(t, payload["data"], 1)
}

func TestAdminOrdersDownloadHeaders(t *testing.T) {
	t.Parallel()

	svc := &stubRecords{orderDTOs: []records.OrderDTO{{CustomerName: "Priya Sharma", Total: 1998}}}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/download", nil)
	rec := httptest.NewRecorder()
	AdminOrdersDownload(svc, testLogger())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, spreadsheetContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="order_submissions.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
