package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	paths   []string
	handler http.HandlerFunc
	err     error
}

func (f *fakeGetter) Get(ctx context.Context, path string) (*http.Response, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	rec := httptest.NewRecorder()
	f.handler(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Result(), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestLoadWaitlist(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"firstName":"Asha","lastName":"Rao","email":"asha@example.com","phone":"9876543210","timestamp":"2026-08-01T10:00:00Z"}
		]}`))
	}}
	svc := newServiceWithGetter(getter, testLogger())

	records, err := svc.Load(context.Background(), CollectionWaitlist)
	require.NoError(t, err)
	require.Len(t, records.Waitlist, 1)
	assert.Equal(t, "Asha", records.Waitlist[0].FirstName)
	assert.Equal(t, []string{"/api/admin/waitlist"}, getter.paths)
}

func TestLoadOrders(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"customerName":"Asha Rao","customerEmail":"asha@example.com","customerPhone":"9876543210","customerAddress":"42 MG Road","items":2,"total":1998,"timestamp":"2026-08-01T10:00:00Z"}
		]}`))
	}}
	svc := newServiceWithGetter(getter, testLogger())

	records, err := svc.Load(context.Background(), CollectionOrders)
	require.NoError(t, err)
	require.Len(t, records.Orders, 1)
	assert.Equal(t, 1998, records.Orders[0].Total)
	assert.Equal(t, 1, records.Len())
}

func TestLoadSurfacesServerDetail(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{handler: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"detail":"database unavailable"}`))
	}}
	svc := newServiceWithGetter(getter, testLogger())

	_, err := svc.Load(context.Background(), CollectionOrders)
	require.Error(t, err)
	assert.Equal(t, "database unavailable", pkgerrors.As(err).Message())
}

func TestLoadPropagatesSessionError(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{err: pkgerrors.New(pkgerrors.CodeAuthExpired, "session expired")}
	svc := newServiceWithGetter(getter, testLogger())

	_, err := svc.Load(context.Background(), CollectionWaitlist)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeAuthExpired))
}

func TestLoadUnknownCollection(t *testing.T) {
	t.Parallel()

	svc := newServiceWithGetter(&fakeGetter{}, testLogger())
	_, err := svc.Load(context.Background(), Collection("customers"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDownloadSavesFixedFilename(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{handler: func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04spreadsheet-bytes"))
	}}
	svc := newServiceWithGetter(getter, testLogger())
	dir := t.TempDir()

	path, err := svc.Download(context.Background(), CollectionWaitlist, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "waitlist_submissions.xlsx"), path)
	assert.Equal(t, []string{"/api/admin/waitlist/download"}, getter.paths)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "PK"))
}

func TestDownloadFailureCarriesStatus(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{handler: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}}
	svc := newServiceWithGetter(getter, testLogger())

	_, err := svc.Download(context.Background(), CollectionOrders, t.TempDir())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, http.StatusInternalServerError, typed.Status())
}
