// Package dashboard fetches and exports the waitlist and order collections
// staff inspect after login.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onepctclub/storefront/internal/adminapi"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

type Collection string

const (
	CollectionWaitlist Collection = "waitlist"
	CollectionOrders   Collection = "orders"
)

var exportFilenames = map[Collection]string{
	CollectionWaitlist: "waitlist_submissions.xlsx",
	CollectionOrders:   "order_submissions.xlsx",
}

// WaitlistEntry is a landing-page signup, read-only from this side.
type WaitlistEntry struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderEntry is a captured order as the backend stores it.
type OrderEntry struct {
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
	Items           int       `json:"items"`
	Total           int       `json:"total"`
	Timestamp       time.Time `json:"timestamp"`
}

// Records holds whichever collection was loaded.
type Records struct {
	Waitlist []WaitlistEntry
	Orders   []OrderEntry
}

func (r Records) Len() int {
	return len(r.Waitlist) + len(r.Orders)
}

type authedGetter interface {
	Get(ctx context.Context, path string) (*http.Response, error)
}

// Service reads admin collections through the authenticated session.
type Service struct {
	session authedGetter
	logg    *logger.Logger
}

func NewService(session *adminapi.Session, logg *logger.Logger) *Service {
	return &Service{session: session, logg: logg}
}

func newServiceWithGetter(session authedGetter, logg *logger.Logger) *Service {
	return &Service{session: session, logg: logg}
}

type listEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
}

// Load fetches one collection. A body with success:false surfaces the
// server's detail; a 401 has already torn the session down by the time the
// error reaches the caller.
func (s *Service) Load(ctx context.Context, collection Collection) (Records, error) {
	if _, ok := exportFilenames[collection]; !ok {
		return Records{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown collection %q", collection))
	}

	ctx = s.logg.WithCollection(ctx, string(collection))
	resp, err := s.session.Get(ctx, "/api/admin/"+string(collection))
	if err != nil {
		return Records{}, err
	}
	defer resp.Body.Close()

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Records{}, pkgerrors.Wrap(pkgerrors.CodeRejected, err, "decoding response").WithStatus(resp.StatusCode)
	}
	if !envelope.Success {
		detail := envelope.Detail
		if detail == "" {
			detail = "Failed to load data"
		}
		return Records{}, pkgerrors.New(pkgerrors.CodeRejected, detail).WithStatus(resp.StatusCode)
	}

	var records Records
	switch collection {
	case CollectionWaitlist:
		if err := json.Unmarshal(envelope.Data, &records.Waitlist); err != nil {
			return Records{}, pkgerrors.Wrap(pkgerrors.CodeRejected, err, "decoding waitlist entries")
		}
	case CollectionOrders:
		if err := json.Unmarshal(envelope.Data, &records.Orders); err != nil {
			return Records{}, pkgerrors.Wrap(pkgerrors.CodeRejected, err, "decoding order entries")
		}
	}

	s.logg.Info(s.logg.WithField(ctx, "count", records.Len()), "collection loaded")
	return records, nil
}

// Download fetches the spreadsheet export and saves it under the fixed
// per-collection filename in dir, returning the written path. Unlike the
// loads, the export body is binary; the failure still carries at least the
// HTTP status.
func (s *Service) Download(ctx context.Context, collection Collection, dir string) (string, error) {
	filename, ok := exportFilenames[collection]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown collection %q", collection))
	}

	ctx = s.logg.WithCollection(ctx, string(collection))
	resp, err := s.session.Get(ctx, "/api/admin/"+string(collection)+"/download")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", pkgerrors.New(pkgerrors.CodeRejected, fmt.Sprintf("download failed: HTTP %d", resp.StatusCode)).
			WithStatus(resp.StatusCode)
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	s.logg.Info(s.logg.WithField(ctx, "path", path), "export saved")
	return path, nil
}
