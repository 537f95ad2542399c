package controllers

import (
	"net/http"

	"github.com/onepctclub/storefront/api/responses"
	"github.com/onepctclub/storefront/internal/records"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

const spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminWaitlist lists waitlist signups.
func AdminWaitlist(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Waitlist(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading waitlist"))
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AdminOrders lists captured orders from both write paths.
func AdminOrders(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.Orders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders"))
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// AdminWaitlistDownload serves the waitlist spreadsheet export.
func AdminWaitlistDownload(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Waitlist(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading waitlist"))
			return
		}
		raw, err := records.ExportWaitlist(entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering export"))
			return
		}
		serveSpreadsheet(w, "waitlist_submissions.xlsx", raw)
	}
}

// AdminOrdersDownload serves the orders spreadsheet export.
func AdminOrdersDownload(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.Orders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders"))
			return
		}
		raw, err := records.ExportOrders(orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering export"))
			return
		}
		serveSpreadsheet(w, "order_submissions.xlsx", raw)
	}
}

func serveSpreadsheet(w http.ResponseWriter, filename string, raw []byte) {
	w.Header().Set("Content-Type", spreadsheetContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
