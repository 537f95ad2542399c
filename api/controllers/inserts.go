package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/onepctclub/storefront/api/responses"
	"github.com/onepctclub/storefront/internal/records"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

type waitlistRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Waitlist captures a public landing-page signup.
func Waitlist(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req waitlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email is required"))
			return
		}
		err := svc.AddWaitlistEntry(r.Context(), records.WaitlistEntry{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving waitlist entry"))
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

type orderRequest struct {
	VisitorID   string `json:"visitor_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	State       string `json:"state"`
	PinCode     string `json:"pin_code"`
	Phone       string `json:"phone"`
	Items       string `json:"items"`
	TotalAmount int    `json:"total_amount"`
}

// Orders is the legacy order write path: the storefront posts the same
// payload it would insert into the shipping_details table.
func Orders(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		entry := records.OrderEntry{
			VisitorID:       req.VisitorID,
			CustomerName:    strings.TrimSpace(req.FirstName + " " + req.LastName),
			CustomerEmail:   req.Email,
			CustomerPhone:   req.Phone,
			CustomerAddress: records.JoinAddress(req.HouseNumber, req.Address, req.City, req.State, req.PinCode),
			Items:           snapshotCount(req.Items),
			Total:           req.TotalAmount,
		}
		if err := svc.AddOrderEntry(r.Context(), entry); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving order"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, nil)
	}
}

// RESTInsert implements the database-REST surface: POST /rest/v1/{table}
// with a Prefer: return=minimal acknowledgement.
func RESTInsert(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		ctx := r.Context()

		switch table {
		case "selections":
			var payload struct {
				VisitorID string    `json:"visitor_id"`
				ProductID int       `json:"product_id"`
				Name      string    `json:"name"`
				Color     string    `json:"color"`
				Size      string    `json:"size"`
				Price     int       `json:"price"`
				Quantity  int       `json:"quantity"`
				CreatedAt time.Time `json:"created_at"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeRESTError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			err := svc.AddSelection(ctx, records.Selection{
				VisitorID: payload.VisitorID,
				ProductID: payload.ProductID,
				Name:      payload.Name,
				Color:     payload.Color,
				Size:      payload.Size,
				Price:     payload.Price,
				Quantity:  payload.Quantity,
			})
			if err != nil {
				writeRESTError(w, http.StatusInternalServerError, "insert failed")
				return
			}
		case "shipping_details":
			var payload orderRequest
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeRESTError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			err := svc.AddShippingDetail(ctx, records.ShippingDetail{
				VisitorID:   payload.VisitorID,
				FirstName:   payload.FirstName,
				LastName:    payload.LastName,
				Email:       payload.Email,
				Address:     payload.Address,
				HouseNumber: payload.HouseNumber,
				City:        payload.City,
				State:       payload.State,
				PinCode:     payload.PinCode,
				Phone:       payload.Phone,
				Snapshot:    payload.Items,
				TotalAmount: payload.TotalAmount,
			})
			if err != nil {
				writeRESTError(w, http.StatusInternalServerError, "insert failed")
				return
			}
		default:
			writeRESTError(w, http.StatusNotFound, "relation \""+table+"\" does not exist")
			return
		}

		logg.Info(logg.WithField(ctx, "table", table), "rest insert")
		// Prefer: return=minimal is the only mode the clients use.
		w.WriteHeader(http.StatusCreated)
	}
}

// writeRESTError mimics the database-REST error shape the submission
// client extracts messages from.
func writeRESTError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func snapshotCount(snapshot string) int {
	var items []struct {
		Quantity int `json:"quantity"`
	}
	if json.Unmarshal([]byte(snapshot), &items) != nil {
		return 0
	}
	count := 0
	for _, it := range items {
		if it.Quantity <= 0 {
			count++
			continue
		}
		count += it.Quantity
	}
	return count
}
