// Package submit persists a completed checkout to the configured sinks: a
// direct database-REST endpoint and a legacy REST backend. Failures never
// escape as panics; every outcome is a Result the checkout flow can surface
// without blocking the visitor.
package submit

import (
	"time"
)

// Order is the immutable payload built once per checkout attempt. Field
// names match the shipping_details table columns.
type Order struct {
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

	// Items is the serialized cart snapshot taken at submission time.
	Items       string    `json:"items"`
	TotalAmount int       `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Selection is the lightweight event recorded when a visitor picks a
// product, kept separate from the order payload.
type Selection struct {
	VisitorID string    `json:"visitor_id"`
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// Failure carries what the caller needs to distinguish a missing
// configuration from a transport error from a server rejection.
type Failure struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// Result is the uniform outcome of a sink write: Err nil on success.
type Result struct {
	Data any      `json:"data"`
	Err  *Failure `json:"error"`
}

func (r Result) OK() bool { return r.Err == nil }

func failure(message string, status int) Result {
	return Result{Err: &Failure{Message: message, Status: status}}
}
