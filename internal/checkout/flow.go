package checkout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/onepctclub/storefront/internal/cart"
	"github.com/onepctclub/storefront/internal/identity"
	"github.com/onepctclub/storefront/internal/profile"
	"github.com/onepctclub/storefront/internal/submit"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

// Summary is the minimal order record kept locally for the confirmation
// view, stored under the checkoutData key.
type Summary struct {
	Items     int       `json:"items"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Confirmation is what the visitor sees after completing checkout. Warning
// carries a submission failure that did not block completion.
type Confirmation struct {
	Summary
	Warning string
}

type orderWriter interface {
	Submit(ctx context.Context, order submit.Order) submit.Outcome
}

// Flow runs one checkout attempt end to end.
type Flow struct {
	profile *profile.Store
	cart    *cart.Store
	writer  orderWriter
	logg    *logger.Logger
	now     func() time.Time
}

func NewFlow(p *profile.Store, c *cart.Store, writer orderWriter, logg *logger.Logger) *Flow {
	return &Flow{profile: p, cart: c, writer: writer, logg: logg, now: time.Now}
}

// Complete validates the shipping details, snapshots the cart, submits the
// order and saves the confirmation summary. Submission failure is surfaced
// in the Confirmation but never fails the call: losing an order record is
// preferred over losing the sale.
func (f *Flow) Complete(ctx context.Context, details ShippingDetails) (*Confirmation, error) {
	if missing := MissingFields(details); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping details incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	items, err := f.cart.Items()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	visitorID, err := identity.EnsureVisitorID(f.profile)
	if err != nil {
		return nil, err
	}

	order, err := buildOrder(visitorID, details, items, f.now())
	if err != nil {
		return nil, err
	}

	summary := Summary{
		Items:     cart.TotalItems(items),
		Total:     cart.TotalPrice(items),
		Timestamp: order.CreatedAt,
	}
	if err := f.profile.PutJSON(profile.KeyCheckoutData, summary); err != nil {
		return nil, err
	}

	conf := &Confirmation{Summary: summary}

	ctx = f.logg.WithVisitorID(ctx, visitorID)
	out := f.writer.Submit(ctx, order)
	switch {
	case !out.OK():
		f.logg.Error(ctx, "order submission failed", out.Err())
		conf.Warning = out.Primary.Err.Message
	case out.PartialFailure():
		f.logg.Warn(f.logg.WithField(ctx, "error", out.Secondary.Err.Message), "order mirror write failed")
	default:
		f.logg.Info(ctx, "order submitted")
	}

	return conf, nil
}

// buildOrder constructs the immutable submission payload. The cart snapshot
// is serialized once here and never mutated afterwards.
func buildOrder(visitorID string, details ShippingDetails, items []cart.Item, at time.Time) (submit.Order, error) {
	snapshot, err := json.Marshal(items)
	if err != nil {
		return submit.Order{}, err
	}
	return submit.Order{
		VisitorID:   visitorID,
		FirstName:   details.FirstName,
		LastName:    details.LastName,
		Email:       details.Email,
		Address:     details.Address,
		HouseNumber: details.HouseNumber,
		City:        details.City,
		State:       details.State,
		PinCode:     details.PinCode,
		Phone:       details.Phone,
		Items:       string(snapshot),
		TotalAmount: cart.TotalPrice(items),
		CreatedAt:   at.UTC(),
	}, nil
}
