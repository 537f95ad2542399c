// Package guard gates navigation into the shopping views. Pure policy: it
// owns no state, it only inspects the profile's current preconditions.
package guard

import (
	"fmt"

	"github.com/onepctclub/storefront/internal/cart"
	"github.com/onepctclub/storefront/internal/profile"
	"github.com/onepctclub/storefront/pkg/config"
)

type View string

const (
	ViewStore        View = "store"
	ViewCart         View = "cart"
	ViewCheckout     View = "checkout"
	ViewConfirmation View = "confirmation"
)

// RedirectTarget is where violations send the visitor.
const RedirectTarget = "/store"

type Requirement string

const (
	RequireNone         Requirement = "none"
	RequireNonEmptyCart Requirement = "non-empty-cart"
	RequireCheckoutData Requirement = "checkout-data"
)

// State is the precondition snapshot a check runs against.
type State struct {
	CartItems       int
	HasCheckoutData bool
}

// CurrentState reads the precondition snapshot from the profile.
func CurrentState(p *profile.Store, c *cart.Store) (State, error) {
	items, err := c.TotalItems()
	if err != nil {
		return State{}, err
	}
	var summary map[string]any
	hasCheckout, err := p.GetJSON(profile.KeyCheckoutData, &summary)
	if err != nil {
		return State{}, err
	}
	return State{CartItems: items, HasCheckoutData: hasCheckout}, nil
}

// Violation reports a blocked navigation and where to send the visitor.
type Violation struct {
	View        View
	Requirement Requirement
	Redirect    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("view %s requires %s, redirecting to %s", v.View, v.Requirement, v.Redirect)
}

// Policy maps each protected view to its entry requirement.
type Policy map[View]Requirement

// DefaultPolicy mirrors the shipped configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		ViewStore:        RequireNone,
		ViewCart:         RequireNone,
		ViewCheckout:     RequireNonEmptyCart,
		ViewConfirmation: RequireNonEmptyCart,
	}
}

// FromConfig builds the policy from configuration, rejecting unknown
// requirement names.
func FromConfig(cfg config.GuardConfig) (Policy, error) {
	p := Policy{}
	for view, raw := range map[View]string{
		ViewStore:        cfg.Store,
		ViewCart:         cfg.Cart,
		ViewCheckout:     cfg.Checkout,
		ViewConfirmation: cfg.Confirmation,
	} {
		req := Requirement(raw)
		switch req {
		case RequireNone, RequireNonEmptyCart, RequireCheckoutData:
			p[view] = req
		default:
			return nil, fmt.Errorf("unknown guard requirement %q for view %s", raw, view)
		}
	}
	return p, nil
}

// Check returns nil when the view may be entered, or a *Violation naming
// the redirect target. Unknown views are unguarded.
func (p Policy) Check(view View, state State) error {
	req, ok := p[view]
	if !ok {
		return nil
	}

	satisfied := true
	switch req {
	case RequireNonEmptyCart:
		satisfied = state.CartItems > 0
	case RequireCheckoutData:
		satisfied = state.HasCheckoutData
	}
	if satisfied {
		return nil
	}
	return &Violation{View: view, Requirement: req, Redirect: RedirectTarget}
}
