package guard

import (
	"errors"
	"testing"

	"github.com/onepctclub/storefront/internal/cart"
	"github.com/onepctclub/storefront/internal/profile"
	"github.com/onepctclub/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	assert.NoError(t, p.Check(ViewStore, State{}))
	assert.NoError(t, p.Check(ViewCart, State{}))

	err := p.Check(ViewCheckout, State{CartItems: 0})
	require.Error(t, err)
	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, RedirectTarget, v.Redirect)

	assert.NoError(t, p.Check(ViewCheckout, State{CartItems: 2}))
	assert.NoError(t, p.Check(ViewConfirmation, State{CartItems: 1}))
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	p, err := FromConfig(config.GuardConfig{
		Store:        "none",
		Cart:         "none",
		Checkout:     "non-empty-cart",
		Confirmation: "checkout-data",
	})
	require.NoError(t, err)

	assert.Error(t, p.Check(ViewConfirmation, State{CartItems: 5}))
	assert.NoError(t, p.Check(ViewConfirmation, State{HasCheckoutData: true}))
}

func TestFromConfigRejectsUnknownRequirement(t *testing.T) {
	t.Parallel()

	_, err := FromConfig(config.GuardConfig{Store: "none", Cart: "none", Checkout: "logged-in", Confirmation: "none"})
	assert.Error(t, err)
}

func TestUnknownViewUnguarded(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultPolicy().Check(View("admin"), State{}))
}

func TestCurrentState(t *testing.T) {
	p, err := profile.Open(t.TempDir())
	require.NoError(t, err)
	defer p.Close()
	c := cart.NewStore(p)

	state, err := CurrentState(p, c)
	require.NoError(t, err)
	assert.Equal(t, State{}, state)

	require.NoError(t, c.Add(cart.Item{ID: 1, Price: 999, Quantity: 2}))
	require.NoError(t, p.PutJSON(profile.KeyCheckoutData, map[string]any{"items": 2, "total": 1998}))

	state, err = CurrentState(p, c)
	require.NoError(t, err)
	assert.Equal(t, State{CartItems: 2, HasCheckoutData: true}, state)
}
