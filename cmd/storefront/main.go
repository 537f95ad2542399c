package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/onepctclub/storefront/internal/cart"
	"github.com/onepctclub/storefront/internal/checkout"
	"github.com/onepctclub/storefront/internal/guard"
	"github.com/onepctclub/storefront/internal/identity"
	"github.com/onepctclub/storefront/internal/profile"
	"github.com/onepctclub/storefront/internal/submit"
	"github.com/onepctclub/storefront/pkg/config"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

const usage = `usage: storefront <command> [flags]

commands:
  cart add           add an item to the cart (merges on id+color+size)
  cart remove        remove an item by id
  cart set-quantity  set an item's quantity
  cart show          print the cart with totals
  cart clear         empty the cart
  checkout           capture shipping details and submit the order
  confirmation       print the last order confirmation
  whoami             print the visitor id
`

type app struct {
	cfg     *config.Config
	logg    *logger.Logger
	profile *profile.Store
	cart    *cart.Store
	policy  guard.Policy
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dir := cfg.Profile.Dir
	if dir == "" {
		if dir, err = profile.DefaultDir(); err != nil {
			logg.Error(context.Background(), "failed to resolve profile directory", err)
			os.Exit(1)
		}
	}
	store, err := profile.Open(dir)
	if err != nil {
		logg.Error(context.Background(), "failed to open profile", err)
		os.Exit(1)
	}
	defer store.Close()

	policy, err := guard.FromConfig(cfg.Guard)
	if err != nil {
		logg.Error(context.Background(), "invalid guard config", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     cfg,
		logg:    logg,
		profile: store,
		cart:    cart.NewStore(store),
		policy:  policy,
	}

	if err := a.run(os.Args[1:]); err != nil {
		var violation *guard.Violation
		if errors.As(err, &violation) {
			fmt.Fprintf(os.Stderr, "%s; redirected to %s\n", violation.Error(), violation.Redirect)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "cart":
		return a.runCart(args[1:])
	case "checkout":
		return a.runCheckout(args[1:])
	case "confirmation":
		return a.runConfirmation()
	case "whoami":
		return a.runWhoami()
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) runCart(args []string) error {
	if len(args) == 0 {
		return errors.New("cart needs a subcommand: add, remove, set-quantity, show, clear")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
		var item cart.Item
		fs.IntVar(&item.ID, "id", 0, "product id")
		fs.StringVar(&item.Name, "name", "", "product name")
		fs.StringVar(&item.Color, "color", "", "variant color")
		fs.StringVar(&item.Size, "size", "", "variant size")
		fs.IntVar(&item.Price, "price", 0, "unit price")
		fs.IntVar(&item.Quantity, "quantity", 1, "quantity")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if item.ID == 0 {
			return errors.New("cart add requires --id")
		}
		if err := a.cart.Add(item); err != nil {
			return err
		}
		a.recordSelection(item)
		return a.showCart()
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ContinueOnError)
		id := fs.Int("id", 0, "product id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.cart.Remove(*id); err != nil {
			return err
		}
		return a.showCart()
	case "set-quantity":
		fs := flag.NewFlagSet("cart set-quantity", flag.ContinueOnError)
		id := fs.Int("id", 0, "product id")
		quantity := fs.Int("quantity", 1, "new quantity")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.cart.SetQuantity(*id, *quantity); err != nil {
			return err
		}
		return a.showCart()
	case "show":
		return a.showCart()
	case "clear":
		if err := a.cart.Clear(); err != nil {
			return err
		}
		fmt.Println("cart cleared")
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

// recordSelection mirrors the product pick into the selections table.
// Best effort: a failed or unconfigured write never disturbs the cart.
func (a *app) recordSelection(item cart.Item) {
	direct := submit.NewDirectClient(a.cfg.Database, nil)
	if !direct.Configured() {
		return
	}

	ctx := context.Background()
	visitorID, err := identity.EnsureVisitorID(a.profile)
	if err != nil {
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "skipping selection record")
		return
	}

	res := direct.RecordSelection(a.logg.WithVisitorID(ctx, visitorID), submit.Selection{
		VisitorID: visitorID,
		ProductID: item.ID,
		Name:      item.Name,
		Color:     item.Color,
		Size:      item.Size,
		Price:     item.Price,
		Quantity:  item.Quantity,
		CreatedAt: time.Now().UTC(),
	})
	if !res.OK() {
		a.logg.Warn(a.logg.WithField(ctx, "error", res.Err.Message), "selection record failed")
	}
}

func (a *app) showCart() error {
	state, err := guard.CurrentState(a.profile, a.cart)
	if err != nil {
		return err
	}
	if err := a.policy.Check(guard.ViewCart, state); err != nil {
		return err
	}

	items, err := a.cart.Items()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tSIZE\tPRICE\tQTY")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n", it.ID, it.Name, it.Color, it.Size, it.Price, it.Quantity)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("total: %d items, %d\n", cart.TotalItems(items), cart.TotalPrice(items))
	return nil
}

func (a *app) runCheckout(args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var details checkout.ShippingDetails
	fs.StringVar(&details.FirstName, "first-name", "", "first name")
	fs.StringVar(&details.LastName, "last-name", "", "last name")
	fs.StringVar(&details.Email, "email", "", "email address")
	fs.StringVar(&details.Address, "address", "", "street address")
	fs.StringVar(&details.HouseNumber, "house-number", "", "house number")
	fs.StringVar(&details.City, "city", "", "city")
	fs.StringVar(&details.State, "state", "", "state")
	fs.StringVar(&details.PinCode, "pin-code", "", "postal code")
	fs.StringVar(&details.Phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state, err := guard.CurrentState(a.profile, a.cart)
	if err != nil {
		return err
	}
	if err := a.policy.Check(guard.ViewCheckout, state); err != nil {
		return err
	}

	writer := submit.NewWriter(a.cfg, nil)
	flow := checkout.NewFlow(a.profile, a.cart, writer, a.logg)

	confirmation, err := flow.Complete(context.Background(), details)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			if details, ok := typed.Details().(map[string]any); ok {
				if missing, ok := details["missing"].([]string); ok {
					return fmt.Errorf("missing shipping fields: %v", missing)
				}
			}
		}
		return err
	}

	printConfirmation(confirmation.Summary, confirmation.Warning)
	return nil
}

func (a *app) runConfirmation() error {
	state, err := guard.CurrentState(a.profile, a.cart)
	if err != nil {
		return err
	}
	if err := a.policy.Check(guard.ViewConfirmation, state); err != nil {
		return err
	}

	var summary checkout.Summary
	found, err := a.profile.GetJSON(profile.KeyCheckoutData, &summary)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no completed checkout on this profile")
	}
	printConfirmation(summary, "")
	return nil
}

func printConfirmation(summary checkout.Summary, warning string) {
	fmt.Println("order confirmed")
	fmt.Printf("  items: %d\n", summary.Items)
	fmt.Printf("  total: %d\n", summary.Total)
	fmt.Printf("  at:    %s\n", summary.Timestamp.Format("2006-01-02 15:04:05 MST"))
	if warning != "" {
		fmt.Printf("  warning: %s\n", warning)
	}
}

func (a *app) runWhoami() error {
	id, err := identity.EnsureVisitorID(a.profile)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
