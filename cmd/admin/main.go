package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/onepctclub/storefront/internal/adminapi"
	"github.com/onepctclub/storefront/internal/dashboard"
	"github.com/onepctclub/storefront/internal/profile"
	"github.com/onepctclub/storefront/pkg/config"
	pkgerrors "github.com/onepctclub/storefront/pkg/errors"
	"github.com/onepctclub/storefront/pkg/logger"
)

const usage = `usage: admin <command> [args]

commands:
  login <username> <password>  exchange credentials for a staff session
  whoami                       print the logged-in username
  waitlist                     list waitlist signups
  orders                       list captured orders
  download <waitlist|orders>   save the collection spreadsheet
  logout                       end the session
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "admin"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "admin",
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

	session := adminapi.NewSession(store, cfg.Backend.BaseURL(), nil, logg)
	service := dashboard.NewService(session, logg)

	if err := run(cfg, session, service, os.Args[1:]); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeAuthExpired {
			fmt.Fprintln(os.Stderr, "session expired, log in again")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, session *adminapi.Session, service *dashboard.Service, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	ctx := context.Background()
	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errors.New("login needs a username and a password")
		}
		if err := session.Login(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", session.Username())
		return nil
	case "whoami":
		if !session.Authenticated() {
			return errors.New("not logged in")
		}
		fmt.Println(session.Username())
		return nil
	case "waitlist":
		records, err := service.Load(ctx, dashboard.CollectionWaitlist)
		if err != nil {
			return err
		}
		return printWaitlist(records.Waitlist)
	case "orders":
		records, err := service.Load(ctx, dashboard.CollectionOrders)
		if err != nil {
			return err
		}
		return printOrders(records.Orders)
	case "download":
		if len(args) != 2 {
			return errors.New("download needs a collection: waitlist or orders")
		}
		path, err := service.Download(ctx, dashboard.Collection(args[1]), cfg.Download.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", path)
		return nil
	case "logout":
		if err := session.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printWaitlist(entries []dashboard.WaitlistEntry) error {
	if len(entries) == 0 {
		fmt.Println("no waitlist signups")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tSIGNED UP")
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n",
			e.FirstName, e.LastName, e.Email, e.Phone, e.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func printOrders(entries []dashboard.OrderEntry) error {
	if len(entries) == 0 {
		fmt.Println("no orders captured")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CUSTOMER\tEMAIL\tITEMS\tTOTAL\tPLACED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			e.CustomerName, e.CustomerEmail, e.Items, e.Total, e.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
