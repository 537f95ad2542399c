package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onepctclub/storefront/api/controllers"
	"github.com/onepctclub/storefront/api/middleware"
	"github.com/onepctclub/storefront/internal/records"
	"github.com/onepctclub/storefront/pkg/config"
	"github.com/onepctclub/storefront/pkg/logger"
)

// NewRouter wires the three surfaces the storefront and admin clients
// talk to: the public capture endpoints, the token-guarded admin API,
// and the key-guarded database-REST inserts.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	recordsService records.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/waitlist", controllers.Waitlist(recordsService, logg))
		r.Post("/orders", controllers.Orders(recordsService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(cfg.Stub, logg))
			r.Post("/logout", controllers.AdminLogout(logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.StaffToken(cfg.Stub, logg))
				r.Get("/waitlist", controllers.AdminWaitlist(recordsService, logg))
				r.Get("/orders", controllers.AdminOrders(recordsService, logg))
				r.Get("/waitlist/download", controllers.AdminWaitlistDownload(recordsService, logg))
				r.Get("/orders/download", controllers.AdminOrdersDownload(recordsService, logg))
			})
		})
	})

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Stub, logg))
		r.Post("/{table}", controllers.RESTInsert(recordsService, logg))
	})

	return r
}
