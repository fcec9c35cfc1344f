package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anpos/pos-backend/api/controllers"
	cartcontrollers "github.com/anpos/pos-backend/api/controllers/cart"
	"github.com/anpos/pos-backend/api/middleware"
	"github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/internal/catalog"
	"github.com/anpos/pos-backend/internal/operators"
	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/metrics"
)

// NewRouter mounts the terminal API. redisP may be nil when Redis is not
// configured; gatherer may be nil to leave /metrics unmounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	cartService cart.Service,
	catalogService catalog.Service,
	operatorService operators.Service,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/operators/login", controllers.OperatorLogin(operatorService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(middleware.RequireRole(logg, enums.OperatorRoleAdmin)).
				Post("/operators", controllers.OperatorRegister(operatorService, logg))

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/search", controllers.CatalogSearch(catalogService, logg))
				r.Get("/barcode/{code}", controllers.CatalogBarcode(catalogService, logg))
			})

			r.Route("/carts", func(r chi.Router) {
				r.Post("/", cartcontrollers.CartCreate(cartService, logg))
				r.Get("/active", cartcontrollers.CartActive(cartService, logg))
				r.Get("/parked", cartcontrollers.CartParked(cartService, logg))
				r.Post("/cleanup", cartcontrollers.CartCleanup(cartService, cfg.Cart, logg))

				r.Route("/{cartId}", func(r chi.Router) {
					r.Patch("/", cartcontrollers.CartRename(cartService, logg))
					r.Delete("/", cartcontrollers.CartCancel(cartService, logg))
					r.Post("/park", cartcontrollers.CartPark(cartService, logg))
					r.Post("/activate", cartcontrollers.CartActivate(cartService, logg))
					r.Post("/checkout", cartcontrollers.CartCheckout(cartService, cfg.Cart, logg))
					r.Post("/payment", cartcontrollers.CartConfirmPayment(cartService, logg))
					r.Get("/totals", cartcontrollers.CartTotals(cartService, logg))

					r.Route("/items", func(r chi.Router) {
						r.Get("/", cartcontrollers.CartItems(cartService, logg))
						r.Post("/", cartcontrollers.CartAddItem(cartService, logg))
						r.Patch("/", cartcontrollers.CartSetItemQuantity(cartService, logg))
						r.Delete("/", cartcontrollers.CartRemoveItem(cartService, logg))
					})
				})
			})
		})
	})

	return r
}
