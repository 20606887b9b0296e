package handlers

import (
	"net/http"

	"swiftcart-backend/internal/config"
	appmiddleware "swiftcart-backend/internal/middleware"
	"swiftcart-backend/internal/observability"
	"swiftcart-backend/internal/repository"
	"swiftcart-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Products *ProductHandler
	Orders   *OrderHandler
	Users    *UserHandler
	Coupons  *CouponHandler
	Payments *PaymentHandler
	Stats    *StatsHandler
}

// NewRouter assembles the API route tree under /api/v1 together with the
// middleware chain. Admin routes are guarded by the AdminOnly middleware,
// which resolves the caller through the user repository.
func NewRouter(cfg *config.Config, logger *zap.Logger, collector *observability.Collector, users repository.UserRepository, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Use(appmiddleware.RequestID)
	r.Use(appmiddleware.Logging(logger))
	r.Use(appmiddleware.Recovery(logger))
	if cfg.Metrics.Enabled {
		r.Use(appmiddleware.Metrics(collector))
	}
	r.Use(appmiddleware.Timeout(cfg.Server.WriteTimeout, logger))

	adminOnly := appmiddleware.AdminOnly(users)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		api.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "API Working with /api/v1",
		})
	})

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/new", h.Users.Create)
			r.With(adminOnly).Get("/all", h.Users.All)
			r.Get("/{id}", h.Users.Get)
			r.With(adminOnly).Delete("/{id}", h.Users.Delete)
		})

		r.Route("/product", func(r chi.Router) {
			r.Get("/latest", h.Products.Latest)
			r.Get("/all", h.Products.Search)
			r.Get("/categories", h.Products.Categories)
			r.With(adminOnly).Get("/admin-products", h.Products.AdminProducts)
			r.With(adminOnly).Post("/new", h.Products.Create)

			r.Get("/reviews/{id}", h.Products.Reviews)
			r.Post("/review/new/{id}", h.Products.SubmitReview)
			r.Delete("/review/{id}", h.Products.DeleteReview)

			r.Get("/{id}", h.Products.Get)
			r.With(adminOnly).Put("/{id}", h.Products.Update)
			r.With(adminOnly).Delete("/{id}", h.Products.Delete)
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/new", h.Orders.Place)
			r.Get("/my", h.Orders.My)
			r.With(adminOnly).Get("/all", h.Orders.All)
			r.Get("/{id}", h.Orders.Get)
			r.With(adminOnly).Put("/{id}", h.Orders.Process)
			r.With(adminOnly).Delete("/{id}", h.Orders.Delete)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create", h.Payments.CreateIntent)
		})

		r.Route("/coupon", func(r chi.Router) {
			r.Get("/discount", h.Coupons.ApplyDiscount)
			r.With(adminOnly).Post("/new", h.Coupons.Create)
			r.With(adminOnly).Get("/all", h.Coupons.All)
			r.With(adminOnly).Get("/{id}", h.Coupons.Get)
			r.With(adminOnly).Put("/{id}", h.Coupons.Update)
			r.With(adminOnly).Delete("/{id}", h.Coupons.Delete)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/stats", h.Stats.Dashboard)
			r.Get("/pie", h.Stats.Pie)
			r.Get("/bar", h.Stats.Bar)
			r.Get("/line", h.Stats.Line)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "Route "+r.URL.Path+" not found")
	})

	return r
}
