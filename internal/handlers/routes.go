package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"mainstream-shop/internal/middleware"
)

// RouterConfig carries everything the router needs
type RouterConfig struct {
	SessionStore sessions.Store
	UserLoader   middleware.UserLoader

	Auth     *AuthHandler
	Shop     *ShopHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Admin    *AdminHandler
	Health   *HealthHandler
}

// NewRouter assembles the shop API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.SessionMiddleware(cfg.SessionStore))
	r.Use(middleware.AuthMiddleware(cfg.UserLoader))
	r.NotFound(middleware.NotFoundHandler().ServeHTTP)

	r.Get("/health", cfg.Health.Health)

	checkoutLimiter := middleware.NewRateLimiter(10, time.Minute)
	trackLimiter := middleware.NewRateLimiter(20, time.Minute)

	loginLimiter := middleware.NewRateLimiter(5, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/auth/login", cfg.Auth.Login)
		r.Post("/auth/logout", cfg.Auth.Logout)
		r.Get("/auth/me", cfg.Auth.Me)

		r.Get("/events", cfg.Shop.ListEvents)
		r.Get("/events/{id}", cfg.Shop.GetEvent)
		r.Get("/events/{id}/categories", cfg.Shop.ListCategories)
		r.Get("/categories/{id}/athletes", cfg.Shop.ListAthletes)
		r.Get("/athletes/{id}", cfg.Shop.GetAthlete)
		r.Get("/video-types", cfg.Shop.ListVideoTypes)

		r.Get("/cart", cfg.Cart.View)
		r.Get("/cart/count", cfg.Cart.Count)
		r.Post("/cart/add", cfg.Cart.Add)
		r.Post("/cart/remove", cfg.Cart.Remove)
		r.Post("/cart/update", cfg.Cart.UpdateQuantity)
		r.Post("/cart/clear", cfg.Cart.Clear)
		r.Get("/notifications", cfg.Cart.Notifications)

		r.With(checkoutLimiter.Middleware).Post("/orders", cfg.Checkout.Create)
		r.Post("/orders/{id}/payment", cfg.Checkout.InitiatePayment)
		r.With(trackLimiter.Middleware).Post("/orders/track", cfg.Checkout.Track)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Get("/orders", cfg.Admin.ListOrders)
			r.Post("/orders/{id}/status", cfg.Admin.UpdateOrderStatus)
			r.Get("/audit-logs", cfg.Admin.ListAuditLogs)
		})
	})

	return r
}
