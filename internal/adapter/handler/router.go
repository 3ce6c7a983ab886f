package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ardiwn/shop-api/internal/auth"
)

// NewRouter wires the public and token-gated routes.
func NewRouter(h *HTTPHandler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", h.Health)
	r.Post("/api/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(tokens))
		r.Get("/api/products", h.ListProducts)
		r.Post("/api/orders", h.CreateOrder)
		r.Get("/api/orders", h.ListOrders)
	})

	return r
}
