package httpapi

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/adapter/httpapi/middleware"
)

// NewRouter maps the HTTP surface onto the handlers. Everything except the
// public feed sits behind the bearer-token middleware.
func NewRouter(h *Handler, verifier middleware.IdentityVerifier, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing("marketplace-backend"))

	r.Get("/api/listings", h.HandleFeed)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Auth(verifier, logger))

		pr.Post("/api/listings", h.HandleCreateListing)
		pr.Get("/api/listings/{id}", h.HandleGetListing)
		pr.Put("/api/listings/{id}", h.HandleUpdateListing)
		pr.Delete("/api/listings/{id}", h.HandleDeleteListing)
		pr.Put("/api/listings/{id}/status", h.HandleUpdateStockStatus)

		pr.Get("/api/me/listings", h.HandleMyListings)
		pr.Get("/api/me/profile", h.HandleGetProfile)
		pr.Put("/api/me/profile", h.HandleUpdateProfile)
	})

	return r
}
