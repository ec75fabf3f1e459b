package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	custommiddleware "github.com/bhutanwine/engagement-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса вовлечённости.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/customers", h.RegisterCustomer)

		r.Route("/engage/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetEngagement)
			r.Post("/google-review", h.RecordGoogleReview)
			r.Post("/instagram-follow", h.RecordInstagramFollow)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Post("/logout", h.AdminLogout)
				r.Get("/search", h.SearchCustomers)
				r.Post("/engagement/{customerID}/redeem", h.RedeemDiscount)

				r.Get("/export", h.ExportCSV)
				r.Get("/export/all", h.ExportAllCSV)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
