package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phuc2705/Project-Sach/internal/port"
)

func NewRouter(h *HTTPHandler, tokens port.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/books", h.ListBooks)
		r.Get("/books/{id}", h.GetBook)
		r.Get("/categories", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))

			r.Post("/books/{id}/review", h.AddReview)
			r.Post("/orders", h.CreateOrder)
			r.Get("/orders/user", h.ListUserOrders)

			r.Get("/admin/stats", h.AdminStats)
			r.Get("/admin/users", h.AdminListUsers)
			r.Get("/admin/orders", h.AdminListOrders)
			r.Post("/admin/users/lock/{id}", h.AdminLockUser)
			r.Post("/admin/users/unlock/{id}", h.AdminUnlockUser)
			r.Post("/admin/books/approve/{id}", h.AdminApproveBook)
			r.Post("/admin/books/hide/{id}", h.AdminHideBook)
		})
	})

	return r
}
