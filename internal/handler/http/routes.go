package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, h.withSecureHeaders())
	if h.opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.opts.RequestTimeout))
	}
	router.Use(h.withSessionToken)

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Post("/logout-all", h.logoutAll)
		r.Get("/me", h.me)
		r.Delete("/delete-account", h.deleteAccount)
	})

	router.Get("/api/profile", h.getProfile)
	router.Put("/api/profile", h.updateProfile)

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/users", h.listUsers)
		r.Post("/users", h.createUser)
		r.Get("/users/admins", h.listAdmins)
		r.Put("/users/{id}", h.updateUser)
		r.Delete("/users/{id}", h.deleteUser)
		r.Patch("/users/{id}/admin", h.toggleAdmin)
	})

	if h.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.opts.Metrics)
	}

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.methodNotAllowed)

	return router
}
