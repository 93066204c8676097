package http

import (
	"net/http"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
)

// withSessionToken copies the session cookie into the request context so
// handlers never parse cookies themselves. Requests without a cookie pass
// through unchanged; whether a session is required is the route's decision.
func (h *Handler) withSessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionTokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(utils.WithSessionToken(r.Context(), token)))
	})
}

// requireAdmin rejects the request with 401 when there is no live session
// and with 403 when its user is not an admin. The services check the session
// again, so nothing is handed down.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := utils.GetSessionTokenFromContext(r.Context())

		admin, err := h.services.Gate.RequireAdmin(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		logger.FromRequest(r).Debug().Str("actor_id", admin.ID).Msg("admin request")
		next.ServeHTTP(w, r)
	})
}

// sessionToken is the token of the current request, or "".
func sessionToken(r *http.Request) string {
	token, _ := utils.GetSessionTokenFromContext(r.Context())
	return token
}
