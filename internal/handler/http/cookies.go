package http

import (
	"net/http"
)

const defaultCookieName = "session"

// setSessionCookie hands token to the browser.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.opts.SessionTTL > 0 {
		cookie.MaxAge = int(h.opts.SessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie tells the browser to drop the session cookie.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionTokenFromRequest returns the raw session cookie value, or "".
func (h *Handler) sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(h.opts.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
