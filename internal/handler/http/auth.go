package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

// decode reads the JSON body into dst, reporting any failure as
// [ErrInvalidJSON].
func decode(r *http.Request, dst any) error {
	if err := utils.ReadJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.Auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: "User created successfully"}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, session, err := h.services.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: "Login successful"}, http.StatusOK)
}

// logout always clears the cookie, even when the session was already gone.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Auth.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "Logout successful"}, http.StatusOK)
}

func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.services.Auth.LogoutAll(r.Context(), sessionToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	_, _ = utils.WriteJSON(w, models.RevokedSessionsResponse{Message: "Logged out from all sessions", Revoked: revoked}, http.StatusOK)
}

// me answers 200 with a null user when nobody is logged in.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.services.Auth.WhoAmI(r.Context(), sessionToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.UserResponse{}
	if ok {
		resp.User = &user
	}
	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAccountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.Auth.DeleteAccount(r.Context(), sessionToken(r), req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Msg("account deleted by owner")
	h.clearSessionCookie(w)
	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "Account deleted successfully"}, http.StatusOK)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok, err := h.services.Auth.WhoAmI(r.Context(), sessionToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, &service.AuthError{Reason: service.ReasonNoSession})
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user}, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.Auth.UpdateProfile(r.Context(), sessionToken(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: "Profile updated successfully"}, http.StatusOK)
}
