package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

// targetID is the {id} path parameter of the admin user routes.
func targetID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", ErrMissingUserID
	}
	return id, nil
}

// listUsers accepts ?page, ?limit and ?search. Malformed numbers fall back
// to the defaults.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.services.Admin.ListUsers(r.Context(), sessionToken(r), models.UserListQuery{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.services.Admin.ListAdmins(r.Context(), sessionToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserListResponse{Users: admins}, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.AdminCreateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.Admin.CreateUser(r.Context(), sessionToken(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: "User created successfully"}, http.StatusCreated)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var upd models.UserUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.Admin.UpdateUser(r.Context(), sessionToken(r), id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: "User updated successfully"}, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.Admin.DeleteUser(r.Context(), sessionToken(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.DeleteUserResponse{Message: "User deleted successfully", DeletedUserID: id}, http.StatusOK)
}

func (h *Handler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.Admin.ToggleAdmin(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Admin privileges revoked"
	if user.IsAdmin {
		msg = "Admin privileges granted"
	}
	_, _ = utils.WriteJSON(w, models.UserResponse{User: &user, Message: msg}, http.StatusOK)
}
