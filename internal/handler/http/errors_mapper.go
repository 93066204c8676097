package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:             http.StatusBadRequest,
	ErrMissingUserID:           http.StatusBadRequest,
	service.ErrValidation:      http.StatusBadRequest,
	service.ErrUniqueness:      http.StatusConflict,
	service.ErrUnauthenticated: http.StatusUnauthorized,
	service.ErrDenied:          http.StatusForbidden,
	service.ErrNotFound:        http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse builds the client-facing body for err. Internal failures and
// authentication reasons are never spelled out.
func errorResponse(err error, status int) models.ErrorResponse {
	var (
		verr   *service.ValidationError
		uerr   *service.UniquenessError
		aerr   *service.AuthError
		denied *service.DeniedError
	)

	switch {
	case errors.As(err, &verr):
		return models.ErrorResponse{Error: verr.Error(), Field: verr.Field}
	case errors.As(err, &uerr):
		return models.ErrorResponse{Error: uerr.Error(), Field: uerr.Field}
	case errors.As(err, &aerr):
		return models.ErrorResponse{Error: aerr.Public()}
	case errors.As(err, &denied):
		return models.ErrorResponse{Error: denied.Reason}
	case status == http.StatusInternalServerError:
		return models.ErrorResponse{Error: http.StatusText(status)}
	default:
		return models.ErrorResponse{Error: err.Error()}
	}
}

// writeError logs err and writes it as a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	_, _ = utils.WriteJSON(w, errorResponse(err, status), status)
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: "not found"}, http.StatusNotFound)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
}
