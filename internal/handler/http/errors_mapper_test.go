package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   models.ErrorResponse
	}{
		{
			name:   "validation",
			err:    &service.ValidationError{Field: "email", Reason: "is malformed"},
			status: http.StatusBadRequest,
			body:   models.ErrorResponse{Error: "email is malformed", Field: "email"},
		},
		{
			name:   "wrapped uniqueness",
			err:    fmt.Errorf("creating user: %w", &service.UniquenessError{Field: "username"}),
			status: http.StatusConflict,
			body:   models.ErrorResponse{Error: "username already taken", Field: "username"},
		},
		{
			name:   "unknown account",
			err:    &service.AuthError{Reason: service.ReasonNoSuchAccount},
			status: http.StatusUnauthorized,
			body:   models.ErrorResponse{Error: service.InvalidCredentialsMessage},
		},
		{
			name:   "wrong password",
			err:    &service.AuthError{Reason: service.ReasonBadCredentials},
			status: http.StatusUnauthorized,
			body:   models.ErrorResponse{Error: service.InvalidCredentialsMessage},
		},
		{
			name:   "no session",
			err:    &service.AuthError{Reason: service.ReasonNoSession},
			status: http.StatusUnauthorized,
			body:   models.ErrorResponse{Error: "authentication required"},
		},
		{
			name:   "denied",
			err:    &service.DeniedError{Reason: service.ReasonProtected},
			status: http.StatusForbidden,
			body:   models.ErrorResponse{Error: service.ReasonProtected},
		},
		{
			name:   "not found",
			err:    service.ErrNotFound,
			status: http.StatusNotFound,
			body:   models.ErrorResponse{Error: "not found"},
		},
		{
			name:   "invalid json",
			err:    fmt.Errorf("%w: %w", ErrInvalidJSON, utils.ErrEmptyBody),
			status: http.StatusBadRequest,
		},
		{
			name:   "internal failure is not spelled out",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   models.ErrorResponse{Error: "Internal Server Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			got := errorOf(t, rec)
			if tt.body.Error != "" {
				assert.Equal(t, tt.body, got)
			} else {
				assert.NotEmpty(t, got.Error)
			}
		})
	}
}
