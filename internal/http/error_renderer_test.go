package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jetonapp/jeton/internal/errors"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperrors.InvalidCredentials(), http.StatusUnauthorized},
		{apperrors.Unauthenticated("no session"), http.StatusUnauthorized},
		{apperrors.Forbidden("nope"), http.StatusForbidden},
		{apperrors.ValidationField("email", "required"), http.StatusBadRequest},
		{apperrors.IncompletePrerequisites("steps missing"), http.StatusBadRequest},
		{apperrors.NotFound("user not found"), http.StatusNotFound},
		{apperrors.Conflict("duplicate email"), http.StatusConflict},
		{apperrors.Internal("db down"), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusForError(tt.err), "error %v", tt.err)
	}
}

func TestWriteError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.ValidationField("email", "email is required"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"error":"validation","message":"email is required","field":"email"}`,
		rec.Body.String())
}

func TestWriteError_MasksInternalCauses(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.Wrap(
		errors.New("pq: connection refused on 10.0.0.5"),
		apperrors.ErrCodeInternal, "session store write failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
