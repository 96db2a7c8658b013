package httpx

import (
	"net/http"

	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StatusForError maps an application error code to an HTTP status code.
// Unknown and internal errors map to 500.
func StatusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeValidation, apperrors.ErrCodeIncompletePrerequisites:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a JSON error response. The message comes from the
// AppError when the error carries one; internal errors are masked so wrapped
// causes (SQL, Redis) never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	body := errorBody{
		Error:   string(apperrors.GetCode(err)),
		Message: err.Error(),
		Field:   apperrors.GetField(err),
	}
	if status >= http.StatusInternalServerError {
		body.Message = "An internal error occurred. Please try again."
	}
	WriteJSON(w, status, body)
}
