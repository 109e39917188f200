// Package api holds the JSON envelope shared by handlers and middleware.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// InternalErrorMessage is the only error text a client sees for a 5xx response.
const InternalErrorMessage = "Ocorreu um erro interno. Por favor, tente novamente mais tarde."

const bodyTooLargeMessage = "request body too large"

var statusByCode = map[string]int{
	domain.ErrCodeValidation:    http.StatusBadRequest,
	domain.ErrCodeNotFound:      http.StatusNotFound,
	domain.ErrCodeUnavailable:   http.StatusServiceUnavailable,
	domain.ErrCodeInternalError: http.StatusInternalServerError,
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes data with status. A nil data writes headers only.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DecodeJSON reads the request body into v. On failure it writes the error
// response and returns false; the handler should return immediately.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, bodyTooLargeMessage)
		return false
	}
	HandleError(w, domain.ErrInvalidBody.Wrap(err))
	return false
}

// DomainErrorToHTTP maps an error to a status. Anything that is not a
// DomainError, or carries an unknown code, is a 500.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	if status, ok := statusByCode[de.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError writes the response for err. Server errors never leak their detail.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		Error(w, status, InternalErrorMessage)
		return
	}

	message := err.Error()
	var de *domain.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	Error(w, status, message)
}
