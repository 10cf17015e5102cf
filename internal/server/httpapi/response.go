package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/server/validation"
	"github.com/go-chi/chi/v5/middleware"
)

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, e apiError) {
	writeJSON(w, status, envelope{Success: false, Error: &e})
}

// writeError maps service errors to statuses. Internal failures are logged
// and answered with a generic message.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		writeFailure(w, http.StatusBadRequest, apiError{Code: "VALIDATION_ERROR", Message: "invalid input", Details: verr.Fields})
	case errors.Is(err, common.ErrorValidation):
		writeFailure(w, http.StatusBadRequest, apiError{Code: "VALIDATION_ERROR", Message: err.Error()})
	case errors.As(err, &maxErr):
		writeFailure(w, http.StatusRequestEntityTooLarge, apiError{Code: "TOO_LARGE", Message: "request body too large"})
	case errors.Is(err, common.ErrorUnauthorized):
		writeFailure(w, http.StatusUnauthorized, apiError{Code: "UNAUTHORIZED", Message: "invalid or missing secret"})
	case errors.Is(err, common.ErrorNotFound):
		writeFailure(w, http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: "not found"})
	default:
		s.logger.Error(r.Context(), "request error",
			"error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		writeFailure(w, http.StatusInternalServerError, apiError{Code: "INTERNAL_ERROR", Message: "internal error"})
	}
}

func (s *HTTPServer) badRequest(w http.ResponseWriter, message string) {
	writeFailure(w, http.StatusBadRequest, apiError{Code: "BAD_REQUEST", Message: message})
}
