package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/memorylane/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return common.ErrorValidation
	default:
		return common.ErrorInternal
	}
}
