package cli

import (
	"errors"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/common"
)

var (
	errNoProfile = errors.New("no profile selected, use 'users' and 'select'")
	errUsage     = errors.New("usage")
)

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }
func (u usageError) Unwrap() error { return errUsage }

// describe turns an error into the one-line notice shown to the user.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return "the secret was not accepted"
	case errors.Is(err, common.ErrorNotFound):
		return "not found"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try 'refresh' later"
	case errors.As(err, &apiErr) && errors.Is(err, common.ErrorValidation):
		return apiErr.Error()
	default:
		return err.Error()
	}
}
