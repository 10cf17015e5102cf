// Package metadata stores the CLI's small key/value state (selected
// profile, last view query) in the local SQLite database.
package metadata

import (
	"context"
	"time"
)

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository is a string key/value store. Get reports a missing key with
// ok == false rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Entry, error)
}
