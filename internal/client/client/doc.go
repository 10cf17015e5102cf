// Package client contains the CLI's connection to the outside world.
//
// It provides:
//  1. The API contract the CLI needs from the Memorylane HTTP service (see
//     Client) and its net/http implementation, HTTPClient.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite state database.
//
// Error responses are mapped to the shared sentinels in internal/common
// (ErrorNotFound, ErrorUnauthorized, ErrorValidation) so callers can match
// them with errors.Is; ErrUnavailable marks transport failures.
package client
