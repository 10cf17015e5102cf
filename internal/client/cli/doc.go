// Package cli is the interactive shell of Memorylane: pick a profile, browse
// its memories grouped by year, change the filter and sort order, and add,
// edit or delete memories. Mutations prompt for the shared secret.
//
// The current profile and view query are restored at start and written
// back on exit.
package cli
