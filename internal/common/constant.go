package common

const (
	// SecretHeaderName carries the shared mutation secret on create, update
	// and delete requests.
	SecretHeaderName = "X-Memory-Secret"

	// SelectedUserKey is the fixed key under which the selected profile is
	// persisted, both in the CLI's local metadata table and as the browser
	// cookie name.
	SelectedUserKey = "user-storage"

	// UnknownLocation is shown for memories stored without a location.
	UnknownLocation = "Unknown"
)
