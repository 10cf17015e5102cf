package models

// User is a selectable profile. There is no per-user authentication.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	MemoryCount int    `json:"memory_count"`
}
