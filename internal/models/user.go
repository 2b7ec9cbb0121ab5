package models

import "github.com/google/uuid"

// User is an authenticated identity as produced by the auth layer.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
