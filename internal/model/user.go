// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The ID is a UUID string generated at registration time. Username is
// unique across the table — registration fails with a conflict if it is
// already taken.
//
// WHY Password with json:"-"?
// Credentials are stored verbatim and compared on login, but the field
// must never appear in an API response. The `json:"-"` tag makes the
// encoder skip it no matter which handler serializes a User.
type User struct {
	ID        string    `json:"id"        db:"id"`
	Username  string    `json:"username"  db:"username"`
	Password  string    `json:"-"         db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
