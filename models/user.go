// Package models defines the data structures used throughout the application.
package models

import "time"

// User represents a registered account.
//
// The password is stored in clear text. This is a known defect inherited
// from the system this service replaces; it is kept out of every JSON
// response but not hashed at rest.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignupRequest is the payload for creating a new account
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for authenticating an existing account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
