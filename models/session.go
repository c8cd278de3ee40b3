package models

import "time"

// Session is a server-side login session. The token is opaque to the
// client and checked against the database on every protected request.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
