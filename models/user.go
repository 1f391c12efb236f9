package models

import "time"

// Credential represents a registered user. It only lives in memory.
type Credential struct {
	Username  string
	Digest    string // pbkdf2 digest of the password, hex encoded
	Salt      string // hex encoded
	CreatedAt time.Time
}

// LoginRequest carries the sign-in form.
type LoginRequest struct {
	Username string
	Password string
}

// SignUpRequest carries the sign-up form.
type SignUpRequest struct {
	Username        string
	Password        string
	ConfirmPassword string
}
