package domain

import "time"

// Identity is the signed-in actor: the login handle (an email address),
// a display name, and the opaque subject id assigned by the identity
// provider. Demo identities synthesize a subject locally.
type Identity struct {
	Subject string `json:"subject"`
	Handle  string `json:"handle"`
	Name    string `json:"name"`
}

// Session pairs an Identity with a Role and tracks activity for the
// inactivity monitor. Demo marks sessions established from the static
// credential table; their logout never reaches the identity provider.
type Session struct {
	ID           string    `json:"id"`
	Identity     Identity  `json:"identity"`
	Role         Role      `json:"-"`
	Demo         bool      `json:"-"`
	IssuedAt     time.Time `json:"issued_at"`
	LastActivity time.Time `json:"last_activity"`
}

// User is the provider-side account document behind an Identity.
type User struct {
	Subject      string    `json:"subject"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
