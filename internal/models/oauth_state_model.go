package models

import "time"

// OAuthState is the transient PKCE handshake record. A row is written when
// an authorization URL is issued and consumed exactly once by the callback.
type OAuthState struct {
	State        string    `db:"state" json:"state"`
	CodeVerifier string    `db:"code_verifier" json:"-"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
