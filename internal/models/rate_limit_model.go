package models

import "time"

// RateLimitState is one durable (account, endpoint category) call window.
type RateLimitState struct {
	AccountID     int64     `db:"account_id" json:"account_id"`
	Category      string    `db:"category" json:"category"`
	CallCount     int       `db:"call_count" json:"call_count"`
	WindowResetAt time.Time `db:"window_reset_at" json:"window_reset_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
