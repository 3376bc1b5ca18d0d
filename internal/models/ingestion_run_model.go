package models

import (
	"database/sql"
	"time"
)

type IngestionRun struct {
	ID           int64        `db:"id" json:"id"`
	RunID        string       `db:"run_id" json:"run_id"`
	AccountID    int64        `db:"account_id" json:"account_id"`
	Status       string       `db:"status" json:"status"`
	Fetched      int          `db:"fetched" json:"fetched"`
	Analyzed     int          `db:"analyzed" json:"analyzed"`
	Skipped      int          `db:"skipped" json:"skipped"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	StartedAt    time.Time    `db:"started_at" json:"started_at"`
	FinishedAt   sql.NullTime `db:"finished_at" json:"finished_at"`
}

const (
	RunStatusPending  = "pending"
	RunStatusRunning  = "running"
	RunStatusPartial  = "partial"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
)
