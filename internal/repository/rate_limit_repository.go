package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nikhilm23/moodlens/internal/models"
)

type RateLimitRepository interface {
	Get(ctx context.Context, accountID int64, category string) (*models.RateLimitState, error)
	Upsert(ctx context.Context, state *models.RateLimitState) error
}

type rateLimitRepository struct {
	db *sql.DB
}

func NewRateLimitRepository(db *sql.DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) Get(ctx context.Context, accountID int64, category string) (*models.RateLimitState, error) {
	query := `
		SELECT account_id, category, call_count, window_reset_at, updated_at
		FROM rate_limit_states
		WHERE account_id = $1 AND category = $2`
	row := r.db.QueryRowContext(ctx, query, accountID, category)

	var st models.RateLimitState
	err := row.Scan(&st.AccountID, &st.Category, &st.CallCount, &st.WindowResetAt, &st.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &st, nil
}

func (r *rateLimitRepository) Upsert(ctx context.Context, state *models.RateLimitState) error {
	query := `
		INSERT INTO rate_limit_states(account_id, category, call_count, window_reset_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, category) DO UPDATE SET
			call_count = EXCLUDED.call_count,
			window_reset_at = EXCLUDED.window_reset_at,
			updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query, state.AccountID, state.Category, state.CallCount, state.WindowResetAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
