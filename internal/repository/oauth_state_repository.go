package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/nikhilm23/moodlens/internal/models"
)

type OAuthStateRepository interface {
	Create(ctx context.Context, state *models.OAuthState) error
	// Consume atomically deletes and returns the handshake row, so a state
	// value can be redeemed at most once. Returns nil when the state does
	// not exist (already consumed, forged, or purged).
	Consume(ctx context.Context, state string) (*models.OAuthState, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type oauthStateRepository struct {
	db *sql.DB
}

func NewOAuthStateRepository(db *sql.DB) OAuthStateRepository {
	return &oauthStateRepository{db: db}
}

func (r *oauthStateRepository) Create(ctx context.Context, state *models.OAuthState) error {
	query := `
		INSERT INTO oauth_states(state, code_verifier, user_id, expires_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, state.State, state.CodeVerifier, state.UserID, state.ExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *oauthStateRepository) Consume(ctx context.Context, state string) (*models.OAuthState, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1
		RETURNING state, code_verifier, user_id, expires_at, created_at`
	row := r.db.QueryRowContext(ctx, query, state)

	var st models.OAuthState
	err := row.Scan(&st.State, &st.CodeVerifier, &st.UserID, &st.ExpiresAt, &st.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &st, nil
}

func (r *oauthStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at < $1`, now)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return result.RowsAffected()
}
