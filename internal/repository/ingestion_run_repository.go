package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nikhilm23/moodlens/internal/models"
)

type IngestionRunRepository interface {
	Create(ctx context.Context, run *models.IngestionRun) (int64, error)
	Finalize(ctx context.Context, runID string, status string, fetched, analyzed, skipped int, errMsg string) error
	GetByRunID(ctx context.Context, runID string) (*models.IngestionRun, error)
	ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.IngestionRun, error)
}

type ingestionRunRepository struct {
	db *sql.DB
}

func NewIngestionRunRepository(db *sql.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

func (r *ingestionRunRepository) Create(ctx context.Context, run *models.IngestionRun) (int64, error) {
	query := `
		INSERT INTO ingestion_runs(run_id, account_id, status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, run.RunID, run.AccountID, run.Status, run.StartedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *ingestionRunRepository) Finalize(ctx context.Context, runID string, status string, fetched, analyzed, skipped int, errMsg string) error {
	query := `
		UPDATE ingestion_runs
		SET status = $2,
			fetched = $3,
			analyzed = $4,
			skipped = $5,
			error_message = $6,
			finished_at = CURRENT_TIMESTAMP
		WHERE run_id = $1`
	result, err := r.db.ExecContext(ctx, query, runID, status, fetched, analyzed, skipped, errMsg)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no run row to finalize")
		return sql.ErrNoRows
	}
	return nil
}

func (r *ingestionRunRepository) GetByRunID(ctx context.Context, runID string) (*models.IngestionRun, error) {
	query := `
		SELECT id, run_id, account_id, status, fetched, analyzed, skipped,
			error_message, started_at, finished_at
		FROM ingestion_runs WHERE run_id = $1`
	row := r.db.QueryRowContext(ctx, query, runID)

	var run models.IngestionRun
	err := row.Scan(&run.ID, &run.RunID, &run.AccountID, &run.Status,
		&run.Fetched, &run.Analyzed, &run.Skipped, &run.ErrorMessage,
		&run.StartedAt, &run.FinishedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &run, nil
}

func (r *ingestionRunRepository) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.IngestionRun, error) {
	query := `
		SELECT id, run_id, account_id, status, fetched, analyzed, skipped,
			error_message, started_at, finished_at
		FROM ingestion_runs
		WHERE account_id = $1
		ORDER BY started_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var runs []*models.IngestionRun
	for rows.Next() {
		var run models.IngestionRun
		err := rows.Scan(&run.ID, &run.RunID, &run.AccountID, &run.Status,
			&run.Fetched, &run.Analyzed, &run.Skipped, &run.ErrorMessage,
			&run.StartedAt, &run.FinishedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
