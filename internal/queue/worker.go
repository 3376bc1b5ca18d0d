package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"github.com/nikhilm23/moodlens/internal/apperrors"
)

func (j *Queue) HandleIngestAccountTask(ctx context.Context, task *asynq.Task) error {
	var payload IngestAccountPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	result, err := j.in.Run(ctx, payload.AccountID, payload.MaxItems)
	if err != nil {
		// Another run already holds the account; retrying would just
		// collide again.
		if errors.Is(err, apperrors.ErrAlreadyRunning) {
			log.Printf("Ingest skipped, already running for account %d", payload.AccountID)
			return nil
		}
		// Revoked accounts are deactivated by the run itself; nothing to
		// retry until the user reconnects.
		if apperrors.IsAuthFailure(err) {
			log.Printf("Ingest aborted, authorization failed for account %d", payload.AccountID)
			return nil
		}
		log.Printf("Ingest failed for account %d: %v", payload.AccountID, err)
		return err
	}

	log.Printf("Ingest finished for account %d: run=%s status=%s fetched=%d analyzed=%d skipped=%d",
		payload.AccountID, result.RunID, result.Status, result.Fetched, result.Analyzed, result.Skipped)
	return nil
}
