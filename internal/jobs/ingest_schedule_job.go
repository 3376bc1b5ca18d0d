package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nikhilm23/moodlens/internal/queue"
	"github.com/nikhilm23/moodlens/internal/repository"
)

type IngestScheduleJob struct {
	sr     repository.SocialAccountRepository
	os     repository.OAuthStateRepository
	client *asynq.Client
}

func NewIngestScheduleJob(
	sr repository.SocialAccountRepository,
	os repository.OAuthStateRepository,
	client *asynq.Client) *IngestScheduleJob {
	return &IngestScheduleJob{
		sr:     sr,
		os:     os,
		client: client,
	}
}

// EnqueueAll fans out one ingest task per active account, staggered so a
// large fleet does not slam the platform at the same second.
func (c *IngestScheduleJob) EnqueueAll() {
	ctx := context.Background()

	accounts, err := c.sr.ListActive(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for i, acc := range accounts {
		payload := queue.IngestAccountPayload{AccountID: acc.ID}
		if err := queue.EnqueueIngest(c.client, payload, time.Duration(i)*2*time.Second); err != nil {
			slog.Info(err.Error())
		}
	}
}

// CleanupStates purges abandoned PKCE handshakes past their TTL.
func (c *IngestScheduleJob) CleanupStates() {
	ctx := context.Background()

	deleted, err := c.os.DeleteExpired(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if deleted > 0 {
		slog.Info("purged expired oauth states")
	}
}
