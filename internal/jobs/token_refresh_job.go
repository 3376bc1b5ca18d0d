package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	tw service.TwitterService
}

func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	tw service.TwitterService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		tw: tw,
	}
}

// RefreshTokens rotates tokens for accounts expiring within the next
// half hour. An account whose refresh grant is rejected gets deactivated
// so ingestion stops trying it.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := c.tw.RefreshAccessToken(ctx, acc)
			if err == nil {
				return
			}
			slog.Info("unable to refresh tokens for account")

			if apperrors.IsAuthFailure(err) {
				if derr := c.sr.SetActive(ctx, acc.ID, false); derr != nil {
					slog.Info(derr.Error())
				}
			}
		}(acc)
	}

	wg.Wait()
}
