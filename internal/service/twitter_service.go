package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/ratelimit"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/transfer"
	"github.com/nikhilm23/moodlens/pkg/tokenvault"
)

var (
	twitterAPIBase   = "https://api.twitter.com/2"
	twitterRevokeURL = "https://api.twitter.com/2/oauth2/revoke"
)

const (
	tweetFields = "created_at,public_metrics,conversation_id,lang,author_id"

	maxRetries   = 2
	retryBackoff = 2 * time.Second
)

type TwitterService interface {
	FetchTimeline(ctx context.Context, account *models.SocialAccount, maxItems int) ([]transfer.TwitterTweet, error)
	FetchReplies(ctx context.Context, account *models.SocialAccount, conversationID string, maxItems int) ([]transfer.TwitterTweet, error)
	RefreshAccessToken(ctx context.Context, account *models.SocialAccount) error
	Revoke(ctx context.Context, account *models.SocialAccount) error
}

type twitterService struct {
	cfg     *config.Config
	vault   *tokenvault.Vault
	limiter *ratelimit.Limiter
	sa      repository.SocialAccountRepository
	client  *http.Client
}

func NewTwitterService(
	cfg *config.Config,
	vault *tokenvault.Vault,
	limiter *ratelimit.Limiter,
	sa repository.SocialAccountRepository) TwitterService {
	return &twitterService{
		cfg:     cfg,
		vault:   vault,
		limiter: limiter,
		sa:      sa,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTimeline pulls the account's recent tweets, paging until maxItems
// or the timeline is exhausted. On a rate limit mid-pagination the tweets
// already fetched are returned alongside the RateLimitError so the caller
// can persist a partial batch.
func (s *twitterService) FetchTimeline(ctx context.Context, account *models.SocialAccount, maxItems int) ([]transfer.TwitterTweet, error) {
	bearer, err := s.vault.Decrypt(account.AccessToken)
	if err != nil {
		return nil, err
	}

	var tweets []transfer.TwitterTweet
	next := ""
	for len(tweets) < maxItems {
		if err := s.acquire(ctx, account.ID, ratelimit.CategoryTimeline, len(tweets)); err != nil {
			return tweets, err
		}

		endpoint := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=%s",
			twitterAPIBase, account.PlatformUserID, pageSize(maxItems-len(tweets)), tweetFields)
		if next != "" {
			endpoint += "&pagination_token=" + url.QueryEscape(next)
		}

		page, err := s.getTweets(ctx, account.ID, ratelimit.CategoryTimeline, bearer, endpoint)
		if err != nil {
			if rle, ok := rateLimited(err); ok {
				rle.Fetched = len(tweets)
			}
			return tweets, err
		}

		tweets = append(tweets, page.Data...)
		next = page.Meta.NextToken
		if next == "" || len(page.Data) == 0 {
			break
		}
	}

	if len(tweets) > maxItems {
		tweets = tweets[:maxItems]
	}
	return tweets, nil
}

// FetchReplies searches the tweet's conversation for replies. Uses the
// recent-search budget, which is separate from the timeline budget.
func (s *twitterService) FetchReplies(ctx context.Context, account *models.SocialAccount, conversationID string, maxItems int) ([]transfer.TwitterTweet, error) {
	bearer, err := s.vault.Decrypt(account.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(ctx, account.ID, ratelimit.CategoryReplies, 0); err != nil {
		return nil, err
	}

	query := url.QueryEscape(fmt.Sprintf("conversation_id:%s is:reply", conversationID))
	endpoint := fmt.Sprintf("%s/tweets/search/recent?query=%s&max_results=%d&tweet.fields=%s",
		twitterAPIBase, query, pageSize(maxItems), tweetFields)

	page, err := s.getTweets(ctx, account.ID, ratelimit.CategoryReplies, bearer, endpoint)
	if err != nil {
		return nil, err
	}

	replies := page.Data
	if len(replies) > maxItems {
		replies = replies[:maxItems]
	}
	return replies, nil
}

// RefreshAccessToken rotates the OAuth tokens via the refresh grant and
// stores the re-encrypted pair. A rejected grant means the user revoked
// access on the platform side.
func (s *twitterService) RefreshAccessToken(ctx context.Context, account *models.SocialAccount) error {
	refreshToken, err := s.vault.Decrypt(account.RefreshToken)
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", refreshToken)
	data.Add("client_id", s.cfg.TwitterClientID)

	req, err := http.NewRequestWithContext(ctx, "POST", twitterTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.TwitterClientID, s.cfg.TwitterClientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		slog.Info("refresh grant rejected")
		return apperrors.ErrAuth
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	var tokenResp transfer.TwitterTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	encryptedAccess, err := s.vault.Encrypt(tokenResp.AccessToken)
	if err != nil {
		return err
	}
	encryptedRefresh, err := s.vault.Encrypt(tokenResp.RefreshToken)
	if err != nil {
		return err
	}

	return s.sa.SetToken(ctx, account.ID, encryptedAccess, encryptedRefresh, GetExpiresAt(tokenResp.ExpiresIn))
}

// Revoke invalidates the access token on the platform. Best effort: the
// caller removes the row regardless.
func (s *twitterService) Revoke(ctx context.Context, account *models.SocialAccount) error {
	accessToken, err := s.vault.Decrypt(account.AccessToken)
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Add("token", accessToken)
	data.Add("client_id", s.cfg.TwitterClientID)

	req, err := http.NewRequestWithContext(ctx, "POST", twitterRevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.TwitterClientID, s.cfg.TwitterClientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}
	return nil
}

// acquire consumes one call from the account's budget. A blocked budget
// is waited out only when the window reopens within MaxRateWait,
// otherwise the caller gets a RateLimitError immediately.
func (s *twitterService) acquire(ctx context.Context, accountID int64, category string, fetched int) error {
	d, err := s.limiter.Acquire(ctx, accountID, category)
	if err != nil {
		return err
	}
	if d.Allowed {
		return nil
	}

	wait := time.Until(d.WaitUntil)
	if wait > s.cfg.RateLimits.MaxWait {
		return &apperrors.RateLimitError{Category: category, ResetAt: d.WaitUntil, Fetched: fetched}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}

	d, err = s.limiter.Acquire(ctx, accountID, category)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return &apperrors.RateLimitError{Category: category, ResetAt: d.WaitUntil, Fetched: fetched}
	}
	return nil
}

// getTweets performs one API request with bounded retries on transient
// failures. Rate limit headers are fed back into the limiter on every
// response that carries them.
func (s *twitterService) getTweets(ctx context.Context, accountID int64, category, bearer, endpoint string) (*transfer.TwitterTimelineResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+bearer)

		resp, err := s.client.Do(req)
		if err != nil {
			slog.Info(err.Error())
			lastErr = fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		s.observe(ctx, accountID, category, resp.Header)

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("%w: %v", apperrors.ErrNetwork, readErr)
				continue
			}
			var page transfer.TwitterTimelineResponse
			if err := json.Unmarshal(body, &page); err != nil {
				slog.Info(err.Error())
				return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
			return &page, nil

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			slog.Info("platform rejected the access token")
			return nil, apperrors.ErrAuth

		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &apperrors.RateLimitError{
				Category: category,
				ResetAt:  resetFromHeader(resp.Header),
			}

		case resp.StatusCode >= 500:
			slog.Info("platform server error")
			lastErr = fmt.Errorf("%w: status %d", apperrors.ErrNetwork, resp.StatusCode)
			continue

		default:
			return nil, fmt.Errorf("%w: status %d", apperrors.ErrValidation, resp.StatusCode)
		}
	}
	return nil, lastErr
}

func (s *twitterService) observe(ctx context.Context, accountID int64, category string, h http.Header) {
	remaining, err := strconv.Atoi(h.Get("x-rate-limit-remaining"))
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64)
	if err != nil {
		return
	}
	s.limiter.ObserveHeaders(ctx, accountID, category, remaining, time.Unix(resetUnix, 0))
}

func resetFromHeader(h http.Header) time.Time {
	if resetUnix, err := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64); err == nil {
		return time.Unix(resetUnix, 0)
	}
	return time.Now().Add(15 * time.Minute)
}

func rateLimited(err error) (*apperrors.RateLimitError, bool) {
	var rle *apperrors.RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// pageSize clamps the requested page to the API's 5..100 bounds.
func pageSize(want int) int {
	if want < 5 {
		return 5
	}
	if want > 100 {
		return 100
	}
	return want
}
