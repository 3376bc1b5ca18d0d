package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/ratelimit"
	"github.com/nikhilm23/moodlens/internal/transfer"
)

type memLimitRepo struct {
	states map[string]*models.RateLimitState
}

func newMemLimitRepo() *memLimitRepo {
	return &memLimitRepo{states: make(map[string]*models.RateLimitState)}
}

func (r *memLimitRepo) Get(ctx context.Context, accountID int64, category string) (*models.RateLimitState, error) {
	st, ok := r.states[fmt.Sprintf("%d/%s", accountID, category)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *memLimitRepo) Upsert(ctx context.Context, state *models.RateLimitState) error {
	cp := *state
	r.states[fmt.Sprintf("%d/%s", state.AccountID, state.Category)] = &cp
	return nil
}

type twitterFixture struct {
	svc      TwitterService
	accounts *fakeAccountRepo
	account  *models.SocialAccount
}

func newTwitterFixture(t *testing.T, handler http.Handler, timelineCeiling int) *twitterFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	oldBase, oldToken := twitterAPIBase, twitterTokenURL
	twitterAPIBase = srv.URL
	twitterTokenURL = srv.URL + "/oauth2/token"
	t.Cleanup(func() {
		twitterAPIBase = oldBase
		twitterTokenURL = oldToken
	})

	cfg := &config.Config{
		TwitterClientID:     "client-id",
		TwitterClientSecret: "client-secret",
		RateLimits: config.RateLimits{
			Timeline: timelineCeiling,
			Replies:  10,
			Window:   15 * time.Minute,
			MaxWait:  time.Millisecond,
		},
	}

	vault := newTestVault(t)
	encAccess, err := vault.Encrypt("bearer-token")
	if err != nil {
		t.Fatal(err)
	}
	encRefresh, err := vault.Encrypt("refresh-token")
	if err != nil {
		t.Fatal(err)
	}

	limiter := ratelimit.NewLimiter(newMemLimitRepo(), map[string]int{
		ratelimit.CategoryTimeline: cfg.RateLimits.Timeline,
		ratelimit.CategoryReplies:  cfg.RateLimits.Replies,
	}, cfg.RateLimits.Window)

	accounts := &fakeAccountRepo{}
	account := &models.SocialAccount{
		ID:             7,
		PlatformUserID: "42",
		AccessToken:    encAccess,
		RefreshToken:   encRefresh,
		IsActive:       true,
	}

	return &twitterFixture{
		svc:      NewTwitterService(cfg, vault, limiter, accounts),
		accounts: accounts,
		account:  account,
	}
}

func timelinePage(ids []string, nextToken string) transfer.TwitterTimelineResponse {
	var page transfer.TwitterTimelineResponse
	for _, id := range ids {
		page.Data = append(page.Data, transfer.TwitterTweet{
			ID:        id,
			Text:      "tweet " + id,
			CreatedAt: "2026-03-01T12:00:00Z",
		})
	}
	page.Meta.ResultCount = len(page.Data)
	page.Meta.NextToken = nextToken
	return page
}

func TestFetchTimelinePaginates(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42/tweets" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer bearer-token" {
			t.Errorf("Authorization = %q", got)
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pagination_token") == "" {
			json.NewEncoder(w).Encode(timelinePage([]string{"1", "2"}, "cursor-2"))
		} else {
			json.NewEncoder(w).Encode(timelinePage([]string{"3"}, ""))
		}
	})

	f := newTwitterFixture(t, handler, 100)

	tweets, err := f.svc.FetchTimeline(context.Background(), f.account, 10)
	if err != nil {
		t.Fatalf("FetchTimeline: %v", err)
	}
	if len(tweets) != 3 {
		t.Errorf("got %d tweets, want 3", len(tweets))
	}
	if calls != 2 {
		t.Errorf("made %d API calls, want 2", calls)
	}
}

func TestFetchTimelineAuthRejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	f := newTwitterFixture(t, handler, 100)

	_, err := f.svc.FetchTimeline(context.Background(), f.account, 10)
	if !errors.Is(err, apperrors.ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}
}

func TestFetchTimelinePlatform429(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-rate-limit-remaining", "0")
		w.Header().Set("x-rate-limit-reset", fmt.Sprintf("%d", reset))
		w.WriteHeader(http.StatusTooManyRequests)
	})

	f := newTwitterFixture(t, handler, 100)

	_, err := f.svc.FetchTimeline(context.Background(), f.account, 10)
	if !apperrors.IsRateLimited(err) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	rle, _ := rateLimited(err)
	if !rle.ResetAt.Equal(time.Unix(reset, 0)) {
		t.Errorf("ResetAt = %v, want %v", rle.ResetAt, time.Unix(reset, 0))
	}
}

func TestFetchTimelineLocalBudgetExhausted(t *testing.T) {
	// Every page advertises another cursor, so only the local budget of
	// one call stops the loop.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(timelinePage([]string{"1", "2"}, "more"))
	})

	f := newTwitterFixture(t, handler, 1)

	tweets, err := f.svc.FetchTimeline(context.Background(), f.account, 10)
	if !apperrors.IsRateLimited(err) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if len(tweets) != 2 {
		t.Errorf("got %d tweets alongside the rate limit error, want 2", len(tweets))
	}
	rle, _ := rateLimited(err)
	if rle.Fetched != 2 {
		t.Errorf("Fetched = %d, want 2", rle.Fetched)
	}
}

func TestFetchTimelineDecryptFailureIsAuthFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("platform must not be called with an undecryptable token")
	})

	f := newTwitterFixture(t, handler, 100)
	f.account.AccessToken = "not-ciphertext"

	_, err := f.svc.FetchTimeline(context.Background(), f.account, 10)
	if !apperrors.IsAuthFailure(err) {
		t.Errorf("err = %v, want auth failure", err)
	}
}

func TestFetchRepliesUsesSeparateBudget(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweets/search/recent" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(timelinePage([]string{"900"}, ""))
	})

	// Timeline budget of zero must not block reply lookups.
	f := newTwitterFixture(t, handler, 0)

	replies, err := f.svc.FetchReplies(context.Background(), f.account, "123", 10)
	if err != nil {
		t.Fatalf("FetchReplies: %v", err)
	}
	if len(replies) != 1 {
		t.Errorf("got %d replies, want 1", len(replies))
	}
}

func TestRefreshAccessTokenRotatesStoredPair(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/token" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil || r.FormValue("grant_type") != "refresh_token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transfer.TwitterTokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    7200,
			TokenType:    "bearer",
		})
	})

	f := newTwitterFixture(t, handler, 100)

	if err := f.svc.RefreshAccessToken(context.Background(), f.account); err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}

	if f.accounts.setAccess == "" || f.accounts.setAccess == "new-access" {
		t.Error("access token stored missing or in plaintext")
	}
	if f.accounts.setRefresh == "" || f.accounts.setRefresh == "new-refresh" {
		t.Error("refresh token stored missing or in plaintext")
	}
}

func TestRefreshAccessTokenRejectedGrant(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	f := newTwitterFixture(t, handler, 100)

	err := f.svc.RefreshAccessToken(context.Background(), f.account)
	if !errors.Is(err, apperrors.ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}
}
