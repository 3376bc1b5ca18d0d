package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/repository"
)

// Endpoint categories tracked per account.
const (
	CategoryTimeline = "user-timeline"
	CategoryReplies  = "replies"
	CategoryLookup   = "user-lookup"
)

// Decision is the outcome of an Acquire call. When Allowed is false,
// WaitUntil is the earliest time the window opens again. Acquire never
// blocks; the caller decides whether to wait or abort.
type Decision struct {
	Allowed   bool
	WaitUntil time.Time
}

type stateKey struct {
	accountID int64
	category  string
}

// Limiter tracks the remaining call budget per (account, endpoint category)
// window. Counting is pessimistic: every allowed call is counted as consumed
// whether or not the platform request ultimately succeeds. State is written
// through the repository so a restart picks up mid-window budgets.
type Limiter struct {
	repo     repository.RateLimitRepository
	ceilings map[string]int
	window   time.Duration

	mu     sync.Mutex
	states map[stateKey]*models.RateLimitState
	now    func() time.Time
}

func NewLimiter(repo repository.RateLimitRepository, ceilings map[string]int, window time.Duration) *Limiter {
	return &Limiter{
		repo:     repo,
		ceilings: ceilings,
		window:   window,
		states:   make(map[stateKey]*models.RateLimitState),
		now:      time.Now,
	}
}

func (l *Limiter) Acquire(ctx context.Context, accountID int64, category string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.loadLocked(ctx, accountID, category)
	if err != nil {
		return Decision{}, err
	}

	now := l.now()
	if !now.Before(st.WindowResetAt) {
		st.CallCount = 0
		st.WindowResetAt = now.Add(l.window)
	}

	ceiling := l.ceilings[category]
	if st.CallCount >= ceiling {
		return Decision{Allowed: false, WaitUntil: st.WindowResetAt}, nil
	}

	st.CallCount++
	l.persistLocked(ctx, st)
	return Decision{Allowed: true}, nil
}

// ObserveHeaders reconciles the platform's own x-rate-limit accounting with
// the local window. When the two disagree the lower remaining estimate and
// the later reset win, so we never assume more budget than either side
// reports.
func (l *Limiter) ObserveHeaders(ctx context.Context, accountID int64, category string, remaining int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.loadLocked(ctx, accountID, category)
	if err != nil {
		return
	}

	ceiling := l.ceilings[category]
	platformCount := ceiling - remaining
	if platformCount > st.CallCount {
		st.CallCount = platformCount
	}
	if resetAt.After(st.WindowResetAt) {
		st.WindowResetAt = resetAt
	}
	l.persistLocked(ctx, st)
}

func (l *Limiter) loadLocked(ctx context.Context, accountID int64, category string) (*models.RateLimitState, error) {
	key := stateKey{accountID: accountID, category: category}
	if st, ok := l.states[key]; ok {
		return st, nil
	}

	st, err := l.repo.Get(ctx, accountID, category)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &models.RateLimitState{
			AccountID:     accountID,
			Category:      category,
			CallCount:     0,
			WindowResetAt: l.now().Add(l.window),
		}
	}
	l.states[key] = st
	return st, nil
}

// Persistence is best effort; the in-memory window stays authoritative
// for the life of the process even when a write fails.
func (l *Limiter) persistLocked(ctx context.Context, st *models.RateLimitState) {
	if err := l.repo.Upsert(ctx, st); err != nil {
		slog.Info(err.Error())
	}
}
