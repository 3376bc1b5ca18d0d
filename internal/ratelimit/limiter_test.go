package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nikhilm23/moodlens/internal/models"
)

type memRepo struct {
	states map[string]*models.RateLimitState
}

func newMemRepo() *memRepo {
	return &memRepo{states: make(map[string]*models.RateLimitState)}
}

func (r *memRepo) key(accountID int64, category string) string {
	return fmt.Sprintf("%d/%s", accountID, category)
}

func (r *memRepo) Get(ctx context.Context, accountID int64, category string) (*models.RateLimitState, error) {
	st, ok := r.states[r.key(accountID, category)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *memRepo) Upsert(ctx context.Context, state *models.RateLimitState) error {
	cp := *state
	r.states[r.key(state.AccountID, state.Category)] = &cp
	return nil
}

func newTestLimiter(repo *memRepo, ceiling int) (*Limiter, *time.Time) {
	l := NewLimiter(repo, map[string]int{CategoryTimeline: ceiling, CategoryReplies: 2}, 15*time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAcquireExhaustsWindow(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(newMemRepo(), 3)

	for i := 0; i < 3; i++ {
		d, err := l.Acquire(ctx, 1, CategoryTimeline)
		if err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("Acquire %d blocked, want allowed", i)
		}
	}

	d, err := l.Acquire(ctx, 1, CategoryTimeline)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if d.Allowed {
		t.Error("call past the ceiling was allowed")
	}
	if d.WaitUntil.IsZero() {
		t.Error("blocked decision has no WaitUntil")
	}
}

func TestAcquireResetsAfterWindow(t *testing.T) {
	ctx := context.Background()
	l, now := newTestLimiter(newMemRepo(), 1)

	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); !d.Allowed {
		t.Fatal("first call blocked")
	}
	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); d.Allowed {
		t.Fatal("second call in same window allowed")
	}

	*now = now.Add(16 * time.Minute)
	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); !d.Allowed {
		t.Error("call after window reset blocked")
	}
}

func TestCategoriesAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(newMemRepo(), 1)

	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); !d.Allowed {
		t.Fatal("timeline call blocked")
	}
	if d, _ := l.Acquire(ctx, 1, CategoryReplies); !d.Allowed {
		t.Error("replies call blocked by timeline budget")
	}
}

func TestAccountsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(newMemRepo(), 1)

	l.Acquire(ctx, 1, CategoryTimeline)
	if d, _ := l.Acquire(ctx, 2, CategoryTimeline); !d.Allowed {
		t.Error("account 2 blocked by account 1 budget")
	}
}

func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()

	l1, _ := newTestLimiter(repo, 2)
	l1.Acquire(ctx, 1, CategoryTimeline)
	l1.Acquire(ctx, 1, CategoryTimeline)

	// Fresh limiter over the same repository simulates a restart.
	l2, _ := newTestLimiter(repo, 2)
	d, err := l2.Acquire(ctx, 1, CategoryTimeline)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if d.Allowed {
		t.Error("restarted limiter forgot the consumed window")
	}
}

func TestObserveHeadersKeepsConservativeEstimate(t *testing.T) {
	ctx := context.Background()
	l, now := newTestLimiter(newMemRepo(), 5)

	l.Acquire(ctx, 1, CategoryTimeline) // local count = 1, remaining 4

	// Platform says only 1 call remains and the window resets later than
	// we believed: both must stick.
	platformReset := now.Add(20 * time.Minute)
	l.ObserveHeaders(ctx, 1, CategoryTimeline, 1, platformReset)

	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); !d.Allowed {
		t.Fatal("remaining budget of 1 not honored")
	}
	d, _ := l.Acquire(ctx, 1, CategoryTimeline)
	if d.Allowed {
		t.Error("call allowed past the platform-reported budget")
	}
	if !d.WaitUntil.Equal(platformReset) {
		t.Errorf("WaitUntil = %v, want platform reset %v", d.WaitUntil, platformReset)
	}
}

func TestObserveHeadersNeverRaisesBudget(t *testing.T) {
	ctx := context.Background()
	l, now := newTestLimiter(newMemRepo(), 2)

	l.Acquire(ctx, 1, CategoryTimeline)
	l.Acquire(ctx, 1, CategoryTimeline)

	// Platform claims a full budget; local pessimistic count wins.
	l.ObserveHeaders(ctx, 1, CategoryTimeline, 2, now.Add(time.Minute))

	if d, _ := l.Acquire(ctx, 1, CategoryTimeline); d.Allowed {
		t.Error("optimistic platform header raised the local budget")
	}
}
