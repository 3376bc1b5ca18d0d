package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/analysis/emotion"
	"github.com/nikhilm23/moodlens/internal/analysis/preprocess"
	"github.com/nikhilm23/moodlens/internal/analysis/slang"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/transfer"
)

type fakeAccountRepo struct {
	account     *models.SocialAccount
	upserted    *models.SocialAccount
	setAccess   string
	setRefresh  string
	deactivated bool
}

func (r *fakeAccountRepo) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	r.upserted = sa
	return 1, nil
}
func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	if r.account != nil && r.account.ID == id {
		return r.account, nil
	}
	return nil, nil
}
func (r *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}
func (r *fakeAccountRepo) ListActive(ctx context.Context) ([]*models.SocialAccount, error) {
	return nil, nil
}
func (r *fakeAccountRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}
func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return true, nil
}
func (r *fakeAccountRepo) SetToken(ctx context.Context, accountID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	r.setAccess = accessToken
	r.setRefresh = refreshToken
	return nil
}
func (r *fakeAccountRepo) SetActive(ctx context.Context, accountID int64, active bool) error {
	if !active {
		r.deactivated = true
	}
	return nil
}
func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakePostRepo struct {
	posts   map[string]*models.Post
	nextID  int64
	failing bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) Upsert(ctx context.Context, post *models.Post) (int64, bool, error) {
	if r.failing {
		return 0, false, errors.New("connection reset")
	}
	if existing, ok := r.posts[post.PlatformPostID]; ok {
		existing.LikesCount = post.LikesCount
		return existing.ID, false, nil
	}
	r.nextID++
	post.ID = r.nextID
	r.posts[post.PlatformPostID] = post
	return post.ID, true, nil
}
func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePostRepo) GetByPlatformID(ctx context.Context, accountID int64, platformPostID string) (*models.Post, error) {
	return r.posts[platformPostID], nil
}
func (r *fakePostRepo) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) ListRecentByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) CountByAccountID(ctx context.Context, accountID int64) (int, int, error) {
	return len(r.posts), len(r.posts), nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Upsert(ctx context.Context, comment *models.Comment) (int64, bool, error) {
	if existing, ok := r.comments[comment.PlatformCommentID]; ok {
		return existing.ID, false, nil
	}
	r.nextID++
	comment.ID = r.nextID
	r.comments[comment.PlatformCommentID] = comment
	return comment.ID, true, nil
}
func (r *fakeCommentRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return nil, nil
}
func (r *fakeCommentRepo) CountByPostID(ctx context.Context, postID int64) (int, error) {
	return len(r.comments), nil
}

type fakeRunRepo struct {
	runs map[string]*models.IngestionRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*models.IngestionRun)}
}

func (r *fakeRunRepo) Create(ctx context.Context, run *models.IngestionRun) (int64, error) {
	cp := *run
	r.runs[run.RunID] = &cp
	return int64(len(r.runs)), nil
}
func (r *fakeRunRepo) Finalize(ctx context.Context, runID string, status string, fetched, analyzed, skipped int, errMsg string) error {
	run, ok := r.runs[runID]
	if !ok {
		return errors.New("no run row")
	}
	run.Status = status
	run.Fetched = fetched
	run.Analyzed = analyzed
	run.Skipped = skipped
	run.ErrorMessage = errMsg
	return nil
}
func (r *fakeRunRepo) GetByRunID(ctx context.Context, runID string) (*models.IngestionRun, error) {
	return r.runs[runID], nil
}
func (r *fakeRunRepo) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.IngestionRun, error) {
	return nil, nil
}

type fakeTwitter struct {
	tweets   []transfer.TwitterTweet
	fetchErr error
	replies  map[string][]transfer.TwitterTweet
}

func (f *fakeTwitter) FetchTimeline(ctx context.Context, account *models.SocialAccount, maxItems int) ([]transfer.TwitterTweet, error) {
	return f.tweets, f.fetchErr
}
func (f *fakeTwitter) FetchReplies(ctx context.Context, account *models.SocialAccount, conversationID string, maxItems int) ([]transfer.TwitterTweet, error) {
	return f.replies[conversationID], nil
}
func (f *fakeTwitter) RefreshAccessToken(ctx context.Context, account *models.SocialAccount) error {
	return nil
}
func (f *fakeTwitter) Revoke(ctx context.Context, account *models.SocialAccount) error {
	return nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, text string) ([]emotion.LabelScore, error) {
	return []emotion.LabelScore{{Label: "joy", Score: 0.9}}, nil
}

func tweet(id, text string) transfer.TwitterTweet {
	return transfer.TwitterTweet{
		ID:             id,
		Text:           text,
		CreatedAt:      "2026-03-01T12:00:00Z",
		ConversationID: id,
	}
}

type ingestionFixture struct {
	svc      *ingestionService
	accounts *fakeAccountRepo
	posts    *fakePostRepo
	comments *fakeCommentRepo
	runs     *fakeRunRepo
	twitter  *fakeTwitter
}

func newIngestionFixture() *ingestionFixture {
	cfg := &config.Config{DefaultMaxItems: 25}
	accounts := &fakeAccountRepo{
		account: &models.SocialAccount{ID: 7, UserID: 1, Platform: models.PlatformTwitter, PlatformUserID: "42", IsActive: true},
	}
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	runs := newFakeRunRepo()
	tw := &fakeTwitter{replies: make(map[string][]transfer.TwitterTweet)}

	svc := NewIngestionService(cfg, accounts, posts, comments, runs, tw,
		preprocess.New(preprocess.Config{MinTokens: 3, MinConfidence: 0.3}),
		slang.NewDetector(),
		emotion.NewEngine(stubClassifier{}, 1500, false),
		nil,
	).(*ingestionService)

	return &ingestionFixture{svc: svc, accounts: accounts, posts: posts, comments: comments, runs: runs, twitter: tw}
}

func TestRunCompleteFlow(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{
		tweet("100", "ngl this new album slaps fr"),
		tweet("101", "what a lovely morning walk today"),
	}
	f.twitter.replies["100"] = []transfer.TwitterTweet{tweet("200", "facts, it goes hard")}

	result, err := f.svc.Run(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != models.RunStatusComplete {
		t.Errorf("Status = %q, want %q", result.Status, models.RunStatusComplete)
	}
	if result.Fetched != 2 {
		t.Errorf("Fetched = %d, want 2", result.Fetched)
	}
	if result.Analyzed != 3 {
		t.Errorf("Analyzed = %d, want 3 (2 posts + 1 comment)", result.Analyzed)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}

	post := f.posts.posts["100"]
	if post == nil {
		t.Fatal("post 100 not persisted")
	}
	if !post.IsPreprocessed {
		t.Error("post not marked preprocessed")
	}
	if post.DominantEmotion != "joy" {
		t.Errorf("DominantEmotion = %q, want joy", post.DominantEmotion)
	}
	if post.PreprocessedContent == "" || post.Language == "" {
		t.Errorf("analysis fields empty: %+v", post)
	}
	if len(post.DetectedSlang) == 0 {
		t.Error("DetectedSlang empty for slang-heavy text")
	}

	run, _ := f.runs.GetByRunID(context.Background(), result.RunID)
	if run == nil || run.Status != models.RunStatusComplete {
		t.Errorf("run row not finalized: %+v", run)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{tweet("100", "hello world again")}

	if _, err := f.svc.Run(context.Background(), 7, 10); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := f.svc.Run(context.Background(), 7, 10); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(f.posts.posts) != 1 {
		t.Errorf("got %d posts after re-ingesting the same tweet, want 1", len(f.posts.posts))
	}
}

func TestRunRejectsConcurrentRuns(t *testing.T) {
	f := newIngestionFixture()

	if !f.svc.tryLock(7) {
		t.Fatal("could not take the account lock")
	}
	defer f.svc.unlock(7)

	_, err := f.svc.Run(context.Background(), 7, 10)
	if !errors.Is(err, apperrors.ErrAlreadyRunning) {
		t.Errorf("err = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunPartialOnRateLimit(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{tweet("100", "made it before the cutoff")}
	f.twitter.fetchErr = &apperrors.RateLimitError{
		Category: "user-timeline",
		ResetAt:  time.Now().Add(10 * time.Minute),
		Fetched:  1,
	}

	result, err := f.svc.Run(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != models.RunStatusPartial {
		t.Errorf("Status = %q, want %q", result.Status, models.RunStatusPartial)
	}
	if len(f.posts.posts) != 1 {
		t.Errorf("fetched items not persisted on rate limit: %d posts", len(f.posts.posts))
	}
}

func TestRunPartialOnNetworkFailure(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{tweet("100", "made it out before the drop")}
	f.twitter.fetchErr = fmt.Errorf("%w: connection reset mid-pagination", apperrors.ErrNetwork)

	result, err := f.svc.Run(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != models.RunStatusPartial {
		t.Errorf("Status = %q, want %q", result.Status, models.RunStatusPartial)
	}
	if len(f.posts.posts) != 1 {
		t.Errorf("fetched items not persisted after network failure: %d posts", len(f.posts.posts))
	}

	run, _ := f.runs.GetByRunID(context.Background(), result.RunID)
	if run == nil || run.Status != models.RunStatusPartial {
		t.Errorf("run row not finalized as partial: %+v", run)
	}
}

func TestRunDetectsSlangInRawContent(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{
		tweet("100", "omg this is amazing! 😍 #blessed @friend https://example.com"),
	}

	if _, err := f.svc.Run(context.Background(), 7, 10); err != nil {
		t.Fatalf("Run: %v", err)
	}

	post := f.posts.posts["100"]
	if post == nil {
		t.Fatal("post 100 not persisted")
	}
	// The preprocessor expands "omg" before emotion analysis, but slang
	// detection sees the original content.
	if !strings.Contains(string(post.DetectedSlang), `"omg"`) {
		t.Errorf("DetectedSlang = %s, want it to report omg", post.DetectedSlang)
	}
}

func TestRunIsolatesMalformedItems(t *testing.T) {
	f := newIngestionFixture()
	bad := tweet("100", "fine text")
	bad.CreatedAt = "not-a-timestamp"
	f.twitter.tweets = []transfer.TwitterTweet{bad, tweet("101", "this one is clean")}

	result, err := f.svc.Run(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.Analyzed != 1 {
		t.Errorf("Analyzed = %d, want 1", result.Analyzed)
	}
	if result.Status != models.RunStatusComplete {
		t.Errorf("Status = %q, want complete despite skipped item", result.Status)
	}
}

func TestRunFailsOnAuthError(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.fetchErr = apperrors.ErrAuth

	result, err := f.svc.Run(context.Background(), 7, 10)
	if !errors.Is(err, apperrors.ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
	if result.Status != models.RunStatusFailed {
		t.Errorf("Status = %q, want failed", result.Status)
	}
	if !f.accounts.deactivated {
		t.Error("account not deactivated after auth failure")
	}
}

func TestRunAbortsOnPersistenceFailure(t *testing.T) {
	f := newIngestionFixture()
	f.twitter.tweets = []transfer.TwitterTweet{tweet("100", "will not make it to disk")}
	f.posts.failing = true

	result, err := f.svc.Run(context.Background(), 7, 10)
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if result.Status != models.RunStatusFailed {
		t.Errorf("Status = %q, want failed", result.Status)
	}
}

func TestRunRejectsInactiveAccount(t *testing.T) {
	f := newIngestionFixture()
	f.accounts.account.IsActive = false

	_, err := f.svc.Run(context.Background(), 7, 10)
	if !errors.Is(err, apperrors.ErrAuth) {
		t.Errorf("err = %v, want ErrAuth for inactive account", err)
	}
}

func TestRunUnknownAccount(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.svc.Run(context.Background(), 99, 10)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation for unknown account", err)
	}
}
