package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/analysis/emotion"
	"github.com/nikhilm23/moodlens/internal/analysis/preprocess"
	"github.com/nikhilm23/moodlens/internal/analysis/slang"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/transfer"
)

const repliesPerPost = 25

type IngestionService interface {
	// Run executes one ingestion pass for the account. At most one run
	// per account is in flight; concurrent callers get ErrAlreadyRunning.
	Run(ctx context.Context, accountID int64, maxItems int) (*transfer.IngestionResult, error)
	GetRun(ctx context.Context, runID string) (*models.IngestionRun, error)
	ListRuns(ctx context.Context, accountID int64, limit int) ([]*models.IngestionRun, error)
}

type ingestionService struct {
	cfg      *config.Config
	sa       repository.SocialAccountRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	runs     repository.IngestionRunRepository
	tw       TwitterService
	pre      *preprocess.Preprocessor
	slang    *slang.Detector
	emotion  *emotion.Engine
	archive  *ArchiveService

	mu      sync.Mutex
	running map[int64]struct{}
}

func NewIngestionService(
	cfg *config.Config,
	sa repository.SocialAccountRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	runs repository.IngestionRunRepository,
	tw TwitterService,
	pre *preprocess.Preprocessor,
	slangDetector *slang.Detector,
	emotionEngine *emotion.Engine,
	archive *ArchiveService) IngestionService {
	return &ingestionService{
		cfg:      cfg,
		sa:       sa,
		posts:    posts,
		comments: comments,
		runs:     runs,
		tw:       tw,
		pre:      pre,
		slang:    slangDetector,
		emotion:  emotionEngine,
		archive:  archive,
		running:  make(map[int64]struct{}),
	}
}

func (s *ingestionService) Run(ctx context.Context, accountID int64, maxItems int) (*transfer.IngestionResult, error) {
	if !s.tryLock(accountID) {
		return nil, apperrors.ErrAlreadyRunning
	}
	defer s.unlock(accountID)

	if maxItems <= 0 {
		maxItems = s.cfg.DefaultMaxItems
	}

	account, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %d not found", apperrors.ErrValidation, accountID)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %d is inactive", apperrors.ErrAuth, accountID)
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	_, err = s.runs.Create(ctx, &models.IngestionRun{
		RunID:     runID,
		AccountID: accountID,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	result := &transfer.IngestionResult{RunID: runID}

	tweets, fetchErr := s.tw.FetchTimeline(ctx, account, maxItems)
	result.Fetched = len(tweets)

	// Rate limits and exhausted network retries still leave a usable
	// batch; everything already fetched is carried forward.
	partialFetch := apperrors.IsRateLimited(fetchErr) || errors.Is(fetchErr, apperrors.ErrNetwork)
	if fetchErr != nil && !partialFetch {
		if apperrors.IsAuthFailure(fetchErr) {
			if derr := s.sa.SetActive(ctx, accountID, false); derr != nil {
				slog.Info(derr.Error())
			}
		}
		s.finalize(ctx, runID, result, models.RunStatusFailed, fetchErr.Error())
		return result, fetchErr
	}

	s.archiveBatch(ctx, account, runID, tweets)

	var abortErr error
	repliesBlocked := false

	for _, tweet := range tweets {
		if ctx.Err() != nil {
			abortErr = ctx.Err()
			break
		}

		post, err := s.buildPost(ctx, accountID, tweet)
		if err != nil {
			// A malformed item never sinks the batch.
			slog.Info(err.Error())
			result.Skipped++
			continue
		}

		postID, _, err := s.posts.Upsert(ctx, post)
		if err != nil {
			abortErr = fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
			break
		}
		result.Analyzed++

		if repliesBlocked {
			continue
		}
		blocked, err := s.ingestReplies(ctx, account, postID, tweet, result)
		if err != nil {
			abortErr = err
			break
		}
		repliesBlocked = blocked
	}

	switch {
	case abortErr != nil && errors.Is(abortErr, apperrors.ErrPersistence):
		s.finalize(ctx, runID, result, models.RunStatusFailed, abortErr.Error())
		return result, abortErr
	case abortErr != nil:
		// Cancellation: everything persisted so far stands.
		s.finalize(ctx, runID, result, models.RunStatusPartial, abortErr.Error())
		return result, abortErr
	case partialFetch:
		s.finalize(ctx, runID, result, models.RunStatusPartial, fetchErr.Error())
		return result, nil
	default:
		s.finalize(ctx, runID, result, models.RunStatusComplete, "")
		return result, nil
	}
}

func (s *ingestionService) GetRun(ctx context.Context, runID string) (*models.IngestionRun, error) {
	return s.runs.GetByRunID(ctx, runID)
}

func (s *ingestionService) ListRuns(ctx context.Context, accountID int64, limit int) ([]*models.IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListByAccountID(ctx, accountID, limit)
}

// ingestReplies pulls and analyzes the conversation under one post. Reply
// failures are contained: the post survives with zero comments. Returns
// blocked=true when the reply budget ran out so later posts skip the
// lookup entirely.
func (s *ingestionService) ingestReplies(ctx context.Context, account *models.SocialAccount, postID int64, tweet transfer.TwitterTweet, result *transfer.IngestionResult) (blocked bool, err error) {
	conversationID := tweet.ConversationID
	if conversationID == "" {
		conversationID = tweet.ID
	}

	replies, err := s.tw.FetchReplies(ctx, account, conversationID, repliesPerPost)
	if err != nil {
		if apperrors.IsRateLimited(err) {
			slog.Info("reply budget exhausted, skipping replies for remaining posts")
			return true, nil
		}
		slog.Info(err.Error())
		return false, nil
	}

	for _, reply := range replies {
		comment, err := s.buildComment(ctx, postID, reply)
		if err != nil {
			slog.Info(err.Error())
			result.Skipped++
			continue
		}
		if _, _, err := s.comments.Upsert(ctx, comment); err != nil {
			return false, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
		}
		result.Analyzed++
	}
	return false, nil
}

type analyzedText struct {
	cleaned   string
	language  string
	scores    json.RawMessage
	dominant  string
	sentiment float64
	slangJSON json.RawMessage
	degraded  bool
}

func (s *ingestionService) analyzeText(ctx context.Context, text string) (*analyzedText, error) {
	pre := s.pre.Preprocess(text)
	// Slang runs on the raw content: the preprocessor expands
	// abbreviations like "omg", which would erase them before detection.
	matches := s.slang.Detect(text)
	analysis := s.emotion.Analyze(ctx, pre.Cleaned)

	scores, err := json.Marshal(analysis.Scores)
	if err != nil {
		return nil, err
	}
	slangJSON, err := json.Marshal(matches)
	if err != nil {
		return nil, err
	}

	return &analyzedText{
		cleaned:   pre.Cleaned,
		language:  pre.Language,
		scores:    scores,
		dominant:  analysis.Dominant,
		sentiment: analysis.Sentiment,
		slangJSON: slangJSON,
		degraded:  analysis.Degraded,
	}, nil
}

func (s *ingestionService) buildPost(ctx context.Context, accountID int64, tweet transfer.TwitterTweet) (*models.Post, error) {
	if tweet.ID == "" {
		return nil, fmt.Errorf("%w: tweet missing id", apperrors.ErrValidation)
	}

	createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at for tweet %s", apperrors.ErrValidation, tweet.ID)
	}

	raw, err := json.Marshal(tweet)
	if err != nil {
		return nil, err
	}

	analyzed, err := s.analyzeText(ctx, tweet.Text)
	if err != nil {
		return nil, err
	}

	return &models.Post{
		SocialAccountID:     accountID,
		PlatformPostID:      tweet.ID,
		Content:             tweet.Text,
		RawData:             raw,
		PreprocessedContent: analyzed.cleaned,
		Language:            analyzed.language,
		EmotionScores:       analyzed.scores,
		DominantEmotion:     analyzed.dominant,
		SentimentScore:      analyzed.sentiment,
		DetectedSlang:       analyzed.slangJSON,
		AnalysisDegraded:    analyzed.degraded,
		CreatedAtPlatform:   createdAt,
		LikesCount:          tweet.PublicMetrics.LikeCount,
		RetweetsCount:       tweet.PublicMetrics.RetweetCount,
		RepliesCount:        tweet.PublicMetrics.ReplyCount,
		IsPreprocessed:      true,
	}, nil
}

func (s *ingestionService) buildComment(ctx context.Context, postID int64, reply transfer.TwitterTweet) (*models.Comment, error) {
	if reply.ID == "" {
		return nil, fmt.Errorf("%w: reply missing id", apperrors.ErrValidation)
	}

	createdAt, err := time.Parse(time.RFC3339, reply.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at for reply %s", apperrors.ErrValidation, reply.ID)
	}

	raw, err := json.Marshal(reply)
	if err != nil {
		return nil, err
	}

	analyzed, err := s.analyzeText(ctx, reply.Text)
	if err != nil {
		return nil, err
	}

	return &models.Comment{
		PostID:              postID,
		PlatformCommentID:   reply.ID,
		AuthorUsername:      reply.AuthorID,
		Content:             reply.Text,
		RawData:             raw,
		PreprocessedContent: analyzed.cleaned,
		Language:            analyzed.language,
		EmotionScores:       analyzed.scores,
		DominantEmotion:     analyzed.dominant,
		SentimentScore:      analyzed.sentiment,
		DetectedSlang:       analyzed.slangJSON,
		AnalysisDegraded:    analyzed.degraded,
		CreatedAtPlatform:   createdAt,
		LikesCount:          reply.PublicMetrics.LikeCount,
		IsPreprocessed:      true,
	}, nil
}

// archiveBatch ships the raw payload to object storage. Best effort; the
// run never fails on archive errors.
func (s *ingestionService) archiveBatch(ctx context.Context, account *models.SocialAccount, runID string, tweets []transfer.TwitterTweet) {
	if s.archive == nil || len(tweets) == 0 {
		return
	}
	if err := s.archive.ArchiveRawBatch(ctx, account.ID, runID, tweets); err != nil {
		slog.Info(err.Error())
	}
}

func (s *ingestionService) finalize(ctx context.Context, runID string, result *transfer.IngestionResult, status, message string) {
	result.Status = status
	result.Message = message
	err := s.runs.Finalize(ctx, runID, status, result.Fetched, result.Analyzed, result.Skipped, message)
	if err != nil {
		slog.Info(err.Error())
	}
}

func (s *ingestionService) tryLock(accountID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[accountID]; ok {
		return false
	}
	s.running[accountID] = struct{}{}
	return true
}

func (s *ingestionService) unlock(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, accountID)
}
