package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikhilm23/moodlens/internal/analysis/slang"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/transfer"
)

type PostService interface {
	ListPosts(ctx context.Context, userID, accountID int64, limit, offset int) ([]*models.Post, error)
	GetPostWithComments(ctx context.Context, userID, postID int64) (*models.Post, []*models.Comment, error)
	GetAccountStats(ctx context.Context, userID, accountID int64) (*transfer.AccountStats, error)
}

type postService struct {
	sa       repository.SocialAccountRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	slang    *slang.Detector
}

func NewPostService(
	sa repository.SocialAccountRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	slangDetector *slang.Detector) PostService {
	return &postService{
		sa:       sa,
		posts:    posts,
		comments: comments,
		slang:    slangDetector,
	}
}

func (s *postService) ListPosts(ctx context.Context, userID, accountID int64, limit, offset int) ([]*models.Post, error) {
	if err := s.checkOwnership(ctx, userID, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.ListByAccountID(ctx, accountID, limit, offset)
}

func (s *postService) GetPostWithComments(ctx context.Context, userID, postID int64) (*models.Post, []*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, fmt.Errorf("%w: post %d not found", apperrors.ErrValidation, postID)
	}

	if err := s.checkOwnership(ctx, userID, post.SocialAccountID); err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.ListByPostID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

func (s *postService) GetAccountStats(ctx context.Context, userID, accountID int64) (*transfer.AccountStats, error) {
	if err := s.checkOwnership(ctx, userID, accountID); err != nil {
		return nil, err
	}

	total, preprocessed, err := s.posts.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	stats := &transfer.AccountStats{
		AccountID:    accountID,
		TotalPosts:   total,
		Preprocessed: preprocessed,
	}

	// Average over the most recent analyzed posts keeps the number cheap
	// to compute and responsive to the account's current mood.
	recent, err := s.posts.ListRecentByAccountID(ctx, accountID, 100)
	if err != nil {
		return nil, err
	}
	var sum float64
	var n, words int
	unique := make(map[string]struct{})
	for _, p := range recent {
		if !p.IsPreprocessed {
			continue
		}
		sum += p.SentimentScore
		n++

		words += len(strings.Fields(p.PreprocessedContent))
		for _, m := range s.slang.Detect(p.PreprocessedContent) {
			stats.Slang.Total++
			unique[m.Term] = struct{}{}
		}
	}
	if n > 0 {
		stats.AvgSentiment = sum / float64(n)
	}
	stats.Slang.Unique = len(unique)
	if words > 0 {
		stats.Slang.Density = float64(stats.Slang.Total) / float64(words)
	}
	return stats, nil
}

func (s *postService) checkOwnership(ctx context.Context, userID, accountID int64) error {
	owned, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: account %d does not belong to user", apperrors.ErrValidation, accountID)
	}
	return nil
}
