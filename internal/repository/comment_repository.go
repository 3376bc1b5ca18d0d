package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nikhilm23/moodlens/internal/models"
)

type CommentRepository interface {
	Upsert(ctx context.Context, comment *models.Comment) (id int64, created bool, err error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.Comment, error)
	CountByPostID(ctx context.Context, postID int64) (int, error)
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Upsert(ctx context.Context, comment *models.Comment) (int64, bool, error) {
	query := `
		INSERT INTO comments(
			post_id,
			platform_comment_id,
			author_username,
			content,
			raw_data,
			preprocessed_content,
			language,
			emotion_scores,
			dominant_emotion,
			sentiment_score,
			detected_slang,
			analysis_degraded,
			created_at_platform,
			likes_count,
			is_preprocessed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (post_id, platform_comment_id) DO UPDATE SET
			likes_count = EXCLUDED.likes_count,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, (xmax = 0)
	`

	var id int64
	var created bool
	err := r.db.QueryRowContext(ctx, query,
		comment.PostID,
		comment.PlatformCommentID,
		comment.AuthorUsername,
		comment.Content,
		comment.RawData,
		comment.PreprocessedContent,
		comment.Language,
		comment.EmotionScores,
		comment.DominantEmotion,
		comment.SentimentScore,
		comment.DetectedSlang,
		comment.AnalysisDegraded,
		comment.CreatedAtPlatform,
		comment.LikesCount,
		comment.IsPreprocessed,
	).Scan(&id, &created)
	if err != nil {
		slog.Info(err.Error())
		return 0, false, err
	}

	return id, created, nil
}

func (r *commentRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, post_id, platform_comment_id, author_username, content,
			raw_data, preprocessed_content, language, emotion_scores,
			dominant_emotion, sentiment_score, detected_slang,
			analysis_degraded, created_at_platform, likes_count,
			is_preprocessed, created_at, updated_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at_platform DESC`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.PostID, &c.PlatformCommentID, &c.AuthorUsername,
			&c.Content, &c.RawData, &c.PreprocessedContent, &c.Language,
			&c.EmotionScores, &c.DominantEmotion, &c.SentimentScore,
			&c.DetectedSlang, &c.AnalysisDegraded, &c.CreatedAtPlatform,
			&c.LikesCount, &c.IsPreprocessed, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
