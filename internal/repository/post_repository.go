package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nikhilm23/moodlens/internal/models"
)

type PostRepository interface {
	Upsert(ctx context.Context, post *models.Post) (id int64, created bool, err error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByPlatformID(ctx context.Context, accountID int64, platformPostID string) (*models.Post, error)
	ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error)
	ListRecentByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.Post, error)
	CountByAccountID(ctx context.Context, accountID int64) (total, preprocessed int, err error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// Upsert is keyed by (social_account_id, platform_post_id) so repeated
// fetches never duplicate a row. A conflicting row keeps its analysis
// fields and only refreshes the engagement counters.
func (r *postRepository) Upsert(ctx context.Context, post *models.Post) (int64, bool, error) {
	query := `
		INSERT INTO posts(
			social_account_id,
			platform_post_id,
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
			retweets_count,
			replies_count,
			is_preprocessed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (social_account_id, platform_post_id) DO UPDATE SET
			likes_count = EXCLUDED.likes_count,
			retweets_count = EXCLUDED.retweets_count,
			replies_count = EXCLUDED.replies_count,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, (xmax = 0)
	`

	var id int64
	var created bool
	err := r.db.QueryRowContext(ctx, query,
		post.SocialAccountID,
		post.PlatformPostID,
		post.Content,
		post.RawData,
		post.PreprocessedContent,
		post.Language,
		post.EmotionScores,
		post.DominantEmotion,
		post.SentimentScore,
		post.DetectedSlang,
		post.AnalysisDegraded,
		post.CreatedAtPlatform,
		post.LikesCount,
		post.RetweetsCount,
		post.RepliesCount,
		post.IsPreprocessed,
	).Scan(&id, &created)
	if err != nil {
		slog.Info(err.Error())
		return 0, false, err
	}

	return id, created, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := selectPostColumns + ` WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetByPlatformID(ctx context.Context, accountID int64, platformPostID string) (*models.Post, error) {
	query := selectPostColumns + ` WHERE social_account_id = $1 AND platform_post_id = $2`
	row := r.db.QueryRowContext(ctx, query, accountID, platformPostID)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	query := selectPostColumns + `
		WHERE social_account_id = $1
		ORDER BY created_at_platform DESC
		LIMIT $2 OFFSET $3`
	return r.listPosts(ctx, query, accountID, limit, offset)
}

func (r *postRepository) ListRecentByAccountID(ctx context.Context, accountID int64, limit int) ([]*models.Post, error) {
	query := selectPostColumns + `
		WHERE social_account_id = $1
		ORDER BY created_at_platform DESC
		LIMIT $2`
	return r.listPosts(ctx, query, accountID, limit)
}

func (r *postRepository) CountByAccountID(ctx context.Context, accountID int64) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_preprocessed)
		FROM posts WHERE social_account_id = $1`

	var total, preprocessed int
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&total, &preprocessed)
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, err
	}
	return total, preprocessed, nil
}

func (r *postRepository) listPosts(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

const selectPostColumns = `
	SELECT id, social_account_id, platform_post_id, content, raw_data,
		preprocessed_content, language, emotion_scores, dominant_emotion,
		sentiment_score, detected_slang, analysis_degraded,
		created_at_platform, likes_count, retweets_count, replies_count,
		is_preprocessed, created_at, updated_at
	FROM posts`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.SocialAccountID, &p.PlatformPostID, &p.Content,
		&p.RawData, &p.PreprocessedContent, &p.Language, &p.EmotionScores,
		&p.DominantEmotion, &p.SentimentScore, &p.DetectedSlang,
		&p.AnalysisDegraded, &p.CreatedAtPlatform, &p.LikesCount,
		&p.RetweetsCount, &p.RepliesCount, &p.IsPreprocessed,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
