package models

import (
	"encoding/json"
	"time"
)

type Post struct {
	ID                  int64           `db:"id" json:"id"`
	SocialAccountID     int64           `db:"social_account_id" json:"social_account_id"`
	PlatformPostID      string          `db:"platform_post_id" json:"platform_post_id"`
	Content             string          `db:"content" json:"content"`
	RawData             json.RawMessage `db:"raw_data" json:"raw_data"`
	PreprocessedContent string          `db:"preprocessed_content" json:"preprocessed_content"`
	Language            string          `db:"language" json:"language"`
	EmotionScores       json.RawMessage `db:"emotion_scores" json:"emotion_scores"`
	DominantEmotion     string          `db:"dominant_emotion" json:"dominant_emotion"`
	SentimentScore      float64         `db:"sentiment_score" json:"sentiment_score"`
	DetectedSlang       json.RawMessage `db:"detected_slang" json:"detected_slang"`
	AnalysisDegraded    bool            `db:"analysis_degraded" json:"analysis_degraded"`
	CreatedAtPlatform   time.Time       `db:"created_at_platform" json:"created_at_platform"`
	LikesCount          int             `db:"likes_count" json:"likes_count"`
	RetweetsCount       int             `db:"retweets_count" json:"retweets_count"`
	RepliesCount        int             `db:"replies_count" json:"replies_count"`
	IsPreprocessed      bool            `db:"is_preprocessed" json:"is_preprocessed"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

type Comment struct {
	ID                  int64           `db:"id" json:"id"`
	PostID              int64           `db:"post_id" json:"post_id"`
	PlatformCommentID   string          `db:"platform_comment_id" json:"platform_comment_id"`
	AuthorUsername      string          `db:"author_username" json:"author_username"`
	Content             string          `db:"content" json:"content"`
	RawData             json.RawMessage `db:"raw_data" json:"raw_data"`
	PreprocessedContent string          `db:"preprocessed_content" json:"preprocessed_content"`
	Language            string          `db:"language" json:"language"`
	EmotionScores       json.RawMessage `db:"emotion_scores" json:"emotion_scores"`
	DominantEmotion     string          `db:"dominant_emotion" json:"dominant_emotion"`
	SentimentScore      float64         `db:"sentiment_score" json:"sentiment_score"`
	DetectedSlang       json.RawMessage `db:"detected_slang" json:"detected_slang"`
	AnalysisDegraded    bool            `db:"analysis_degraded" json:"analysis_degraded"`
	CreatedAtPlatform   time.Time       `db:"created_at_platform" json:"created_at_platform"`
	LikesCount          int             `db:"likes_count" json:"likes_count"`
	IsPreprocessed      bool            `db:"is_preprocessed" json:"is_preprocessed"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}
