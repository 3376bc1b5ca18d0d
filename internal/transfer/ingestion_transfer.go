package transfer

import "github.com/nikhilm23/moodlens/internal/analysis/slang"

// IngestionResult is what an ingestion run reports back to callers.
type IngestionResult struct {
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	Fetched  int    `json:"fetched"`
	Analyzed int    `json:"analyzed"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message,omitempty"`
}

// AccountStats summarizes the analyzed corpus for one account.
type AccountStats struct {
	AccountID    int64         `json:"account_id"`
	TotalPosts   int           `json:"total_posts"`
	Preprocessed int           `json:"preprocessed"`
	AvgSentiment float64       `json:"avg_sentiment"`
	Slang        slang.Metrics `json:"slang_usage"`
}
