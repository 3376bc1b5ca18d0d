package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/transfer"
)

// ArchiveService writes raw platform payloads to Cloudflare R2 so the
// original data survives schema changes and re-analysis.
type ArchiveService struct {
	config *cfg.Config
}

func NewArchiveService(cfg *cfg.Config) *ArchiveService {
	return &ArchiveService{config: cfg}
}

func (r *ArchiveService) R2Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

// ArchiveRawBatch stores one run's raw tweets as a single JSON object
// keyed by account and run.
func (r *ArchiveService) ArchiveRawBatch(ctx context.Context, accountID int64, runID string, tweets []transfer.TwitterTweet) error {
	payload, err := json.Marshal(tweets)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	key := fmt.Sprintf("raw/%d/%s/%s.json", accountID, time.Now().UTC().Format("2006-01-02"), runID)
	return r.upload(ctx, key, payload, "application/json")
}

func (r *ArchiveService) upload(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	r2Client, err := r.R2Client()
	if err != nil {
		return err
	}

	_, err = r2Client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
