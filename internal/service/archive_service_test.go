package service

import (
	"testing"

	config "github.com/nikhilm23/moodlens/configs"
)

func TestR2ClientReturnsWithoutTerminating(t *testing.T) {
	svc := NewArchiveService(&config.Config{
		R2: config.R2{
			AccountID:  "acct",
			AccessKey:  "key",
			SecretKey:  "secret",
			BucketName: "bucket",
		},
	})

	client, err := svc.R2Client()
	if err != nil {
		t.Fatalf("R2Client: %v", err)
	}
	if client == nil {
		t.Fatal("R2Client returned nil client")
	}
}
