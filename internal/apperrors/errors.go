package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Run-terminating errors. Everything else is isolated at the item level
// and recorded in run statistics.
var (
	ErrAuth           = errors.New("platform authorization invalid or revoked")
	ErrInvalidState   = errors.New("oauth state missing, expired, or already used")
	ErrTokenExchange  = errors.New("authorization code exchange rejected")
	ErrDecryption     = errors.New("token decryption failed")
	ErrAlreadyRunning = errors.New("ingestion already running for account")
	ErrPersistence    = errors.New("storage write failed")
	ErrValidation     = errors.New("malformed platform payload")
	ErrModelInference = errors.New("emotion model inference failed")
	ErrNetwork        = errors.New("transient network failure")
)

// RateLimitError reports how far a batch got before the platform budget
// ran out, and when the window resets.
type RateLimitError struct {
	Category string
	ResetAt  time.Time
	Fetched  int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, resets at %s (%d items fetched)",
		e.Category, e.ResetAt.Format(time.RFC3339), e.Fetched)
}

// IsRateLimited reports whether err is a RateLimitError anywhere in its chain.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsAuthFailure treats decryption failures as authorization failures:
// a token we cannot decrypt is as good as revoked.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrAuth) || errors.Is(err, ErrDecryption)
}
