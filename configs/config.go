package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type RateLimits struct {
	Timeline int
	Replies  int
	Lookup   int
	Window   time.Duration
	MaxWait  time.Duration
}

type Emotion struct {
	APIURL         string
	MaxChars       int
	SerializeCalls bool
}

type Language struct {
	MinTokens     int
	MinConfidence float64
}

type Config struct {
	TwitterClientID     string
	TwitterClientSecret string
	TwitterCallbackURL  string
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURI   string
	PostgresURI         string
	RedisURI            string
	FrontendURL         string
	R2                  R2
	RateLimits          RateLimits
	Emotion             Emotion
	Language            Language
	EncryptionKey       string
	SecretKey           string
	CookieName          string
	DefaultMaxItems     int
	IngestCron          string
	TokenRefreshCron    string
}

func LoadConfig() *Config {
	return &Config{
		TwitterClientID:     getEnv("TWITTER_CLIENT_ID", ""),
		TwitterClientSecret: getEnv("TWITTER_CLIENT_SECRET", ""),
		TwitterCallbackURL:  getEnv("TWITTER_CALLBACK_URL", ""),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:   getEnv("GOOGLE_REDIRECT_URI", ""),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", ""),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		RateLimits: RateLimits{
			Timeline: getEnvInt("RATE_LIMIT_TIMELINE", 5),
			Replies:  getEnvInt("RATE_LIMIT_REPLIES", 10),
			Lookup:   getEnvInt("RATE_LIMIT_LOOKUP", 25),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			MaxWait:  getEnvDuration("MAX_RATE_WAIT", 30*time.Second),
		},
		Emotion: Emotion{
			APIURL:         getEnv("EMOTION_API_URL", "http://localhost:8001"),
			MaxChars:       getEnvInt("EMOTION_MAX_CHARS", 1500),
			SerializeCalls: getEnvBool("EMOTION_SERIALIZE", false),
		},
		Language: Language{
			MinTokens:     getEnvInt("LANG_MIN_TOKENS", 3),
			MinConfidence: getEnvFloat("LANG_MIN_CONFIDENCE", 0.5),
		},
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),
		SecretKey:        getEnv("SECRET_KEY", ""),
		CookieName:       getEnv("COOKIE_NAME", "moodlens_session"),
		DefaultMaxItems:  getEnvInt("DEFAULT_MAX_ITEMS", 25),
		IngestCron:       getEnv("INGEST_CRON", "@every 06h00m00s"),
		TokenRefreshCron: getEnv("TOKEN_REFRESH_CRON", "@every 00h10m00s"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
