package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/oauth2"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/models"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/transfer"
	"github.com/nikhilm23/moodlens/pkg/tokenvault"
)

// Endpoint bases are variables so tests can stand in a local server.
var (
	twitterAuthURL  = "https://twitter.com/i/oauth2/authorize"
	twitterTokenURL = "https://api.twitter.com/2/oauth2/token"
	twitterMeURL    = "https://api.twitter.com/2/users/me"
)

// Handshake rows older than this are treated as expired even if the
// cleanup job has not purged them yet.
const stateTTL = 10 * time.Minute

type PlatformService interface {
	GetAuthURL(ctx context.Context, userID int64) (string, error)
	HandleCallback(ctx context.Context, state, code string) (int64, error)
	ListAccounts(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	DisconnectAccount(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg   *config.Config
	vault *tokenvault.Vault
	sa    repository.SocialAccountRepository
	os    repository.OAuthStateRepository
	tw    TwitterService
}

func NewPlatformService(
	cfg *config.Config,
	vault *tokenvault.Vault,
	sa repository.SocialAccountRepository,
	os repository.OAuthStateRepository,
	tw TwitterService) PlatformService {
	return &platformService{
		cfg:   cfg,
		vault: vault,
		sa:    sa,
		os:    os,
		tw:    tw,
	}
}

func (s *platformService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.TwitterClientID,
		ClientSecret: s.cfg.TwitterClientSecret,
		RedirectURL:  s.cfg.TwitterCallbackURL,
		Scopes:       []string{"tweet.read", "users.read", "offline.access"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   twitterAuthURL,
			TokenURL:  twitterTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// GetAuthURL issues a PKCE authorization URL. The verifier never leaves
// the server: it is stored against the state value and replayed during
// the code exchange.
func (s *platformService) GetAuthURL(ctx context.Context, userID int64) (string, error) {
	state, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	verifier := oauth2.GenerateVerifier()
	err = s.os.Create(ctx, &models.OAuthState{
		State:        state,
		CodeVerifier: verifier,
		UserID:       userID,
		ExpiresAt:    time.Now().Add(stateTTL),
	})
	if err != nil {
		return "", err
	}

	conf := s.oauthConfig()
	return conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	), nil
}

// HandleCallback redeems the state exactly once, exchanges the code and
// persists the connected account with encrypted tokens. Returns the
// account row id.
func (s *platformService) HandleCallback(ctx context.Context, state, code string) (int64, error) {
	if state == "" || code == "" {
		return 0, apperrors.ErrInvalidState
	}

	hs, err := s.os.Consume(ctx, state)
	if err != nil {
		return 0, err
	}
	if hs == nil || time.Now().After(hs.ExpiresAt) {
		slog.Info("oauth state rejected")
		return 0, apperrors.ErrInvalidState
	}

	conf := s.oauthConfig()
	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(hs.CodeVerifier))
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", apperrors.ErrTokenExchange, err)
	}

	userInfo, err := fetchTwitterMe(ctx, conf.Client(ctx, token))
	if err != nil {
		return 0, err
	}

	encryptedAccess, err := s.vault.Encrypt(token.AccessToken)
	if err != nil {
		return 0, err
	}
	encryptedRefresh, err := s.vault.Encrypt(token.RefreshToken)
	if err != nil {
		return 0, err
	}

	account := &models.SocialAccount{
		UserID:           hs.UserID,
		Platform:         models.PlatformTwitter,
		PlatformUserID:   userInfo.ID,
		PlatformUsername: userInfo.Username,
		AccessToken:      encryptedAccess,
		RefreshToken:     encryptedRefresh,
		TokenExpiresAt:   token.Expiry,
		IsActive:         true,
	}

	accountID, err := s.sa.Upsert(ctx, account)
	if err != nil {
		return 0, err
	}

	return accountID, nil
}

func (s *platformService) ListAccounts(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return s.sa.ListByUserID(ctx, userID)
}

// DisconnectAccount revokes the platform grant best-effort, then deletes
// the row. Revocation failure never blocks removal.
func (s *platformService) DisconnectAccount(ctx context.Context, userID, accountID int64) error {
	owned, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.ErrValidation
	}

	account, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account != nil {
		if err := s.tw.Revoke(ctx, account); err != nil {
			slog.Info(err.Error())
		}
	}

	return s.sa.Remove(ctx, accountID)
}

func fetchTwitterMe(ctx context.Context, client *http.Client) (*transfer.TwitterUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", twitterMeURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("unexpected response status from users/me")
		return nil, fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	var userResp transfer.TwitterUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if userResp.Data.ID == "" {
		return nil, fmt.Errorf("%w: users/me response missing id", apperrors.ErrValidation)
	}

	return &userResp.Data, nil
}
