package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/models"

	"golang.org/x/oauth2"
)

var ErrUserSyncFailed = errors.New("failed to sync user from google profile")

type UserService struct {
	users   UserStore
	tokens  TokenStore
	metrics metrics.Recorder
}

func NewUserService(users UserStore, tokens TokenStore, m metrics.Recorder) *UserService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &UserService{users: users, tokens: tokens, metrics: m}
}

// SignIn creates the account for a Google profile or refreshes its
// email, name and avatar when it already exists.
func (s *UserService) SignIn(ctx context.Context, info *auth.OAuthUserInfo) (*models.User, error) {
	if info == nil || info.ProviderUserID == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrUserSyncFailed)
	}

	user, err := s.users.UpsertUserByGoogleID(ctx, &models.User{
		GoogleID:  info.ProviderUserID,
		Email:     info.Email,
		Name:      info.FullName,
		AvatarURL: info.AvatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserSyncFailed, err)
	}
	return user, nil
}

// StoreProviderToken saves the token Google issued at sign-in. It returns
// ErrNoCredential without writing when the token has no access token.
func (s *UserService) StoreProviderToken(ctx context.Context, userID string, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return ErrNoCredential
	}

	err := s.tokens.UpsertToken(ctx, userID, tok.AccessToken, tok.RefreshToken, tok.Expiry)
	s.metrics.RecordTokenStored(err == nil)
	return err
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}
