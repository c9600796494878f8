package services

import (
	"context"
	"errors"
	"sync"

	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/store"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// CredentialService loads a user's stored Google token and writes back any
// token that x/oauth2 refreshed while it was in use.
type CredentialService struct {
	tokens TokenStore
	source CredentialSource
}

func NewCredentialService(tokens TokenStore, source CredentialSource) *CredentialService {
	return &CredentialService{tokens: tokens, source: source}
}

// Credential is a user's token source for the duration of one operation.
type Credential struct {
	UserID string

	stored *oauth2.Token
	src    oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

// Token implements oauth2.TokenSource and remembers the last token handed out
func (c *Credential) Token() (*oauth2.Token, error) {
	tok, err := c.src.Token()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.last = tok
	c.mu.Unlock()
	return tok, nil
}

// refreshed returns the newer token if the source replaced the stored one
func (c *Credential) refreshed() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil || c.last.AccessToken == c.stored.AccessToken {
		return nil
	}
	return c.last
}

// Load returns ErrNoCredential when the user has no usable access token
func (s *CredentialService) Load(ctx context.Context, userID string) (*Credential, error) {
	rec, err := s.tokens.GetToken(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, err
	}
	if !rec.HasAccessToken() {
		return nil, ErrNoCredential
	}

	stored := &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       rec.Expiry,
	}
	return &Credential{
		UserID: userID,
		stored: stored,
		src:    s.source.TokenSource(ctx, stored),
	}, nil
}

// SaveRefreshed upserts the token the source refreshed, if any. Failures are
// logged; the operation that used the credential has already succeeded.
func (s *CredentialService) SaveRefreshed(ctx context.Context, cred *Credential) {
	tok := cred.refreshed()
	if tok == nil {
		return
	}
	err := s.tokens.UpsertToken(ctx, cred.UserID, tok.AccessToken, tok.RefreshToken, tok.Expiry)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("user_id", cred.UserID))
		return
	}
	logger.Debug("stored refreshed google token", zap.String("user_id", cred.UserID))
}
