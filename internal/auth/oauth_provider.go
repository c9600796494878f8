package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// DefaultScopes identify the user and grant read-only Search Console access
var DefaultScopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/webmasters.readonly",
}

// OAuthProviderConfig contains configuration for the Google OAuth client
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Endpoint and UserInfoURL default to Google's; tests point them elsewhere
	Endpoint    oauth2.Endpoint
	UserInfoURL string

	// HTTPClient is used for token exchange, refresh and userinfo calls
	HTTPClient *http.Client
}

// OAuthUserInfo contains the Google profile fields the app stores
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	FullName       string
	AvatarURL      string
}

// OAuthProvider runs the Google authorization code flow
type OAuthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg OAuthProviderConfig) *OAuthProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}

	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  cfg.HTTPClient,
	}
}

// clientContext makes x/oauth2 send its requests through the configured client
func (p *OAuthProvider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil || ctx.Value(oauth2.HTTPClient) != nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// GetAuthURL returns the consent page URL. Offline access and a forced
// consent prompt make Google issue a refresh token; the verifier is sent
// as an S256 PKCE challenge.
func (p *OAuthProvider) GetAuthURL(state, verifier string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	return p.config.AuthCodeURL(state, opts...)
}

// ExchangeCode exchanges authorization code for access token.
func (p *OAuthProvider) ExchangeCode(
	ctx context.Context,
	code, verifier string,
) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}
	return p.config.Exchange(p.clientContext(ctx), code, opts...)
}

// TokenSource returns a source that refreshes token through Google when it expires
func (p *OAuthProvider) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return p.config.TokenSource(p.clientContext(ctx), token)
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GetUserInfo retrieves the signed-in user's Google profile
func (p *OAuthProvider) GetUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*OAuthUserInfo, error) {
	client := resty.NewWithClient(p.config.Client(p.clientContext(ctx), token))

	var user googleUser
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&user).
		Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode())
	}

	if user.Email == "" {
		return nil, ErrMissingEmail
	}

	return &OAuthUserInfo{
		ProviderUserID: user.Sub,
		Email:          user.Email,
		FullName:       user.Name,
		AvatarURL:      user.Picture,
	}, nil
}
