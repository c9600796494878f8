package bootstrap

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/logger"

	"github.com/appleboy/go-httpclient"
	"go.uber.org/zap"
)

// initializeGoogleProvider configures Google sign-in with Search Console scope
func initializeGoogleProvider(cfg *config.Config, httpClient *http.Client) *auth.OAuthProvider {
	provider := auth.NewGoogleProvider(auth.OAuthProviderConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		HTTPClient:   httpClient,
	})
	logger.Info("Google OAuth configured", zap.String("redirect", cfg.GoogleRedirectURL))
	return provider
}

// newTransport is a pooled transport shared by every Google API call
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// createOAuthHTTPClient creates the timeout-bounded client used for token
// exchange, userinfo and Search Console requests.
func createOAuthHTTPClient(cfg *config.Config) (*http.Client, error) {
	httpClient, err := httpclient.NewClient(
		httpclient.WithTimeout(cfg.OAuthTimeout),
		httpclient.WithTransport(newTransport()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth HTTP client: %w", err)
	}
	return httpClient, nil
}
