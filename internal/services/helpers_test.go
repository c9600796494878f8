package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/store"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fakeQuery struct {
	SiteURL    string
	Window     searchconsole.DateRange
	Dimensions []string
}

// fakeSearchConsole records every call and answers from canned data.
type fakeSearchConsole struct {
	mu       sync.Mutex
	rows     []searchconsole.Row
	daily    []searchconsole.Row
	sites    []searchconsole.Site
	err      error
	dailyErr error
	queries  []fakeQuery
	tokensIn []string
}

func (f *fakeSearchConsole) ListSites(ctx context.Context) ([]searchconsole.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sites, nil
}

func (f *fakeSearchConsole) Query(
	ctx context.Context,
	siteURL string,
	window searchconsole.DateRange,
	dimensions ...string,
) ([]searchconsole.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, fakeQuery{SiteURL: siteURL, Window: window, Dimensions: dimensions})
	if f.err != nil {
		return nil, f.err
	}
	if len(dimensions) > 0 {
		if f.dailyErr != nil {
			return nil, f.dailyErr
		}
		return f.daily, nil
	}
	return f.rows, nil
}

func (f *fakeSearchConsole) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// factory pulls a token the way the oauth2 transport does before each request
func (f *fakeSearchConsole) factory() searchconsole.ClientFactory {
	return func(ctx context.Context, ts oauth2.TokenSource) (searchconsole.Client, error) {
		tok, err := ts.Token()
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.tokensIn = append(f.tokensIn, tok.AccessToken)
		f.mu.Unlock()
		return f, nil
	}
}

// staticCredentials hands back the stored token, or next when set to
// simulate a refresh by x/oauth2.
type staticCredentials struct {
	next *oauth2.Token
}

func (s staticCredentials) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	if s.next != nil {
		return oauth2.StaticTokenSource(s.next)
	}
	return oauth2.StaticTokenSource(tok)
}

func storeToken(t *testing.T, s *store.Store, userID, access string) {
	t.Helper()
	require.NoError(t, s.UpsertToken(
		context.Background(), userID, access, "refresh-"+userID, time.Now().Add(time.Hour),
	))
}
