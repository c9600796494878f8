package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meltingdad/gsc-arena/internal/cache"
	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/models"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var fixedNow = time.Date(2024, 3, 29, 12, 0, 0, 0, time.UTC)

var exampleRows = []searchconsole.Row{
	{Clicks: 10, Impressions: 100, Position: 2},
	{Clicks: 20, Impressions: 300, Position: 4},
}

func newTestWebsiteService(
	sites SiteStore,
	tokens TokenStore,
	fake *fakeSearchConsole,
	creds CredentialSource,
	c cache.Cache[[]leaderboard.RankedEntry],
) (*WebsiteService, *LeaderboardService) {
	board := NewLeaderboardService(sites, c, time.Minute, nil)
	svc := NewWebsiteService(
		sites,
		NewCredentialService(tokens, creds),
		fake.factory(),
		board,
		nil,
		90,
	)
	svc.now = func() time.Time { return fixedNow }
	return svc, board
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	fake := &fakeSearchConsole{rows: exampleRows}
	svc, board := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	reg, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: " sc-domain:example.com "})
	require.NoError(t, err)

	assert.Equal(t, "example.com", reg.Site.Domain)
	assert.Equal(t, "sc-domain:example.com", reg.Site.SiteURL)
	assert.Equal(t, "user-1", reg.Site.UserID)
	assert.NotEmpty(t, reg.Site.ID)

	assert.Equal(t, int64(30), reg.Snapshot.TotalClicks)
	assert.Equal(t, int64(400), reg.Snapshot.TotalImpressions)
	assert.InDelta(t, 7.5, reg.Snapshot.AverageCTR, 1e-9)
	assert.InDelta(t, 3.0, reg.Snapshot.AveragePosition, 1e-9)
	assert.Equal(t, models.DateRangeLast28Days, reg.Snapshot.DateRange)
	assert.Equal(t, reg.Site.ID, reg.Snapshot.SiteID)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, "sc-domain:example.com", fake.queries[0].SiteURL)
	assert.Equal(t, searchconsole.DateRange{Start: "2024-03-01", End: "2024-03-29"}, fake.queries[0].Window)
	assert.Equal(t, []string{"access-1"}, fake.tokensIn)

	entries, err := board.Leaderboard(ctx, leaderboard.DefaultSortField, leaderboard.DefaultDirection)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example.com", entries[0].Domain)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, int64(30), entries[0].Clicks)
}

func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	require.NoError(t, st.UpsertToken(ctx, "user-empty", "", "", time.Time{}))
	fake := &fakeSearchConsole{rows: exampleRows}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"no session user", RegisterInput{SiteURL: "https://example.com/"}, ErrUnauthenticated},
		{"empty site url", RegisterInput{UserID: "user-1"}, ErrBadRequest},
		{"blank site url", RegisterInput{UserID: "user-1", SiteURL: "   "}, ErrBadRequest},
		{"url that normalizes to nothing", RegisterInput{UserID: "user-1", SiteURL: "https://www./"}, ErrBadRequest},
		{"no stored token", RegisterInput{UserID: "user-2", SiteURL: "https://example.com/"}, ErrNoCredential},
		{"stored token without access token", RegisterInput{UserID: "user-empty", SiteURL: "https://example.com/"}, ErrNoCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, fake.queryCount(), "no upstream call for rejected input")
	count, err := st.CountSites(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegister_DuplicateDomainSkipsUpstream(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	storeToken(t, st, "user-2", "access-2")
	fake := &fakeSearchConsole{rows: exampleRows}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	_, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "sc-domain:example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{UserID: "user-2", SiteURL: "https://www.example.com/"})
	assert.ErrorIs(t, err, ErrDomainConflict)
	assert.Equal(t, 1, fake.queryCount())
}

// racingSites hides existing domains from the pre-check so the insert is
// the one that detects the conflict.
type racingSites struct {
	*store.Store
}

func (racingSites) DomainExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestRegister_UniqueIndexConflict(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	fake := &fakeSearchConsole{rows: exampleRows}
	svc, _ := newTestWebsiteService(racingSites{st}, st, fake, staticCredentials{}, nil)

	_, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "https://example.com/"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "sc-domain:example.com"})
	assert.ErrorIs(t, err, ErrDomainConflict)

	count, err := st.CountSites(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_UpstreamFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	fake := &fakeSearchConsole{err: errors.New("googleapi: Error 403: forbidden")}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	_, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "https://example.com/"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "searchanalytics.query", upstream.Op)
	assert.NotContains(t, err.Error(), "access-1")

	count, err := st.CountSites(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegister_ZeroRowsStoresZeroSnapshot(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	fake := &fakeSearchConsole{}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	reg, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "https://example.com/"})
	require.NoError(t, err)
	assert.Zero(t, reg.Snapshot.TotalClicks)
	assert.Zero(t, reg.Snapshot.AverageCTR)
	assert.Zero(t, reg.Snapshot.AveragePosition)
}

func TestRegister_StoresRefreshedToken(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-old")
	fake := &fakeSearchConsole{rows: exampleRows}
	refreshed := &oauth2.Token{
		AccessToken:  "access-new",
		RefreshToken: "refresh-user-1",
		Expiry:       fixedNow.Add(time.Hour),
	}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{next: refreshed}, nil)

	_, err := svc.Register(ctx, RegisterInput{UserID: "user-1", SiteURL: "https://example.com/"})
	require.NoError(t, err)

	rec, err := st.GetToken(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-new", rec.AccessToken)
	assert.Equal(t, "refresh-user-1", rec.RefreshToken)
}

func TestListProperties(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	fake := &fakeSearchConsole{sites: []searchconsole.Site{
		{SiteURL: "sc-domain:example.com", PermissionLevel: "siteOwner"},
	}}
	svc, _ := newTestWebsiteService(st, st, fake, staticCredentials{}, nil)

	sites, err := svc.ListProperties(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, fake.sites, sites)

	_, err = svc.ListProperties(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ListProperties(ctx, "user-2")
	assert.ErrorIs(t, err, ErrNoCredential)

	fake.err = errors.New("boom")
	_, err = svc.ListProperties(ctx, "user-1")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "sites.list", upstream.Op)
}

func TestListProperties_EmptyIsNonNil(t *testing.T) {
	st := setupTestStore(t)
	storeToken(t, st, "user-1", "access-1")
	svc, _ := newTestWebsiteService(st, st, &fakeSearchConsole{}, staticCredentials{}, nil)

	sites, err := svc.ListProperties(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, sites)
	assert.Empty(t, sites)
}
