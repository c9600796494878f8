package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/middleware"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/services"
	"github.com/meltingdad/gsc-arena/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeSearchConsole struct {
	rows  []searchconsole.Row
	sites []searchconsole.Site
	err   error
}

func (f *fakeSearchConsole) ListSites(context.Context) ([]searchconsole.Site, error) {
	return f.sites, f.err
}

func (f *fakeSearchConsole) Query(
	context.Context, string, searchconsole.DateRange, ...string,
) ([]searchconsole.Row, error) {
	return f.rows, f.err
}

// newFakeGoogle serves the token and userinfo endpoints. Only "good-code"
// is accepted.
func newFakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.Form.Get("code") != "good-code" || r.Form.Get("code_verifier") == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "google-access",
			"refresh_token": "google-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"google-1","email":"ada@example.com","name":"Ada"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	store  *store.Store
	fake   *fakeSearchConsole
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	google := newFakeGoogle(t)
	provider := auth.NewGoogleProvider(auth.OAuthProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.URL + "/auth",
			TokenURL: google.URL + "/token",
		},
		UserInfoURL: google.URL + "/userinfo",
	})

	fake := &fakeSearchConsole{}
	factory := func(context.Context, oauth2.TokenSource) (searchconsole.Client, error) {
		return fake, nil
	}

	userService := services.NewUserService(st, st, nil)
	board := services.NewLeaderboardService(st, nil, time.Minute, nil)
	websites := services.NewWebsiteService(
		st, services.NewCredentialService(st, provider), factory, board, nil, 30,
	)

	oauthHandler := NewOAuthHandler(provider, userService, nil)
	websiteHandler := NewWebsiteHandler(websites, board)
	gscHandler := NewGSCHandler(websites)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/auth/login", oauthHandler.Login)
	r.GET("/auth/callback", oauthHandler.Callback)
	r.GET("/auth/logout", oauthHandler.Logout)
	r.GET("/auth/auth-code-error", oauthHandler.AuthCodeError)
	r.GET("/auth/me", middleware.RequireAuth(userService), oauthHandler.Me)

	r.GET("/websites", websiteHandler.List)
	r.POST("/websites", middleware.RequireAuth(userService), websiteHandler.Create)
	r.GET("/websites/:id/metrics", websiteHandler.Metrics)
	r.GET("/gsc/sites", middleware.RequireAuth(userService), gscHandler.Sites)

	// Helper endpoint: exposes session state for assertions.
	r.GET("/test-session", func(c *gin.Context) {
		sess := sessions.Default(c)
		c.JSON(http.StatusOK, gin.H{
			"oauth_redirect": sess.Get(sessionOAuthRedirect),
			"oauth_state":    sess.Get(sessionOAuthState),
			"oauth_verifier": sess.Get(sessionOAuthVerifier),
			"user_id":        sess.Get(middleware.SessionUserID),
		})
	})

	return &testEnv{store: st, fake: fake, router: r}
}

// sessionCookies extracts Set-Cookie headers from a response recorder.
func sessionCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	resp := http.Response{Header: w.Header()}
	return resp.Cookies()
}

func (e *testEnv) do(
	t *testing.T,
	method, target, body string,
	cookies []*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, target, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// readSession returns the decoded session values carried by cookies
func (e *testEnv) readSession(t *testing.T, cookies []*http.Cookie) map[string]any {
	t.Helper()
	w := e.do(t, http.MethodGet, "/test-session", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	return data
}

// signIn runs the full login and callback round trip and returns the
// session cookies of the signed-in user.
func (e *testEnv) signIn(t *testing.T) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodGet, "/auth/login", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	cookies := sessionCookies(w)
	state := e.readSession(t, cookies)["oauth_state"].(string)

	w = e.do(t, http.MethodGet, "/auth/callback?code=good-code&state="+state, "", cookies)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return sessionCookies(w)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	return data
}
