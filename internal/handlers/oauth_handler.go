package handlers

import (
	"errors"
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/middleware"
	"github.com/meltingdad/gsc-arena/internal/models"
	"github.com/meltingdad/gsc-arena/internal/services"
	"github.com/meltingdad/gsc-arena/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	sessionOAuthState    = "oauth_state"
	sessionOAuthVerifier = "oauth_verifier"
	sessionOAuthRedirect = "oauth_redirect"

	// AuthErrorPath is where every failed sign-in ends up
	AuthErrorPath = "/auth/auth-code-error"

	defaultRedirect = "/"
	stateLength     = 32
)

// OAuthHandler runs the Google sign-in round trip
type OAuthHandler struct {
	provider    *auth.OAuthProvider
	userService *services.UserService
	metrics     metrics.Recorder
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	provider *auth.OAuthProvider,
	userService *services.UserService,
	m metrics.Recorder,
) *OAuthHandler {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &OAuthHandler{provider: provider, userService: userService, metrics: m}
}

// Login redirects the browser to Google's consent page. A safe ?next= path
// is remembered for after the callback.
func (h *OAuthHandler) Login(c *gin.Context) {
	state, err := util.RandomState(stateLength)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate sign in"})
		return
	}
	verifier := oauth2.GenerateVerifier()

	session := sessions.Default(c)
	session.Set(sessionOAuthState, state)
	session.Set(sessionOAuthVerifier, verifier)
	session.Delete(sessionOAuthRedirect)
	if next := c.Query("next"); util.IsRedirectSafe(next) {
		session.Set(sessionOAuthRedirect, next)
	}

	if err := session.Save(); err != nil {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("step", "save_session"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate sign in"})
		return
	}

	c.Redirect(http.StatusFound, h.provider.GetAuthURL(state, verifier))
}

// Callback finishes the sign-in: it checks state, exchanges the code,
// stores the user and their Google token, then starts the session.
func (h *OAuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	if code == "" {
		logger.WarnCtx(ctx, "oauth callback without code",
			zap.String("error", c.Query("error")))
		h.fail(c)
		return
	}

	session := sessions.Default(c)
	savedState, _ := session.Get(sessionOAuthState).(string)
	verifier, _ := session.Get(sessionOAuthVerifier).(string)
	if savedState == "" || c.Query("state") != savedState {
		logger.WarnCtx(ctx, "oauth state mismatch")
		h.fail(c)
		return
	}

	token, err := h.provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("step", "exchange_code"))
		h.fail(c)
		return
	}

	info, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("step", "user_info"))
		h.fail(c)
		return
	}

	user, err := h.userService.SignIn(ctx, info)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("step", "sign_in"))
		h.fail(c)
		return
	}

	// A missing or unsaved token only limits Search Console features
	switch err := h.userService.StoreProviderToken(ctx, user.ID, token); {
	case errors.Is(err, services.ErrNoCredential):
		logger.WarnCtx(ctx, "google returned no access token", zap.String("user_id", user.ID))
	case err != nil:
		logger.ErrorCtx(ctx, err, zap.String("step", "store_token"), zap.String("user_id", user.ID))
	}

	next := c.Query("next")
	if next == "" {
		next, _ = session.Get(sessionOAuthRedirect).(string)
	}

	session.Delete(sessionOAuthState)
	session.Delete(sessionOAuthVerifier)
	session.Delete(sessionOAuthRedirect)
	session.Set(middleware.SessionUserID, user.ID)
	if err := session.Save(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("step", "save_session"))
		h.fail(c)
		return
	}

	h.metrics.RecordOAuthCallback(true)
	logger.Info("user signed in", zap.String("user_id", user.ID))
	c.Redirect(http.StatusFound, util.SafeRedirect(next, defaultRedirect))
}

func (h *OAuthHandler) fail(c *gin.Context) {
	h.metrics.RecordOAuthCallback(false)
	c.Redirect(http.StatusFound, AuthErrorPath)
}

// Logout clears the session
func (h *OAuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("step", "clear_session"))
	}
	c.Redirect(http.StatusFound, defaultRedirect)
}

// AuthCodeError is the landing page of a failed sign-in
func (h *OAuthHandler) AuthCodeError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Authentication failed. Please try signing in again.",
	})
}

// Me returns the signed-in user along with the name to show for them
func (h *OAuthHandler) Me(c *gin.Context) {
	user := models.GetUserFromContext(c)
	if user == nil {
		respondError(c, services.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"displayName": user.DisplayName(),
	})
}
