package handlers

import (
	"errors"
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/services"
	"github.com/meltingdad/gsc-arena/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgSiteURLRequired  = "Site URL is required"
	msgNoCredential     = "No Google access token found. Please sign out and sign in again with Google to grant Search Console access."
	msgDomainConflict   = "This website is already in the leaderboard"
	msgUpstreamFailure  = "Failed to fetch data from Google Search Console"
	msgDatabaseFailure  = "Database error"
	msgInternalFailure  = "Internal server error"
	msgInvalidBody      = "Invalid request body"
	msgWebsiteAdded     = "Website added to leaderboard successfully!"
	msgLeaderboardError = "Failed to load leaderboard"
)

// respondError maps service and store errors to a status and a short JSON
// message. Details only go to the log.
func respondError(c *gin.Context, err error) {
	var (
		upstream   *services.UpstreamError
		storeErr   *store.StoreError
		validation validator.ValidationErrors
	)

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
	case errors.Is(err, services.ErrBadRequest), errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgSiteURLRequired})
	case errors.Is(err, services.ErrNoCredential):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoCredential})
	case errors.Is(err, services.ErrDomainConflict):
		c.JSON(http.StatusConflict, gin.H{"error": msgDomainConflict})
	case errors.As(err, &upstream):
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUpstreamFailure})
	case errors.As(err, &storeErr):
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDatabaseFailure})
	default:
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalFailure})
	}
}
