package handlers

import (
	"errors"
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/middleware"
	"github.com/meltingdad/gsc-arena/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// WebsiteHandler serves the leaderboard and site registration
type WebsiteHandler struct {
	websites    *services.WebsiteService
	leaderboard *services.LeaderboardService
}

func NewWebsiteHandler(
	websites *services.WebsiteService,
	board *services.LeaderboardService,
) *WebsiteHandler {
	return &WebsiteHandler{websites: websites, leaderboard: board}
}

type createWebsiteRequest struct {
	SiteURL   string `json:"siteUrl"   binding:"required"`
	Anonymous bool   `json:"anonymous"`
}

// List returns the ranked leaderboard. ?sort= and ?order= choose the
// ordering; unknown values fall back to clicks descending.
func (h *WebsiteHandler) List(c *gin.Context) {
	field := leaderboard.ParseSortField(c.Query("sort"))
	dir := leaderboard.ParseDirection(c.Query("order"))

	entries, err := h.leaderboard.Leaderboard(c.Request.Context(), field, dir)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLeaderboardError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// Create registers one of the signed-in user's Search Console properties
func (h *WebsiteHandler) Create(c *gin.Context) {
	var req createWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validation validator.ValidationErrors
		if errors.As(err, &validation) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	reg, err := h.websites.Register(c.Request.Context(), services.RegisterInput{
		UserID:    middleware.CurrentUserID(c),
		SiteURL:   req.SiteURL,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"website": reg.Site,
		"message": msgWebsiteAdded,
	})
}

// Metrics returns a site's daily history in ascending date order
func (h *WebsiteHandler) Metrics(c *gin.Context) {
	rows, err := h.leaderboard.DailyMetrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
