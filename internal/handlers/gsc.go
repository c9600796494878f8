package handlers

import (
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/middleware"
	"github.com/meltingdad/gsc-arena/internal/services"

	"github.com/gin-gonic/gin"
)

// GSCHandler exposes the signed-in user's Search Console properties
type GSCHandler struct {
	websites *services.WebsiteService
}

func NewGSCHandler(websites *services.WebsiteService) *GSCHandler {
	return &GSCHandler{websites: websites}
}

// Sites lists the properties the user can add to the leaderboard
func (h *GSCHandler) Sites(c *gin.Context) {
	sites, err := h.websites.ListProperties(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}
