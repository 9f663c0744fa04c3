package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/youtube"
)

// SearchResponse represents the results of a video search
type SearchResponse struct {
	Videos []youtube.VideoMetadata `json:"videos"`
}

// YouTubeHandler handles video search API requests
type YouTubeHandler struct {
	client *youtube.Client
}

// NewYouTubeHandler creates a new search handler instance
func NewYouTubeHandler(client *youtube.Client) *YouTubeHandler {
	return &YouTubeHandler{client: client}
}

// Search handles GET /api/v1/youtube/search?query=
func (h *YouTubeHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "Query parameter is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	videos, err := h.client.Search(ctx, query)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("query", query).
			Msg("Video search failed")

		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "search_failed",
			Message: "Failed to search videos",
		})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Videos: videos})
}

// SetupYouTubeRoutes registers video search routes
func SetupYouTubeRoutes(apiGroup *gin.RouterGroup, client *youtube.Client) {
	handler := NewYouTubeHandler(client)
	apiGroup.GET("/youtube/search", handler.Search)
}
