package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/player"
	"github.com/youkebox/youkebox/internal/playlist"
	"github.com/youkebox/youkebox/internal/room"
	"github.com/youkebox/youkebox/internal/youtube"
)

// EnqueueRequest represents a request to add videos to a room's queue
// by their external video ids
type EnqueueRequest struct {
	VideoIDs []string `json:"video_ids" binding:"required,min=1"`
}

// Skipper relays skip requests to the playback supervisor
type Skipper interface {
	Skip(roomID uuid.UUID) error
}

// PlaylistHandler handles playlist and playback API requests
type PlaylistHandler struct {
	playlistService *playlist.Service
	skipper         Skipper
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(playlistService *playlist.Service, skipper Skipper) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
		skipper:         skipper,
	}
}

// GetPlaylist handles GET /api/v1/rooms/:id/playlist
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	view, err := h.playlistService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to fetch playlist")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve playlist",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// EnqueueVideos handles POST /api/v1/rooms/:id/videos
func (h *PlaylistHandler) EnqueueVideos(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	videos, err := h.playlistService.Enqueue(ctx, id, req.VideoIDs)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}

		if errors.Is(err, youtube.ErrFetchFailed) {
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "metadata_fetch_failed",
				Message: "Failed to fetch video metadata",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to enqueue videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "enqueue_failed",
			Message: "Failed to enqueue videos",
		})
		return
	}

	c.JSON(http.StatusCreated, videos)
}

// SkipVideo handles POST /api/v1/rooms/:id/skip
func (h *PlaylistHandler) SkipVideo(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	if err := h.skipper.Skip(id); err != nil {
		if errors.Is(err, player.ErrInvalidRoom) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "invalid_room",
				Message: "Room has no active playback",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "skip_failed",
			Message: "Failed to skip the video",
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Successfully skipped the video",
	})
}

// SetupPlaylistRoutes registers playlist and playback routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, playlistService *playlist.Service, skipper Skipper) {
	handler := NewPlaylistHandler(playlistService, skipper)

	apiGroup.GET("/rooms/:id/playlist", handler.GetPlaylist)
	apiGroup.POST("/rooms/:id/videos", handler.EnqueueVideos)
	apiGroup.POST("/rooms/:id/skip", handler.SkipVideo)
}
