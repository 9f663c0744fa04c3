package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
	"github.com/youkebox/youkebox/internal/room"
)

// Request/Response DTOs

// CreateRoomRequest represents a request to create a new room
type CreateRoomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

// UpdateRoomRequest represents a request to update room metadata (partial update)
type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomListResponse represents a list of rooms
type RoomListResponse struct {
	Rooms []*RoomResponse `json:"rooms"`
}

// RoomHandler handles room-related API requests
type RoomHandler struct {
	roomService *room.Service
	artwork     *room.ArtworkStore
}

// NewRoomHandler creates a new room handler instance
func NewRoomHandler(roomService *room.Service, artwork *room.ArtworkStore) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		artwork:     artwork,
	}
}

// toRoomResponse converts a room model to API response format
func toRoomResponse(r *models.Room) *RoomResponse {
	return &RoomResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Public:      r.Public,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	// Rooms default to public
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	newRoom, err := h.roomService.Create(ctx, req.Name, req.Description, public)
	if err != nil {
		if errors.Is(err, room.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_name",
				Message: "Room name must be 3-20 word characters",
			})
			return
		}

		if errors.Is(err, room.ErrDuplicateName) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_name",
				Message: "A room with this name already exists",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("name", req.Name).
			Msg("Failed to create room")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create room",
		})
		return
	}

	c.JSON(http.StatusCreated, toRoomResponse(newRoom))
}

// ListRooms handles GET /api/v1/rooms with an optional ?name= filter
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.roomService.List(ctx, c.Query("name"))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list rooms")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve room list",
		})
		return
	}

	responses := make([]*RoomResponse, len(rooms))
	for i, r := range rooms {
		responses[i] = toRoomResponse(r)
	}

	c.JSON(http.StatusOK, RoomListResponse{
		Rooms: responses,
	})
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.roomService.GetByID(ctx, id)
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
			Msg("Failed to get room by ID")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve room",
		})
		return
	}

	c.JSON(http.StatusOK, toRoomResponse(r))
}

// UpdateRoom handles PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.roomService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve room",
		})
		return
	}

	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Description != nil {
		r.Description = req.Description
	}
	if req.Public != nil {
		r.Public = *req.Public
	}

	if err := h.roomService.Update(ctx, r); err != nil {
		if errors.Is(err, room.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_name",
				Message: "Room name must be 3-20 word characters",
			})
			return
		}

		if errors.Is(err, room.ErrDuplicateName) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_name",
				Message: "A room with this name already exists",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to update room")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update room",
		})
		return
	}

	c.JSON(http.StatusOK, toRoomResponse(r))
}

// DeleteRoom handles DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.roomService.Delete(ctx, id); err != nil {
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
			Msg("Failed to delete room")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete room",
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Successfully removed the room",
	})
}

// SetArtwork handles POST /api/v1/rooms/:id/artwork
func (h *RoomHandler) SetArtwork(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.roomService.GetByID(ctx, id); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve room",
		})
		return
	}

	if err := h.artwork.Save(id, c.Request.Body); err != nil {
		if errors.Is(err, room.ErrArtworkTooLarge) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "artwork_too_large",
				Message: "Artwork exceeds the maximum allowed size",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to save room artwork")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "artwork_save_failed",
			Message: "Failed to save room artwork",
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Successfully saved the room artwork",
	})
}

// GetArtwork handles GET /api/v1/rooms/:id/artwork
func (h *RoomHandler) GetArtwork(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}

	f, err := h.artwork.Open(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Room has no artwork",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to open room artwork")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "artwork_read_failed",
			Message: "Failed to read room artwork",
		})
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", f, nil)
}

// parseRoomID validates the :id path parameter, writing a 400 response
// on failure
func parseRoomID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid room ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// SetupRoomRoutes registers room CRUD and artwork routes
func SetupRoomRoutes(apiGroup *gin.RouterGroup, roomService *room.Service, artwork *room.ArtworkStore) {
	handler := NewRoomHandler(roomService, artwork)

	apiGroup.POST("/rooms", handler.CreateRoom)
	apiGroup.GET("/rooms", handler.ListRooms)
	apiGroup.GET("/rooms/:id", handler.GetRoom)
	apiGroup.PUT("/rooms/:id", handler.UpdateRoom)
	apiGroup.DELETE("/rooms/:id", handler.DeleteRoom)

	apiGroup.POST("/rooms/:id/artwork", handler.SetArtwork)
	apiGroup.GET("/rooms/:id/artwork", handler.GetArtwork)
}
