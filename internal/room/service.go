// Package room implements the room registry: the set of known rooms,
// their validation rules, and the lifecycle hooks that connect room
// creation and deletion to the playback supervisor.
package room

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
)

// namePattern allows word characters only, 3 to 20 of them
var namePattern = regexp.MustCompile(`^\w{3,20}$`)

// PlaybackSupervisor is the slice of the player the registry needs:
// starting a loop when a room gains a queue and stopping it on delete.
type PlaybackSupervisor interface {
	Start(room *models.Room)
	Stop(roomID uuid.UUID)
}

// Service handles business logic for room operations
type Service struct {
	repos      *db.Repositories
	supervisor PlaybackSupervisor
	artwork    *ArtworkStore
}

// NewService creates a new room service instance
func NewService(repos *db.Repositories, supervisor PlaybackSupervisor, artwork *ArtworkStore) *Service {
	return &Service{
		repos:      repos,
		supervisor: supervisor,
		artwork:    artwork,
	}
}

// Create creates a new room with validation. If the room already has
// pending queue items (not the common path, but possible when videos
// were enqueued against a re-created room id), a playback loop is
// started for it.
func (s *Service) Create(ctx context.Context, name string, description *string, public bool) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		logger.Log.Warn().
			Str("name", name).
			Msg("Room creation failed: invalid name")
		return nil, ErrInvalidName
	}

	room := models.NewRoom(name, description, public)

	if err := s.repos.Rooms.Create(ctx, room); err != nil {
		if db.IsDuplicate(err) {
			logger.Log.Warn().
				Str("name", name).
				Msg("Room creation failed: duplicate name")
			return nil, ErrDuplicateName
		}
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to create room in database")
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	empty, err := s.repos.Videos.IsEmpty(ctx, room.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("room_id", room.ID.String()).
			Msg("Failed to check queue for new room")
	} else if !empty {
		s.supervisor.Start(room)
	}

	logger.Log.Info().
		Str("room_id", room.ID.String()).
		Str("name", room.Name).
		Msg("Room created successfully")

	return room, nil
}

// GetByID retrieves a room by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.repos.Rooms.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to get room by ID")
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// List retrieves rooms ordered by name, optionally filtered by a name substring
func (s *Service) List(ctx context.Context, nameFilter string) ([]*models.Room, error) {
	rooms, err := s.repos.Rooms.List(ctx, strings.TrimSpace(nameFilter))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list rooms")
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// Update updates an existing room with re-validation of the name
func (s *Service) Update(ctx context.Context, room *models.Room) error {
	if _, err := s.GetByID(ctx, room.ID); err != nil {
		return err
	}

	room.Name = strings.TrimSpace(room.Name)
	if !namePattern.MatchString(room.Name) {
		return ErrInvalidName
	}

	if err := s.repos.Rooms.Update(ctx, room); err != nil {
		if db.IsDuplicate(err) {
			return ErrDuplicateName
		}
		logger.Log.Error().
			Err(err).
			Str("room_id", room.ID.String()).
			Msg("Failed to update room in database")
		return fmt.Errorf("failed to update room: %w", err)
	}

	logger.Log.Info().
		Str("room_id", room.ID.String()).
		Str("name", room.Name).
		Msg("Room updated successfully")

	return nil
}

// Delete deletes a room: its playback loop is stopped, its artwork is
// removed, and the room row is deleted (videos cascade via FK).
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	s.supervisor.Stop(id)

	if err := s.artwork.Remove(id); err != nil {
		// Missing artwork is fine; anything else is logged, not fatal
		logger.Log.Warn().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to remove room artwork")
	}

	if err := s.repos.Rooms.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("room_id", id.String()).
			Msg("Failed to delete room from database")
		return fmt.Errorf("failed to delete room: %w", err)
	}

	logger.Log.Info().
		Str("room_id", id.String()).
		Msg("Room deleted successfully")

	return nil
}
