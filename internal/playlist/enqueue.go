package playlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
	"github.com/youkebox/youkebox/internal/room"
)

// Enqueue resolves the given external video ids through the metadata
// API and appends them to the room's queue. Starting the room's loop
// afterwards is idempotent, so a room that was already playing is
// unaffected while an idle room begins playback within one retry
// cycle.
func (s *Service) Enqueue(ctx context.Context, roomID uuid.UUID, ids []string) ([]*models.Video, error) {
	r, err := s.repos.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	metadata, err := s.fetcher.FetchMetadata(ctx, ids)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("room_id", roomID.String()).
			Int("ids", len(ids)).
			Msg("Failed to fetch video metadata")
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}

	videos := make([]*models.Video, 0, len(metadata))
	for _, m := range metadata {
		description := m.Description
		videos = append(videos, models.NewVideo(roomID, m.ID, m.Title, &description, m.Duration))
	}

	if err := s.repos.Videos.CreateBatch(ctx, videos); err != nil {
		logger.Log.Error().
			Err(err).
			Str("room_id", roomID.String()).
			Msg("Failed to enqueue videos")
		return nil, fmt.Errorf("failed to enqueue videos: %w", err)
	}

	logger.Log.Info().
		Str("room_id", roomID.String()).
		Str("room", r.Name).
		Int("count", len(videos)).
		Msg("Videos enqueued")

	if len(videos) > 0 {
		s.starter.Start(r)
	}

	return videos, nil
}
