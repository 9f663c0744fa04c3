// Package playlist computes the externally visible playlist for a
// room: the ordered unplayed videos plus the elapsed playback time of
// the current one.
package playlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
	"github.com/youkebox/youkebox/internal/room"
	"github.com/youkebox/youkebox/internal/youtube"
)

// View is the playlist of a room as reported to clients. Elapsed is
// the whole seconds since the current video started playing; it is nil
// when the queue is empty, when the first video has not been picked up
// by the player yet, or when clock skew would make it negative.
type View struct {
	Videos  []*models.Video `json:"videos"`
	Elapsed *int64          `json:"elapsed,omitempty"`
}

// LoopStarter starts a playback loop for a room; idempotent for rooms
// that already have one
type LoopStarter interface {
	Start(room *models.Room)
}

// Service handles playlist status queries and enqueueing
type Service struct {
	repos   *db.Repositories
	fetcher youtube.MetadataFetcher
	starter LoopStarter
}

// NewService creates a new playlist service instance
func NewService(repos *db.Repositories, fetcher youtube.MetadataFetcher, starter LoopStarter) *Service {
	return &Service{
		repos:   repos,
		fetcher: fetcher,
		starter: starter,
	}
}

// Get returns the ordered unplayed videos for a room and the elapsed
// seconds of the currently playing video
func (s *Service) Get(ctx context.Context, roomID uuid.UUID) (*View, error) {
	if _, err := s.repos.Rooms.GetByID(ctx, roomID); err != nil {
		if db.IsNotFound(err) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	videos, err := s.repos.Videos.ListUnplayed(ctx, roomID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("room_id", roomID.String()).
			Msg("Failed to fetch playlist")
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	return &View{
		Videos:  videos,
		Elapsed: elapsedSeconds(videos, time.Now()),
	}, nil
}

// IsEmpty reports whether the room has no unplayed videos
func (s *Service) IsEmpty(ctx context.Context, roomID uuid.UUID) (bool, error) {
	return s.repos.Videos.IsEmpty(ctx, roomID)
}

// elapsedSeconds computes the playback position of the first video in
// the queue. The first video in enqueue order is by construction the
// currently playing or next-to-play one.
func elapsedSeconds(videos []*models.Video, now time.Time) *int64 {
	if len(videos) == 0 {
		return nil
	}

	startedOn := videos[0].StartedOn
	if startedOn == nil {
		return nil
	}

	elapsed := now.Sub(*startedOn)
	if elapsed < 0 {
		logger.Log.Warn().
			Time("started_on", *startedOn).
			Msg("Video started in the future, omitting elapsed time")
		return nil
	}

	seconds := int64(elapsed.Seconds())
	return &seconds
}
