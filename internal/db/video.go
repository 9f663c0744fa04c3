package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/models"
	"gorm.io/gorm"
)

// VideoRepository handles database operations for queued videos.
// It is the persistence side of the playback scheduler: the player
// reads the next unplayed video and writes started/played state
// through it, and the playlist view reads the pending queue.
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video into the database
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateBatch inserts multiple videos in a single transaction so a
// partial metadata fetch never leaves half an enqueue behind
func (r *VideoRepository) CreateBatch(ctx context.Context, videos []*models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, video := range videos {
			if err := tx.Create(video).Error; err != nil {
				return fmt.Errorf("failed to create video %s: %w", video.VideoID, MapGormError(err))
			}
		}
		return nil
	})
}

// GetByID retrieves a video by its UUID
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// FindNextUnplayed returns the oldest unplayed video for a room in
// enqueue order, or ErrNotFound when the queue is drained
func (r *VideoRepository) FindNextUnplayed(ctx context.Context, roomID uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND played = ?", roomID.String(), false).
		Order("added_on ASC, id ASC").
		First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// ListUnplayed retrieves all unplayed videos for a room in enqueue order
func (r *VideoRepository) ListUnplayed(ctx context.Context, roomID uuid.UUID) ([]*models.Video, error) {
	var videos []*models.Video
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND played = ?", roomID.String(), false).
		Order("added_on ASC, id ASC").
		Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list unplayed videos: %w", MapGormError(result.Error))
	}
	return videos, nil
}

// IsEmpty reports whether a room has no unplayed videos
func (r *VideoRepository) IsEmpty(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("room_id = ? AND played = ?", roomID.String(), false).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to count unplayed videos: %w", MapGormError(result.Error))
	}
	return count == 0, nil
}

// MarkStarted records the instant playback of a video began
func (r *VideoRepository) MarkStarted(ctx context.Context, videoID uuid.UUID, startedOn time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", videoID.String()).
		Update("started_on", startedOn.UTC())
	if result.Error != nil {
		return fmt.Errorf("failed to mark video started: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPlayed flags a video as played so it leaves the pending queue
func (r *VideoRepository) MarkPlayed(ctx context.Context, videoID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", videoID.String()).
		Update("played", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark video played: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByRoomID deletes all videos for a room
func (r *VideoRepository) DeleteByRoomID(ctx context.Context, roomID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID.String()).Delete(&models.Video{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete videos by room: %w", MapGormError(result.Error))
	}
	return nil
}
