// Package db provides database connection management and repository interfaces.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/models"
)

// RoomRepository handles database operations for rooms
type RoomRepository struct {
	db *DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room into the database
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	result := r.db.WithContext(ctx).Create(room)
	if result.Error != nil {
		return fmt.Errorf("failed to create room: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a room by its UUID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&room)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &room, nil
}

// List retrieves rooms ordered by name. When nameFilter is non-empty,
// only rooms whose name contains the filter (case-insensitive) are returned.
func (r *RoomRepository) List(ctx context.Context, nameFilter string) ([]*models.Room, error) {
	var rooms []*models.Room
	query := r.db.WithContext(ctx).Order("name ASC")
	if nameFilter != "" {
		query = query.Where("name LIKE ?", "%"+nameFilter+"%")
	}
	result := query.Find(&rooms)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", MapGormError(result.Error))
	}
	return rooms, nil
}

// Update updates an existing room
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()

	// Select lists the fields explicitly so zero values are persisted too
	result := r.db.WithContext(ctx).
		Where("id = ?", room.ID.String()).
		Select("name", "description", "public", "updated_at").
		Updates(room)
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a room by its UUID (cascade delete to its videos)
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Room{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
