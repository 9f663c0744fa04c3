package models

import (
	"time"

	"github.com/google/uuid"
)

// Room represents a named, independent playback queue
type Room struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name        string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=3,max=20"`
	Description *string   `json:"description,omitempty" gorm:"type:text;column:description"`
	Public      bool      `json:"public" gorm:"type:integer;not null;default:1;column:public"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewRoom creates a new Room with generated UUID and timestamps
func NewRoom(name string, description *string, public bool) *Room {
	now := time.Now().UTC()
	return &Room{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Public:      public,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
