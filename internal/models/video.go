package models

import (
	"time"

	"github.com/google/uuid"
)

// Video represents one playable entry in a room's queue.
// Duration holds the raw duration string from the metadata API
// (e.g. "PT4M13S"); it is interpreted by the player when the
// video is picked up. StartedOn is set the instant playback of
// this video begins and stays null until then.
type Video struct {
	ID          uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	RoomID      uuid.UUID  `json:"room_id" gorm:"type:text;not null;index;column:room_id" validate:"required"`
	VideoID     string     `json:"video_id" gorm:"type:text;not null;column:video_id" validate:"required"`
	Title       string     `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Description *string    `json:"description,omitempty" gorm:"type:text;column:description"`
	Duration    string     `json:"duration" gorm:"type:text;not null;column:duration"`
	Played      bool       `json:"played" gorm:"type:integer;not null;default:0;column:played"`
	AddedOn     time.Time  `json:"added_on" gorm:"type:datetime;not null;column:added_on"`
	StartedOn   *time.Time `json:"started_on,omitempty" gorm:"type:datetime;column:started_on"`
}

// NewVideo creates a new unplayed Video with generated UUID and enqueue timestamp
func NewVideo(roomID uuid.UUID, videoID, title string, description *string, duration string) *Video {
	return &Video{
		ID:          uuid.New(),
		RoomID:      roomID,
		VideoID:     videoID,
		Title:       title,
		Description: description,
		Duration:    duration,
		AddedOn:     time.Now().UTC(),
	}
}
