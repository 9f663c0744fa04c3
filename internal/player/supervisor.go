package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/youkebox/youkebox/internal/config"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
)

// Status describes the live playback state of a room. A room with no
// entry in the supervisor map has no playback loop at all.
type Status int

const (
	// StatusPlaying means the room's loop is playing or waiting for the next video
	StatusPlaying Status = iota
	// StatusSkipRequested means a client asked to end the current video early
	StatusSkipRequested
)

// QueueStore is the persistence surface the scheduler consumes.
// *db.VideoRepository satisfies it; tests substitute fakes.
type QueueStore interface {
	FindNextUnplayed(ctx context.Context, roomID uuid.UUID) (*models.Video, error)
	MarkStarted(ctx context.Context, videoID uuid.UUID, startedOn time.Time) error
	MarkPlayed(ctx context.Context, videoID uuid.UUID) error
	IsEmpty(ctx context.Context, roomID uuid.UUID) (bool, error)
}

// RoomLister provides the set of known rooms for boot-time initialization
type RoomLister interface {
	List(ctx context.Context, nameFilter string) ([]*models.Room, error)
}

// Supervisor owns the room -> playback status map and the lifecycle of
// every playback loop. The map is the only shared mutable state in the
// scheduler; it is guarded by a mutex whose critical sections are map
// operations only, never I/O.
type Supervisor struct {
	store             QueueStore
	rooms             RoomLister
	pollInterval      time.Duration
	idleRetryInterval time.Duration

	mu     sync.Mutex
	status map[uuid.UUID]Status
	wg     sync.WaitGroup
}

// NewSupervisor creates a new playback supervisor instance
func NewSupervisor(store QueueStore, rooms RoomLister, cfg *config.PlayerConfig) *Supervisor {
	return &Supervisor{
		store:             store,
		rooms:             rooms,
		pollInterval:      cfg.PollInterval,
		idleRetryInterval: cfg.IdleRetryInterval,
		status:            make(map[uuid.UUID]Status),
	}
}

// Initialize starts a playback loop for every room whose queue is
// non-empty. Call once at process startup.
func (s *Supervisor) Initialize(ctx context.Context) error {
	rooms, err := s.rooms.List(ctx, "")
	if err != nil {
		return err
	}

	started := 0
	for _, room := range rooms {
		empty, err := s.store.IsEmpty(ctx, room.ID)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("room_id", room.ID.String()).
				Msg("Failed to check room queue during initialization")
			continue
		}
		if !empty {
			s.Start(room)
			started++
		}
	}

	logger.Log.Info().
		Int("rooms", len(rooms)).
		Int("started", started).
		Msg("Playback supervisor initialized")

	return nil
}

// Start launches a playback loop for the room. If the room already has
// an entry in the status map this is a no-op: the check and the insert
// happen under one lock acquisition, so two racing callers produce
// exactly one loop.
func (s *Supervisor) Start(room *models.Room) {
	s.mu.Lock()
	if _, ok := s.status[room.ID]; ok {
		s.mu.Unlock()
		return
	}
	s.status[room.ID] = StatusPlaying
	s.mu.Unlock()

	logger.Log.Info().
		Str("room_id", room.ID.String()).
		Str("name", room.Name).
		Msg("Starting playback loop")

	s.wg.Add(1)
	go s.runLoop(room)
}

// Stop removes the room's entry from the status map. The running loop
// observes the absence at its next poll and terminates; no further
// videos are marked played until Start is called again.
func (s *Supervisor) Stop(roomID uuid.UUID) {
	s.mu.Lock()
	delete(s.status, roomID)
	s.mu.Unlock()

	logger.Log.Info().
		Str("room_id", roomID.String()).
		Msg("Stopping playback loop")
}

// Skip requests that the room's current video ends early. Returns
// ErrInvalidRoom when the room has no active loop; that is a usage
// error, not a system fault.
func (s *Supervisor) Skip(roomID uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.status[roomID]
	if ok {
		s.status[roomID] = StatusSkipRequested
	}
	s.mu.Unlock()

	if !ok {
		logger.Log.Warn().
			Str("room_id", roomID.String()).
			Msg("Skip requested for room with no active playback loop")
		return ErrInvalidRoom
	}

	logger.Log.Info().
		Str("room_id", roomID.String()).
		Msg("Skip requested")

	return nil
}

// Status returns the room's live playback status and whether the room
// has an active loop at all
func (s *Supervisor) Status(roomID uuid.UUID) (Status, bool) {
	s.mu.Lock()
	st, ok := s.status[roomID]
	s.mu.Unlock()
	return st, ok
}

// ActiveRooms returns the ids of all rooms with an active playback loop
func (s *Supervisor) ActiveRooms() []uuid.UUID {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.status))
	for id := range s.status {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	return ids
}

// Shutdown removes every room entry and waits for all loops to exit.
// Loops notice the removal within one poll interval.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	count := len(s.status)
	s.status = make(map[uuid.UUID]Status)
	s.mu.Unlock()

	s.wg.Wait()

	logger.Log.Info().
		Int("stopped_loops", count).
		Msg("Playback supervisor stopped")
}

// resetStatus sets the room's status only if the room still has an
// entry, so a stopped room is never resurrected by its own loop
func (s *Supervisor) resetStatus(roomID uuid.UUID, st Status) {
	s.mu.Lock()
	if _, ok := s.status[roomID]; ok {
		s.status[roomID] = st
	}
	s.mu.Unlock()
}
