package player

import (
	"context"
	"time"

	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/models"
)

// runLoop drives sequential playback for one room. It repeatedly picks
// the oldest unplayed video, waits out its duration (or a skip), marks
// it played, and repeats. An empty queue is retried on a fixed backoff
// so freshly enqueued videos are picked up without a subscription. The
// loop terminates when its room disappears from the supervisor map.
func (s *Supervisor) runLoop(room *models.Room) {
	defer s.wg.Done()

	ctx := context.Background()

	for {
		video, err := s.store.FindNextUnplayed(ctx, room.ID)
		if err != nil {
			if !db.IsNotFound(err) {
				logger.Log.Error().
					Err(err).
					Str("room_id", room.ID.String()).
					Msg("Failed to fetch next video")
			}

			// idle-retry: wait, then check we still own an entry
			time.Sleep(s.idleRetryInterval)
			if _, ok := s.Status(room.ID); !ok {
				logger.Log.Debug().
					Str("room_id", room.ID.String()).
					Msg("Playback loop terminated")
				return
			}
			continue
		}

		if stopped := s.playVideo(ctx, room, video); stopped {
			logger.Log.Debug().
				Str("room_id", room.ID.String()).
				Msg("Playback loop terminated")
			return
		}
	}
}

// playVideo plays a single video to completion. It returns true when
// the loop was stopped mid-video, in which case the video is left
// unplayed so a later Start resumes from it.
func (s *Supervisor) playVideo(ctx context.Context, room *models.Room, video *models.Video) bool {
	startedOn := time.Now()

	// Persist the start instant immediately so the playlist view can
	// compute elapsed time even across a process restart. A failed
	// write is logged and playback proceeds regardless.
	if err := s.store.MarkStarted(ctx, video.ID, startedOn); err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", video.ID.String()).
			Str("room_id", room.ID.String()).
			Msg("Failed to mark video started")
	}

	seconds, err := ParseDuration(video.Duration)
	if err != nil {
		// One bad row must not wedge the room; treat it as zero-length
		logger.Log.Error().
			Err(err).
			Str("video_id", video.ID.String()).
			Str("duration", video.Duration).
			Msg("Unparseable video duration, skipping wait")
		seconds = 0
	}
	duration := time.Duration(seconds) * time.Second

	s.resetStatus(room.ID, StatusPlaying)

	logger.Log.Info().
		Str("room_id", room.ID.String()).
		Str("room", room.Name).
		Str("video_id", video.VideoID).
		Str("title", video.Title).
		Int64("duration_seconds", seconds).
		Msg("Start playing video")

	for {
		if time.Since(startedOn) >= duration {
			break
		}

		status, ok := s.Status(room.ID)
		if !ok {
			// Stopped: abort without marking played
			return true
		}
		if status == StatusSkipRequested {
			s.resetStatus(room.ID, StatusPlaying)
			logger.Log.Info().
				Str("room_id", room.ID.String()).
				Str("title", video.Title).
				Msg("Video skipped")
			break
		}

		time.Sleep(s.pollInterval)
	}

	if err := s.store.MarkPlayed(ctx, video.ID); err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", video.ID.String()).
			Str("room_id", room.ID.String()).
			Msg("Failed to mark video played")
	}

	logger.Log.Info().
		Str("room_id", room.ID.String()).
		Str("title", video.Title).
		Msg("Done playing video")

	return false
}
