package api

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/models"
	"github.com/youkebox/youkebox/internal/playlist"
	"github.com/youkebox/youkebox/internal/room"
	"github.com/youkebox/youkebox/internal/youtube"
)

// fakeSupervisor stands in for the playback supervisor in handler tests
type fakeSupervisor struct {
	mu      sync.Mutex
	started []uuid.UUID
	stopped []uuid.UUID
	skipped []uuid.UUID
	skipErr error
}

func (f *fakeSupervisor) Start(r *models.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, r.ID)
}

func (f *fakeSupervisor) Stop(roomID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, roomID)
}

func (f *fakeSupervisor) Skip(roomID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.skipErr != nil {
		return f.skipErr
	}
	f.skipped = append(f.skipped, roomID)
	return nil
}

// fakeFetcher resolves video ids from a fixed metadata table
type fakeFetcher struct {
	metadata map[string]youtube.VideoMetadata
	err      error
}

func (f *fakeFetcher) FetchMetadata(_ context.Context, ids []string) ([]youtube.VideoMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]youtube.VideoMetadata, 0, len(ids))
	for _, id := range ids {
		if m, ok := f.metadata[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// setupTestDB creates a migrated temp database with repositories
func setupTestDB(t *testing.T) (*db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return repos, cleanup
}

// testEnv bundles the services and fakes behind a test router
type testEnv struct {
	router  *gin.Engine
	repos   *db.Repositories
	sup     *fakeSupervisor
	fetcher *fakeFetcher
}

// setupTestRouter wires the full API surface against fakes for the
// supervisor and metadata fetcher
func setupTestRouter(t *testing.T) (*testEnv, func()) {
	repos, cleanup := setupTestDB(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api/v1")

	sup := &fakeSupervisor{}
	fetcher := &fakeFetcher{metadata: map[string]youtube.VideoMetadata{
		"vid1": {ID: "vid1", Title: "First", Description: "d1", Duration: "PT4M13S"},
		"vid2": {ID: "vid2", Title: "Second", Description: "d2", Duration: "PT2M"},
	}}

	artwork, err := room.NewArtworkStore(filepath.Join(t.TempDir(), "artwork"))
	require.NoError(t, err)

	roomService := room.NewService(repos, sup, artwork)
	playlistService := playlist.NewService(repos, fetcher, sup)

	SetupRoomRoutes(apiGroup, roomService, artwork)
	SetupPlaylistRoutes(apiGroup, playlistService, sup)

	return &testEnv{
		router:  router,
		repos:   repos,
		sup:     sup,
		fetcher: fetcher,
	}, cleanup
}

// createTestRoom persists a room directly through the repository
func createTestRoom(t *testing.T, repos *db.Repositories, name string) *models.Room {
	r := models.NewRoom(name, nil, true)
	require.NoError(t, repos.Rooms.Create(context.Background(), r))
	return r
}
