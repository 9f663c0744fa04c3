//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/youkebox/youkebox/internal/api"
	"github.com/youkebox/youkebox/internal/config"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/player"
	"github.com/youkebox/youkebox/internal/playlist"
	"github.com/youkebox/youkebox/internal/room"
	"github.com/youkebox/youkebox/internal/youtube"
)

// stubVideo is one entry served by the metadata API stub
type stubVideo struct {
	Title    string
	Duration string
}

// setupTestDB creates a migrated temp-file test database
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Resolve the migrations directory relative to this file so tests
	// work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)
	rootDir := filepath.Dir(filepath.Dir(testDir))
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// newMetadataStub serves the /videos endpoint of the metadata API from
// a fixed catalog
func newMetadataStub(t *testing.T, catalog map[string]stubVideo) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			http.NotFound(w, r)
			return
		}

		type snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		type contentDetails struct {
			Duration string `json:"duration"`
		}
		type item struct {
			ID             string         `json:"id"`
			Snippet        snippet        `json:"snippet"`
			ContentDetails contentDetails `json:"contentDetails"`
		}

		var items []item
		for _, id := range strings.Split(r.URL.Query().Get("id"), ",") {
			if v, ok := catalog[id]; ok {
				items = append(items, item{
					ID:             id,
					Snippet:        snippet{Title: v.Title},
					ContentDetails: contentDetails{Duration: v.Duration},
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
}

// testStack is the full wired application behind a test router
type testStack struct {
	router     *gin.Engine
	repos      *db.Repositories
	supervisor *player.Supervisor
}

// setupStack wires repositories, supervisor, services, and routes the
// way the server does, with fast player intervals and a stubbed
// metadata API
func setupStack(t *testing.T, catalog map[string]stubVideo) (*testStack, func()) {
	t.Helper()

	_, repos, dbCleanup := setupTestDB(t)

	stub := newMetadataStub(t, catalog)

	playerCfg := &config.PlayerConfig{
		PollInterval:      50 * time.Millisecond,
		IdleRetryInterval: 100 * time.Millisecond,
	}
	supervisor := player.NewSupervisor(repos.Videos, repos.Rooms, playerCfg)

	ytClient := youtube.NewClient(&config.YouTubeConfig{
		APIKey:  "test-key",
		BaseURL: stub.URL,
	})

	artwork, err := room.NewArtworkStore(filepath.Join(t.TempDir(), "artwork"))
	require.NoError(t, err)

	roomService := room.NewService(repos, supervisor, artwork)
	playlistService := playlist.NewService(repos, ytClient, supervisor)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	apiGroup := router.Group("/api/v1")
	api.SetupRoomRoutes(apiGroup, roomService, artwork)
	api.SetupPlaylistRoutes(apiGroup, playlistService, supervisor)
	api.SetupYouTubeRoutes(apiGroup, ytClient)

	cleanup := func() {
		supervisor.Shutdown()
		stub.Close()
		dbCleanup()
	}

	return &testStack{
		router:     router,
		repos:      repos,
		supervisor: supervisor,
	}, cleanup
}

// mustParse parses a room id from an API response
func mustParse(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}
