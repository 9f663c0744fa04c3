package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youkebox/youkebox/internal/models"
)

// setupTestRepos creates repositories backed by a migrated temp database
func setupTestRepos(t *testing.T) (*Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return repos, cleanup
}

func createTestRoom(t *testing.T, repos *Repositories, name string) *models.Room {
	room := models.NewRoom(name, nil, true)
	require.NoError(t, repos.Rooms.Create(context.Background(), room))
	return room
}

func TestVideoRepository_CreateAndGetByID(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	desc := "a music video"
	video := models.NewVideo(room.ID, "dQw4w9WgXcQ", "Test Video", &desc, "PT4M13S")
	require.NoError(t, repos.Videos.Create(ctx, video))

	got, err := repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.ID, got.ID)
	assert.Equal(t, room.ID, got.RoomID)
	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	assert.Equal(t, "Test Video", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, "PT4M13S", got.Duration)
	assert.False(t, got.Played)
	assert.Nil(t, got.StartedOn)
}

func TestVideoRepository_GetByID_NotFound(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	_, err := repos.Videos.GetByID(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_Create_UnknownRoom(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	video := models.NewVideo(uuid.New(), "abc123", "Orphan", nil, "PT1M")
	err := repos.Videos.Create(context.Background(), video)
	require.Error(t, err)
	assert.True(t, IsForeignKey(err))
}

func TestVideoRepository_FindNextUnplayed_EnqueueOrder(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	base := time.Now().UTC()
	first := models.NewVideo(room.ID, "vid1", "First", nil, "PT1M")
	first.AddedOn = base
	second := models.NewVideo(room.ID, "vid2", "Second", nil, "PT2M")
	second.AddedOn = base.Add(time.Second)

	// Insert out of order to prove ordering comes from added_on
	require.NoError(t, repos.Videos.Create(ctx, second))
	require.NoError(t, repos.Videos.Create(ctx, first))

	next, err := repos.Videos.FindNextUnplayed(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, next.ID)

	require.NoError(t, repos.Videos.MarkPlayed(ctx, first.ID))

	next, err = repos.Videos.FindNextUnplayed(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, next.ID)
}

func TestVideoRepository_FindNextUnplayed_Drained(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	video := models.NewVideo(room.ID, "vid1", "Only", nil, "PT1M")
	require.NoError(t, repos.Videos.Create(ctx, video))
	require.NoError(t, repos.Videos.MarkPlayed(ctx, video.ID))

	_, err := repos.Videos.FindNextUnplayed(ctx, room.ID)
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_FindNextUnplayed_ScopedToRoom(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	roomA := createTestRoom(t, repos, "alpha")
	roomB := createTestRoom(t, repos, "bravo")

	videoA := models.NewVideo(roomA.ID, "vidA", "A", nil, "PT1M")
	require.NoError(t, repos.Videos.Create(ctx, videoA))

	_, err := repos.Videos.FindNextUnplayed(ctx, roomB.ID)
	assert.True(t, IsNotFound(err))

	next, err := repos.Videos.FindNextUnplayed(ctx, roomA.ID)
	require.NoError(t, err)
	assert.Equal(t, videoA.ID, next.ID)
}

func TestVideoRepository_ListUnplayed_ExcludesPlayed(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	base := time.Now().UTC()
	videos := make([]*models.Video, 3)
	for i := range videos {
		videos[i] = models.NewVideo(room.ID, "vid", "Video", nil, "PT1M")
		videos[i].AddedOn = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repos.Videos.Create(ctx, videos[i]))
	}
	require.NoError(t, repos.Videos.MarkPlayed(ctx, videos[0].ID))

	unplayed, err := repos.Videos.ListUnplayed(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, unplayed, 2)
	assert.Equal(t, videos[1].ID, unplayed[0].ID)
	assert.Equal(t, videos[2].ID, unplayed[1].ID)
}

func TestVideoRepository_CreateBatch(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	batch := []*models.Video{
		models.NewVideo(room.ID, "vid1", "One", nil, "PT1M"),
		models.NewVideo(room.ID, "vid2", "Two", nil, "PT2M"),
	}
	require.NoError(t, repos.Videos.CreateBatch(ctx, batch))

	unplayed, err := repos.Videos.ListUnplayed(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, unplayed, 2)
}

func TestVideoRepository_CreateBatch_RollsBackOnFailure(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	good := models.NewVideo(room.ID, "vid1", "One", nil, "PT1M")
	orphan := models.NewVideo(uuid.New(), "vid2", "Two", nil, "PT2M")

	err := repos.Videos.CreateBatch(ctx, []*models.Video{good, orphan})
	require.Error(t, err)

	// The whole batch is rolled back, including the valid row
	empty, err := repos.Videos.IsEmpty(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestVideoRepository_CreateBatch_Empty(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	assert.NoError(t, repos.Videos.CreateBatch(context.Background(), nil))
}

func TestVideoRepository_IsEmpty(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	empty, err := repos.Videos.IsEmpty(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, empty)

	video := models.NewVideo(room.ID, "vid1", "One", nil, "PT1M")
	require.NoError(t, repos.Videos.Create(ctx, video))

	empty, err = repos.Videos.IsEmpty(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, empty)

	// Played videos do not count toward the pending queue
	require.NoError(t, repos.Videos.MarkPlayed(ctx, video.ID))
	empty, err = repos.Videos.IsEmpty(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestVideoRepository_MarkStarted(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	video := models.NewVideo(room.ID, "vid1", "One", nil, "PT1M")
	require.NoError(t, repos.Videos.Create(ctx, video))

	startedOn := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repos.Videos.MarkStarted(ctx, video.ID, startedOn))

	got, err := repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartedOn)
	assert.True(t, got.StartedOn.Equal(startedOn))
}

func TestVideoRepository_MarkStarted_NotFound(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	err := repos.Videos.MarkStarted(context.Background(), uuid.New(), time.Now().UTC())
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_MarkPlayed_NotFound(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	err := repos.Videos.MarkPlayed(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_DeleteByRoomID(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")
	other := createTestRoom(t, repos, "other")

	require.NoError(t, repos.Videos.Create(ctx, models.NewVideo(room.ID, "vid1", "One", nil, "PT1M")))
	require.NoError(t, repos.Videos.Create(ctx, models.NewVideo(other.ID, "vid2", "Two", nil, "PT2M")))

	require.NoError(t, repos.Videos.DeleteByRoomID(ctx, room.ID))

	empty, err := repos.Videos.IsEmpty(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = repos.Videos.IsEmpty(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestVideoRepository_RoomDeleteCascades(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	room := createTestRoom(t, repos, "lobby")

	video := models.NewVideo(room.ID, "vid1", "One", nil, "PT1M")
	require.NoError(t, repos.Videos.Create(ctx, video))

	require.NoError(t, repos.Rooms.Delete(ctx, room.ID))

	_, err := repos.Videos.GetByID(ctx, video.ID)
	assert.True(t, IsNotFound(err))
}
