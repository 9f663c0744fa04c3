package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomEndpoint(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	body, _ := json.Marshal(CreateRoomRequest{Name: "lobby"})
	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lobby", resp.Name)
	assert.True(t, resp.Public)
	_, err := uuid.Parse(resp.ID)
	assert.NoError(t, err)
}

func TestCreateRoomEndpoint_InvalidName(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	body, _ := json.Marshal(CreateRoomRequest{Name: "a b"})
	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_name", resp.Error)
}

func TestCreateRoomEndpoint_DuplicateName(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	createTestRoom(t, env.repos, "lobby")

	body, _ := json.Marshal(CreateRoomRequest{Name: "lobby"})
	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "duplicate_name", resp.Error)
}

func TestCreateRoomEndpoint_MissingBody(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/api/v1/rooms", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRoomsEndpoint(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	createTestRoom(t, env.repos, "bravo")
	createTestRoom(t, env.repos, "alpha")

	req := httptest.NewRequest("GET", "/api/v1/rooms", nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RoomListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, "alpha", resp.Rooms[0].Name)
	assert.Equal(t, "bravo", resp.Rooms[1].Name)
}

func TestListRoomsEndpoint_NameFilter(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	createTestRoom(t, env.repos, "rock_room")
	createTestRoom(t, env.repos, "lobby")

	req := httptest.NewRequest("GET", "/api/v1/rooms?name=rock", nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RoomListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "rock_room", resp.Rooms[0].Name)
}

func TestGetRoomEndpoint(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")

	req := httptest.NewRequest("GET", "/api/v1/rooms/"+r.ID.String(), nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, r.ID.String(), resp.ID)
	assert.Equal(t, "lobby", resp.Name)
}

func TestGetRoomEndpoint_NotFound(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/api/v1/rooms/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRoomEndpoint_InvalidID(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/api/v1/rooms/not-a-uuid", nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_id", resp.Error)
}

func TestUpdateRoomEndpoint(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")

	name := "renamed"
	public := false
	body, _ := json.Marshal(UpdateRoomRequest{Name: &name, Public: &public})
	req := httptest.NewRequest("PUT", "/api/v1/rooms/"+r.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.Name)
	assert.False(t, resp.Public)
}

func TestUpdateRoomEndpoint_PartialUpdateKeepsName(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")

	desc := "new description"
	body, _ := json.Marshal(UpdateRoomRequest{Description: &desc})
	req := httptest.NewRequest("PUT", "/api/v1/rooms/"+r.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lobby", resp.Name)
	require.NotNil(t, resp.Description)
	assert.Equal(t, desc, *resp.Description)
}

func TestDeleteRoomEndpoint(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")

	req := httptest.NewRequest("DELETE", "/api/v1/rooms/"+r.ID.String(), nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// The playback loop is stopped as part of the delete
	assert.Equal(t, []uuid.UUID{r.ID}, env.sup.stopped)

	req = httptest.NewRequest("GET", "/api/v1/rooms/"+r.ID.String(), nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRoomEndpoint_NotFound(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("DELETE", "/api/v1/rooms/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtworkEndpoints(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")
	payload := []byte("\x89PNG fake image bytes")

	req := httptest.NewRequest("POST", "/api/v1/rooms/"+r.ID.String()+"/artwork", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/rooms/"+r.ID.String()+"/artwork", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestSetArtworkEndpoint_RoomNotFound(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/api/v1/rooms/"+uuid.New().String()+"/artwork", bytes.NewReader([]byte("art")))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetArtworkEndpoint_NoArtwork(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	r := createTestRoom(t, env.repos, "lobby")

	req := httptest.NewRequest("GET", "/api/v1/rooms/"+r.ID.String()+"/artwork", nil)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
