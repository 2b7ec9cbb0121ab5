package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbridge/server/internal/models"
	"github.com/gbridge/server/internal/room"
)

const testSecret = "test-secret"

func newTestAPI() (http.Handler, *API) {
	api := &API{
		JWTSecret:  testSecret,
		CORSOrigin: "http://localhost:3000",
		Rooms:      room.NewService(),
	}
	return api.Register(http.NewServeMux()), api
}

func login(t *testing.T, h http.Handler, username string) (string, models.User) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func TestLoginRequiresUsername(t *testing.T) {
	h, _ := newTestAPI()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoomNeedsAuth(t *testing.T) {
	h, _ := newTestAPI()

	body := bytes.NewReader([]byte(`{"name":"table"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListRooms(t *testing.T) {
	h, _ := newTestAPI()
	token, user := login(t, h, "alice")

	body := bytes.NewReader([]byte(`{"name":"table one"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "table one", created.Name)
	assert.Equal(t, user.ID, created.CreatedBy)

	req = httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rooms []models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, created.ID, rooms[0].ID)
}

func TestJoinRoomConflicts(t *testing.T) {
	h, _ := newTestAPI()
	aliceToken, _ := login(t, h, "alice")

	body := bytes.NewReader([]byte(`{"name":"table"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// The creator is already a member.
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.ID.String()+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	bobToken, _ := login(t, h, "bob")
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.ID.String()+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordRoomOverREST(t *testing.T) {
	h, _ := newTestAPI()
	aliceToken, _ := login(t, h, "alice")

	body := bytes.NewReader([]byte(`{"name":"locked","password":"hunter2"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	// The hash must never leak into the JSON.
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "PasswordHash")

	bobToken, _ := login(t, h, "bob")
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.ID.String()+"/join", bytes.NewReader([]byte(`{"password":"wrong"}`)))
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.ID.String()+"/join", bytes.NewReader([]byte(`{"password":"hunter2"}`)))
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyToggle(t *testing.T) {
	h, _ := newTestAPI()
	token, user := login(t, h, "alice")

	body := bytes.NewReader([]byte(`{"name":"table"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.ID.String()+"/ready", bytes.NewReader([]byte(`{"ready":true}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Members, 1)
	assert.Equal(t, user.ID, updated.Members[0].ID)
	assert.True(t, updated.Members[0].IsReady)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestAPI()

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
