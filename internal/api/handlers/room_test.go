package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intruder_web/internal/storage"
)

func newTestRouter() (*gin.Engine, *storage.RoomStore) {
	gin.SetMode(gin.TestMode)
	store := storage.NewRoomStore(time.Minute, func() *rand.Rand {
		return rand.New(rand.NewSource(1))
	})
	h := NewRoomHandler(store)

	r := gin.New()
	r.POST("/api/rooms", h.CreateRoom)
	r.GET("/api/rooms/:id", h.GetRoom)
	return r, store
}

func TestCreateRoomGeneratesCode(t *testing.T) {
	r, store := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["roomId"], 6)
	assert.Equal(t, 1, store.Count())
}

func TestCreateRoomHonorsRequestedCode(t *testing.T) {
	r, store := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms",
		strings.NewReader(`{"roomId": "SALON1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	_, ok := store.Get("SALON1")
	assert.True(t, ok)

	// 同一代碼再建立一次回傳既有房間
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/rooms",
		strings.NewReader(`{"roomId": "SALON1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, store.Count())
}

func TestGetRoomNotFound(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms/NOPE", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRoomReturnsState(t *testing.T) {
	r, store := newTestRouter()
	room := store.GetOrCreate("SALON1")
	_, err := room.Join("conn-1", "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms/SALON1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		RoomID  string `json:"roomId"`
		Phase   string `json:"phase"`
		Players []struct {
			Username string `json:"username"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SALON1", resp.RoomID)
	assert.Equal(t, "WAITING", resp.Phase)
	require.Len(t, resp.Players, 1)
	assert.Equal(t, "alice", resp.Players[0].Username)
}
