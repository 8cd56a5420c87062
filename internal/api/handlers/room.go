package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intruder_web/internal/storage"
	"intruder_web/pkg/utils"
)

// RoomHandler 處理房間相關的 HTTP 請求
type RoomHandler struct {
	store *storage.RoomStore
}

func NewRoomHandler(store *storage.RoomStore) *RoomHandler {
	return &RoomHandler{store: store}
}

type createRoomRequest struct {
	RoomID string `json:"roomId"`
}

// CreateRoom 建立一個新房間。
// 可以自帶房間代碼（例如朋友間約定的代碼），留空則隨機產生；
// 代碼已存在時直接回傳既有房間，加入流程對兩種情況一視同仁
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	// 沒有 body 也是合法請求
	_ = c.ShouldBindJSON(&req)

	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		roomID = utils.GenerateRoomCode()
	}

	room := h.store.GetOrCreate(roomID)
	c.JSON(http.StatusCreated, gin.H{
		"roomId": room.ID(),
		"phase":  room.Phase(),
	})
}

// GetRoom 查詢房間目前的公開狀態，供前端在加入前顯示
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	room, ok := h.store.Get(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}
	c.JSON(http.StatusOK, room.Snapshot())
}
