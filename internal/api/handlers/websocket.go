package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"intruder_web/internal/models"
	"intruder_web/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 前端與後端分開部署，來源檢查交給反向代理
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler 處理 WebSocket 連線的建立與加入流程
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	gameService *service.GameService
}

func NewWebSocketHandler(wsManager *service.WebSocketManager, gameService *service.GameService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		gameService: gameService,
	}
}

// HandleWebSocket 升級連線並把玩家加入房間。
// 加入被拒絕時（名稱重複、遊戲進行中）先把結構化原因
// 送給客戶端再關閉連線，讓前端能顯示正確的提示
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("id")
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 username 參數"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	connID := uuid.NewString()
	res, err := h.gameService.Join(roomID, connID, username)
	if err != nil {
		conn.WriteJSON(service.ErrorMessage(err))
		conn.Close()
		return
	}

	client := &service.Client{
		Conn:     conn,
		ConnID:   connID,
		PlayerID: res.Player.ID,
		RoomID:   roomID,
		Username: username,
		SendChan: make(chan models.Message, 256),
	}
	h.wsManager.Register(client)

	// 註冊完成後才廣播名冊，加入者本人也收得到
	h.gameService.AnnounceRoster(roomID)
	if res.Rejoined {
		h.gameService.SendCatchUp(roomID, res.Player)
	}

	h.wsManager.HandleConnection(client, h.gameService)
}
