package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"intruder_web/internal/models"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn
	ConnID   string // 連線識別碼，每次連線不同
	PlayerID string // 房間範圍內穩定的玩家識別碼
	RoomID   string
	Username string
	SendChan chan models.Message // 消息發送通道，用於異步傳送消息
}

// WebSocketManager 管理所有的 WebSocket 連接和消息傳遞。
// 兩層 map: roomID -> playerID -> client
type WebSocketManager struct {
	clients    map[string]map[string]*Client
	clientsMux sync.RWMutex
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[string]*Client),
	}
}

// Register 登記一個已完成加入流程的客戶端
func (m *WebSocketManager) Register(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[string]*Client)
	}
	m.clients[client.RoomID][client.PlayerID] = client
}

// unregister 安全地移除客戶端連接
func (m *WebSocketManager) unregister(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.RoomID]; ok {
		if clients[client.PlayerID] == client {
			delete(clients, client.PlayerID)
		}
		if len(clients) == 0 {
			delete(m.clients, client.RoomID)
		}
	}
}

// HandleConnection 處理客戶端的讀寫，阻塞直到連線結束。
// 連線結束時會通知遊戲服務處理斷線
func (m *WebSocketManager) HandleConnection(client *Client, gameService *GameService) {
	defer func() {
		m.unregister(client)
		client.Conn.Close()
		close(client.SendChan)
		gameService.HandleDisconnect(client.RoomID, client.ConnID)
	}()

	go m.writePump(client)
	m.readPump(client, gameService)
}

// readPump 持續監聽並處理從客戶端接收的消息。
// 消息在這條 goroutine 上依序處理：一條連線等待圖片生成時，
// 不會擋住其他玩家的聊天或斷線
func (m *WebSocketManager) readPump(client *Client, gameService *GameService) {
	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("player", client.PlayerID).Msg("websocket unexpected close")
			}
			break
		}

		var msg models.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn().Err(err).Str("player", client.PlayerID).Msg("message parse error")
			continue
		}

		gameService.HandleMessage(client, msg)
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				log.Error().Err(err).Msg("message encoding error")
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播消息
func (m *WebSocketManager) BroadcastToRoom(roomID string, message models.Message) {
	m.clientsMux.RLock()
	clients := make([]*Client, 0, len(m.clients[roomID]))
	for _, client := range m.clients[roomID] {
		clients = append(clients, client)
	}
	m.clientsMux.RUnlock()

	for _, client := range clients {
		m.send(client, message)
	}
}

// SendToPlayer 向指定玩家私下發送消息
func (m *WebSocketManager) SendToPlayer(roomID, playerID string, message models.Message) {
	m.clientsMux.RLock()
	client := m.clients[roomID][playerID]
	m.clientsMux.RUnlock()

	if client != nil {
		m.send(client, message)
	}
}

// send 把消息排入客戶端的發送隊列，隊列滿時放棄這條連線
func (m *WebSocketManager) send(client *Client, message models.Message) {
	select {
	case client.SendChan <- message:
	default:
		log.Warn().Str("player", client.PlayerID).Msg("client send queue full, dropping connection")
		client.Conn.Close()
	}
}
