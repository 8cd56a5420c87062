package models

import (
	"encoding/json"

	"intruder_web/internal/game"
)

// Message 代表一個統一的 WebSocket 消息結構，
// 進出方向共用：Type 決定 Data 的格式
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// 客戶端發送的消息類型
const (
	TypeStartGame    = "start_game"
	TypeSubmitPrompt = "submit_prompt"
	TypeSubmitVote   = "submit_vote"
	TypeForceVoteEnd = "force_vote_end"
	TypeChatMessage  = "chat_message"
)

// 伺服器發送的事件類型，沿用原始協議的命名
const (
	TypeUpdatePlayers   = "update_players"
	TypeAssignRole      = "assign_role"
	TypeStartTurn       = "start_turn"
	TypeImageBroadcast  = "new_image_broadcast"
	TypeStartDiscussion = "start_discussion"
	TypeUpdateVotes     = "update_votes"
	TypeRoundResult     = "round_result"
	TypeGameOver        = "game_over"
	TypeNewRound        = "new_round"
	TypeRejoinState     = "rejoin_state"
	TypeError           = "error"
)

// NewMessage 建立一個消息並序列化其負載。
// 負載都是本地結構，序列化失敗屬於程式錯誤，這裡直接忽略
func NewMessage(msgType string, payload any) Message {
	data, _ := json.Marshal(payload)
	return Message{Type: msgType, Data: data}
}

// PromptPayload 是 submit_prompt 的負載
type PromptPayload struct {
	Prompt string `json:"prompt"`
}

// VotePayload 是 submit_vote 的負載
type VotePayload struct {
	TargetID string `json:"votedPlayerId"`
}

// ChatPayload 是聊天消息的負載，純轉發、不經過狀態機
type ChatPayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// RolePayload 私下通知玩家本場遊戲的秘密詞
type RolePayload struct {
	PlayerID string `json:"playerId"`
	Word     string `json:"word"`
}

// TurnPayload 通知輪到哪位玩家出牌
type TurnPayload struct {
	CurrentPlayer game.PlayerSummary `json:"currentPlayer"`
	Order         []string           `json:"order"`
}

// RoundResultPayload 在結算結果外附上給玩家看的訊息
type RoundResultPayload struct {
	game.RoundResult
	Message string `json:"message"`
}

// NewRoundPayload 通知新回合開始
type NewRoundPayload struct {
	Round      int                     `json:"round"`
	Players    []game.PlayerSummary    `json:"activePlayers"`
	Eliminated []game.EliminatedPlayer `json:"eliminatedPlayers"`
}

// ErrorPayload 帶有結構化原因的錯誤通知，讓前端能直接呈現
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
