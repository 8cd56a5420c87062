package service

import (
	"encoding/json"
	"errors"

	"intruder_web/internal/game"
	"intruder_web/internal/imagegen"
	"intruder_web/internal/models"
)

// errorCodes 把狀態機錯誤對應到給前端的結構化代碼
var errorCodes = map[error]string{
	game.ErrRoomNotFound:     "room_not_found",
	game.ErrDuplicateName:    "duplicate_name",
	game.ErrGameInProgress:   "game_in_progress",
	game.ErrNotHost:          "not_host",
	game.ErrNotEnoughPlayers: "not_enough_players",
	game.ErrPlayerEliminated: "player_eliminated",
	game.ErrUnknownPlayer:    "unknown_player",
	game.ErrNotYourTurn:      "not_your_turn",
	game.ErrAlreadySubmitted: "already_submitted",
	game.ErrAlreadyVoted:     "already_voted",
	game.ErrInvalidTarget:    "invalid_target",
	game.ErrWrongPhase:       "wrong_phase",
	game.ErrNoVoteInProgress: "no_vote_in_progress",
	game.ErrNoActivePlayers:  "no_active_players",
}

// errorMessages 是對應的使用者提示文字
var errorMessages = map[string]string{
	"room_not_found":      "房間不存在",
	"duplicate_name":      "這個名稱已經有人使用",
	"game_in_progress":    "遊戲已經開始，無法中途加入",
	"not_host":            "只有房主可以執行這個操作",
	"not_enough_players":  "玩家人數不足",
	"player_eliminated":   "你已被淘汰，無法執行這個操作",
	"unknown_player":      "找不到玩家",
	"not_your_turn":       "還沒輪到你",
	"already_submitted":   "你本回合已經提交過了",
	"already_voted":       "你本回合已經投過票了",
	"invalid_target":      "投票對象無效",
	"wrong_phase":         "現在不能執行這個操作",
	"no_vote_in_progress": "目前沒有進行中的投票",
	"no_active_players":   "沒有存活的玩家可以結算",

	"image_missing_credential": "圖片服務未設定金鑰，請聯絡管理員",
	"image_quota_exceeded":     "圖片服務配額已用盡，請稍後再試",
	"image_content_rejected":   "提示詞被內容政策拒絕，請換一個再試",
	"image_generic":            "圖片生成失敗，請再試一次",
}

// errorPayload 把操作錯誤轉成結構化的錯誤通知。
// 圖片生成的失敗依類別區分，讓玩家知道該不該重試
func errorPayload(err error) models.ErrorPayload {
	var genErr *imagegen.Error
	if errors.As(err, &genErr) {
		code := "image_" + string(genErr.Kind)
		return models.ErrorPayload{Code: code, Message: errorMessages[code]}
	}

	for target, code := range errorCodes {
		if errors.Is(err, target) {
			return models.ErrorPayload{Code: code, Message: errorMessages[code]}
		}
	}
	return models.ErrorPayload{Code: "internal_error", Message: "發生未知錯誤"}
}

// ErrorMessage 把操作錯誤包成可直接送給客戶端的錯誤消息
func ErrorMessage(err error) models.Message {
	return models.NewMessage(models.TypeError, errorPayload(err))
}

// unmarshalPayload 解析消息負載
func unmarshalPayload(msg models.Message, v any) error {
	if len(msg.Data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(msg.Data, v)
}
