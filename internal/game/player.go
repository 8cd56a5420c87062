package game

// Player 代表房間內一名在線玩家。
// ID 是房間範圍內穩定的玩家識別碼，斷線重連後不變；
// ConnID 是當前連線的識別碼，每次重連都會更換。
type Player struct {
	ID           string `json:"id"`
	ConnID       string `json:"-"`
	Username     string `json:"username"`
	Word         string `json:"-"` // 秘密詞，只私下發給本人
	IsIntruder   bool   `json:"-"`
	IsEliminated bool   `json:"isEliminated"`
	HasSubmitted bool   `json:"hasSubmitted"`
	HasVoted     bool   `json:"hasVoted"`
	IsHost       bool   `json:"isHost"`
}

// playerRecord 是玩家的持久記錄（everJoined），以顯示名稱為鍵，
// 在個別連線斷開後仍然保留，讓玩家可以用同一名稱重連
type playerRecord struct {
	ID           string
	Username     string
	Word         string
	IsIntruder   bool
	IsEliminated bool
	IsHost       bool
}

// EliminatedPlayer 是玩家被淘汰當下的快照，依淘汰順序排列，永不移除
type EliminatedPlayer struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	WasIntruder bool   `json:"wasIntruder"`
}

// PlayerSummary 是對外公開的玩家身份資訊
type PlayerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// summary 回傳玩家的公開身份
func (p *Player) summary() PlayerSummary {
	return PlayerSummary{ID: p.ID, Username: p.Username}
}
