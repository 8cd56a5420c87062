package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Room 代表一場遊戲的完整狀態。
// 每個房間是互斥的最小單位：所有讀寫都經由 mu 序列化，
// 不同房間之間沒有任何共享欄位，可以完全並行處理。
type Room struct {
	mu  sync.Mutex
	id  string
	rng *rand.Rand

	phase       Phase
	round       int
	players     []*Player // 目前在線的玩家，依加入順序
	cards       []Card
	votes       []Vote
	turnOrder   []string // 回合開始時在線玩家的穩定 ID，隨機排序
	currentTurn int
	eliminated  []EliminatedPlayer
	hostID      string

	// everJoined 以顯示名稱為鍵的持久名冊，連線斷開後仍保留，
	// 讓玩家能以同一名稱重連並還原詞語、角色與淘汰狀態
	everJoined map[string]*playerRecord
}

// NewRoom 建立一個新房間，階段為 WAITING、回合數為 1。
// 隨機來源由呼叫端注入，測試時可以提供固定種子
func NewRoom(id string, rng *rand.Rand) *Room {
	return &Room{
		id:         id,
		rng:        rng,
		phase:      PhaseWaiting,
		round:      1,
		everJoined: make(map[string]*playerRecord),
	}
}

// JoinResult 描述一次加入操作的結果
type JoinResult struct {
	Player   Player
	Rejoined bool // 是否為重連（需要補發目前遊戲狀態）
}

// Join 將一條連線以指定顯示名稱加入房間。
// 名稱已被在線玩家使用時拒絕；遊戲進行中只允許曾經參加過的玩家回來
func (r *Room) Join(connID, username string) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.Username == username {
			return JoinResult{}, ErrDuplicateName
		}
	}

	rec, returning := r.everJoined[username]
	if r.phase != PhaseWaiting && !returning {
		return JoinResult{}, ErrGameInProgress
	}

	var player *Player
	if returning {
		// 重連：把持久記錄綁回新的連線，
		// 本回合的提交 / 投票旗標從已記錄的卡片與投票推導
		player = &Player{
			ID:           rec.ID,
			ConnID:       connID,
			Username:     username,
			Word:         rec.Word,
			IsIntruder:   rec.IsIntruder,
			IsEliminated: rec.IsEliminated,
			IsHost:       rec.IsHost,
			HasSubmitted: r.hasCard(rec.ID),
			HasVoted:     r.hasVote(rec.ID),
		}
	} else {
		player = &Player{
			ID:       uuid.NewString(),
			ConnID:   connID,
			Username: username,
		}
		r.everJoined[username] = &playerRecord{
			ID:       player.ID,
			Username: username,
		}
	}

	wasEmpty := len(r.players) == 0
	r.players = append(r.players, player)

	// 空房間的第一位加入者成為房主，直到斷線才轉移
	if wasEmpty || r.hostID == "" {
		r.setHost(player)
	}

	return JoinResult{Player: *player, Rejoined: returning}, nil
}

// DisconnectResult 描述一次斷線後房間狀態的變化，
// 讓上層知道要廣播哪些事件
type DisconnectResult struct {
	Player          Player
	HostChanged     bool
	NewHost         *PlayerSummary
	RoomEmpty       bool
	NextPlayer      *PlayerSummary // PROMPT 階段輪到的下一位玩家
	TurnOrder       []string
	DiscussionReady bool // 剩下的玩家都已提交，階段已切換到 DISCUSSION
	VotesComplete   bool // DISCUSSION 階段且剩下的玩家都已投票
}

// Disconnect 處理玩家斷線：先把目前狀態寫回持久記錄再從在線名冊移除。
// 房主斷線時由剩餘的第一位在線玩家接任
func (r *Room) Disconnect(connID string) (DisconnectResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return DisconnectResult{}, false
	}

	player := r.players[idx]
	r.flushRecord(player)
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	res := DisconnectResult{Player: *player}

	if len(r.players) == 0 {
		r.hostID = ""
		res.RoomEmpty = true
		return res, true
	}

	if player.ID == r.hostID {
		r.setHost(r.players[0])
		res.HostChanged = true
		s := r.players[0].summary()
		res.NewHost = &s
	}

	switch r.phase {
	case PhasePrompt:
		if r.allActiveSubmitted() {
			r.phase = PhaseDiscussion
			res.DiscussionReady = true
		} else if r.currentTurnID() == player.ID {
			if next, ok := r.advanceTurn(); ok {
				s := next.summary()
				res.NextPlayer = &s
				res.TurnOrder = append([]string(nil), r.turnOrder...)
			}
		}
	case PhaseDiscussion:
		res.VotesComplete = r.allActiveVoted()
	}

	return res, true
}

// Snapshot 是補發給重連玩家的房間狀態投影，卡片不含提示詞
type Snapshot struct {
	RoomID      string             `json:"roomId"`
	Phase       Phase              `json:"phase"`
	Round       int                `json:"round"`
	Players     []Player           `json:"players"`
	Eliminated  []EliminatedPlayer `json:"eliminatedPlayers"`
	Cards       []Card             `json:"cards"`
	Votes       []Vote             `json:"votes"`
	TurnOrder   []string           `json:"turnOrder"`
	CurrentTurn int                `json:"currentTurn"`
	HostID      string             `json:"hostId"`
}

// Snapshot 回傳目前房間狀態的唯讀副本
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	cards := make([]Card, 0, len(r.cards))
	for _, c := range r.cards {
		cards = append(cards, c.Public())
	}

	return Snapshot{
		RoomID:      r.id,
		Phase:       r.phase,
		Round:       r.round,
		Players:     players,
		Eliminated:  append([]EliminatedPlayer(nil), r.eliminated...),
		Cards:       cards,
		Votes:       append([]Vote(nil), r.votes...),
		TurnOrder:   append([]string(nil), r.turnOrder...),
		CurrentTurn: r.currentTurn,
		HostID:      r.hostID,
	}
}

// Roster 回傳目前在線玩家的副本
func (r *Room) Roster() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	return players
}

// ID 回傳房間識別碼
func (r *Room) ID() string { return r.id }

// Phase 回傳目前的階段
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Round 回傳目前的回合數
func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.round
}

// HostID 回傳目前房主的穩定 ID，名冊為空時為空字串
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// ActiveCount 回傳在線且未被淘汰的玩家數
func (r *Room) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeCount()
}

// Empty 回傳房間是否沒有任何在線玩家
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// CurrentPlayer 回傳目前輪到的玩家
func (r *Room) CurrentPlayer() (PlayerSummary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPlayer(r.currentTurnID())
	if p == nil {
		return PlayerSummary{}, false
	}
	return p.summary(), true
}

// AllActiveVoted 回傳是否所有在線未淘汰的玩家都已投票
func (r *Room) AllActiveVoted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allActiveVoted()
}

// ---- 以下是內部輔助函式，呼叫前必須已持有 r.mu ----

// setHost 指定新的房主，並同步清掉其他人與持久記錄上的房主旗標
func (r *Room) setHost(player *Player) {
	for _, p := range r.players {
		p.IsHost = p == player
	}
	for _, rec := range r.everJoined {
		rec.IsHost = rec.ID == player.ID
	}
	r.hostID = player.ID
}

// flushRecord 把玩家的即時狀態寫回持久名冊
func (r *Room) flushRecord(p *Player) {
	rec, ok := r.everJoined[p.Username]
	if !ok {
		return
	}
	rec.Word = p.Word
	rec.IsIntruder = p.IsIntruder
	rec.IsEliminated = p.IsEliminated
	rec.IsHost = p.IsHost
}

func (r *Room) findPlayer(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) activeCount() int {
	n := 0
	for _, p := range r.players {
		if !p.IsEliminated {
			n++
		}
	}
	return n
}

func (r *Room) activePlayers() []*Player {
	active := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

func (r *Room) hasCard(playerID string) bool {
	for _, c := range r.cards {
		if c.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (r *Room) hasVote(voterID string) bool {
	for _, v := range r.votes {
		if v.VoterID == voterID {
			return true
		}
	}
	return false
}

func (r *Room) allActiveSubmitted() bool {
	for _, p := range r.players {
		if !p.IsEliminated && !p.HasSubmitted {
			return false
		}
	}
	return r.activeCount() > 0
}

func (r *Room) allActiveVoted() bool {
	for _, p := range r.players {
		if !p.IsEliminated && !p.HasVoted {
			return false
		}
	}
	return r.activeCount() > 0
}

// resetLocked 清掉上一場遊戲的狀態，保留名冊與玩家身份
func (r *Room) resetLocked() {
	r.cards = nil
	r.votes = nil
	r.turnOrder = nil
	r.currentTurn = 0
	r.round = 1
	r.eliminated = nil
	r.phase = PhaseWaiting

	for _, p := range r.players {
		p.Word = ""
		p.IsIntruder = false
		p.IsEliminated = false
		p.HasSubmitted = false
		p.HasVoted = false
	}
	for _, rec := range r.everJoined {
		rec.Word = ""
		rec.IsIntruder = false
		rec.IsEliminated = false
	}
}
