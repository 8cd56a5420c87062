package game

// Card 是一張提示卡：玩家提交的提示詞與產生的圖片。
// 提示詞只保留在伺服器端，結算揭曉前不會廣播給其他玩家
type Card struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Prompt   string `json:"prompt,omitempty"`
	ImageURL string `json:"imageUrl"`
}

// Public 回傳去掉提示詞的卡片投影，用於對房間廣播
func (c Card) Public() Card {
	c.Prompt = ""
	return c
}

// StartInfo 是開始遊戲後需要發送的資訊：
// 每位玩家的秘密詞（私下發送）與第一輪的出牌順序
type StartInfo struct {
	Players   []Player
	TurnOrder []string
	First     PlayerSummary
}

// StartGame 開始（或重新開始）一場遊戲。
// 只有房主可以開始；若上一場已結束或被放棄會先重置狀態。
// 隨機抽一位玩家當臥底並分配詞語，其他人拿主詞，
// 然後洗出出牌順序並進入 PROMPT 階段。
// 人數下限由呼叫端（服務層）檢查，這裡只做防禦性的最低保護
func (r *Room) StartGame(requesterID, mainWord, intruderWord string) (StartInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.hostID {
		return StartInfo{}, ErrNotHost
	}
	if len(r.players) < 2 {
		return StartInfo{}, ErrNotEnoughPlayers
	}

	if r.phase != PhaseWaiting {
		r.resetLocked()
	}

	intruderIdx := r.rng.Intn(len(r.players))
	for i, p := range r.players {
		p.IsIntruder = i == intruderIdx
		if p.IsIntruder {
			p.Word = intruderWord
		} else {
			p.Word = mainWord
		}
		p.HasSubmitted = false
		p.HasVoted = false
	}
	r.syncRecords()
	r.shuffleTurnOrder()
	r.phase = PhasePrompt

	return r.startInfo(), nil
}

// CardOutcome 描述一次成功提交後房間的走向：
// 換下一位玩家出牌，或全部到齊進入討論
type CardOutcome struct {
	Card              Card
	NextPlayer        *PlayerSummary
	TurnOrder         []string
	DiscussionStarted bool
}

// CanSubmitPrompt 檢查玩家目前是否可以提交提示詞。
// 服務層在呼叫圖片生成之前先做這個便宜的檢查，
// 避免替根本輪不到的玩家花錢生圖
func (r *Room) CanSubmitPrompt(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canSubmitPrompt(playerID)
}

// RecordCard 記錄一張生成完成的卡片。
// 圖片生成是核心唯一的暫停點，期間房間狀態可能已經改變，
// 所以這裡會重新驗證一次；過期的提交會被拒絕而不是默默套用
func (r *Room) RecordCard(playerID, prompt, imageURL string) (CardOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canSubmitPrompt(playerID); err != nil {
		return CardOutcome{}, err
	}

	player := r.findPlayer(playerID)
	card := Card{
		PlayerID: player.ID,
		Username: player.Username,
		Prompt:   prompt,
		ImageURL: imageURL,
	}
	r.cards = append(r.cards, card)
	player.HasSubmitted = true

	outcome := CardOutcome{Card: card}
	if r.allActiveSubmitted() {
		r.phase = PhaseDiscussion
		outcome.DiscussionStarted = true
	} else if next, ok := r.advanceTurn(); ok {
		s := next.summary()
		outcome.NextPlayer = &s
		outcome.TurnOrder = append([]string(nil), r.turnOrder...)
	}
	return outcome, nil
}

// RoundInfo 是新回合開始時要廣播的資訊
type RoundInfo struct {
	Round      int
	Players    []Player // 含新詞語，私下逐一發送
	Eliminated []EliminatedPlayer
	TurnOrder  []string
	First      PlayerSummary
}

// PrepareNewRound 在結算後開始下一回合：
// 清掉卡片與投票、重置旗標、重新洗出存活玩家的出牌順序，
// 並重新發詞 — 臥底身分保留，但詞語可能換成新的一組
func (r *Room) PrepareNewRound(mainWord, intruderWord string) (RoundInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRoundResult {
		return RoundInfo{}, ErrWrongPhase
	}
	if r.activeCount() == 0 {
		return RoundInfo{}, ErrNoActivePlayers
	}

	r.round++
	r.cards = nil
	r.votes = nil

	for _, p := range r.players {
		if p.IsEliminated {
			continue
		}
		p.HasSubmitted = false
		p.HasVoted = false
		if p.IsIntruder {
			p.Word = intruderWord
		} else {
			p.Word = mainWord
		}
	}
	r.syncRecords()
	r.shuffleTurnOrder()
	r.phase = PhasePrompt

	active := r.activePlayers()
	players := make([]Player, 0, len(active))
	for _, p := range active {
		players = append(players, *p)
	}

	return RoundInfo{
		Round:      r.round,
		Players:    players,
		Eliminated: append([]EliminatedPlayer(nil), r.eliminated...),
		TurnOrder:  append([]string(nil), r.turnOrder...),
		First:      r.firstSummary(),
	}, nil
}

// ---- 內部輔助，呼叫前必須持有 r.mu ----

func (r *Room) canSubmitPrompt(playerID string) error {
	if r.phase != PhasePrompt {
		return ErrWrongPhase
	}
	player := r.findPlayer(playerID)
	if player == nil {
		return ErrUnknownPlayer
	}
	if player.IsEliminated {
		return ErrPlayerEliminated
	}
	if player.HasSubmitted || r.hasCard(playerID) {
		return ErrAlreadySubmitted
	}
	if r.currentTurnID() != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (r *Room) currentTurnID() string {
	if r.currentTurn < 0 || r.currentTurn >= len(r.turnOrder) {
		return ""
	}
	return r.turnOrder[r.currentTurn]
}

// advanceTurn 把回合指標移到下一位還沒出牌的在線玩家。
// 先往後找，找不到再從頭掃一次（涵蓋重連後被跳過的玩家）；
// 完全沒有待出牌的玩家時回傳 false
func (r *Room) advanceTurn() (*Player, bool) {
	pending := func(id string) *Player {
		p := r.findPlayer(id)
		if p == nil || p.IsEliminated || p.HasSubmitted {
			return nil
		}
		return p
	}

	for i := r.currentTurn + 1; i < len(r.turnOrder); i++ {
		if p := pending(r.turnOrder[i]); p != nil {
			r.currentTurn = i
			return p, true
		}
	}
	for i := 0; i <= r.currentTurn && i < len(r.turnOrder); i++ {
		if p := pending(r.turnOrder[i]); p != nil {
			r.currentTurn = i
			return p, true
		}
	}
	return nil, false
}

// shuffleTurnOrder 以目前存活的在線玩家重洗出牌順序
func (r *Room) shuffleTurnOrder() {
	active := r.activePlayers()
	order := make([]string, 0, len(active))
	for _, p := range active {
		order = append(order, p.ID)
	}
	r.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	r.turnOrder = order
	r.currentTurn = 0
}

// syncRecords 把所有在線玩家的狀態同步回持久名冊
func (r *Room) syncRecords() {
	for _, p := range r.players {
		r.flushRecord(p)
	}
}

func (r *Room) firstSummary() PlayerSummary {
	if p := r.findPlayer(r.currentTurnID()); p != nil {
		return p.summary()
	}
	return PlayerSummary{}
}

func (r *Room) startInfo() StartInfo {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	return StartInfo{
		Players:   players,
		TurnOrder: append([]string(nil), r.turnOrder...),
		First:     r.firstSummary(),
	}
}
