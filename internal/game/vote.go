package game

// Vote 記錄一票：投票者與目標（玩家 ID 或 skip 哨兵值）
type Vote struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId"`
}

// RoundResult 是一次投票結算的完整結果。
// 臥底身分在每次結算都會揭曉（採用後期版本的規則）
type RoundResult struct {
	Votes                 []Vote             `json:"votes"`
	VoteCount             map[string]int     `json:"voteCount"`
	Eliminated            *EliminatedPlayer  `json:"eliminatedPlayer,omitempty"`
	Intruder              PlayerSummary      `json:"intruder"`
	Outcome               Outcome            `json:"outcome"`
	GameOver              bool               `json:"isGameOver"`
	Winner                string             `json:"winner,omitempty"` // "intruder" 或 "non-intruders"
	RemainingPlayers      int                `json:"remainingPlayers"`
	RemainingNonIntruders int                `json:"remainingNonIntruders"`
	RevealedCards         []Card             `json:"revealedCards"`
	EliminatedHistory     []EliminatedPlayer `json:"eliminatedPlayers"`
}

// RecordVote 記錄一位玩家的投票。
// 被淘汰、未知或已投票的玩家會被拒絕且不改動任何狀態；
// 目標必須是存活的在線玩家或 skip
func (r *Room) RecordVote(voterID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseDiscussion {
		return ErrNoVoteInProgress
	}
	voter := r.findPlayer(voterID)
	if voter == nil {
		return ErrUnknownPlayer
	}
	if voter.IsEliminated {
		return ErrPlayerEliminated
	}
	if voter.HasVoted || r.hasVote(voterID) {
		return ErrAlreadyVoted
	}
	if targetID != SkipVote {
		target := r.findPlayer(targetID)
		if target == nil || target.IsEliminated {
			return ErrInvalidTarget
		}
	}

	r.votes = append(r.votes, Vote{VoterID: voterID, TargetID: targetID})
	voter.HasVoted = true
	return nil
}

// Votes 回傳目前已記錄投票的副本
func (r *Room) Votes() []Vote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Vote(nil), r.votes...)
}

// ResolveVotes 結算本回合的投票，規則依序為：
//  1. 沒有任何票、或只有 skip 有票 → 沒人被淘汰（skipped）
//  2. skip 的票數並列最高 → 沒人被淘汰（skipped）
//  3. 多位玩家並列最高票 → 沒人被淘汰（tie）
//  4. 唯一最高票玩家被淘汰，接著檢查勝利條件：
//     臥底被淘汰 → 平民獲勝；存活平民 ≤ 1 → 臥底獲勝
//
// 只能在 DISCUSSION 階段呼叫（逾時強制結算也走這裡）。
// 同一組投票永遠產生同樣的結果
func (r *Room) ResolveVotes() (RoundResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseDiscussion {
		return RoundResult{}, ErrNoVoteInProgress
	}
	if r.activeCount() == 0 {
		return RoundResult{}, ErrNoActivePlayers
	}

	voteCount := make(map[string]int)
	for _, v := range r.votes {
		voteCount[v.TargetID]++
	}

	result := RoundResult{
		Votes:         append([]Vote(nil), r.votes...),
		VoteCount:     voteCount,
		Intruder:      r.intruderSummary(),
		RevealedCards: append([]Card(nil), r.cards...),
	}

	maxVotes := 0
	for _, n := range voteCount {
		if n > maxVotes {
			maxVotes = n
		}
	}

	var suspects []string
	for target, n := range voteCount {
		if target != SkipVote && n == maxVotes {
			suspects = append(suspects, target)
		}
	}

	switch {
	case maxVotes == 0 || len(suspects) == 0:
		result.Outcome = OutcomeSkipped
	case voteCount[SkipVote] == maxVotes:
		result.Outcome = OutcomeSkipped
	case len(suspects) > 1:
		result.Outcome = OutcomeTie
	default:
		r.eliminate(suspects[0], &result)
	}

	result.RemainingPlayers = r.activeCount()
	result.RemainingNonIntruders = r.remainingNonIntruders()
	result.EliminatedHistory = append([]EliminatedPlayer(nil), r.eliminated...)

	if result.GameOver {
		r.phase = PhaseEnded
	} else {
		r.phase = PhaseRoundResult
	}
	return result, nil
}

// ---- 內部輔助，呼叫前必須持有 r.mu ----

// eliminate 淘汰指定玩家並判定勝負
func (r *Room) eliminate(playerID string, result *RoundResult) {
	player := r.findPlayer(playerID)
	if player == nil {
		// 得票最高者已斷線：仍然淘汰其持久記錄
		for _, rec := range r.everJoined {
			if rec.ID == playerID {
				rec.IsEliminated = true
				snapshot := EliminatedPlayer{ID: rec.ID, Username: rec.Username, WasIntruder: rec.IsIntruder}
				r.eliminated = append(r.eliminated, snapshot)
				result.Outcome = OutcomeEliminated
				result.Eliminated = &snapshot
				r.checkWin(snapshot, result)
				return
			}
		}
		result.Outcome = OutcomeSkipped
		return
	}

	player.IsEliminated = true
	r.flushRecord(player)
	snapshot := EliminatedPlayer{ID: player.ID, Username: player.Username, WasIntruder: player.IsIntruder}
	r.eliminated = append(r.eliminated, snapshot)
	result.Outcome = OutcomeEliminated
	result.Eliminated = &snapshot
	r.checkWin(snapshot, result)
}

func (r *Room) checkWin(eliminated EliminatedPlayer, result *RoundResult) {
	if eliminated.WasIntruder {
		result.GameOver = true
		result.Winner = "non-intruders"
		return
	}
	if r.remainingNonIntruders() <= 1 {
		result.GameOver = true
		result.Winner = "intruder"
	}
}

func (r *Room) remainingNonIntruders() int {
	n := 0
	for _, p := range r.players {
		if !p.IsEliminated && !p.IsIntruder {
			n++
		}
	}
	return n
}

// intruderSummary 找出臥底的身分，斷線時從持久名冊找
func (r *Room) intruderSummary() PlayerSummary {
	for _, p := range r.players {
		if p.IsIntruder {
			return p.summary()
		}
	}
	for _, rec := range r.everJoined {
		if rec.IsIntruder {
			return PlayerSummary{ID: rec.ID, Username: rec.Username}
		}
	}
	return PlayerSummary{}
}
