package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startedRoom 建立一個已開始遊戲的房間，第一位玩家是房主
func startedRoom(t *testing.T, names ...string) (*Room, StartInfo) {
	t.Helper()
	r := newTestRoom()
	joinAll(t, r, names...)
	info, err := r.StartGame(r.HostID(), "plage", "piscine")
	require.NoError(t, err)
	return r, info
}

// submitAll 依出牌順序提交所有卡片，直到進入討論階段
func submitAll(t *testing.T, r *Room) {
	t.Helper()
	for {
		cur, ok := r.CurrentPlayer()
		require.True(t, ok)
		outcome, err := r.RecordCard(cur.ID, "prompt de "+cur.Username, "https://img/"+cur.ID)
		require.NoError(t, err)
		if outcome.DiscussionStarted {
			return
		}
	}
}

// splitRoles 從在線名冊分出臥底與平民
func splitRoles(t *testing.T, r *Room) (Player, []Player) {
	t.Helper()
	var intruder Player
	var others []Player
	for _, p := range r.Roster() {
		if p.IsIntruder {
			intruder = p
		} else {
			others = append(others, p)
		}
	}
	require.NotEmpty(t, intruder.ID)
	return intruder, others
}

func TestStartGameAssignsExactlyOneIntruder(t *testing.T) {
	r, info := startedRoom(t, "alice", "bob", "carol", "dave")

	intruders := 0
	for _, p := range info.Players {
		if p.IsIntruder {
			intruders++
			assert.Equal(t, "piscine", p.Word)
		} else {
			assert.Equal(t, "plage", p.Word)
		}
	}
	assert.Equal(t, 1, intruders)
	assert.Equal(t, PhasePrompt, r.Phase())
	assert.Len(t, info.TurnOrder, 4)
	assert.Equal(t, info.TurnOrder[0], info.First.ID)
}

func TestStartGameRejectsNonHost(t *testing.T) {
	r := newTestRoom()
	players := joinAll(t, r, "alice", "bob", "carol")

	_, err := r.StartGame(players["bob"].ID, "plage", "piscine")
	assert.ErrorIs(t, err, ErrNotHost)
	assert.Equal(t, PhaseWaiting, r.Phase())
}

func TestStartGameRejectsSinglePlayer(t *testing.T) {
	r := newTestRoom()
	joinAll(t, r, "alice")

	_, err := r.StartGame(r.HostID(), "plage", "piscine")
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestSubmitOutOfTurnRejected(t *testing.T) {
	r, info := startedRoom(t, "alice", "bob", "carol")

	second := info.TurnOrder[1]
	_, err := r.RecordCard(second, "trop tôt", "https://img/x")
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestResubmitRejected(t *testing.T) {
	r, info := startedRoom(t, "alice", "bob", "carol")

	first := info.TurnOrder[0]
	_, err := r.RecordCard(first, "un chat", "https://img/1")
	require.NoError(t, err)

	_, err = r.RecordCard(first, "encore", "https://img/2")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitBeforeGameStarts(t *testing.T) {
	r := newTestRoom()
	players := joinAll(t, r, "alice", "bob")

	err := r.CanSubmitPrompt(players["alice"].ID)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestLastSubmissionStartsDiscussion(t *testing.T) {
	r, info := startedRoom(t, "alice", "bob", "carol")

	for i, id := range info.TurnOrder {
		outcome, err := r.RecordCard(id, "prompt", "https://img/1")
		require.NoError(t, err)
		if i < len(info.TurnOrder)-1 {
			assert.False(t, outcome.DiscussionStarted)
			require.NotNil(t, outcome.NextPlayer)
			assert.Equal(t, info.TurnOrder[i+1], outcome.NextPlayer.ID)
		} else {
			assert.True(t, outcome.DiscussionStarted)
			assert.Nil(t, outcome.NextPlayer)
		}
	}
	assert.Equal(t, PhaseDiscussion, r.Phase())
}

func TestPrepareNewRoundKeepsIntruderRole(t *testing.T) {
	r, _ := startedRoom(t, "alice", "bob", "carol", "dave")
	submitAll(t, r)
	intruder, others := splitRoles(t, r)

	// 全部投給同一位平民，讓遊戲繼續
	for _, p := range r.Roster() {
		require.NoError(t, r.RecordVote(p.ID, others[0].ID))
	}
	result, err := r.ResolveVotes()
	require.NoError(t, err)
	require.False(t, result.GameOver)
	require.Equal(t, PhaseRoundResult, r.Phase())

	info, err := r.PrepareNewRound("café", "thé")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Round)
	assert.Len(t, info.TurnOrder, 3)
	assert.NotContains(t, info.TurnOrder, others[0].ID)
	require.Len(t, info.Eliminated, 1)
	assert.Equal(t, others[0].ID, info.Eliminated[0].ID)

	for _, p := range info.Players {
		if p.ID == intruder.ID {
			assert.True(t, p.IsIntruder)
			assert.Equal(t, "thé", p.Word)
		} else {
			assert.False(t, p.IsIntruder)
			assert.Equal(t, "café", p.Word)
		}
		assert.False(t, p.HasSubmitted)
		assert.False(t, p.HasVoted)
	}
}

func TestPrepareNewRoundOutsideResultPhase(t *testing.T) {
	r, _ := startedRoom(t, "alice", "bob", "carol")

	_, err := r.PrepareNewRound("café", "thé")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestEliminatedPlayerCannotSubmit(t *testing.T) {
	r, _ := startedRoom(t, "alice", "bob", "carol", "dave")
	submitAll(t, r)
	_, others := splitRoles(t, r)

	for _, p := range r.Roster() {
		require.NoError(t, r.RecordVote(p.ID, others[0].ID))
	}
	_, err := r.ResolveVotes()
	require.NoError(t, err)
	_, err = r.PrepareNewRound("café", "thé")
	require.NoError(t, err)

	err = r.CanSubmitPrompt(others[0].ID)
	assert.ErrorIs(t, err, ErrPlayerEliminated)
}

func TestRestartResetsFinishedGame(t *testing.T) {
	r, _ := startedRoom(t, "alice", "bob", "carol")
	submitAll(t, r)
	intruder, _ := splitRoles(t, r)

	for _, p := range r.Roster() {
		require.NoError(t, r.RecordVote(p.ID, intruder.ID))
	}
	result, err := r.ResolveVotes()
	require.NoError(t, err)
	require.True(t, result.GameOver)
	require.Equal(t, PhaseEnded, r.Phase())

	// 房主直接重新開始，上一場的狀態要完全清掉
	info, err := r.StartGame(r.HostID(), "vélo", "moto")
	require.NoError(t, err)
	assert.Equal(t, PhasePrompt, r.Phase())
	assert.Equal(t, 1, r.Round())
	assert.Len(t, info.TurnOrder, 3)

	snap := r.Snapshot()
	assert.Empty(t, snap.Cards)
	assert.Empty(t, snap.Votes)
	assert.Empty(t, snap.Eliminated)
}
