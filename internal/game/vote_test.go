package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discussionRoom 建立一個已進入討論階段的房間
func discussionRoom(t *testing.T, names ...string) (*Room, Player, []Player) {
	t.Helper()
	r, _ := startedRoom(t, names...)
	submitAll(t, r)
	intruder, others := splitRoles(t, r)
	return r, intruder, others
}

func TestResolveVotesOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		players      []string
		votes        func(intruder Player, others []Player) map[string]string // voterID -> targetID
		wantOutcome  Outcome
		wantGameOver bool
		wantWinner   string
	}{
		{
			name:    "no votes at all skips the round",
			players: []string{"alice", "bob", "carol"},
			votes: func(Player, []Player) map[string]string {
				return nil
			},
			wantOutcome: OutcomeSkipped,
		},
		{
			name:    "unanimous skip",
			players: []string{"alice", "bob", "carol"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  SkipVote,
					others[0].ID: SkipVote,
					others[1].ID: SkipVote,
				}
			},
			wantOutcome: OutcomeSkipped,
		},
		{
			name:    "skip tying the top vote skips the round",
			players: []string{"alice", "bob", "carol", "dave"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  SkipVote,
					others[0].ID: SkipVote,
					others[1].ID: intruder.ID,
					others[2].ID: intruder.ID,
				}
			},
			wantOutcome: OutcomeSkipped,
		},
		{
			name:    "two-way tie eliminates nobody",
			players: []string{"alice", "bob", "carol", "dave"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  others[0].ID,
					others[1].ID: others[0].ID,
					others[0].ID: intruder.ID,
					others[2].ID: intruder.ID,
				}
			},
			wantOutcome: OutcomeTie,
		},
		{
			name:    "lone top vote eliminates and game continues",
			players: []string{"alice", "bob", "carol", "dave"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  others[0].ID,
					others[0].ID: SkipVote,
					others[1].ID: others[0].ID,
					others[2].ID: others[0].ID,
				}
			},
			wantOutcome: OutcomeEliminated,
		},
		{
			name:    "eliminating the intruder ends the game",
			players: []string{"alice", "bob", "carol"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  others[0].ID,
					others[0].ID: intruder.ID,
					others[1].ID: intruder.ID,
				}
			},
			wantOutcome:  OutcomeEliminated,
			wantGameOver: true,
			wantWinner:   "non-intruders",
		},
		{
			name:    "one non-intruder left means the intruder wins",
			players: []string{"alice", "bob", "carol"},
			votes: func(intruder Player, others []Player) map[string]string {
				return map[string]string{
					intruder.ID:  others[0].ID,
					others[0].ID: intruder.ID,
					others[1].ID: others[0].ID,
				}
			},
			wantOutcome:  OutcomeEliminated,
			wantGameOver: true,
			wantWinner:   "intruder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, intruder, others := discussionRoom(t, tt.players...)

			for voter, target := range tt.votes(intruder, others) {
				require.NoError(t, r.RecordVote(voter, target))
			}

			result, err := r.ResolveVotes()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantGameOver, result.GameOver)
			assert.Equal(t, tt.wantWinner, result.Winner)
			assert.Equal(t, intruder.ID, result.Intruder.ID)

			if tt.wantOutcome == OutcomeEliminated {
				require.NotNil(t, result.Eliminated)
			} else {
				assert.Nil(t, result.Eliminated)
				assert.Equal(t, len(tt.players), result.RemainingPlayers)
			}
			if tt.wantGameOver {
				assert.Equal(t, PhaseEnded, r.Phase())
			} else {
				assert.Equal(t, PhaseRoundResult, r.Phase())
			}
		})
	}
}

func TestResolveRevealsCardsWithPrompts(t *testing.T) {
	r, _, _ := discussionRoom(t, "alice", "bob", "carol")

	result, err := r.ResolveVotes()
	require.NoError(t, err)
	require.Len(t, result.RevealedCards, 3)
	for _, c := range result.RevealedCards {
		assert.NotEmpty(t, c.Prompt)
		assert.NotEmpty(t, c.ImageURL)
	}
}

func TestRecordVoteRejectsDuplicate(t *testing.T) {
	r, intruder, others := discussionRoom(t, "alice", "bob", "carol")

	require.NoError(t, r.RecordVote(others[0].ID, intruder.ID))
	err := r.RecordVote(others[0].ID, SkipVote)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Len(t, r.Votes(), 1)
}

func TestRecordVoteRejectsInvalidTarget(t *testing.T) {
	r, _, others := discussionRoom(t, "alice", "bob", "carol")

	err := r.RecordVote(others[0].ID, "no-such-player")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestRecordVoteRejectsEliminatedVoter(t *testing.T) {
	r, _, others := discussionRoom(t, "alice", "bob", "carol", "dave")

	for _, p := range r.Roster() {
		require.NoError(t, r.RecordVote(p.ID, others[0].ID))
	}
	_, err := r.ResolveVotes()
	require.NoError(t, err)
	_, err = r.PrepareNewRound("café", "thé")
	require.NoError(t, err)
	submitAll(t, r)

	err = r.RecordVote(others[0].ID, SkipVote)
	assert.ErrorIs(t, err, ErrPlayerEliminated)
}

func TestRecordVoteOutsideDiscussion(t *testing.T) {
	r, info := startedRoom(t, "alice", "bob", "carol")

	err := r.RecordVote(info.TurnOrder[0], SkipVote)
	assert.ErrorIs(t, err, ErrNoVoteInProgress)
}

func TestResolveVotesTwiceRejected(t *testing.T) {
	r, _, _ := discussionRoom(t, "alice", "bob", "carol")

	_, err := r.ResolveVotes()
	require.NoError(t, err)

	_, err = r.ResolveVotes()
	assert.ErrorIs(t, err, ErrNoVoteInProgress)
}

func TestAllActiveVoted(t *testing.T) {
	r, intruder, others := discussionRoom(t, "alice", "bob", "carol")

	assert.False(t, r.AllActiveVoted())
	require.NoError(t, r.RecordVote(intruder.ID, SkipVote))
	require.NoError(t, r.RecordVote(others[0].ID, SkipVote))
	assert.False(t, r.AllActiveVoted())
	require.NoError(t, r.RecordVote(others[1].ID, SkipVote))
	assert.True(t, r.AllActiveVoted())
}
