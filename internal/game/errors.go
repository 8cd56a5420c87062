package game

import "errors"

// 狀態機操作可能回傳的驗證與授權錯誤。
// 所有錯誤都在操作邊界回報，不會留下部分修改的房間狀態。
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrDuplicateName    = errors.New("display name already taken")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrPlayerEliminated = errors.New("player is eliminated")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrAlreadyVoted     = errors.New("already voted this round")
	ErrInvalidTarget    = errors.New("vote target is not an active player")
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrNoVoteInProgress = errors.New("no vote in progress")
	ErrNoActivePlayers  = errors.New("no active players to resolve")
)
