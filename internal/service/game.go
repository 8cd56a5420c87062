package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"intruder_web/internal/game"
	"intruder_web/internal/imagegen"
	"intruder_web/internal/models"
	"intruder_web/internal/storage"
	"intruder_web/internal/words"
	"intruder_web/pkg/config"
)

// RoomNotifier 把事件送到房間的觀察者。
// 由 WebSocketManager 實作；測試時注入記錄用的假實作
type RoomNotifier interface {
	BroadcastToRoom(roomID string, message models.Message)
	SendToPlayer(roomID, playerID string, message models.Message)
}

// GameService 把狀態機、詞庫、圖片閘道與房間註冊表組合起來，
// 對傳輸層提供完整的遊戲操作
type GameService struct {
	store    *storage.RoomStore
	supplier *words.Supplier
	images   imagegen.Generator
	notifier RoomNotifier
	cfg      config.GameConfig
}

// NewGameService 創建遊戲服務
func NewGameService(store *storage.RoomStore, supplier *words.Supplier, images imagegen.Generator, notifier RoomNotifier, cfg config.GameConfig) *GameService {
	return &GameService{
		store:    store,
		supplier: supplier,
		images:   images,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Join 把一條連線加入房間（不存在就建立）。
// 回傳加入結果；名冊廣播由呼叫端在連線註冊完成後觸發，
// 加入者本人才收得到
func (s *GameService) Join(roomID, connID, username string) (game.JoinResult, error) {
	room := s.store.GetOrCreate(roomID)
	res, err := room.Join(connID, username)
	if err != nil {
		return game.JoinResult{}, err
	}
	s.store.MarkOccupied(roomID)
	log.Info().Str("room", roomID).Str("player", res.Player.ID).
		Str("username", username).Bool("rejoined", res.Rejoined).Msg("player joined")
	return res, nil
}

// AnnounceRoster 廣播房間目前的在線名冊
func (s *GameService) AnnounceRoster(roomID string) {
	if room, ok := s.store.Get(roomID); ok {
		s.announceRoster(room)
	}
}

// SendCatchUp 私下補發房間目前狀態給重連的玩家，
// 包含他自己的秘密詞（遊戲進行中才需要）
func (s *GameService) SendCatchUp(roomID string, player game.Player) {
	room, ok := s.store.Get(roomID)
	if !ok {
		return
	}
	snapshot := room.Snapshot()
	if snapshot.Phase == game.PhaseWaiting {
		return
	}
	s.notifier.SendToPlayer(roomID, player.ID,
		models.NewMessage(models.TypeRejoinState, snapshot))
	if player.Word != "" {
		s.notifier.SendToPlayer(roomID, player.ID,
			models.NewMessage(models.TypeAssignRole, models.RolePayload{
				PlayerID: player.ID,
				Word:     player.Word,
			}))
	}
}

// StartGame 由房主開始（或重新開始）遊戲。
// 人數下限在這裡檢查，狀態機本身只做防禦性保護
func (s *GameService) StartGame(roomID, playerID string) error {
	room, ok := s.store.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}
	if room.ActiveCount() < s.cfg.MinPlayers {
		return game.ErrNotEnoughPlayers
	}

	theme := s.supplier.Pick()
	info, err := room.StartGame(playerID, theme.Word, theme.Intruder)
	if err != nil {
		return err
	}
	log.Info().Str("room", roomID).Int("players", len(info.Players)).Msg("game started")

	// 秘密詞逐一私下發送，不走房間廣播
	for _, p := range info.Players {
		s.notifier.SendToPlayer(roomID, p.ID,
			models.NewMessage(models.TypeAssignRole, models.RolePayload{PlayerID: p.ID, Word: p.Word}))
	}
	s.notifier.BroadcastToRoom(roomID,
		models.NewMessage(models.TypeStartTurn, models.TurnPayload{
			CurrentPlayer: info.First,
			Order:         info.TurnOrder,
		}))
	return nil
}

// SubmitPrompt 處理玩家的提示詞：先驗證輪次，再呼叫圖片生成，
// 成功才記錄卡片並推進回合。生成期間房間不會被鎖住。
// 生成失敗時的政策（見設定 placeholder_on_failure）：
// 預設拒絕提交讓玩家重試；開啟時退回佔位圖片並視為成功
func (s *GameService) SubmitPrompt(ctx context.Context, roomID, playerID, prompt string) error {
	room, ok := s.store.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}
	// 生圖前先做便宜的檢查，輪不到的玩家不花這個錢
	if err := room.CanSubmitPrompt(playerID); err != nil {
		return err
	}

	imageURL, err := s.images.Generate(ctx, prompt)
	if err != nil {
		if !s.cfg.PlaceholderOnFailure {
			// 不記卡片、不推進回合，失敗只回報給提交者本人
			return err
		}
		imageURL, _ = imagegen.PlaceholderGenerator{}.Generate(ctx, prompt)
		log.Warn().Err(err).Str("room", roomID).Str("player", playerID).
			Msg("image generation failed, using placeholder")
	}

	// 等待生成期間狀態可能已變，RecordCard 會重新驗證
	outcome, err := room.RecordCard(playerID, prompt, imageURL)
	if err != nil {
		return err
	}

	// 對外廣播的卡片不含提示詞
	s.notifier.BroadcastToRoom(roomID,
		models.NewMessage(models.TypeImageBroadcast, outcome.Card.Public()))

	if outcome.DiscussionStarted {
		s.notifier.BroadcastToRoom(roomID,
			models.NewMessage(models.TypeStartDiscussion, struct{}{}))
	} else if outcome.NextPlayer != nil {
		s.notifier.BroadcastToRoom(roomID,
			models.NewMessage(models.TypeStartTurn, models.TurnPayload{
				CurrentPlayer: *outcome.NextPlayer,
				Order:         outcome.TurnOrder,
			}))
	}
	return nil
}

// SubmitVote 記錄一票並廣播目前票數；
// 所有存活玩家都投完票就直接結算
func (s *GameService) SubmitVote(roomID, playerID, targetID string) error {
	room, ok := s.store.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}
	if err := room.RecordVote(playerID, targetID); err != nil {
		return err
	}

	s.notifier.BroadcastToRoom(roomID,
		models.NewMessage(models.TypeUpdateVotes, room.Votes()))

	if room.AllActiveVoted() {
		if err := s.resolveVotes(room, false); err != nil && !errors.Is(err, game.ErrNoVoteInProgress) {
			return err
		}
	}
	return nil
}

// ForceVoteEnd 逾時強制結算，不管還有多少人沒投票。
// 逾時計時器由客戶端／傳輸層擁有，這裡只負責結算
func (s *GameService) ForceVoteEnd(roomID string) error {
	room, ok := s.store.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}
	return s.resolveVotes(room, true)
}

// Chat 純轉發聊天訊息，不經過狀態機
func (s *GameService) Chat(roomID, username, message string) {
	s.notifier.BroadcastToRoom(roomID,
		models.NewMessage(models.TypeChatMessage, models.ChatPayload{
			Username: username,
			Message:  message,
		}))
}

// HandleDisconnect 處理玩家斷線：更新名冊、必要時轉移房主，
// 並依斷線當下的階段決定是否推進回合或結算投票
func (s *GameService) HandleDisconnect(roomID, connID string) {
	room, ok := s.store.Get(roomID)
	if !ok {
		return
	}
	res, ok := room.Disconnect(connID)
	if !ok {
		return
	}
	log.Info().Str("room", roomID).Str("player", res.Player.ID).
		Str("username", res.Player.Username).Msg("player disconnected")

	if res.RoomEmpty {
		// 保留一段寬限期讓玩家重連，逾期由掃描回收
		s.store.MarkEmpty(roomID)
		return
	}

	s.announceRoster(room)

	if res.HostChanged && res.NewHost != nil {
		log.Info().Str("room", roomID).Str("player", res.NewHost.ID).Msg("host migrated")
	}
	if res.DiscussionReady {
		s.notifier.BroadcastToRoom(roomID,
			models.NewMessage(models.TypeStartDiscussion, struct{}{}))
	} else if res.NextPlayer != nil {
		s.notifier.BroadcastToRoom(roomID,
			models.NewMessage(models.TypeStartTurn, models.TurnPayload{
				CurrentPlayer: *res.NextPlayer,
				Order:         res.TurnOrder,
			}))
	}
	if res.VotesComplete {
		if err := s.resolveVotes(room, false); err != nil && !errors.Is(err, game.ErrNoVoteInProgress) {
			log.Error().Err(err).Str("room", roomID).Msg("vote resolution after disconnect failed")
		}
	}
}

// HandleMessage 分派一條客戶端消息到對應的操作，
// 操作失敗時把結構化原因回傳給發送者本人
func (s *GameService) HandleMessage(client *Client, msg models.Message) {
	var err error
	switch msg.Type {
	case models.TypeStartGame:
		err = s.StartGame(client.RoomID, client.PlayerID)

	case models.TypeSubmitPrompt:
		var payload models.PromptPayload
		if err = unmarshalPayload(msg, &payload); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			err = s.SubmitPrompt(ctx, client.RoomID, client.PlayerID, payload.Prompt)
			cancel()
		}

	case models.TypeSubmitVote:
		var payload models.VotePayload
		if err = unmarshalPayload(msg, &payload); err == nil {
			err = s.SubmitVote(client.RoomID, client.PlayerID, payload.TargetID)
		}

	case models.TypeForceVoteEnd:
		err = s.ForceVoteEnd(client.RoomID)

	case models.TypeChatMessage:
		var payload models.ChatPayload
		if err = unmarshalPayload(msg, &payload); err == nil {
			s.Chat(client.RoomID, client.Username, payload.Message)
		}

	default:
		log.Debug().Str("type", msg.Type).Msg("unknown message type ignored")
	}

	if err != nil {
		s.notifier.SendToPlayer(client.RoomID, client.PlayerID,
			models.NewMessage(models.TypeError, errorPayload(err)))
	}
}

// resolveVotes 結算投票並廣播結果。
// 遊戲未結束時排程下一回合；排程觸發前若狀態已被取代
// （例如房主重新開始遊戲），PrepareNewRound 會拒絕，直接放棄
func (s *GameService) resolveVotes(room *game.Room, forced bool) error {
	result, err := room.ResolveVotes()
	if err != nil {
		return err
	}

	payload := models.RoundResultPayload{
		RoundResult: result,
		Message:     resultMessage(result, forced),
	}
	if result.GameOver {
		log.Info().Str("room", room.ID()).Str("winner", result.Winner).Msg("game over")
		s.notifier.BroadcastToRoom(room.ID(), models.NewMessage(models.TypeGameOver, payload))
		return nil
	}

	s.notifier.BroadcastToRoom(room.ID(), models.NewMessage(models.TypeRoundResult, payload))
	time.AfterFunc(s.cfg.RoundDelay, func() {
		s.startNextRound(room)
	})
	return nil
}

// startNextRound 開始下一回合：換一組新詞（臥底身分不變）、
// 重洗出牌順序，並重新私發秘密詞
func (s *GameService) startNextRound(room *game.Room) {
	theme := s.supplier.Pick()
	info, err := room.PrepareNewRound(theme.Word, theme.Intruder)
	if err != nil {
		log.Debug().Err(err).Str("room", room.ID()).Msg("next round superseded")
		return
	}
	log.Info().Str("room", room.ID()).Int("round", info.Round).Msg("new round started")

	active := make([]game.PlayerSummary, 0, len(info.Players))
	for _, p := range info.Players {
		active = append(active, game.PlayerSummary{ID: p.ID, Username: p.Username})
	}
	s.notifier.BroadcastToRoom(room.ID(),
		models.NewMessage(models.TypeNewRound, models.NewRoundPayload{
			Round:      info.Round,
			Players:    active,
			Eliminated: info.Eliminated,
		}))
	for _, p := range info.Players {
		s.notifier.SendToPlayer(room.ID(), p.ID,
			models.NewMessage(models.TypeAssignRole, models.RolePayload{PlayerID: p.ID, Word: p.Word}))
	}
	s.notifier.BroadcastToRoom(room.ID(),
		models.NewMessage(models.TypeStartTurn, models.TurnPayload{
			CurrentPlayer: info.First,
			Order:         info.TurnOrder,
		}))
}

// announceRoster 廣播目前的在線名冊
func (s *GameService) announceRoster(room *game.Room) {
	s.notifier.BroadcastToRoom(room.ID(),
		models.NewMessage(models.TypeUpdatePlayers, room.Roster()))
}

// resultMessage 產生結算結果的提示文字
func resultMessage(result game.RoundResult, forced bool) string {
	prefix := ""
	if forced {
		prefix = "時間到！"
	}
	switch result.Outcome {
	case game.OutcomeTie:
		return prefix + "平手！本回合沒有人被淘汰。"
	case game.OutcomeSkipped:
		return prefix + "玩家決定跳過本回合，沒有人被淘汰。"
	default:
		if result.GameOver {
			if result.Winner == "intruder" {
				return prefix + fmt.Sprintf("%s 被淘汰了！臥底獲勝！", result.Eliminated.Username)
			}
			return prefix + fmt.Sprintf("%s 就是臥底！平民獲勝！", result.Eliminated.Username)
		}
		return prefix + fmt.Sprintf("%s 被淘汰了！", result.Eliminated.Username)
	}
}
