package service

import (
	"intruder_web/internal/imagegen"
	"intruder_web/internal/storage"
	"intruder_web/internal/words"
	"intruder_web/pkg/config"
)

type Services struct {
	GameService      *GameService
	WebSocketManager *WebSocketManager
}

func NewServices(store *storage.RoomStore, supplier *words.Supplier, images imagegen.Generator, cfg config.GameConfig) *Services {
	wsManager := NewWebSocketManager()
	gameService := NewGameService(store, supplier, images, wsManager, cfg)
	return &Services{
		GameService:      gameService,
		WebSocketManager: wsManager,
	}
}
