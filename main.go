package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"intruder_web/internal/api"
	"intruder_web/internal/imagegen"
	"intruder_web/internal/middleware"
	"intruder_web/internal/service"
	"intruder_web/internal/storage"
	"intruder_web/internal/words"
	"intruder_web/pkg/config"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	// 載入配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// 詞庫：有指定檔案就讀檔，否則用內建清單
	themes := words.Default()
	if cfg.Game.WordsFile != "" {
		themes, err = words.Load(cfg.Game.WordsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Game.WordsFile).Msg("failed to load words file")
		}
	}
	supplier, err := words.NewSupplier(themes, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build word supplier")
	}

	images := imagegen.New(cfg.OpenAI.APIKey, cfg.OpenAI.RequestDelay)

	// 房間註冊表：空房間保留一段寬限期讓玩家重連，逾期回收
	store := storage.NewRoomStore(cfg.Game.EmptyRoomTTL, func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	go store.Run(context.Background(), cfg.Game.SweepInterval)

	// 初始化服務
	services := service.NewServices(store, supplier, images, cfg.Game)

	// 設置路由
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	api.SetupRoutes(r, services, store)

	log.Info().Str("address", cfg.Server.Address).Msg("server starting")
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
