package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Game   GameConfig
	OpenAI OpenAIConfig
}

type ServerConfig struct {
	Address string
}

type GameConfig struct {
	MinPlayers    int           `mapstructure:"min_players"`
	RoundDelay    time.Duration `mapstructure:"round_delay"`     // 結算到下一回合之間的固定延遲
	EmptyRoomTTL  time.Duration `mapstructure:"empty_room_ttl"`  // 空房間保留的寬限期
	SweepInterval time.Duration `mapstructure:"sweep_interval"`  // 空房間回收的掃描頻率
	WordsFile     string        `mapstructure:"words_file"`      // 自訂詞庫 JSON，留空使用內建清單
	// 圖片生成失敗時的政策：預設拒絕提交讓玩家重試，
	// 開啟後改用佔位圖片並視為提交成功（舊版行為）
	PlaceholderOnFailure bool `mapstructure:"placeholder_on_failure"`
}

type OpenAIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	RequestDelay time.Duration `mapstructure:"request_delay"` // 請求之間的節流延遲
}

func Load() (*Config, error) {
	// .env 只是開發時的便利，不存在就算了
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./pkg/config")

	viper.SetDefault("server.address", ":4000")
	viper.SetDefault("game.min_players", 3)
	viper.SetDefault("game.round_delay", 5*time.Second)
	viper.SetDefault("game.empty_room_ttl", 5*time.Minute)
	viper.SetDefault("game.sweep_interval", 30*time.Second)
	viper.SetDefault("game.placeholder_on_failure", false)
	viper.SetDefault("openai.request_delay", time.Second)

	viper.AutomaticEnv()
	_ = viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("server.address", "SERVER_ADDRESS")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// 沒有設定檔就全部用預設值與環境變數
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
