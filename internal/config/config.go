package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"collection_finder/pkg/logx"
)

type Config struct {
	App    App
	Market Market
	Store  Store
	HTTP   HTTP
	Bot    Bot
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"collection-finder"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type Market struct {
	APIURL string `env:"MARKET_API_URL" envDefault:"https://mudream.online/api/graphql"`
	// Token используется CLI по умолчанию; в HTTP API токен приходит в запросе.
	Token           string        `env:"MARKET_TOKEN"`
	RequestTimeout  time.Duration `env:"MARKET_REQUEST_TIMEOUT" envDefault:"10s"`
	RequestInterval time.Duration `env:"MARKET_REQUEST_INTERVAL" envDefault:"0s"`
	LogFieldMaxLen  int           `env:"MARKET_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	DebugLimit      int           `env:"MARKET_DEBUG_LIMIT" envDefault:"5"`
}

type Store struct {
	Path string `env:"PROFILES_PATH" envDefault:"collection_config.json"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogFieldMaxLen       int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:*"`
}

// Bot уведомления в Telegram включаются, только если задан токен.
type Bot struct {
	Token  string `env:"BOT_TOKEN"`
	ChatID int64  `env:"BOT_CHAT_ID"`
	// AdminID пользователь, которому разрешены команды; по умолчанию ChatID.
	AdminID  int64 `env:"BOT_ADMIN_ID"`
	Commands bool  `env:"BOT_COMMANDS" envDefault:"false"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func (b Bot) Admin() int64 {
	if b.AdminID != 0 {
		return b.AdminID
	}

	return b.ChatID
}

func (a App) Level() slog.Level {
	return logx.ParseLevel(a.LogLevel)
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
