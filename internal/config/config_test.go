package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"collection_finder/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal("https://mudream.online/api/graphql", cfg.Market.APIURL)
	rq.Equal(10*time.Second, cfg.Market.RequestTimeout)
	rq.Equal(5, cfg.Market.DebugLimit)
	rq.Equal("collection_config.json", cfg.Store.Path)
	rq.False(cfg.Bot.Enabled())
	rq.Equal(slog.LevelInfo, cfg.App.Level())
}

func TestLoadFromEnv(t *testing.T) {
	rq := require.New(t)

	t.Setenv("MARKET_TOKEN", "Bearer abc")
	t.Setenv("MARKET_REQUEST_TIMEOUT", "3s")
	t.Setenv("PROFILES_PATH", "/tmp/profiles.json")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_CHAT_ID", "1217838677")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:*,https://finder.example")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal("Bearer abc", cfg.Market.Token)
	rq.Equal(3*time.Second, cfg.Market.RequestTimeout)
	rq.Equal("/tmp/profiles.json", cfg.Store.Path)
	rq.True(cfg.Bot.Enabled())
	rq.Equal(int64(1217838677), cfg.Bot.ChatID)
	rq.Equal(int64(1217838677), cfg.Bot.Admin())
	rq.False(cfg.Bot.Commands)
	rq.Equal(slog.LevelDebug, cfg.App.Level())
	rq.Equal([]string{"http://localhost:*", "https://finder.example"}, cfg.HTTP.CORSAllowedOrigins)
}

func TestBotAdmin(t *testing.T) {
	t.Setenv("BOT_CHAT_ID", "-100500")
	t.Setenv("BOT_ADMIN_ID", "42")
	t.Setenv("BOT_COMMANDS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.Bot.Admin())
	require.True(t, cfg.Bot.Commands)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("MARKET_REQUEST_TIMEOUT", "ten seconds")

	_, err := config.Load()
	require.ErrorContains(t, err, "env.Parse")
}
