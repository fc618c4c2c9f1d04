package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"collection_finder/internal/config"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/infrastructure/marketplace"
	"collection_finder/internal/infrastructure/notifier"
	"collection_finder/internal/infrastructure/profilestore"
	"collection_finder/internal/server"
	"collection_finder/internal/transport/bot"
	"collection_finder/internal/transport/bot/handler"
	"collection_finder/internal/worker"
	"collection_finder/pkg/application/modules"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/logx"
)

var errShuttingDown = errors.New("shutting down")

func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	// 1. Профили
	store, err := profilestore.Open(ctx, cfg.Store.Path)
	if err != nil {
		// Повреждённый документ не фатален: работаем с пустой конфигурацией.
		log.Error("profiles load failed, continuing with empty configuration",
			slog.String(logx.FieldPath, store.Path()), logx.Error(err))
	}

	log.Info("profiles loaded", slog.Int(logx.FieldTotal, len(store.Snapshot())))

	// 2. Маркетплейс
	market := marketplace.NewClient(
		cfg.Market.APIURL,
		cfg.Market.RequestTimeout,
		marketplace.NewLoggingTransport(cfg.Market.LogFieldMaxLen),
	).WithRequestInterval(cfg.Market.RequestInterval)

	svc := search.NewService(market).WithDebugLimit(cfg.Market.DebugLimit)

	// 3. Фоновые запуски
	runner := worker.NewRunner(svc, store)

	if cfg.Bot.Enabled() {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		if err = alertBot.SendText(ctx, "🚀 Collection finder is starting"); err != nil {
			log.Error("bot test failed, check BOT_TOKEN and BOT_CHAT_ID", logx.Error(err))
		} else {
			log.Info("bot notifications enabled")
		}

		runner = runner.WithNotifiers(alertBot)
	}

	var commandBot *bot.Bot

	if cfg.Bot.Enabled() && cfg.Bot.Commands {
		commandBot, err = bot.New(cfg.Bot.Token, cfg.Bot.Admin(), handler.New(runner, store, cfg.Market.Token))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}
	}

	// 4. HTTP API
	srv := server.NewServer(
		server.NewCatalogServer(),
		server.NewProfileServer(store),
		server.NewRunServer(runner).WithDefaultToken(cfg.Market.Token),
	)

	httpServer := &http.Server{ //nolint:gosec
		Addr: cfg.HTTP.ListenAddress,
		Handler: server.NewRouter(srv, server.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
			LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
		}),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runner.Run(ctx)
	})

	if commandBot != nil {
		g.Go(func() error {
			return commandBot.Run(ctx)
		})
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Ready: func() error {
			if ctx.Err() != nil {
				return errShuttingDown
			}

			return nil
		},
	}.Run(ctx, g)

	log.Info("application started", slog.String("name", cfg.App.Name), slog.String("version", cfg.App.Version))

	if err = g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	log.Info("application stopping...")

	return nil
}
