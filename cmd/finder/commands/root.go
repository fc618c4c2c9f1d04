package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"collection_finder/internal/config"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/infrastructure/marketplace"
	"collection_finder/internal/infrastructure/profilestore"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// options общие для всех команд флаги и загруженная конфигурация.
type options struct {
	profilesPath string
	logLevel     string

	cfg config.Config
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return NewRootCommand().ExecuteContext(ctx) //nolint:wrapcheck
}

func NewRootCommand() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "finder",
		Short: "Collection finder - поиск лотов MuDream по профилям требований",
		Long: `Collection finder

Хранит профили требований к сетам и ищет на рынке лоты, которые им
соответствуют, с фильтром и сортировкой по нормализованной цене.

Examples:
  go run ./cmd/finder profiles save Bronze --helm iml,dd --boots rd
  go run ./cmd/finder search --filter Chaos=150 --filter Zen=2000
  go run ./cmd/finder debug --set Bronze --stop-at-first`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&o.profilesPath, "profiles", "", "profile document path (default PROFILES_PATH)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug|info|warn|error (default LOG_LEVEL)")

	cmd.AddCommand(
		newSearchCommand(o),
		newDebugCommand(o),
		newProfilesCommand(o),
	)

	return cmd
}

func (o *options) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if o.profilesPath != "" {
		cfg.Store.Path = o.profilesPath
	}

	if o.logLevel != "" {
		cfg.App.LogLevel = o.logLevel
	}

	o.cfg = cfg

	log := slog.New(logx.NewHandler(cmd.ErrOrStderr(), cfg.App.LogLevel))
	cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

	return nil
}

// openStore открывает документ профилей. Повреждённый документ не прерывает
// команду: работаем с пустой конфигурацией.
func (o *options) openStore(ctx context.Context) *profilestore.Store {
	store, err := profilestore.Open(ctx, o.cfg.Store.Path)
	if err != nil {
		logger(ctx).Error("profiles load failed, continuing with empty configuration",
			slog.String(logx.FieldPath, store.Path()), logx.Error(err))
	}

	return store
}

func (o *options) newSearchService(debugLimit int) *search.Service {
	client := marketplace.NewClient(
		o.cfg.Market.APIURL,
		o.cfg.Market.RequestTimeout,
		marketplace.NewLoggingTransport(o.cfg.Market.LogFieldMaxLen),
	).WithRequestInterval(o.cfg.Market.RequestInterval)

	if debugLimit <= 0 {
		debugLimit = o.cfg.Market.DebugLimit
	}

	return search.NewService(client).WithDebugLimit(debugLimit)
}

func (o *options) token(flag string) contextx.BearerToken {
	if flag != "" {
		return contextx.BearerToken(flag)
	}

	return contextx.BearerToken(o.cfg.Market.Token)
}

func parseOptionalSet(raw string) (value.SetName, error) {
	if raw == "" {
		return "", nil
	}

	set, err := value.ParseSetName(raw)
	if err != nil {
		return "", fmt.Errorf("value.ParseSetName: %w", err)
	}

	return set, nil
}

func progressLogger(ctx context.Context) search.ProgressFunc {
	return func(p search.Progress) {
		logger(ctx).Debug("progress",
			slog.Int("done", p.Done),
			slog.Int(logx.FieldTotal, p.Total),
			slog.String(logx.FieldSet, p.Set.String()),
			slog.String(logx.FieldPiece, p.Piece.String()),
		)
	}
}
