package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/report"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
)

type debugOptions struct {
	token       string
	set         string
	stopAtFirst bool
	limit       int
}

func newDebugCommand(o *options) *cobra.Command {
	do := &debugOptions{}

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Сырые цены первых лотов по каждой настроенной паре",
		Long: `Запрашивает рынок по каждой настроенной паре (сет, слот) и печатает
первые лоты с сырыми записями цен, без фильтров и сортировки.

Example:
  go run ./cmd/finder debug
  go run ./cmd/finder debug --set Bronze --stop-at-first --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextx.WithBearerToken(cmd.Context(), o.token(do.token))

			if err := search.CheckToken(ctx); err != nil {
				return err //nolint:wrapcheck
			}

			set, err := parseOptionalSet(do.set)
			if err != nil {
				return err
			}

			config := o.openStore(ctx).Snapshot()
			if len(config) == 0 {
				return domain.NewError(errcodes.NoProfiles, "no collections configured, save a profile first")
			}

			result, err := o.newSearchService(do.limit).Debug(ctx, config, search.DebugRequest{
				Set:         set,
				StopAtFirst: do.stopAtFirst,
				Progress:    progressLogger(ctx),
			})
			if err != nil {
				return fmt.Errorf("search.Debug: %w", err)
			}

			if err = report.WriteDebug(cmd.OutOrStdout(), result); err != nil {
				return fmt.Errorf("report.WriteDebug: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&do.token, "token", "", "marketplace bearer token (default MARKET_TOKEN)")
	cmd.Flags().StringVar(&do.set, "set", "", "dump one configured set instead of all")
	cmd.Flags().BoolVar(&do.stopAtFirst, "stop-at-first", false, "stop after the first pair that returned lots")
	cmd.Flags().IntVar(&do.limit, "limit", 0, "lots shown per pair (default MARKET_DEBUG_LIMIT)")

	return cmd
}
