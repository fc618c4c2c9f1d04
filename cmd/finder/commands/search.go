package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/report"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/logx"
)

type searchOptions struct {
	token       string
	set         string
	filters     map[string]string
	filtersFile string
	xlsxPath    string
}

func newSearchCommand(o *options) *cobra.Command {
	so := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Поиск лотов по всем настроенным сетам или по одному",
		Long: `Ищет лоты по каждой паре (сет, слот) из профилей, отбрасывает лоты
дороже заданных порогов и сортирует остальные по нормализованной цене.

Flags:
  --filter        порог цены Currency=Value, можно повторять
  --filters-file  YAML с порогами, например "Chaos: 150"
  --xlsx          дополнительно сохранить отчёт в книгу Excel

Example:
  go run ./cmd/finder search
  go run ./cmd/finder search --set "Dark Phoenix" --filter Chaos=150 --filter Bless=40
  go run ./cmd/finder search --filters-file filters.yaml --xlsx report.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, o, so)
		},
	}

	cmd.Flags().StringVar(&so.token, "token", "", "marketplace bearer token (default MARKET_TOKEN)")
	cmd.Flags().StringVar(&so.set, "set", "", "search one configured set instead of all")
	cmd.Flags().StringToStringVar(&so.filters, "filter", nil, "max price per currency, e.g. Chaos=150")
	cmd.Flags().StringVar(&so.filtersFile, "filters-file", "", "YAML file with max prices per currency")
	cmd.Flags().StringVar(&so.xlsxPath, "xlsx", "", "also write the report to an .xlsx workbook")

	return cmd
}

func runSearch(cmd *cobra.Command, o *options, so *searchOptions) error {
	ctx := contextx.WithBearerToken(cmd.Context(), o.token(so.token))

	if err := search.CheckToken(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	set, err := parseOptionalSet(so.set)
	if err != nil {
		return err
	}

	config := o.openStore(ctx).Snapshot()
	if len(config) == 0 {
		return domain.NewError(errcodes.NoProfiles, "no collections configured, save a profile first")
	}

	raw, err := loadFiltersFile(so.filtersFile)
	if err != nil {
		return err
	}

	filters := entity.ParsePriceFilters(lo.Assign(raw, so.filters))

	result, err := o.newSearchService(0).Search(ctx, config, search.Request{
		Set:      set,
		Filters:  filters,
		Progress: progressLogger(ctx),
	})
	if err != nil {
		return fmt.Errorf("search.Search: %w", err)
	}

	if err = report.WriteSearch(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("report.WriteSearch: %w", err)
	}

	if so.xlsxPath != "" {
		if err = writeXLSX(ctx, so.xlsxPath, result); err != nil {
			return err
		}
	}

	return nil
}

// loadFiltersFile читает пороги из YAML: имя валюты -> максимальная цена.
func loadFiltersFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var raw map[string]any

	if err = yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return lo.MapValues(raw, func(v any, _ string) string {
		if v == nil {
			return ""
		}

		return fmt.Sprint(v)
	}), nil
}

func writeXLSX(ctx context.Context, path string, result entity.SearchReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}

	if err = report.WriteXLSX(f, result); err != nil {
		_ = f.Close()

		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %w", err)
	}

	logger(ctx).Info("xlsx report written", slog.String(logx.FieldPath, path))

	return nil
}
