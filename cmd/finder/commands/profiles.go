package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/lox"
)

func newProfilesCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Профили требований к сетам",
		Long: `Управление профилями: какие excellent-опции нужны на каждом слоте сета.

Example:
  go run ./cmd/finder profiles list
  go run ./cmd/finder profiles save "Black Dragon" --armor iml,dd --pants iml
  go run ./cmd/finder profiles delete "Black Dragon"`,
	}

	cmd.AddCommand(
		newProfilesListCommand(o),
		newProfilesSaveCommand(o),
		newProfilesDeleteCommand(o),
	)

	return cmd
}

func newProfilesListCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать сохранённые профили",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := o.openStore(cmd.Context()).Snapshot().Profiles()
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No collections configured")

				return nil
			}

			for _, p := range profiles {
				writeProfile(cmd.OutOrStdout(), p)
			}

			return nil
		},
	}
}

func newProfilesSaveCommand(o *options) *cobra.Command {
	codes := map[value.Piece]*[]string{}

	cmd := &cobra.Command{
		Use:   "save <set>",
		Short: "Сохранить профиль сета (заменяет существующий)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			set, err := value.ParseSetName(args[0])
			if err != nil {
				return fmt.Errorf("value.ParseSetName: %w", err)
			}

			requirements := entity.Requirements{}

			for piece, raw := range codes {
				if len(*raw) == 0 {
					continue
				}

				parsed, err := lox.MapErr(*raw, value.ParseOptionCode)
				if err != nil {
					return fmt.Errorf("value.ParseOptionCode: %w", err)
				}

				requirements[piece] = parsed
			}

			store := o.openStore(ctx)

			outcome, err := store.Save(ctx, set, requirements)
			if err != nil {
				return fmt.Errorf("store.Save: %w", err)
			}

			saved, _ := store.Get(set)

			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s: ", outcome)
			writeProfile(cmd.OutOrStdout(), entity.Profile{Set: set, Requirements: saved})

			return nil
		},
	}

	optionHelp := strings.Join(lox.Map(value.OptionCodes(), func(c value.OptionCode) string {
		return c.String() + " (" + c.Label() + ")"
	}), ", ")

	for _, piece := range value.Pieces() {
		codes[piece] = cmd.Flags().StringSlice(piece.String(), nil, "option codes for "+piece.String()+": "+optionHelp)
	}

	return cmd
}

func newProfilesDeleteCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <set>",
		Short: "Удалить профиль сета",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			set, err := value.ParseSetName(args[0])
			if err != nil {
				return fmt.Errorf("value.ParseSetName: %w", err)
			}

			deleted, err := o.openStore(ctx).Delete(ctx, set)
			if err != nil {
				return fmt.Errorf("store.Delete: %w", err)
			}

			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "No profile for %s\n", set)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s deleted\n", set)

			return nil
		},
	}
}

// writeProfile "Bronze (2/5): helm=iml,dd armor=rd".
func writeProfile(w io.Writer, p entity.Profile) {
	parts := lo.FilterMap(value.Pieces(), func(piece value.Piece, _ int) (string, bool) {
		codes, ok := p.Requirements[piece]
		if !ok || len(codes) == 0 {
			return "", false
		}

		return piece.String() + "=" + strings.Join(lox.Map(codes, value.OptionCode.String), ","), true
	})

	fmt.Fprintf(w, "%s (%d/%d): %s\n",
		p.Set, p.Requirements.ConfiguredPieces(), len(p.Set.ApplicablePieces()), strings.Join(parts, " "))
}
