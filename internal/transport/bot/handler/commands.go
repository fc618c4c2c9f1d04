package handler

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/samber/lo"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/infrastructure/notifier"
	"collection_finder/internal/report"
	"collection_finder/internal/worker"
	"collection_finder/pkg/lox"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.StatusText())
}

func (h *Handler) OnProfiles(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.ProfilesText())
}

func (h *Handler) OnSearch(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.SearchText(ctx, msg.Text))
}

func (h *Handler) OnDebug(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.DebugText(ctx, msg.Text))
}

func (h *Handler) OnResult(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.ResultText(msg.Text))
}

func boolToStatus(b bool) string {
	if b {
		return "🟢 выполняется"
	}

	return "⚪ не запущен"
}

func (h *Handler) StatusText() string {
	return fmt.Sprintf("📊 <b>Статус</b>\n\n🔍 <b>Поиск:</b> %s\n🐞 <b>Отладка:</b> %s\n📋 <b>Профилей:</b> %d",
		boolToStatus(h.runner.IsRunning(worker.KindSearch)),
		boolToStatus(h.runner.IsRunning(worker.KindDebug)),
		len(h.profiles.Snapshot()),
	)
}

func (h *Handler) ProfilesText() string {
	profiles := h.profiles.Snapshot().Profiles()
	if len(profiles) == 0 {
		return NoProfilesMessage
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 <b>Профили (%d):</b>\n", len(profiles))

	for _, p := range profiles {
		fmt.Fprintf(&sb, "\n<b>%s</b> (%d/%d)\n", html.EscapeString(p.Set.String()),
			p.Requirements.ConfiguredPieces(), len(p.Set.ApplicablePieces()))

		for _, piece := range value.Pieces() {
			codes := p.Requirements[piece]
			if len(codes) == 0 {
				continue
			}

			fmt.Fprintf(&sb, "  %s: %s\n", piece, strings.Join(lox.Map(codes, value.OptionCode.Short), "+"))
		}
	}

	return sb.String()
}

// SearchText запускает поиск по тексту команды "/search [сет] [Валюта=цена ...]".
func (h *Handler) SearchText(ctx context.Context, text string) string {
	set, rawFilters, err := parseArgs(text)
	if err != nil {
		return errorText(err)
	}

	filters := entity.ParsePriceFilters(rawFilters)

	run, err := h.runner.StartSearch(ctx, worker.SearchParams{
		Token:   h.token,
		Set:     set,
		Filters: filters,
	})
	if err != nil {
		return errorText(err)
	}

	reply := fmt.Sprintf("🚀 Поиск запущен: <code>%s</code>", run.ID)
	if len(filters) > 0 {
		reply += "\nPrice filters: " + html.EscapeString(report.FormatFilters(filters))
	}

	return reply
}

func (h *Handler) DebugText(ctx context.Context, text string) string {
	set, _, err := parseArgs(text)
	if err != nil {
		return errorText(err)
	}

	run, err := h.runner.StartDebug(ctx, worker.DebugParams{
		Token: h.token,
		Set:   set,
	})
	if err != nil {
		return errorText(err)
	}

	return fmt.Sprintf("🐞 Отладка запущена: <code>%s</code>\nРезультат: /result %s", run.ID, run.ID)
}

func (h *Handler) ResultText(text string) string {
	args := strings.Fields(text)
	if len(args) < 2 {
		return ResultMissingArgument
	}

	run, err := h.runner.Result(args[1])
	if err != nil {
		return errorText(err)
	}

	if summary := notifier.RunSummary(run); summary != "" && run.Status != worker.StatusRunning {
		return summary
	}

	line := fmt.Sprintf("<code>%s</code> %s: %s, %d/%d", run.ID, run.Kind, run.Status, run.Progress.Done, run.Progress.Total)

	if run.Debug != nil {
		withLots := lo.CountBy(run.Debug.Pairs, func(p entity.DebugPair) bool {
			return len(p.Lots) > 0
		})
		line += fmt.Sprintf("\nПар: %d, с лотами: %d", len(run.Debug.Pairs), withLots)
	}

	return line
}

// parseArgs делит аргументы команды на название сета и пороги вида Валюта=цена.
func parseArgs(text string) (value.SetName, map[string]string, error) {
	args := strings.Fields(text)
	if len(args) > 0 {
		args = args[1:]
	}

	filters := map[string]string{}

	var words []string

	for _, arg := range args {
		if name, limit, ok := strings.Cut(arg, "="); ok {
			filters[name] = limit

			continue
		}

		words = append(words, arg)
	}

	if len(words) == 0 {
		return "", filters, nil
	}

	set, err := value.ParseSetName(strings.Join(words, " "))
	if err != nil {
		return "", nil, fmt.Errorf("value.ParseSetName: %w", err)
	}

	return set, filters, nil
}

func errorText(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	if err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}
