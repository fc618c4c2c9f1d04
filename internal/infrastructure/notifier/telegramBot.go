package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/report"
	"collection_finder/internal/worker"
	"collection_finder/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot отправляет краткий итог завершённого запуска в чат.
type TelegramBot struct {
	bot    messageSender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyRun реализует worker.Notifier.
func (b *TelegramBot) NotifyRun(ctx context.Context, run worker.Run) error {
	text := RunSummary(run)
	if text == "" {
		return nil
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	logger(ctx).Debug("run summary sent")

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// RunSummary HTML-сообщение с самым дешёвым лотом по каждой паре. Отладочные
// запуски не отправляются.
func RunSummary(run worker.Run) string {
	if run.Kind != worker.KindSearch {
		return ""
	}

	var b strings.Builder

	if run.Status == worker.StatusFailed {
		fmt.Fprintf(&b, "❌ <b>Search failed</b>\n\n%s", html.EscapeString(run.Error))

		return b.String()
	}

	if run.Search == nil {
		return ""
	}

	fmt.Fprintf(&b, "🔍 <b>Search finished</b> (%s)\n", run.ID)

	if len(run.Search.Filters) > 0 {
		fmt.Fprintf(&b, "Price filters: %s\n", html.EscapeString(report.FormatFilters(run.Search.Filters)))
	}

	var found int

	for _, pair := range run.Search.Pairs() {
		switch pair.Outcome {
		case entity.OutcomeSuccess:
			if len(pair.Lots) == 0 {
				continue
			}

			found++

			best := pair.Lots[0]
			fmt.Fprintf(&b, "\n🎁 <b>%s %s</b>: %d match\n💰 %s %s\n",
				html.EscapeString(pair.Set.String()),
				pair.Piece,
				pair.Filtered,
				html.EscapeString(report.FormatPrice(best.Prices)),
				report.FormatScore(best.Score),
			)
		case entity.OutcomeError:
			fmt.Fprintf(&b, "\n⚠️ <b>%s %s</b>: %s\n",
				html.EscapeString(pair.Set.String()), pair.Piece, html.EscapeString(pair.Reason))
		case entity.OutcomeSkippedNoPiece, entity.OutcomeSkippedNoRequirements:
		}
	}

	if found == 0 {
		b.WriteString("\nNo items match your price filters")
	}

	return b.String()
}
