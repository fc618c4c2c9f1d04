package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/worker"
)

type fakeSender struct {
	sent []*telego.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.sent = append(f.sent, params)

	return &telego.Message{}, f.err
}

func searchRun() worker.Run {
	return worker.Run{
		ID:     "run-1",
		Kind:   worker.KindSearch,
		Status: worker.StatusFinished,
		Search: &entity.SearchReport{
			Filters: entity.PriceFilters{value.CurrencyChaos: 50},
			Sets: []entity.SetResults{{
				Set: "Dark Phoenix",
				Pieces: []entity.PieceResult{
					{
						Set: "Dark Phoenix", Piece: value.PieceArmor, Outcome: entity.OutcomeSuccess, Total: 4, Filtered: 2,
						Lots: []entity.ScoredLot{{
							Lot:   entity.Lot{Prices: []entity.Price{{Value: 20, Currency: entity.Currency{Code: "chaos"}}}},
							Score: 20,
						}},
					},
					{Set: "Dark Phoenix", Piece: value.PieceBoots, Outcome: entity.OutcomeError, Reason: "a < b"},
				},
			}},
		},
	}
}

func TestNotifyRun(t *testing.T) {
	rq := require.New(t)

	sender := &fakeSender{}
	bot := &TelegramBot{bot: sender, chatID: 42}

	rq.NoError(bot.NotifyRun(context.Background(), searchRun()))
	rq.Len(sender.sent, 1)
	rq.Equal(telego.ModeHTML, sender.sent[0].ParseMode)
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)

	text := sender.sent[0].Text
	rq.Contains(text, "<b>Search finished</b> (run-1)")
	rq.Contains(text, "Price filters: Chaos ≤ 50")
	rq.Contains(text, "<b>Dark Phoenix armor</b>: 2 match")
	rq.Contains(text, "20 chaos [Value: 20.00]")
	rq.Contains(text, "a &lt; b")

	rq.NoError(bot.NotifyRun(context.Background(), worker.Run{Kind: worker.KindDebug}))
	rq.Len(sender.sent, 1, "debug runs are not announced")

	sender.err = errors.New("chat not found")
	rq.ErrorContains(bot.NotifyRun(context.Background(), searchRun()), "chat not found")
}

func TestRunSummary(t *testing.T) {
	rq := require.New(t)

	failed := RunSummary(worker.Run{Kind: worker.KindSearch, Status: worker.StatusFailed, Error: "set \"X\" <missing>"})
	rq.Contains(failed, "Search failed")
	rq.Contains(failed, "&lt;missing&gt;")

	empty := RunSummary(worker.Run{Kind: worker.KindSearch, Status: worker.StatusFinished, Search: &entity.SearchReport{}})
	rq.Contains(empty, "No items match your price filters")
}
