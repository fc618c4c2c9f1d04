package handler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/transport/bot/handler"
	"collection_finder/internal/worker"
	"collection_finder/pkg/errcodes"
)

type staticConfig entity.Configuration

func (c staticConfig) Snapshot() entity.Configuration {
	return entity.Configuration(c).Clone()
}

type fakeRunner struct {
	search  worker.SearchParams
	debug   worker.DebugParams
	running map[worker.Kind]bool
	runs    map[string]worker.Run
	err     error
}

func (f *fakeRunner) StartSearch(_ context.Context, params worker.SearchParams) (worker.Run, error) {
	f.search = params

	return worker.Run{ID: "run-1", Kind: worker.KindSearch}, f.err
}

func (f *fakeRunner) StartDebug(_ context.Context, params worker.DebugParams) (worker.Run, error) {
	f.debug = params

	return worker.Run{ID: "run-2", Kind: worker.KindDebug}, f.err
}

func (f *fakeRunner) Result(id string) (worker.Run, error) {
	run, ok := f.runs[id]
	if !ok {
		return worker.Run{}, domain.Errorf(errcodes.RunNotFound, "run %q not found", id)
	}

	return run, nil
}

func (f *fakeRunner) IsRunning(kind worker.Kind) bool {
	return f.running[kind]
}

var profiles = staticConfig{ //nolint:gochecknoglobals
	"Black Dragon": {value.PieceArmor: {value.OptionMaxLife, value.OptionDmgDecr}},
}

func TestSearchText(t *testing.T) {
	rq := require.New(t)

	runner := &fakeRunner{}
	h := handler.New(runner, profiles, "secret")

	text := h.SearchText(context.Background(), "/search black dragon Chaos=150 Zen=")
	rq.Contains(text, "run-1")
	rq.Contains(text, "Chaos ≤ 150")

	rq.Equal(value.SetName("Black Dragon"), runner.search.Set)
	rq.Equal(entity.PriceFilters{value.CurrencyChaos: 150}, runner.search.Filters)
	rq.Equal("secret", string(runner.search.Token))

	text = h.SearchText(context.Background(), "/search")
	rq.Contains(text, "run-1")
	rq.Empty(runner.search.Set)

	text = h.SearchText(context.Background(), "/search Cardboard")
	rq.Contains(text, "❌")
	rq.Contains(text, "Cardboard")

	runner.err = domain.NewError(errcodes.RunInProgress, "search run run-0 is already in progress")
	text = h.SearchText(context.Background(), "/search")
	rq.Equal("❌ search run run-0 is already in progress", text)
}

func TestDebugText(t *testing.T) {
	rq := require.New(t)

	runner := &fakeRunner{}
	h := handler.New(runner, profiles, "secret")

	text := h.DebugText(context.Background(), "/debug Black Dragon")
	rq.Contains(text, "run-2")
	rq.Equal(value.SetName("Black Dragon"), runner.debug.Set)
}

func TestStatusAndProfilesText(t *testing.T) {
	rq := require.New(t)

	runner := &fakeRunner{running: map[worker.Kind]bool{worker.KindSearch: true}}
	h := handler.New(runner, profiles, "")

	status := h.StatusText()
	rq.Contains(status, "🟢")
	rq.Contains(status, "⚪")
	rq.Contains(status, "Профилей:</b> 1")

	list := h.ProfilesText()
	rq.Contains(list, "<b>Black Dragon</b> (1/5)")
	rq.Contains(list, "armor: MH+DD")

	rq.Equal(handler.NoProfilesMessage, handler.New(runner, staticConfig{}, "").ProfilesText())
}

func TestResultText(t *testing.T) {
	rq := require.New(t)

	runner := &fakeRunner{runs: map[string]worker.Run{
		"dbg": {
			ID:     "dbg",
			Kind:   worker.KindDebug,
			Status: worker.StatusFinished,
			Debug: &entity.DebugReport{Pairs: []entity.DebugPair{
				{Set: "Bronze", Piece: value.PieceHelm, Lots: []entity.Lot{{ID: "1"}}},
				{Set: "Bronze", Piece: value.PieceArmor},
			}},
		},
		"srch": {
			ID:     "srch",
			Kind:   worker.KindSearch,
			Status: worker.StatusFinished,
			Search: &entity.SearchReport{},
		},
	}}
	h := handler.New(runner, profiles, "")

	rq.Equal(handler.ResultMissingArgument, h.ResultText("/result"))
	rq.Contains(h.ResultText("/result missing"), "not found")
	rq.Contains(h.ResultText("/result dbg"), "Пар: 2, с лотами: 1")
	rq.Contains(h.ResultText("/result srch"), "Search finished")
}
