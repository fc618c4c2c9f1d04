package search

import (
	"context"
	"log/slog"
	"time"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/service/pricing"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultDebugLimit = 5

type LotsSearcher interface {
	SearchLots(ctx context.Context, set value.SetName, piece value.Piece, codes []value.OptionCode) (entity.LotsPage, error)
}

// Progress состояние прохода по парам (сет, слот).
type Progress struct {
	Done  int
	Total int
	Set   value.SetName
	Piece value.Piece
}

type ProgressFunc func(Progress)

// Request параметры одного запуска. Пустой Set означает все настроенные сеты.
type Request struct {
	Set      value.SetName
	Filters  entity.PriceFilters
	Progress ProgressFunc
}

type DebugRequest struct {
	Set value.SetName
	// StopAtFirst останавливает проход на первой паре, вернувшей лоты.
	StopAtFirst bool
	Progress    ProgressFunc
}

// Service обходит сеты и слоты, по одному запросу на пару, без параллелизма.
type Service struct {
	searcher   LotsSearcher
	debugLimit int
}

func NewService(searcher LotsSearcher) *Service {
	return &Service{
		searcher:   searcher,
		debugLimit: defaultDebugLimit,
	}
}

func (s *Service) WithDebugLimit(limit int) *Service {
	if limit > 0 {
		s.debugLimit = limit
	}

	return s
}

// Plan выбирает сеты для прохода в отсортированном порядке.
func Plan(config entity.Configuration, set value.SetName) ([]value.SetName, error) {
	if set == "" {
		return config.SetNames(), nil
	}

	if _, ok := config[set]; !ok {
		return nil, domain.Errorf(errcodes.SetNotFound, "set %q is not configured", set)
	}

	return []value.SetName{set}, nil
}

// CheckToken проверяет, что в контексте есть токен маркетплейса.
func CheckToken(ctx context.Context) error {
	if _, err := contextx.BearerTokenFromContext(ctx); err != nil {
		return domain.WrapError(err, errcodes.TokenMissing, "marketplace token is required")
	}

	return nil
}

// Search ищет лоты по снимку конфигурации. Ошибка одной пары не прерывает
// остальные и попадает в отчёт как OutcomeError.
func (s *Service) Search(ctx context.Context, config entity.Configuration, request Request) (entity.SearchReport, error) {
	report := entity.SearchReport{Filters: request.Filters}

	sets, err := Plan(config, request.Set)
	if err != nil {
		return report, err
	}

	if len(sets) == 0 {
		return report, nil
	}

	if err = CheckToken(ctx); err != nil {
		return report, err
	}

	tracker := newTracker(len(sets), request.Progress)

	for _, set := range sets {
		results := entity.SetResults{Set: set}

		for _, piece := range value.Pieces() {
			result := s.searchPiece(ctx, set, piece, config[set], request.Filters)
			results.Pieces = append(results.Pieces, result)

			tracker.step(set, piece)
		}

		report.Sets = append(report.Sets, results)
	}

	return report, nil
}

func (s *Service) searchPiece(
	ctx context.Context,
	set value.SetName,
	piece value.Piece,
	requirements entity.Requirements,
	filters entity.PriceFilters,
) entity.PieceResult {
	result := entity.PieceResult{Set: set, Piece: piece}

	if applySkip(set, piece, requirements, &result) {
		return result
	}

	log := logger(ctx).With(slog.String(logx.FieldSet, set.String()), slog.String(logx.FieldPiece, piece.String()))
	started := time.Now()

	page, err := s.searcher.SearchLots(ctx, set, piece, result.Options)
	if err != nil {
		log.Warn("lots search failed", logx.Error(err))

		result.Outcome = entity.OutcomeError
		result.Reason = err.Error()

		return result
	}

	ranked := pricing.Rank(pricing.Filter(page.Lots, filters))

	result.Outcome = entity.OutcomeSuccess
	result.Total = len(page.Lots)
	result.Filtered = len(ranked)
	result.Lots = ranked

	log.Debug("lots searched",
		slog.Int(logx.FieldTotal, result.Total),
		slog.Int(logx.FieldFiltered, result.Filtered),
		slog.Int64(logx.FieldDurationMs, time.Since(started).Milliseconds()),
	)

	return result
}

// applySkip заполняет пропуск для пары и возвращает true, если запрос не нужен.
func applySkip(set value.SetName, piece value.Piece, requirements entity.Requirements, result *entity.PieceResult) bool {
	if !set.HasPiece(piece) {
		result.Outcome = entity.OutcomeSkippedNoPiece
		result.Reason = set.MissingPieceReason(piece)

		return true
	}

	codes, ok := requirements[piece]

	switch {
	case !ok:
		result.Outcome = entity.OutcomeSkippedNoRequirements
		result.Reason = entity.ReasonNoRequirements

		return true
	case len(codes) == 0:
		result.Outcome = entity.OutcomeSkippedNoRequirements
		result.Reason = entity.ReasonNoOptions

		return true
	}

	result.Options = codes

	return false
}

// Debug выгружает первые лоты по каждой настроенной паре без фильтрации цен.
// Пары без требований пропускаются.
func (s *Service) Debug(ctx context.Context, config entity.Configuration, request DebugRequest) (entity.DebugReport, error) {
	var report entity.DebugReport

	sets, err := Plan(config, request.Set)
	if err != nil {
		return report, err
	}

	if len(sets) == 0 {
		return report, nil
	}

	if err = CheckToken(ctx); err != nil {
		return report, err
	}

	tracker := newTracker(len(sets), request.Progress)

	for _, set := range sets {
		for _, piece := range value.Pieces() {
			var probe entity.PieceResult

			if applySkip(set, piece, config[set], &probe) {
				tracker.step(set, piece)

				continue
			}

			pair := s.debugPiece(ctx, set, piece, probe.Options)
			report.Pairs = append(report.Pairs, pair)

			tracker.step(set, piece)

			if request.StopAtFirst && pair.Outcome == entity.OutcomeSuccess && len(pair.Lots) > 0 {
				return report, nil
			}
		}
	}

	return report, nil
}

func (s *Service) debugPiece(ctx context.Context, set value.SetName, piece value.Piece, codes []value.OptionCode) entity.DebugPair {
	pair := entity.DebugPair{Set: set, Piece: piece, Options: codes}

	page, err := s.searcher.SearchLots(ctx, set, piece, codes)
	if err != nil {
		logger(ctx).Warn("debug lots search failed",
			slog.String(logx.FieldSet, set.String()),
			slog.String(logx.FieldPiece, piece.String()),
			logx.Error(err),
		)

		pair.Outcome = entity.OutcomeError
		pair.Reason = err.Error()

		return pair
	}

	pair.Outcome = entity.OutcomeSuccess
	pair.Total = len(page.Lots)
	pair.Lots = page.Lots[:min(len(page.Lots), s.debugLimit)]

	return pair
}

type tracker struct {
	progress Progress
	notify   ProgressFunc
}

func newTracker(sets int, notify ProgressFunc) *tracker {
	return &tracker{
		progress: Progress{Total: sets * len(value.Pieces())},
		notify:   notify,
	}
}

func (t *tracker) step(set value.SetName, piece value.Piece) {
	t.progress.Done++
	t.progress.Set = set
	t.progress.Piece = piece

	if t.notify != nil {
		t.notify(t.progress)
	}
}
