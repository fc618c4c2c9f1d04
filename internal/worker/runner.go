package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/xid"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	runTTL             = time.Hour
	runCleanupInterval = 10 * time.Minute
)

//nolint:gochecknoglobals
var runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collection_finder",
	Subsystem: "runs",
	Name:      "finished_total",
	Help:      "Finished background runs by kind and status.",
}, []string{"kind", "status"})

type Searcher interface {
	Search(ctx context.Context, config entity.Configuration, request search.Request) (entity.SearchReport, error)
	Debug(ctx context.Context, config entity.Configuration, request search.DebugRequest) (entity.DebugReport, error)
}

type ConfigSource interface {
	Snapshot() entity.Configuration
}

// Notifier получает отчёт о каждом завершённом запуске.
type Notifier interface {
	NotifyRun(ctx context.Context, run Run) error
}

// Runner запускает поиск и отладочную выгрузку в фоне, по одной горутине на
// запуск. Одновременно допускается один запуск каждого вида.
type Runner struct {
	searcher  Searcher
	configs   ConfigSource
	notifiers []Notifier
	runs      *cache.Cache

	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc

	mu      sync.Mutex
	running map[Kind]string
	wg      sync.WaitGroup
}

func NewRunner(searcher Searcher, configs ConfigSource) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		searcher: searcher,
		configs:  configs,
		runs:     cache.New(runTTL, runCleanupInterval),
		ctx:      ctx,
		cancel:   cancel,
		running:  map[Kind]string{},
	}
}

func (r *Runner) WithNotifiers(notifiers ...Notifier) *Runner {
	r.notifiers = append(r.notifiers, notifiers...)

	return r
}

type SearchParams struct {
	Token   contextx.BearerToken
	Set     value.SetName
	Filters entity.PriceFilters
}

type DebugParams struct {
	Token       contextx.BearerToken
	Set         value.SetName
	StopAtFirst bool
}

// StartSearch проверяет ввод и запускает поиск в фоне. ctx задаёт время жизни
// запуска (обычно контекст процесса), а не отдельного HTTP-запроса.
func (r *Runner) StartSearch(ctx context.Context, params SearchParams) (Run, error) {
	config, ctx, err := r.prepare(ctx, params.Token, params.Set)
	if err != nil {
		return Run{}, err
	}

	return r.start(ctx, KindSearch, params.Set, func(ctx context.Context, st *state) error {
		report, err := r.searcher.Search(ctx, config, search.Request{
			Set:      params.Set,
			Filters:  params.Filters,
			Progress: st.setProgress,
		})
		if err != nil {
			return err
		}

		st.setSearchReport(report)

		return nil
	})
}

func (r *Runner) StartDebug(ctx context.Context, params DebugParams) (Run, error) {
	config, ctx, err := r.prepare(ctx, params.Token, params.Set)
	if err != nil {
		return Run{}, err
	}

	return r.start(ctx, KindDebug, params.Set, func(ctx context.Context, st *state) error {
		report, err := r.searcher.Debug(ctx, config, search.DebugRequest{
			Set:         params.Set,
			StopAtFirst: params.StopAtFirst,
			Progress:    st.setProgress,
		})
		if err != nil {
			return err
		}

		st.setDebugReport(report)

		return nil
	})
}

// prepare отклоняет запуск до начала работы: нет токена, нет профилей или
// выбранного сета нет в конфигурации.
func (r *Runner) prepare(
	ctx context.Context,
	token contextx.BearerToken,
	set value.SetName,
) (entity.Configuration, context.Context, error) {
	ctx = contextx.WithBearerToken(ctx, token)

	if err := search.CheckToken(ctx); err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	config := r.configs.Snapshot()
	if len(config) == 0 {
		return nil, nil, domain.NewError(errcodes.NoProfiles, "no collections configured")
	}

	if _, err := search.Plan(config, set); err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	return config, ctx, nil
}

func (r *Runner) start(
	ctx context.Context,
	kind Kind,
	set value.SetName,
	work func(context.Context, *state) error,
) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.running[kind]; ok {
		return Run{}, domain.Errorf(errcodes.RunInProgress, "%s run %s is already in progress", kind, id)
	}

	st := newState(xid.New().String(), kind, set)
	r.running[kind] = st.id
	r.runs.SetDefault(st.id, st)

	// Запуск переживает HTTP-запрос, который его создал, и отменяется только
	// остановкой Runner.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(r.ctx, cancel)

	log := logger(ctx).With(slog.String(logx.FieldRunID, st.id), slog.String(logx.FieldRunKind, kind.String()))
	runCtx = contextx.WithLogger(runCtx, log)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer cancel()
		defer stop()
		defer func() {
			r.mu.Lock()
			delete(r.running, kind)
			r.mu.Unlock()
		}()

		log.Info("run started")

		err := work(runCtx, st)
		st.finish(err)

		run := st.snapshot()
		runsFinished.WithLabelValues(kind.String(), run.Status.String()).Inc()

		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("run failed", logx.Error(err))
		} else {
			log.Info("run finished", slog.Int64(logx.FieldDurationMs, run.FinishedAt.Sub(run.StartedAt).Milliseconds()))
		}

		r.notify(runCtx, run)
	}()

	return st.snapshot(), nil
}

func (r *Runner) notify(ctx context.Context, run Run) {
	for _, n := range r.notifiers {
		if err := n.NotifyRun(ctx, run); err != nil {
			logger(ctx).Error("notify run", logx.Error(err))
		}
	}
}

// Result текущее состояние запуска по id.
func (r *Runner) Result(id string) (Run, error) {
	cached, ok := r.runs.Get(id)
	if !ok {
		return Run{}, domain.Errorf(errcodes.RunNotFound, "run %q not found", id)
	}

	st, _ := cached.(*state) //nolint:errcheck,forcetypeassert

	return st.snapshot(), nil
}

// IsRunning возвращает, выполняется ли сейчас запуск указанного вида.
func (r *Runner) IsRunning(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.running[kind]

	return ok
}

// Wait дожидается завершения всех запущенных горутин.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Stop отменяет текущие запуски и ждёт их завершения.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Run держит Runner как модуль приложения и останавливает его вместе с ctx.
func (r *Runner) Run(ctx context.Context) error {
	<-ctx.Done()

	logger(ctx).Info("stopping background runs")
	r.Stop()

	return nil
}
