package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/report"
	"collection_finder/internal/worker"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/httpx/reply"
	"collection_finder/pkg/httpx/req"
	"collection_finder/pkg/logx"
	"collection_finder/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	reportFormatText = "text"
	reportFormatXLSX = "xlsx"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type runService interface {
	StartSearch(ctx context.Context, params worker.SearchParams) (worker.Run, error)
	StartDebug(ctx context.Context, params worker.DebugParams) (worker.Run, error)
	Result(id string) (worker.Run, error)
}

type RunServer struct {
	runService   runService
	defaultToken contextx.BearerToken
}

func NewRunServer(runService runService) RunServer {
	return RunServer{
		runService: runService,
	}
}

// WithDefaultToken токен маркетплейса для запросов, в которых он не передан.
func (s RunServer) WithDefaultToken(token string) RunServer {
	s.defaultToken = contextx.BearerToken(token)

	return s
}

func (s RunServer) token(token string) contextx.BearerToken {
	if token == "" {
		return s.defaultToken
	}

	return contextx.BearerToken(token)
}

func (s RunServer) postV1Search(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.StartSearchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	set, err := parseOptionalSet(request.Set)
	if err != nil {
		return err
	}

	run, err := s.runService.StartSearch(ctx, worker.SearchParams{
		Token:   s.token(request.Token),
		Set:     set,
		Filters: entity.ParsePriceFilters(request.Filters),
	})
	if err != nil {
		return fmt.Errorf("runService.StartSearch: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTRun(run))

	return nil
}

func (s RunServer) postV1DebugRun(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.StartDebugRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	set, err := parseOptionalSet(request.Set)
	if err != nil {
		return err
	}

	run, err := s.runService.StartDebug(ctx, worker.DebugParams{
		Token:       s.token(request.Token),
		Set:         set,
		StopAtFirst: request.StopAtFirst,
	})
	if err != nil {
		return fmt.Errorf("runService.StartDebug: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTRun(run))

	return nil
}

func (s RunServer) getV1Run(w http.ResponseWriter, r *http.Request) error {
	run, err := s.runService.Result(chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("runService.Result: %w", err)
	}

	reply.JSON(r.Context(), w, http.StatusOK, newRESTRun(run))

	return nil
}

// getV1RunReport отдаёт отчёт завершённого запуска текстом или книгой xlsx.
func (s RunServer) getV1RunReport(w http.ResponseWriter, r *http.Request) error {
	run, err := s.runService.Result(chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("runService.Result: %w", err)
	}

	if run.Status == worker.StatusRunning {
		return domain.Errorf(errcodes.RunInProgress, "run %s is still in progress", run.ID)
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = reportFormatText
	}

	var (
		buf         bytes.Buffer
		contentType string
	)

	switch {
	case format == reportFormatText && run.Search != nil:
		contentType = "text/plain; charset=utf-8"
		err = report.WriteSearch(&buf, *run.Search)
	case format == reportFormatText && run.Debug != nil:
		contentType = "text/plain; charset=utf-8"
		err = report.WriteDebug(&buf, *run.Debug)
	case format == reportFormatXLSX && run.Search != nil:
		contentType = contentTypeXLSX
		err = report.WriteXLSX(&buf, *run.Search)
	case format != reportFormatText && format != reportFormatXLSX, format == reportFormatXLSX && run.Debug != nil:
		return failure.NewInvalidArgumentError(
			"unsupported report format",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("format %q is not available for a %s run", format, run.Kind)),
		)
	default:
		return domain.Errorf(errcodes.NotFound, "run %s finished without a report", run.ID)
	}

	if err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}

	w.Header().Set("Content-Type", contentType)

	if format == reportFormatXLSX {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="collection-%s.xlsx"`, run.ID))
	}

	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(buf.Bytes()); err != nil {
		logger(r.Context()).Error("write report", logx.Error(err))
	}

	return nil
}

// parseOptionalSet пустая строка означает все настроенные сеты.
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
