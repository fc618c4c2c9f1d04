package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"collection_finder/pkg/httpx/reply"
	"collection_finder/pkg/logx"
	"collection_finder/pkg/middlewarex"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	LogFieldMaxLen int
}

// NewRouter собирает chi-роутер с общими middleware и маршрутами API.
func NewRouter(s Server, opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(opts.Logger),
		middlewarex.Recovery,
	)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-Id"},
			ExposedHeaders: []string{"X-Trace-Id"},
			MaxAge:         300,
		}))
	}

	r.Use(
		middlewarex.RequestLogging(masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", handler(s.getV1Catalog))

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", handler(s.getV1Profiles))
			r.Get("/{set}", handler(s.getV1Profile))
			r.Put("/{set}", handler(s.putV1Profile))
			r.Delete("/{set}", handler(s.deleteV1Profile))
		})

		r.Post("/searches", handler(s.postV1Search))
		r.Post("/debug-runs", handler(s.postV1DebugRun))

		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", handler(s.getV1Run))
			r.Get("/report", handler(s.getV1RunReport))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
