package middlewarex_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"collection_finder/pkg/contextx"
	"collection_finder/pkg/logx"
	"collection_finder/pkg/middlewarex"
)

func TestTraceIDAndLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var gotTraceID contextx.TraceID

	handler := middlewarex.TraceID(middlewarex.Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, err := contextx.TraceIDFromContext(r.Context())
		rq.NoError(err)

		gotTraceID = traceID

		contextx.LoggerFromContextOrDefault(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNoContent)
	})))

	testCases := []struct {
		name    string
		traceID string
	}{
		{name: "Generated", traceID: ""},
		{name: "Propagated", traceID: "caller-trace"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			buf.Reset()

			req := httptest.NewRequest(http.MethodGet, "/v1/profiles", http.NoBody)
			if tc.traceID != "" {
				req.Header.Set("X-Trace-Id", tc.traceID)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			rq.Equal(http.StatusNoContent, rec.Code)
			rq.NotEmpty(gotTraceID)
			rq.Equal(gotTraceID.String(), rec.Header().Get("X-Trace-Id"))

			if tc.traceID != "" {
				rq.Equal(tc.traceID, gotTraceID.String())
			}

			rq.Contains(buf.String(), `"`+logx.FieldTraceID+`":"`+gotTraceID.String()+`"`)
			rq.Contains(buf.String(), "/v1/profiles")
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestResponseLoggingMasksToken(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	ctxLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), 1024)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"token":"secret-value"}`)) //nolint:errcheck
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req = req.WithContext(contextx.WithLogger(req.Context(), ctxLogger))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	rq.Equal(`{"token":"secret-value"}`, rec.Body.String())
	rq.True(strings.Contains(buf.String(), "[MASKED]"))
	rq.NotContains(buf.String(), "secret-value")
	rq.Contains(buf.String(), `"`+logx.FieldResponseStatus+`":200`)
}
