package httpx_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"collection_finder/pkg/contextx"
	"collection_finder/pkg/httpx"
	"collection_finder/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type funcMasker func([]byte) []byte

func (f funcMasker) Mask(input []byte) []byte {
	return f(input)
}

func TestLoggingRoundTripper(t *testing.T) {
	const testResponseBody = `{"data":{"lots":null},"token":"qwerty"}`

	rq := require.New(t)

	testCases := []struct {
		name           string
		handlerFunc    http.HandlerFunc
		statusCode     int
		masker         funcMasker
		logFieldMaxLen int
		check          func(req, resp string)
	}{
		{
			name: "Status 200",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			statusCode: http.StatusOK,
			check: func(req, resp string) {
				rq.Contains(req, "GET / HTTP/1.1")
				rq.Contains(resp, "HTTP/1.1 200 OK")
			},
		},
		{
			name: "Status 502 with body",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			statusCode: http.StatusBadGateway,
			check: func(_, resp string) {
				rq.Contains(resp, "HTTP/1.1 502 Bad Gateway")
				rq.Contains(resp, testResponseBody)
			},
		},
		{
			name: "Status 200 (masked)",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			statusCode: http.StatusOK,
			masker: func(input []byte) []byte {
				return regexp.MustCompile(`"token":".+?"`).ReplaceAll(input, []byte("<...>"))
			},
			check: func(_, resp string) {
				rq.Contains(resp, `{"data":{"lots":null},<...>}`)
			},
		},
		{
			name: "Status 200 (with log field size limit)",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			statusCode:     http.StatusOK,
			logFieldMaxLen: 10,
			check: func(req, resp string) {
				rq.Equal("GET / HTTP", req)
				rq.Equal("HTTP/1.1 2", resp)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			httpServer := httptest.NewServer(tc.handlerFunc)
			defer httpServer.Close()

			var buf bytes.Buffer

			ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

			var opts []httpx.Option

			if tc.masker != nil {
				opts = append(opts, httpx.WithSensitiveDataMasker(tc.masker))
			}

			if tc.logFieldMaxLen != 0 {
				opts = append(opts, httpx.WithLogFieldMaxLen(tc.logFieldMaxLen))
			}

			client := &http.Client{
				Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...),
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpServer.URL, http.NoBody)
			rq.NoError(err)

			resp, err := client.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			logLines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			rq.Len(logLines, 2)

			var request, response map[string]any

			rq.NoError(json.Unmarshal(logLines[0], &request))
			rq.NoError(json.Unmarshal(logLines[1], &response))

			tc.check(
				request[logx.FieldRequestBody].(string),
				response[logx.FieldResponseBody].(string),
			)

			const xidLen = 20

			rq.Len(request[logx.FieldRequestID], xidLen)
			rq.Equal(request[logx.FieldRequestID], response[logx.FieldRequestID])
			rq.InDelta(float64(tc.statusCode), response[logx.FieldResponseStatus], 0)

			_, ok := response[logx.FieldDurationMs].(float64)
			rq.True(ok)
		})
	}
}

func TestAuthBearerRoundTripper(t *testing.T) {
	rq := require.New(t)

	var gotAuthorization string

	httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer httpServer.Close()

	client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport)}

	testCases := []struct {
		name     string
		token    string
		expected string
		wantErr  bool
	}{
		{name: "Plain token", token: "abc.def", expected: "Bearer abc.def"},
		{name: "Pasted with prefix", token: "  Bearer abc.def\n", expected: "Bearer abc.def"},
		{name: "Pasted twice", token: "Bearer Bearer abc.def", expected: "Bearer abc.def"},
		{name: "Lower-case prefix", token: "bearer abc.def", expected: "Bearer abc.def"},
		{name: "Token starting with the scheme word", token: "Bearerabc", expected: "Bearer Bearerabc"},
		{name: "Only prefix", token: "Bearer ", wantErr: true},
		{name: "Bare scheme word", token: "Bearer", wantErr: true},
		{name: "Repeated bare prefixes", token: " BEARER bearer ", wantErr: true},
		{name: "No token", token: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			gotAuthorization = ""

			ctx := contextx.WithBearerToken(context.Background(), contextx.BearerToken(tc.token))

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, httpServer.URL, strings.NewReader("{}"))
			rq.NoError(err)

			resp, err := client.Do(req)
			if tc.wantErr {
				rq.ErrorIs(err, contextx.ErrNoValue)
				rq.Empty(gotAuthorization)

				return
			}

			rq.NoError(err)
			resp.Body.Close()

			rq.Equal(tc.expected, gotAuthorization)
			rq.Empty(req.Header.Get("Authorization"), "original request must stay untouched")
		})
	}
}

func TestNormalizeBearerToken(t *testing.T) {
	rq := require.New(t)

	rq.Equal("tok", httpx.NormalizeBearerToken("tok"))
	rq.Equal("tok", httpx.NormalizeBearerToken(" Bearer  tok "))
	rq.Equal("tok", httpx.NormalizeBearerToken("bearer\ttok"))
	rq.Equal("Bearertok", httpx.NormalizeBearerToken("Bearertok"))
	rq.Empty(httpx.NormalizeBearerToken("   "))
	rq.Empty(httpx.NormalizeBearerToken("Bearer "))
	rq.Empty(httpx.NormalizeBearerToken("Bearer"))
	rq.Empty(httpx.NormalizeBearerToken("Bearer Bearer"))
}
