package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/service/search"
	"collection_finder/internal/domain/value"
	"collection_finder/internal/infrastructure/profilestore"
	"collection_finder/internal/server"
	"collection_finder/internal/worker"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/rest"
	"collection_finder/pkg/tests"
)

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

type fakeMarket struct {
	mu    sync.Mutex
	calls int
}

func (m *fakeMarket) SearchLots(context.Context, value.SetName, value.Piece, []value.OptionCode) (entity.LotsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	price := func(code string, v float64) []entity.Price {
		return []entity.Price{{Value: v, Currency: entity.Currency{Code: code, Title: code}}}
	}

	return entity.LotsPage{Lots: []entity.Lot{
		{ID: "expensive", Prices: price("chaos", 120)},
		{ID: "cheap", Prices: price("chaos", 40)},
		{ID: "too-much", Prices: price("chaos", 900)},
		{ID: "bless-only", Prices: price("bless", 5)},
		{ID: "free"},
	}}, nil
}

type testEnv struct {
	client tests.APIClient
	url    string
	runner *worker.Runner
	market *fakeMarket
}

func newTestEnv(t *testing.T, defaultToken string) testEnv {
	t.Helper()

	store, err := profilestore.Open(context.Background(), filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	market := &fakeMarket{}
	runner := worker.NewRunner(search.NewService(market), store)

	t.Cleanup(runner.Stop)

	srv := server.NewServer(
		server.NewCatalogServer(),
		server.NewProfileServer(store),
		server.NewRunServer(runner).WithDefaultToken(defaultToken),
	)

	httpServer := httptest.NewServer(server.NewRouter(srv, server.RouterOptions{LogFieldMaxLen: 512}))
	t.Cleanup(httpServer.Close)

	return testEnv{
		client: tests.NewAPIClient(httpServer.URL, httpServer.Client()),
		url:    httpServer.URL,
		runner: runner,
		market: market,
	}
}

func profilePath(set string) string {
	return "/v1/profiles/" + url.PathEscape(set)
}

func TestCatalog(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "")

	var catalog rest.Catalog

	resp, err := env.client.Get(context.Background(), "/v1/catalog", &catalog, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Len(catalog.Sets, 44)
	rq.Equal([]string{"helm", "armor", "pants", "gloves", "boots"}, catalog.Pieces)
	rq.Len(catalog.Options, 6)
	rq.Len(catalog.Currencies, 7)

	for _, set := range catalog.Sets {
		switch set.Name {
		case "Volcano":
			rq.Equal([]string{"armor", "pants", "gloves", "boots"}, set.Pieces)
		case "Phoenix Soul":
			rq.Equal([]string{"helm", "armor", "pants", "boots"}, set.Pieces)
		}
	}
}

func TestProfiles(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "")
	ctx := context.Background()

	var saved rest.SaveProfileResponse

	resp, err := env.client.Put(ctx, profilePath("bronze"), rest.SaveProfileRequest{
		Requirements: map[string][]string{"helm": {"dd", "iml", "dd"}, "boots": {}},
	}, &saved, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("inserted", saved.Outcome)
	rq.Equal("Bronze", saved.Profile.Set)
	rq.Equal(map[string][]string{"helm": {"iml", "dd"}}, saved.Profile.Requirements)
	rq.Equal(1, saved.Profile.ConfiguredPieces)
	rq.Equal(5, saved.Profile.TotalPieces)

	resp, err = env.client.Put(ctx, profilePath("Bronze"), rest.SaveProfileRequest{
		Requirements: map[string][]string{"armor": {"rd"}},
	}, &saved, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("updated", saved.Outcome)

	var profiles []rest.Profile

	_, err = env.client.Get(ctx, "/v1/profiles", &profiles, nil)
	rq.NoError(err)
	rq.Len(profiles, 1)
	rq.Equal(map[string][]string{"armor": {"rd"}}, profiles[0].Requirements)

	testCases := []struct {
		name   string
		set    string
		body   map[string][]string
		status int
		code   string
	}{
		{
			name:   "Piece the set does not have",
			set:    "Sacred Fire",
			body:   map[string][]string{"gloves": {"iml"}},
			status: http.StatusBadRequest,
			code:   errcodes.PieceNotApplicable.String(),
		},
		{
			name:   "No options",
			set:    "Pad",
			body:   map[string][]string{"helm": {}},
			status: http.StatusBadRequest,
			code:   errcodes.NoOptionsSelected.String(),
		},
		{
			name:   "Unknown set",
			set:    "Cardboard",
			body:   map[string][]string{"helm": {"iml"}},
			status: http.StatusBadRequest,
			code:   errcodes.InvalidSetName.String(),
		},
		{
			name:   "Unknown option",
			set:    "Pad",
			body:   map[string][]string{"helm": {"crit"}},
			status: http.StatusBadRequest,
			code:   errcodes.InvalidOptionCode.String(),
		},
		{
			name:   "Unknown piece",
			set:    "Pad",
			body:   map[string][]string{"shield": {"iml"}},
			status: http.StatusBadRequest,
			code:   errcodes.InvalidPieceType.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var errResp errorResponse

			resp, err := env.client.Put(ctx, profilePath(tc.set), rest.SaveProfileRequest{Requirements: tc.body}, nil, &errResp)
			rq.NoError(err)
			rq.Equal(tc.status, resp.StatusCode)
			rq.Equal(tc.code, errResp.Code)
			rq.NotEmpty(errResp.SupportID)
		})
	}

	var errResp errorResponse

	resp, err = env.client.Get(ctx, profilePath("Pad"), nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(errcodes.SetNotFound.String(), errResp.Code)

	resp, err = env.client.Delete(ctx, profilePath("Bronze"), nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, env.url+profilePath("Bronze"), http.NoBody)
	rq.NoError(err)

	resp, err = http.DefaultClient.Do(req)
	rq.NoError(err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	rq.NoError(err)
	rq.JSONEq(`{"deleted":false}`, string(body))
}

func TestSearchRun(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "")
	ctx := context.Background()

	var errResp errorResponse

	resp, err := env.client.Post(ctx, "/v1/searches", rest.StartSearchRequest{Token: "token"}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.NoProfiles.String(), errResp.Code)

	_, err = env.client.Put(ctx, profilePath("Bronze"), rest.SaveProfileRequest{
		Requirements: map[string][]string{"helm": {"iml"}},
	}, nil, nil)
	rq.NoError(err)

	resp, err = env.client.Post(ctx, "/v1/searches", rest.StartSearchRequest{}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.TokenMissing.String(), errResp.Code)

	resp, err = env.client.Post(ctx, "/v1/searches", rest.StartSearchRequest{Token: "token", Set: "Pad"}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(errcodes.SetNotFound.String(), errResp.Code)

	var started rest.Run

	resp, err = env.client.Post(ctx, "/v1/searches", rest.StartSearchRequest{
		Token:   "token",
		Filters: map[string]string{"Chaos": "150", "Zen": "", "Bless": "abc"},
	}, &started, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, resp.StatusCode)
	rq.Equal("search", started.Kind)
	rq.NotEmpty(started.ID)

	env.runner.Wait()

	var run rest.Run

	_, err = env.client.Get(ctx, "/v1/runs/"+started.ID, &run, nil)
	rq.NoError(err)
	rq.Equal("finished", run.Status)
	rq.NotNil(run.FinishedAt)
	rq.Equal(5, run.Progress.Done)
	rq.Equal(5, run.Progress.Total)
	rq.Equal(1, env.market.calls)

	rq.NotNil(run.Search)
	rq.Equal(map[string]float64{"Chaos": 150}, run.Search.Filters)
	rq.Len(run.Search.Sets, 1)

	pieces := run.Search.Sets[0].Pieces
	rq.Len(pieces, 5)
	rq.Equal("success", pieces[0].Outcome)
	rq.Equal("Set: Bronze | Type: helm | Options: MH", pieces[0].Criteria)
	rq.Equal(5, pieces[0].Total)
	rq.Equal(2, pieces[0].Filtered)
	rq.Equal("cheap", pieces[0].Lots[0].ID)
	rq.Equal("expensive", pieces[0].Lots[1].ID)
	rq.Equal("40 chaos", pieces[0].Lots[0].PriceText)
	rq.NotNil(pieces[0].Lots[0].Score)
	rq.InDelta(40.0, *pieces[0].Lots[0].Score, 1e-9)

	for _, p := range pieces[1:] {
		rq.Equal("skipped-no-requirements", p.Outcome)
		rq.Equal("No requirements configured", p.Reason)
	}

	text := getReport(t, env.url+"/v1/runs/"+started.ID+"/report", http.StatusOK)
	rq.Contains(text, "Bronze")
	rq.Contains(text, "40 chaos")

	xlsx := getReport(t, env.url+"/v1/runs/"+started.ID+"/report?format=xlsx", http.StatusOK)
	rq.Equal("PK", xlsx[:2])

	getReport(t, env.url+"/v1/runs/"+started.ID+"/report?format=pdf", http.StatusBadRequest)
}

func TestSearchRunWithDefaultToken(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "configured-token")
	ctx := context.Background()

	_, err := env.client.Put(ctx, profilePath("Pad"), rest.SaveProfileRequest{
		Requirements: map[string][]string{"armor": {"dd"}},
	}, nil, nil)
	rq.NoError(err)

	var started rest.Run

	resp, err := env.client.Post(ctx, "/v1/searches", rest.StartSearchRequest{}, &started, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, resp.StatusCode)

	env.runner.Wait()

	var run rest.Run

	_, err = env.client.Get(ctx, "/v1/runs/"+started.ID, &run, nil)
	rq.NoError(err)
	rq.Equal("finished", run.Status)
}

func TestDebugRun(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.client.Put(ctx, profilePath("Volcano"), rest.SaveProfileRequest{
		Requirements: map[string][]string{"armor": {"dd"}, "boots": {"iml"}},
	}, nil, nil)
	rq.NoError(err)

	var started rest.Run

	resp, err := env.client.Post(ctx, "/v1/debug-runs", rest.StartDebugRequest{Token: "token", Set: "volcano"}, &started, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, resp.StatusCode)
	rq.Equal("debug", started.Kind)
	rq.Equal("Volcano", started.Set)

	env.runner.Wait()

	var run rest.Run

	_, err = env.client.Get(ctx, "/v1/runs/"+started.ID, &run, nil)
	rq.NoError(err)
	rq.NotNil(run.Debug)
	rq.Len(run.Debug.Pairs, 2)
	rq.Equal("armor", run.Debug.Pairs[0].Piece)
	rq.Equal(5, run.Debug.Pairs[0].Total)
	rq.Len(run.Debug.Pairs[0].Lots, 5)
	rq.Nil(run.Debug.Pairs[0].Lots[0].Score)

	text := getReport(t, env.url+"/v1/runs/"+started.ID+"/report?format=text", http.StatusOK)
	rq.Contains(text, "Volcano")

	getReport(t, env.url+"/v1/runs/"+started.ID+"/report?format=xlsx", http.StatusBadRequest)
}

func TestRunNotFound(t *testing.T) {
	rq := require.New(t)
	env := newTestEnv(t, "")

	var errResp errorResponse

	resp, err := env.client.Get(context.Background(), "/v1/runs/unknown", nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(errcodes.RunNotFound.String(), errResp.Code)
}

func getReport(t *testing.T, rawURL string, status int) string {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, rawURL, http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, status, resp.StatusCode, string(body))

	return string(body)
}
