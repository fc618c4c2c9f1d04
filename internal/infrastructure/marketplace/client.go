package marketplace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/httpx"
	"collection_finder/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	DefaultAPIURL         = "https://mudream.online/api/graphql"
	DefaultRequestTimeout = 10 * time.Second

	maxResponseSize = 8 << 20
)

// Client клиент GraphQL API маркетплейса. Токен берётся из контекста запроса
// (contextx.WithBearerToken).
type Client struct {
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(apiURL string, timeout time.Duration, transport http.RoundTripper) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Transport: httpx.NewAuthBearerRoundTripper(transport),
			Timeout:   timeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// NewLoggingTransport транспорт с логированием запросов и маскированием токена.
func NewLoggingTransport(logFieldMaxLen int) http.RoundTripper {
	return httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLevel(slog.LevelDebug),
	)
}

// WithRequestInterval минимальный интервал между запросами; 0 снимает ограничение.
func (c *Client) WithRequestInterval(interval time.Duration) *Client {
	if interval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	return c
}

// SearchLots запрашивает лоты для пары (сет, слот) с нужными опциями.
func (c *Client) SearchLots(
	ctx context.Context,
	set value.SetName,
	piece value.Piece,
	codes []value.OptionCode,
) (entity.LotsPage, error) {
	return c.FetchLots(ctx, BuildLotsQuery(set, piece, codes))
}

// FetchLots выполняет один запрос и возвращает первую страницу лотов.
func (c *Client) FetchLots(ctx context.Context, request Request) (entity.LotsPage, error) {
	started := time.Now()

	page, outcome, err := c.fetchLots(ctx, request)

	requestDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())

	if err != nil {
		return entity.LotsPage{}, err
	}

	lotsReceived.Add(float64(len(page.Lots)))

	return page, nil
}

func (c *Client) fetchLots(ctx context.Context, request Request) (entity.LotsPage, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.LotsPage{}, outcomeUnavailable,
			domain.WrapError(err, errcodes.MarketUnavailable, "request cancelled")
	}

	body, err := json.Marshal(request)
	if err != nil {
		return entity.LotsPage{}, outcomeBadResponse, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return entity.LotsPage{}, outcomeUnavailable, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/graphql-response+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return entity.LotsPage{}, outcomeTimeout, domain.WrapError(err, errcodes.TimeoutExceeded, "marketplace request timed out")
		}

		return entity.LotsPage{}, outcomeUnavailable, domain.WrapError(err, errcodes.MarketUnavailable, "marketplace request failed")
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return entity.LotsPage{}, outcomeTimeout, domain.WrapError(err, errcodes.TimeoutExceeded, "marketplace request timed out")
		}

		return entity.LotsPage{}, outcomeUnavailable, domain.WrapError(err, errcodes.MarketUnavailable, "read marketplace response")
	}

	var response lotsResponse

	if err = json.Unmarshal(raw, &response); err != nil {
		return entity.LotsPage{}, outcomeBadResponse, domain.WrapError(err, errcodes.MarketBadResponse,
			fmt.Sprintf("marketplace answered %d with a non-JSON body", resp.StatusCode))
	}

	if response.Data == nil || response.Data.Lots == nil {
		message := entity.MessageNoData
		if details := response.errorMessages(); details != "" {
			message += ": " + details
		}

		return entity.LotsPage{}, outcomeNoData, domain.NewError(errcodes.MarketNoData, message)
	}

	return newDomainLotsPage(*response.Data.Lots), outcomeOK, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var timeoutErr interface{ Timeout() bool }

	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
