// Package httpclient - общий HTTP клиент для внешних картографических API:
// rate limit, circuit breaker, метрики и логирование.
package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cme-savings-service/internal/pkg/metrics"
)

const maxBodySize = 10 << 20

// Options - параметры клиента конкретного провайдера
type Options struct {
	Name      string
	Timeout   time.Duration
	UserAgent string

	// RateLimit - запросов в секунду, 0 - без ограничения
	RateLimit float64
	Burst     int
}

// Response - прочитанный ответ апстрима
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// StatusError - апстрим вернул не-2xx статус
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// Client - HTTP клиент провайдера
type Client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Response]
	userAgent  string
	logger     *zap.Logger
}

// New создает клиент с rate limiter и circuit breaker
func New(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Burst == 0 {
		opts.Burst = 1
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	log := logger.With(zap.String("provider", opts.Name))
	metrics.CircuitBreakerState.WithLabelValues(opts.Name).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: isSuccessful,
	})

	return &Client{
		name: opts.Name,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:   rate.NewLimiter(limit, opts.Burst),
		breaker:   breaker,
		userAgent: opts.UserAgent,
		logger:    log,
	}
}

// Name - имя провайдера
func (c *Client) Name() string {
	return c.name
}

// State - текущее состояние circuit breaker
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Get выполняет GET запрос с учётом rate limit и circuit breaker
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limit: %w", c.name, err)
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.do(ctx, url)
	})
	metrics.ProviderRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.ProviderRequestsTotal.WithLabelValues(c.name, "rejected").Inc()
			c.logger.Warn("Request rejected by circuit breaker", zap.Error(err))
		default:
			metrics.ProviderRequestsTotal.WithLabelValues(c.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.ProviderRequestsTotal.WithLabelValues(c.name, "success").Inc()
	return resp, nil
}

// GetJSON выполняет GET и декодирует JSON ответ
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Upstream API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("body_size", len(body)))
		return nil, &StatusError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 512),
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// isSuccessful - 4xx и отмена контекста не размыкают breaker
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
