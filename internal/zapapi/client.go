// Package zapapi is the HTTP client for the ZapLink backend.
package zapapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "zaplink/zapapi"

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://api.zaplink.example".
	BaseURL string

	// Timeout bounds every backend call. Default: 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying client (optional).
	HTTPClient *http.Client

	// BreakerTimeout is how long the breaker stays open before probing again.
	// Default: 30 seconds.
	BreakerTimeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger

	// Tracer overrides the global tracer (optional).
	Tracer trace.Tracer
}

// Client calls the backend. Requests are never retried automatically;
// consecutive server failures open a circuit breaker so a dead backend fails fast.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	// Redirects are returned to the caller so the visitor's browser follows them.
	c := *httpClient
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	logger := cfg.Logger
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "zaplink-backend",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("backend circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &c,
		breaker: breaker,
		logger:  cfg.Logger,
		tracer:  tracer,
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// do sends req through the circuit breaker inside a span named op.
// Transport errors and 5xx responses count as breaker failures; the 5xx
// response is still returned to the caller for error decoding.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	ctx, span := c.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := uuid.NewString()
	req = req.WithContext(ctx)
	req.Header.Set("X-Request-ID", requestID)
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", redactedURL(req)),
		attribute.String("zaplink.request_id", requestID),
	)

	start := time.Now()
	var serverResp *http.Response
	resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
		r, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= 500 {
			serverResp = r
			return nil, fmt.Errorf("server error: %d", r.StatusCode)
		}
		return r, nil
	})

	log := c.logger.With().Str("op", op).Str("request_id", requestID).Dur("elapsed", time.Since(start)).Logger()

	if serverResp != nil {
		span.SetAttributes(attribute.Int("http.status_code", serverResp.StatusCode))
		span.SetStatus(codes.Error, "server error")
		log.Warn().Int("status", serverResp.StatusCode).Msg("backend server error")
		return serverResp, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn().Msg("backend call rejected by open circuit")
			return nil, ErrCircuitOpen
		}
		log.Error().Err(err).Msg("backend request failed")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.Debug().Int("status", resp.StatusCode).Msg("backend call completed")
	return resp, nil
}

// decodeError turns a non-2xx response into an *APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
		apiErr.Code = strings.ToUpper(eb.ErrorCode)
	}
	return apiErr
}

// envelope is the backend's success wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

func decodeData[T any](resp *http.Response) (T, error) {
	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		var zero T
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	return env.Data, nil
}

// redactedURL drops the query so passwords never reach traces.
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}

// Ping checks that the backend answers HTTP at all. Any response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	resp.Body.Close()
	return nil
}
