// Package transport is the HTTP layer under the public client: request
// building, authentication, rate limiting, retries with circuit breaking,
// and decoding of both success and failure responses.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vectorgov/vectorgov-go/internal/apierr"
	"github.com/vectorgov/vectorgov-go/internal/observability/logging"
	"github.com/vectorgov/vectorgov-go/internal/observability/metrics"
	"github.com/vectorgov/vectorgov-go/internal/resilience"
)

const maxErrorBody = 64 << 10

// Options configures a transport Client. BaseURL and APIKey are required;
// everything else has a usable default.
type Options struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
	Policy     resilience.Policy
	// RequestsPerSecond throttles outbound calls client-side; 0 disables.
	RequestsPerSecond float64
	Burst             int
	Logger            *slog.Logger
	Metrics           *metrics.ClientMetrics
}

type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	exec       *resilience.Executor
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.ClientMetrics
}

func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	hooks := resilience.Hooks{}
	if opts.Metrics != nil {
		m := opts.Metrics
		hooks.OnRetry = func(operation string, _ int, _ time.Duration, _ error) {
			m.ObserveRetry(operation)
		}
		hooks.OnStateChange = func(operation, _, to string) {
			m.SetBreakerOpen(operation, to == "open")
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		exec:       resilience.NewExecutor(opts.Policy, logger, hooks),
		limiter:    limiter,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// PostJSON sends payload as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, payload, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apierr.WrapError(apierr.ErrValidation, operation, err)
	}
	return c.do(ctx, operation, out, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// GetJSON issues a GET with optional query parameters.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any, operation string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(ctx, operation, out, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
}

// DeleteJSON issues a DELETE and decodes the acknowledgment.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any, operation string) error {
	return c.do(ctx, operation, out, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	})
}

// PostMultipart uploads a file plus form fields. The file content is
// buffered up front so the request can be retried.
func (c *Client) PostMultipart(
	ctx context.Context,
	path string,
	fields map[string]string,
	fileField, fileName string,
	file io.Reader,
	out any,
	operation string,
) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return apierr.WrapError(apierr.ErrValidation, operation, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return apierr.WrapError(apierr.ErrValidation, operation, err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return apierr.WrapError(apierr.ErrValidation, operation, err)
		}
	}
	if err := writer.Close(); err != nil {
		return apierr.WrapError(apierr.ErrValidation, operation, err)
	}

	body := buf.Bytes()
	contentType := writer.FormDataContentType()
	return c.do(ctx, operation, out, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

func (c *Client) do(
	ctx context.Context,
	operation string,
	out any,
	build func(context.Context) (*http.Request, error),
) error {
	started := time.Now()
	err := c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := build(ctx)
		if err != nil {
			return err
		}
		c.decorate(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return decodeError(resp)
		}
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}, classify)

	elapsed := time.Since(started)
	status := "ok"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.ObserveRequest(operation, status, elapsed.Seconds())
	}
	c.logger.Debug("request_done",
		"operation", operation,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	)

	if err != nil {
		var statusErr *apierr.HTTPStatusError
		if errors.As(err, &statusErr) {
			return apierr.WrapError(statusErr.Kind(), operation, statusErr)
		}
		return apierr.WrapError(apierr.ErrTemporary, operation, err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// decodeError turns a failure response into a typed HTTPStatusError,
// pulling detail, field and upgrade URL from the JSON body and Retry-After
// from the header.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	statusErr := apierr.FromStatus(resp.StatusCode, "")

	var body struct {
		Detail     string `json:"detail"`
		Message    string `json:"message"`
		Field      string `json:"field"`
		UpgradeURL string `json:"upgrade_url"`
		RetryAfter int    `json:"retry_after"`
	}
	if json.Unmarshal(raw, &body) == nil {
		statusErr.Detail = body.Detail
		if statusErr.Detail == "" {
			statusErr.Detail = body.Message
		}
		statusErr.Field = body.Field
		statusErr.UpgradeURL = body.UpgradeURL
		statusErr.RetryAfter = body.RetryAfter
	}
	if statusErr.Detail == "" {
		statusErr.Detail = strings.TrimSpace(string(raw))
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			statusErr.RetryAfter = seconds
		}
	}
	return statusErr
}

func classify(err error) resilience.ErrorClassification {
	var statusErr *apierr.HTTPStatusError
	if errors.As(err, &statusErr) {
		retriable := apierr.Retriable(statusErr.StatusCode)
		return resilience.ErrorClassification{
			Retryable: retriable,
			// 429 is backpressure, not a server fault; keep it out of
			// the breaker accounting.
			RecordFailure: retriable && statusErr.StatusCode != http.StatusTooManyRequests,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	// Transport-level failure (refused connection, reset, DNS).
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
