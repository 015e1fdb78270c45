// Пакет remote — HTTP-клиент удалённого API платформы заказов.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// ErrRateLimited — исходящий лимитер не дал слот до истечения контекста.
var ErrRateLimited = errors.New("outbound rate limit")

// maxErrorBody — сколько байт тела ошибки читаем ради сообщения.
const maxErrorBody = 64 << 10

// Options — параметры клиента.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit — запросов в секунду; 0 — без ограничения.
	RateLimit float64
	Burst     int
	// Tracing — оборачивать транспорт в otelhttp.
	Tracing bool
}

// Client — реализация OrderAPI, CatalogAPI и AccountAPI поверх net/http.
type Client struct {
	base    string
	http    *http.Client
	tokens  ports.TokenSource
	limiter *rate.Limiter
	log     ports.Logger
}

var (
	_ ports.OrderAPI   = (*Client)(nil)
	_ ports.CatalogAPI = (*Client)(nil)
	_ ports.AccountAPI = (*Client)(nil)
)

// New — DI-конструктор. tokens может быть nil (запросы без авторизации).
func New(opts Options, tokens ports.TokenSource, log ports.Logger) *Client {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.Tracing {
		transport = otelhttp.NewTransport(transport)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout, Transport: transport},
		tokens:  tokens,
		limiter: limiter,
		log:     log,
	}
}

// do — запрос с bearer-токеном; out == nil — тело ответа игнорируется.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token(ctx)); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.log.Warnf(ctx, "remote %s %s status=%d msg=%q", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage — поле error или message из JSON-тела ошибки.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return strings.TrimSpace(string(raw))
	}
	if len(payload.Error) > 0 {
		var s string
		if json.Unmarshal(payload.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return payload.Message
}
