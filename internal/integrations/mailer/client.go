package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент API транзакционной почты (POST /emails)
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента.
// ratePerSecond ограничивает частоту запросов к провайдеру (0 - без ограничения).
func NewClient(baseURL, apiKey string, timeout time.Duration, ratePerSecond float64, log Logger) *Client {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// Send отправляет письмо и возвращает id сообщения у провайдера.
// Повторов нет: каждая попытка логируется вызывающей стороной.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal message: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, errResp.Message)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: empty message id", ErrInvalidResponse)
	}

	c.log.Info("Mailer: sent %q to %s, id=%s", msg.Subject, strings.Join(msg.To, ","), out.ID)
	return out.ID, nil
}
