// Package notification доставляет события бронирования во внешнюю систему
// уведомлений через webhook.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/airline-booking/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с webhook системы уведомлений.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для отправки событий по указанному адресу.
func NewClient(url string) *Client {
	return &Client{
		url: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Send отправляет событие. Возвращает код ответа и, для 429, время ожидания
// из заголовка Retry-After.
func (c *Client) Send(ctx context.Context, event model.BookingEvent) (int, time.Duration, error) {
	if c == nil || c.url == "" {
		return 0, 0, fmt.Errorf("notification client not configured")
	}

	url := c.url
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	body, err := json.Marshal(event)
	if err != nil {
		return 0, 0, fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return resp.StatusCode, retryAfter, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return resp.StatusCode, 0, nil
}
