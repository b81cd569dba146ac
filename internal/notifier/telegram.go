package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Sender delivers a chat message.
type Sender interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  defaultAPIBase,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	base := t.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	return fmt.Sprintf("%s/bot%s/%s", base, t.BotToken, method)
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(t.endpoint("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// LogNotifier writes messages to the log; used when no bot is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (l *LogNotifier) Send(text string) error {
	log.Printf("[INFO] notify:\n%s", text)
	return nil
}

func (l *LogNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	return l.Send(text)
}
