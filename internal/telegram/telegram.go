// Package telegram delivers funding alerts to a chat, rate-limited against
// the Bot API's flood control.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"munifund/internal/format"
	"munifund/internal/portfolio"
)

const messageLimit = 4096

type Sender struct {
	token    string
	chat     string
	threadID *int
	log      *zap.Logger

	client       *http.Client
	queue        chan string
	minInterval  time.Duration
	lastSentTime time.Time
}

func NewSender(token, chat string, threadID *int, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sender{
		token:       token,
		chat:        chat,
		threadID:    threadID,
		log:         log,
		client:      &http.Client{Timeout: 15 * time.Second},
		queue:       make(chan string, 100),
		minInterval: 1200 * time.Millisecond,
	}

	go s.worker()
	return s
}

func (s *Sender) FundingAlert(alert portfolio.Alert) {
	message := formatAlert(alert)
	for _, part := range splitMessage(message, messageLimit) {
		s.queue <- part
	}
}

func (s *Sender) worker() {
	for msg := range s.queue {
		s.sendWithRateLimit(msg)
	}
}

func (s *Sender) sendWithRateLimit(text string) {
	wait := time.Until(s.lastSentTime.Add(s.minInterval))
	if wait > 0 {
		time.Sleep(wait)
	}

	retryAfter, err := s.postMessage(text)
	if err != nil {
		if retryAfter > 0 {
			s.log.Warn("telegram rate limit hit", zap.Duration("retry_after", retryAfter))
			time.Sleep(retryAfter)
			if _, retryErr := s.postMessage(text); retryErr != nil {
				s.log.Error("telegram retry failed", zap.Error(retryErr))
				return
			}
			s.lastSentTime = time.Now()
			return
		}

		s.log.Error("telegram send failed", zap.Error(err))
		return
	}

	s.lastSentTime = time.Now()
}

func (s *Sender) postMessage(text string) (time.Duration, error) {
	payload := map[string]any{
		"chat_id":    s.chat,
		"text":       text,
		"parse_mode": "HTML",
	}
	if s.threadID != nil {
		payload["message_thread_id"] = *s.threadID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.token), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var parsed telegramResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode == http.StatusTooManyRequests && parsed.Parameters.RetryAfter > 0 {
		return time.Duration(parsed.Parameters.RetryAfter) * time.Second, fmt.Errorf("rate limited")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("telegram error: %d %s", resp.StatusCode, parsed.Description)
	}

	return 0, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

func formatAlert(alert portfolio.Alert) string {
	message := fmt.Sprintf("📢 %s\n🆔 %s\n", alert.Title, alert.ProjectRef)
	message += fmt.Sprintf("💰 committed: %s → %s\n",
		format.Currency(alert.PrevCommitted), format.Currency(alert.NewCommitted))
	message += fmt.Sprintf("📈 progress: %d%% → %d%%\n", alert.PrevProgress, alert.NewProgress)
	if alert.CommitmentGap > 0 {
		message += fmt.Sprintf("🎯 commitment gap: %s", format.Currency(alert.CommitmentGap))
	}
	return message
}

func splitMessage(message string, limit int) []string {
	runes := []rune(message)
	if len(runes) <= limit {
		return []string{message}
	}

	parts := []string{}
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
