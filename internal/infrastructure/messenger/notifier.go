package messenger

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

	"github.com/rs/zerolog"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/application"
)

// FailureStore は送信に失敗した通知を後から再送できるよう保存する。
type FailureStore interface {
	SaveFailure(ctx context.Context, failure Failure) error
}

// Failure は送信に失敗した通知 1 件分。
type Failure struct {
	Notice   application.SubmissionNotice
	Message  string
	Error    string
	Attempts int
}

// Config はメッセンジャーゲートウェイへの接続設定。
type Config struct {
	Endpoint           string
	DiscordDestination string
	AdminReviewBaseURL string
	Timeout            time.Duration
	Attempts           int
	RetryDelay         time.Duration
}

// Notifier は新規投稿をメッセンジャーゲートウェイ経由で Discord に通知する。
type Notifier struct {
	cfg        Config
	httpClient *http.Client
	failures   FailureStore
	logger     zerolog.Logger
}

func NewNotifier(cfg Config, failures FailureStore, logger zerolog.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	return &Notifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		failures:   failures,
		logger:     logger,
	}
}

// Enabled はエンドポイントと宛先が両方設定されているかを返す。
func (n *Notifier) Enabled() bool {
	return strings.TrimSpace(n.cfg.Endpoint) != "" && strings.TrimSpace(n.cfg.DiscordDestination) != ""
}

func (n *Notifier) NotifySubmission(ctx context.Context, notice application.SubmissionNotice) error {
	if !n.Enabled() {
		return nil
	}
	message := BuildSubmissionMessage(n.cfg.AdminReviewBaseURL, notice)

	err := n.sendWithRetry(ctx, notice.PendingID, message)
	if err == nil {
		return nil
	}
	if n.failures != nil {
		failure := Failure{Notice: notice, Message: message, Error: err.Error(), Attempts: n.cfg.Attempts}
		if saveErr := n.failures.SaveFailure(ctx, failure); saveErr != nil {
			n.logger.Error().Err(saveErr).Str("pendingId", notice.PendingID).Msg("failed to persist notification failure")
		}
	}
	return err
}

// BuildSubmissionMessage は Discord 向けの通知本文を組み立てる。
func BuildSubmissionMessage(adminBaseURL string, notice application.SubmissionNotice) string {
	var builder strings.Builder
	builder.WriteString("**New establishment awaiting moderation**\n")
	builder.WriteString(fmt.Sprintf("- Name: %s\n", notice.Name))
	if address := strings.TrimSpace(notice.Address); address != "" {
		builder.WriteString(fmt.Sprintf("- Address: %s\n", address))
	}
	if notice.WithReview {
		builder.WriteString("- Includes a review\n")
	}
	if base := strings.TrimSpace(adminBaseURL); base != "" && notice.PendingID != "" {
		builder.WriteString(fmt.Sprintf("[Open admin page](%s/%s)\n", strings.TrimRight(base, "/"), notice.PendingID))
	}
	return builder.String()
}

func (n *Notifier) sendWithRetry(ctx context.Context, identifier, text string) error {
	var lastErr error
	for i := 0; i < n.cfg.Attempts; i++ {
		if lastErr = n.send(ctx, identifier, text); lastErr == nil {
			return nil
		}
		if i+1 < n.cfg.Attempts && n.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.cfg.RetryDelay):
			}
		}
	}
	return lastErr
}

func (n *Notifier) send(ctx context.Context, identifier, text string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		identifier = "admin"
	}
	body, err := json.Marshal(map[string]any{
		"userId":      identifier,
		"text":        text,
		"destination": strings.TrimSpace(n.cfg.DiscordDestination),
	})
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(n.cfg.Endpoint, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}

var errNotConfigured = errors.New("messenger is not configured")

// Check は起動時の設定確認用。
func (n *Notifier) Check() error {
	if !n.Enabled() {
		return errNotConfigured
	}
	return nil
}
