package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"course-share-server/config"
	"course-share-server/internal/util"
)

// EmailNotifier отправляет уведомления через внешний webhook почтового
// шлюза. Само формирование и доставка письма — забота шлюза.
type EmailNotifier struct {
	url    string
	client *http.Client
}

func NewEmailNotifier(cfg *config.WebhookConfig) *EmailNotifier {
	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = parsed
		}
	}

	return &EmailNotifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (n *EmailNotifier) SendWelcome(ctx context.Context, email string, username string) error {
	payload := emailPayload{
		To:      email,
		Subject: "Добро пожаловать в CourseShare",
		Body:    fmt.Sprintf("Здравствуйте, %s! Спасибо за регистрацию в CourseShare.", username),
	}

	return n.send(ctx, payload)
}

func (n *EmailNotifier) send(ctx context.Context, payload emailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return util.LogError("[Notifier] ошибка сериализации письма", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		return util.LogError("[Notifier] ошибка создания запроса", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return util.LogError("[Notifier] ошибка отправки webhook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("[Notifier] webhook вернул статус %d", resp.StatusCode)
	}

	return nil
}
