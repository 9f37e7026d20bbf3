package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scraperite/storefront-backend/pkg/config"
)

const (
	methodEmailitAPI            = "emailit_api"
	methodEmailitAPIAlternative = "emailit_api_alternative"

	emailitAPITimeout = 15 * time.Second
)

type emailitPayload struct {
	From    string                `json:"from"`
	To      string                `json:"to"`
	Subject string                `json:"subject"`
	HTML    string                `json:"html,omitempty"`
	Text    string                `json:"text,omitempty"`
	ReplyTo string                `json:"reply_to,omitempty"`
	Content []emailitContentBlock `json:"content,omitempty"`
}

type emailitContentBlock struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EmailitAPI delivers through the EmailIT HTTP API. A 422 response triggers a
// retry with the content-array payload format some accounts require.
type EmailitAPI struct {
	cfg    config.MailConfig
	client *http.Client
}

func NewEmailitAPI(cfg config.MailConfig) *EmailitAPI {
	return &EmailitAPI{
		cfg:    cfg,
		client: &http.Client{Timeout: emailitAPITimeout},
	}
}

func (t *EmailitAPI) Name() string {
	return methodEmailitAPI
}

func (t *EmailitAPI) Configured() bool {
	return t.cfg.EmailitAPIKey != ""
}

func (t *EmailitAPI) Send(ctx context.Context, msg Message) (string, error) {
	payload := emailitPayload{
		From:    t.fromField(msg),
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.TextOrFallback(),
		ReplyTo: msg.FromEmail,
	}

	status, body, err := t.post(ctx, payload)
	if err != nil {
		return "", err
	}
	if status < 300 {
		return methodEmailitAPI, nil
	}

	if status == http.StatusUnprocessableEntity {
		alternative := emailitPayload{
			From:    payload.From,
			To:      payload.To,
			Subject: payload.Subject,
			ReplyTo: payload.ReplyTo,
			Content: []emailitContentBlock{
				{Type: "text/plain", Value: msg.TextOrFallback()},
				{Type: "text/html", Value: msg.HTML},
			},
		}
		altStatus, altBody, altErr := t.post(ctx, alternative)
		if altErr != nil {
			return "", altErr
		}
		if altStatus < 300 {
			return methodEmailitAPIAlternative, nil
		}
		return "", fmt.Errorf("emailit api error: %d %s", altStatus, truncate(altBody, 200))
	}

	return "", fmt.Errorf("emailit api error: %d %s", status, truncate(body, 200))
}

func (t *EmailitAPI) post(ctx context.Context, payload emailitPayload) (int, string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("encode emailit payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.EmailitAPIURL, bytes.NewReader(encoded))
	if err != nil {
		return 0, "", fmt.Errorf("build emailit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.cfg.EmailitAPIKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("emailit request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(body), nil
}

func (t *EmailitAPI) fromField(msg Message) string {
	name := msg.FromName
	if name == "" {
		name = t.cfg.FromName
	}
	return fmt.Sprintf("%s <%s>", name, t.cfg.FromEmail)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
