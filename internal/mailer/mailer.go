// Package mailer sends transactional mail through the SendGrid HTTP
// API. There is no SDK dependency, the API is a single JSON POST.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appconfig "facture/internal/config"
	"facture/lib/sl"
)

type Mailer struct {
	apiKey  string
	sendUrl string
	from    string
	client  *http.Client
	log     *slog.Logger
}

func New(conf *appconfig.Config, log *slog.Logger) *Mailer {
	return &Mailer{
		apiKey:  conf.Mail.ApiKey,
		sendUrl: conf.Mail.SendUrl,
		from:    conf.Mail.FromEmail,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With(sl.Module("mailer")),
	}
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type message struct {
	Personalizations []struct {
		To []address `json:"to"`
	} `json:"personalizations"`
	From    address   `json:"from"`
	Subject string    `json:"subject"`
	Content []content `json:"content"`
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("mail api key not configured")
	}

	msg := message{
		From:    address{Email: m.from},
		Subject: subject,
		Content: []content{{Type: "text/plain", Value: body}},
	}
	msg.Personalizations = append(msg.Personalizations, struct {
		To []address `json:"to"`
	}{To: []address{{Email: to}}})

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.sendUrl, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("send mail: unexpected status %d", resp.StatusCode)
	}
	m.log.Debug("mail sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}
