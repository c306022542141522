// Package mailer sends the registration confirmation email through the
// Resend API: a thank-you note, the registrant's referral code and a
// shareable signup link carrying that code.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"reunion/entity"
	"reunion/lib/sl"
)

type Config struct {
	APIKey  string
	From    string
	SiteURL string
}

type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
	from    string
	siteURL string
	log     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.resend.com",
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		siteURL: cfg.SiteURL,
		log:     logger.With(sl.Module("mailer")),
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html"`
}

// RegistrationCreated composes and sends the confirmation email.
// Satisfies the core notifier interface.
func (c *Client) RegistrationCreated(ctx context.Context, reg *entity.Registration) error {
	log := c.log.With(
		slog.String("id", reg.Id),
		sl.Secret("to", reg.Email),
	)

	payload := sendRequest{
		From:    c.from,
		To:      []string{reg.Email},
		Subject: fmt.Sprintf("🎓 You're in, %s! ENGG Reunion Registration Confirmed", reg.FirstName()),
		Html:    c.buildEmailHtml(reg),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	status := "ERROR"
	t1 := time.Now()
	defer func() {
		log.Debug("resend request completed",
			slog.String("duration", fmt.Sprintf("%.3fms", float64(time.Since(t1))/float64(time.Millisecond))),
			slog.String("status", status))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	status = resp.Status
	if resp.StatusCode >= 300 {
		log.Error("resend api returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return fmt.Errorf("resend %s: %s", resp.Status, body)
	}
	return nil
}

// ShareLink builds the registration link embedding a referral code.
func (c *Client) ShareLink(code string) string {
	return fmt.Sprintf("%s/register?ref=%s", c.siteURL, code)
}

func (c *Client) buildEmailHtml(reg *entity.Registration) string {
	shareLink := c.ShareLink(reg.ReferralCode)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0; padding:24px; background:#f4f4f7; font-family:Helvetica,Arial,sans-serif; color:#1e3a5f;">
  <div style="max-width:580px; margin:0 auto; background:#ffffff; border-radius:16px; padding:32px;">
    <h1 style="font-size:22px;">🎓 ENGG 2002–2006 Reunion</h1>
    <h2 style="font-size:18px;">Welcome aboard, %s! 🎉</h2>
    <p>Thank you for registering for the <strong>ENGG 2002–2006 Reunion</strong>.
    Twenty years of memories deserve an unforgettable celebration — and it
    won't be the same without you.</p>
    <p><strong>Your details:</strong> %s — %s, %s, %s</p>
    <p style="text-align:center;">
      <span style="display:inline-block; background:#1e3a5f; color:#ffffff; font-size:24px; font-weight:700; letter-spacing:4px; padding:12px 28px; border-radius:12px; font-family:monospace;">%s</span><br/>
      <small>Share this code with batchmates so they can register too!</small>
    </p>
    <p style="text-align:center;"><a href="%s" target="_blank">🔗 Share Registration Link</a><br/>
      <small><a href="%s">%s</a></small></p>
    <p>Got questions? Just reply to this email.</p>
  </div>
</body>
</html>`,
		reg.FirstName(),
		reg.FullName,
		reg.Branch,
		reg.City,
		reg.Country,
		reg.ReferralCode,
		shareLink,
		shareLink,
		shareLink,
	)
}
