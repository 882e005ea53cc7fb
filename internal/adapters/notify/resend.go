// Package notify delivers creator-facing notification emails through a
// Resend-compatible HTTP API. Delivery is best effort: the worker logs
// failures and the review flow never observes them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

const defaultAPIURL = "https://api.resend.com/emails"

type ResendSender struct {
	apiURL      string
	apiKey      string
	senderEmail string
	frontendURL string
	client      *http.Client
	logger      *slog.Logger
}

type Config struct {
	APIURL      string
	APIKey      string
	SenderEmail string
	FrontendURL string
	Timeout     time.Duration
}

func NewResendSender(cfg Config, logger *slog.Logger) *ResendSender {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendSender{
		apiURL:      apiURL,
		apiKey:      cfg.APIKey,
		senderEmail: cfg.SenderEmail,
		frontendURL: cfg.FrontendURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type statusTemplate struct {
	color   string
	subject string
	glyph   string
	message string
}

func templateFor(kind, title string) statusTemplate {
	escaped := html.EscapeString(title)
	switch kind {
	case domain.SubmissionApproved:
		return statusTemplate{
			color:   "#10b981",
			subject: "Submission Approved!",
			glyph:   "✓",
			message: fmt.Sprintf(`Your content <strong>&quot;%s&quot;</strong> has been verified and certified as human-written.`, escaped),
		}
	case domain.SubmissionRejected:
		return statusTemplate{
			color:   "#ef4444",
			subject: "Submission Not Approved",
			glyph:   "✗",
			message: fmt.Sprintf(`Your submission <strong>&quot;%s&quot;</strong> was not approved at this time.`, escaped),
		}
	case domain.SubmissionRevisionRequested:
		return statusTemplate{
			color:   "#f59e0b",
			subject: "Revision Requested",
			glyph:   "↻",
			message: fmt.Sprintf(`Your submission <strong>&quot;%s&quot;</strong> requires some revisions before it can be certified.`, escaped),
		}
	default:
		return statusTemplate{
			color:   "#6366f1",
			subject: "Status Update",
			glyph:   "↻",
			message: fmt.Sprintf(`Your submission <strong>&quot;%s&quot;</strong> status has been updated.`, escaped),
		}
	}
}

func (s *ResendSender) Send(ctx context.Context, msg ports.NotificationPayload) error {
	if s.apiKey == "" {
		return nil
	}
	tpl := templateFor(msg.Kind, msg.ContentTitle)

	notesHTML := ""
	if msg.ReviewNotes != "" {
		notesHTML = fmt.Sprintf(`<p style="color:#64748b;"><strong>Reviewer notes:</strong> %s</p>`,
			html.EscapeString(msg.ReviewNotes))
	}
	badgeHTML := ""
	if msg.Kind == domain.SubmissionApproved && msg.VerificationID != "" {
		badgeHTML = fmt.Sprintf(`<p><a href="%s/verify/%s" style="display:inline-block;padding:10px 20px;background:%s;color:white;border-radius:20px;text-decoration:none;font-weight:600;font-size:13px;">View Certificate</a></p>`,
			s.frontendURL, msg.VerificationID, tpl.color)
	}

	body := fmt.Sprintf(`
    <div style="font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:600px;margin:0 auto;background:#f8fafc;padding:20px;">
      <div style="background:white;border-radius:16px;padding:40px;border:1px solid #e2e8f0;">
        <div style="text-align:center;margin-bottom:24px;">
          <div style="display:inline-block;width:56px;height:56px;background:%s20;border-radius:50%%;line-height:56px;font-size:28px;margin-bottom:12px;">%s</div>
          <h2 style="color:#1e293b;margin:0;font-size:22px;">%s</h2>
        </div>
        <p style="color:#475569;">Hi <strong>%s</strong>,</p>
        <p style="color:#475569;">%s</p>
        %s
        %s
        <hr style="border:none;border-top:1px solid #e2e8f0;margin:24px 0;">
        <p style="color:#94a3b8;font-size:12px;text-align:center;">TrustInk, Verified Human Content Certification</p>
      </div>
    </div>`,
		tpl.color, tpl.glyph, tpl.subject,
		html.EscapeString(msg.RecipientName), tpl.message,
		notesHTML, badgeHTML)

	payload, err := json.Marshal(map[string]any{
		"from":    s.senderEmail,
		"to":      []string{msg.RecipientEmail},
		"subject": fmt.Sprintf("TrustInk: %s - %s", tpl.subject, msg.ContentTitle),
		"html":    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(raw))
	}
	s.logger.InfoContext(ctx, "notification email sent",
		"module", "notify",
		"layer", "adapter",
		"operation", "send_email",
		"outcome", "success",
		"kind", msg.Kind,
	)
	return nil
}
