// internal/handler/email_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/paigham-backend/internal/config"
	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/sendgrid"
	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

// EmailHandler owns the transactional email endpoints: single sends, the
// test send, the bulk campaign path, and the configuration probe.
type EmailHandler struct {
	CampaignService *service.CampaignService
	Defaults        config.SendGridConfig

	// NewClient builds a provider client for a resolved API key; swapped in
	// tests.
	NewClient func(apiKey string) *sendgrid.Client
}

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
	From    string `json:"from"`
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, false)
}

// Test sends a test message through the same path, with the subject marked
// so it is recognizable in an inbox.
func (h *EmailHandler) Test(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, true)
}

func (h *EmailHandler) send(w http.ResponseWriter, r *http.Request, test bool) {
	sess := session.FromContext(r.Context())

	var body emailRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.To == "" || body.Subject == "" || (body.HTML == "" && body.Text == "") {
		respondError(w, http.StatusBadRequest, "to, subject, and html or text are required")
		return
	}

	apiKey, from, err := h.CampaignService.ResolveSender(sess.CompanyID)
	if err != nil {
		respondForErr(w, err)
		return
	}
	if apiKey == "" {
		respondForErr(w, appErrors.NewProviderNotConfigured())
		return
	}
	if body.From != "" {
		from = sendgrid.Address{Email: body.From}
	}

	subject := body.Subject
	if test {
		subject = "[Test] " + subject
	}

	statusCode, err := h.NewClient(apiKey).Send(r.Context(), sendgrid.Email{
		To:      body.To,
		From:    from,
		Subject: subject,
		HTML:    body.HTML,
		Text:    body.Text,
	})
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed to send email",
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"statusCode": statusCode,
	})
}

// SendBulk delivers pre-personalized emails for a campaign. The body carries
// the company id alongside the session; a mismatch is rejected before any
// send.
func (h *EmailHandler) SendBulk(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		CampaignID string              `json:"campaignId"`
		Emails     []service.BulkEmail `json:"emails"`
		CompanyID  string              `json:"companyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.CampaignID == "" || len(body.Emails) == 0 || body.CompanyID == "" {
		respondError(w, http.StatusBadRequest, "missing required fields: campaignId, emails, or companyId")
		return
	}
	if body.CompanyID != sess.CompanyID {
		respondForErr(w, appErrors.NewUnauthorized())
		return
	}

	result, err := h.CampaignService.SendBulkEmails(r.Context(), sess.CompanyID, body.CampaignID, body.Emails)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Config reports whether the process-wide provider settings are present. It
// never returns the key itself.
func (h *EmailHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg := map[string]interface{}{
		"sendgridApiKey":     h.Defaults.APIKey != "",
		"defaultSenderEmail": h.Defaults.DefaultSenderEmail,
		"defaultSenderName":  h.Defaults.DefaultSenderName,
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"config":       cfg,
		"isConfigured": h.Defaults.APIKey != "",
	})
}
