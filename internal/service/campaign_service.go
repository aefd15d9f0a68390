// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/unclebandit/paigham-backend/internal/config"
	"github.com/unclebandit/paigham-backend/internal/delivery"
	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/mapper"
	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/repository"
	"github.com/unclebandit/paigham-backend/internal/sendgrid"
)

// emailBatchSize is how many recipients the email path sends between
// progress writes. The SMS path persists after every recipient.
const emailBatchSize = 100

// EmailGatewayFactory builds a delivery gateway for a resolved tenant API
// key and sender identity.
type EmailGatewayFactory func(apiKey string, from sendgrid.Address) delivery.Gateway

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ListRepo     repository.ContactListRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	CreditRepo   repository.CreditRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface

	Defaults     config.SendGridConfig
	EmailGateway EmailGatewayFactory
	SMSGateway   delivery.Gateway
}

// ProcessResult reports the outcome of one campaign send.
type ProcessResult struct {
	CampaignID string               `json:"campaign_id"`
	Status     model.CampaignStatus `json:"status"`
	Sent       int                  `json:"sent"`
	Failed     int                  `json:"failed"`
	Total      int                  `json:"total"`
}

// CreateCampaign persists a draft campaign. When a template reference is
// given its content is copied onto the campaign; otherwise the inline
// message template is used as-is.
func (s *CampaignService) CreateCampaign(companyID string, c *model.Campaign) (*model.Campaign, error) {
	c.CompanyID = companyID
	if c.Channel != model.ChannelEmail && c.Channel != model.ChannelSMS {
		return nil, fmt.Errorf("unknown channel: %s", c.Channel)
	}

	if c.TemplateID != nil {
		t, err := s.TemplateRepo.GetByID(companyID, *c.TemplateID, c.Channel)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("template not found")
		}
		c.MessageTemplate = t.Content
		if c.Subject == "" {
			c.Subject = t.Subject
		}
	}
	if strings.TrimSpace(c.MessageTemplate) == "" {
		return nil, fmt.Errorf("message template cannot be empty")
	}

	if c.ContactListID != nil {
		list, err := s.ListRepo.GetByID(companyID, *c.ContactListID)
		if err != nil {
			return nil, err
		}
		c.TotalCount = list.ContactCount
	}

	c.Status = model.CampaignDraft
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns fetches campaigns with pagination.
func (s *CampaignService) ListCampaigns(companyID string, page, pageSize int, channel, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(companyID, offset, pageSize, channel, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return campaigns, pagination, nil
}

// GetCampaign fetches one campaign scoped to the company.
func (s *CampaignService) GetCampaign(companyID, id string) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(companyID, id)
}

// RenderPreview personalizes the campaign template with the first contact of
// its list, or with an empty record when the list is empty.
func (s *CampaignService) RenderPreview(companyID, campaignID string) (string, error) {
	campaign, err := s.CampaignRepo.GetByID(companyID, campaignID)
	if err != nil {
		return "", err
	}

	rec := model.ContactRecord{}
	if campaign.ContactListID != nil {
		contacts, err := s.ListRepo.Contacts(companyID, *campaign.ContactListID)
		if err != nil {
			return "", err
		}
		if len(contacts) > 0 {
			rec = contacts[0].Record()
		}
	}

	binding := mapper.Identity(ExtractVariables(campaign.MessageTemplate))
	return Personalize(campaign.MessageTemplate, rec, binding), nil
}

// ResolveSender returns the tenant's provider key and sender identity,
// falling back to process-wide defaults. The key may be empty; callers that
// need email delivery must treat that as a configuration error.
func (s *CampaignService) ResolveSender(companyID string) (string, sendgrid.Address, error) {
	apiKey := s.Defaults.APIKey
	from := sendgrid.Address{Email: s.Defaults.DefaultSenderEmail, Name: s.Defaults.DefaultSenderName}

	settings, err := s.SettingsRepo.GetByCompany(companyID)
	if err != nil {
		return "", sendgrid.Address{}, err
	}
	if settings != nil {
		if settings.SendGridAPIKey != "" {
			apiKey = settings.SendGridAPIKey
		}
		if settings.DefaultSenderEmail != "" {
			from.Email = settings.DefaultSenderEmail
		}
		if settings.DefaultSenderName != "" {
			from.Name = settings.DefaultSenderName
		}
	}
	return apiKey, from, nil
}

// Process runs the campaign send loop: claim the draft, filter valid
// recipients, personalize and deliver one message per recipient, persist
// counters as it goes, then settle the terminal status and debit credits.
//
// Preconditions fail before the claim, leaving the campaign in draft. A
// delivery failure only increments the failed counter; a persistence failure
// aborts the loop and surfaces to the caller.
func (s *CampaignService) Process(ctx context.Context, companyID, campaignID string) (*ProcessResult, error) {
	campaign, err := s.CampaignRepo.GetByID(companyID, campaignID)
	if err != nil {
		return nil, err
	}

	apiKey, from, err := s.ResolveSender(companyID)
	if err != nil {
		return nil, err
	}

	var gateway delivery.Gateway
	switch campaign.Channel {
	case model.ChannelEmail:
		if apiKey == "" {
			return nil, appErrors.NewProviderNotConfigured()
		}
		gateway = s.EmailGateway(apiKey, from)
	default:
		gateway = s.SMSGateway
	}

	claimed, err := s.CampaignRepo.ClaimProcessing(companyID, campaignID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the claim. The re-fetch only decorates the error message, so
		// a failure here degrades to "unknown" rather than masking the 409.
		status := "unknown"
		if cur, err := s.CampaignRepo.GetByID(companyID, campaignID); err == nil {
			status = string(cur.Status)
		}
		return nil, appErrors.NewNotDraft(status)
	}

	if campaign.ContactListID == nil {
		return s.fail(campaignID, "campaign has no contact list")
	}
	contacts, err := s.ListRepo.Contacts(companyID, *campaign.ContactListID)
	if err != nil {
		if _, failErr := s.fail(campaignID, "failed to load contacts"); failErr != nil {
			log.Println("⚠️ failed to mark campaign failed:", failErr)
		}
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	// Recipients whose required field is blank are excluded from the total
	// and from both counters.
	requiredField := campaign.RequiredRecipientField()
	var recipients []model.ContactRecord
	for _, c := range contacts {
		rec := c.Record()
		if strings.TrimSpace(rec[requiredField]) != "" {
			recipients = append(recipients, rec)
		}
	}
	total := len(recipients)
	if total == 0 {
		return s.fail(campaignID, "contact list has no valid recipients")
	}

	if err := s.CampaignRepo.UpdateProgress(campaignID, 0, 0, 0, total); err != nil {
		return nil, fmt.Errorf("persist progress: %w", err)
	}

	persistEvery := 1
	if campaign.Channel == model.ChannelEmail {
		persistEvery = emailBatchSize
	}

	binding := mapper.Identity(append(ExtractVariables(campaign.MessageTemplate+" "+campaign.Subject), requiredField))

	sent, failed := 0, 0
	for _, rec := range recipients {
		msg := delivery.Message{
			To:      rec[requiredField],
			Subject: Personalize(campaign.Subject, rec, binding),
			Body:    Personalize(campaign.MessageTemplate, rec, binding),
		}

		if err := gateway.Send(ctx, msg); err != nil {
			failed++
			log.Println("⚠️ send failed for", msg.To, ":", err)
		} else {
			sent++
		}

		done := sent + failed
		if done%persistEvery == 0 || done == total {
			progress := int(math.Round(float64(done) / float64(total) * 100))
			if err := s.CampaignRepo.UpdateProgress(campaignID, progress, sent, failed, total); err != nil {
				return nil, fmt.Errorf("persist progress: %w", err)
			}
		}
	}

	status := model.TerminalStatus(sent, failed)
	if err := s.CampaignRepo.Finalize(campaignID, status, ""); err != nil {
		return nil, fmt.Errorf("finalize campaign: %w", err)
	}

	if sent > 0 {
		if err := s.CreditRepo.RecordCampaignUsage(companyID, campaignID, sent); err != nil {
			return nil, fmt.Errorf("record credit usage: %w", err)
		}
	}

	return &ProcessResult{
		CampaignID: campaignID,
		Status:     status,
		Sent:       sent,
		Failed:     failed,
		Total:      total,
	}, nil
}

func (s *CampaignService) fail(campaignID, reason string) (*ProcessResult, error) {
	if err := s.CampaignRepo.Finalize(campaignID, model.CampaignFailed, reason); err != nil {
		return nil, fmt.Errorf("finalize campaign: %w", err)
	}
	return &ProcessResult{CampaignID: campaignID, Status: model.CampaignFailed}, nil
}

// BulkEmail is one pre-personalized message in the bulk email path.
type BulkEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// BulkResult reports bulk send counts.
type BulkResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// SendBulkEmails delivers caller-personalized emails for a campaign in
// batches of 100, then settles the campaign's terminal status under the same
// tri-state policy as Process. The campaign must belong to the company and
// must not already be terminal.
func (s *CampaignService) SendBulkEmails(ctx context.Context, companyID, campaignID string, emails []BulkEmail) (*BulkResult, error) {
	campaign, err := s.CampaignRepo.GetByID(companyID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status.Terminal() {
		return nil, appErrors.NewNotDraft(string(campaign.Status))
	}

	apiKey, from, err := s.ResolveSender(companyID)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, appErrors.NewProviderNotConfigured()
	}
	gateway := s.EmailGateway(apiKey, from)

	log.Printf("Sending %d emails for campaign %s", len(emails), campaignID)

	total := len(emails)
	success, failed := 0, 0
	for i := 0; i < total; i += emailBatchSize {
		end := i + emailBatchSize
		if end > total {
			end = total
		}
		for _, email := range emails[i:end] {
			body := email.HTML
			if body == "" {
				body = email.Text
			}
			err := gateway.Send(ctx, delivery.Message{To: email.To, Subject: email.Subject, Body: body})
			if err != nil {
				failed++
				log.Println("⚠️ email send error:", err)
			} else {
				success++
			}
		}

		progress := int(math.Round(float64(success+failed) / float64(total) * 100))
		if err := s.CampaignRepo.UpdateProgress(campaignID, progress, success, failed, total); err != nil {
			return nil, fmt.Errorf("persist progress: %w", err)
		}
	}

	if err := s.CampaignRepo.Finalize(campaignID, model.TerminalStatus(success, failed), ""); err != nil {
		return nil, fmt.Errorf("finalize campaign: %w", err)
	}
	if success > 0 {
		if err := s.CreditRepo.RecordCampaignUsage(companyID, campaignID, success); err != nil {
			return nil, fmt.Errorf("record credit usage: %w", err)
		}
	}

	return &BulkResult{Success: success, Failed: failed, Total: total}, nil
}
