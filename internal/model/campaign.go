// internal/model/campaign.go
package model

import "time"

// Channel is the delivery mechanism of a campaign.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// CampaignStatus represents valid campaign statuses.
type CampaignStatus string

const (
	CampaignDraft      CampaignStatus = "draft"
	CampaignProcessing CampaignStatus = "processing"
	CampaignCompleted  CampaignStatus = "completed"
	CampaignPartial    CampaignStatus = "partial"
	CampaignFailed     CampaignStatus = "failed"
)

// Terminal reports whether the status is final.
func (s CampaignStatus) Terminal() bool {
	return s == CampaignCompleted || s == CampaignPartial || s == CampaignFailed
}

type Campaign struct {
	ID              string         `db:"id" json:"id"`
	CompanyID       string         `db:"company_id" json:"company_id"`
	Name            string         `db:"name" json:"name"`
	Channel         Channel        `db:"channel" json:"channel"`
	Status          CampaignStatus `db:"status" json:"status"`
	TemplateID      *string        `db:"template_id" json:"template_id,omitempty"`
	ContactListID   *string        `db:"contact_list_id" json:"contact_list_id,omitempty"`
	Subject         string         `db:"subject" json:"subject"`
	MessageTemplate string         `db:"message_template" json:"message_template"`
	Progress        int            `db:"progress" json:"progress"`
	TotalCount      int            `db:"total_count" json:"total_count"`
	SentCount       int            `db:"sent_count" json:"sent_count"`
	FailedCount     int            `db:"failed_count" json:"failed_count"`
	CreditsUsed     int            `db:"credits_used" json:"credits_used"`
	ErrorMessage    string         `db:"error_message" json:"error_message,omitempty"`
	SentAt          *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// RequiredRecipientField is the record column a recipient must have a
// non-blank value for before it counts toward the campaign total.
func (c *Campaign) RequiredRecipientField() string {
	if c.Channel == ChannelEmail {
		return "email"
	}
	return "phone"
}

// TerminalStatus applies the unified tri-state policy to a finished send
// loop: completed only if nothing failed, failed only if nothing succeeded,
// partial otherwise.
func TerminalStatus(sent, failed int) CampaignStatus {
	switch {
	case failed == 0:
		return CampaignCompleted
	case sent == 0:
		return CampaignFailed
	default:
		return CampaignPartial
	}
}
