// internal/model/company.go
package model

import "time"

type Company struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	CreditsBalance int       `db:"credits_balance" json:"credits_balance"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CompanySettings holds per-tenant provider configuration. A missing row or
// empty key falls back to the process-wide defaults.
type CompanySettings struct {
	ID                 string `db:"id" json:"id"`
	CompanyID          string `db:"company_id" json:"company_id"`
	SendGridAPIKey     string `db:"sendgrid_api_key" json:"-"`
	DefaultSenderEmail string `db:"default_sender_email" json:"default_sender_email"`
	DefaultSenderName  string `db:"default_sender_name" json:"default_sender_name"`
}
