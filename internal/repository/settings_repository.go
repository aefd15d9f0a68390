package repository

import (
	"database/sql"

	"github.com/unclebandit/paigham-backend/internal/model"
)

type SettingsRepositoryInterface interface {
	GetByCompany(companyID string) (*model.CompanySettings, error)
}

type SettingsRepository struct {
	DB *sql.DB
}

// GetByCompany fetches the tenant's provider settings. A missing row is not
// an error; callers fall back to process-wide defaults.
func (r *SettingsRepository) GetByCompany(companyID string) (*model.CompanySettings, error) {
	query := `
        SELECT id, company_id, COALESCE(sendgrid_api_key, ''), COALESCE(default_sender_email, ''), COALESCE(default_sender_name, '')
        FROM company_settings WHERE company_id=$1
    `
	var s model.CompanySettings
	err := r.DB.QueryRow(query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.SendGridAPIKey, &s.DefaultSenderEmail, &s.DefaultSenderName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
