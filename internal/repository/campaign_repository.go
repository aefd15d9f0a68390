package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(companyID, id string) (*model.Campaign, error)
	ListCampaigns(companyID string, offset, limit int, channel, status string) ([]*model.Campaign, int, error)

	// ClaimProcessing is the draft → processing compare-and-swap. It reports
	// false when the campaign was not in draft (already claimed or terminal).
	ClaimProcessing(companyID, id string) (bool, error)
	UpdateProgress(id string, progress, sent, failed, total int) error
	Finalize(id string, status model.CampaignStatus, errorMessage string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, company_id, name, channel, status, template_id, contact_list_id,
	subject, message_template, progress, total_count, sent_count, failed_count,
	credits_used, error_message, sent_at, created_at, updated_at`

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	c.CreatedAt = time.Now()

	query := `
        INSERT INTO campaigns (id, company_id, name, channel, status, template_id, contact_list_id,
            subject, message_template, progress, total_count, sent_count, failed_count, credits_used, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, 0, 0, 0, $11)
    `
	_, err := r.DB.Exec(query,
		c.ID, c.CompanyID, c.Name, c.Channel, c.Status, c.TemplateID, c.ContactListID,
		c.Subject, c.MessageTemplate, c.TotalCount, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(companyID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND company_id=$2`

	var c model.Campaign
	var errMsg sql.NullString
	err := r.DB.QueryRow(query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Channel, &c.Status, &c.TemplateID, &c.ContactListID,
		&c.Subject, &c.MessageTemplate, &c.Progress, &c.TotalCount, &c.SentCount, &c.FailedCount,
		&c.CreditsUsed, &errMsg, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	c.ErrorMessage = errMsg.String
	return &c, nil
}

func (r *CampaignRepository) ListCampaigns(companyID string, offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE company_id=$1`
	args := []interface{}{companyID}
	argPos := 2

	if channel != "" {
		query += fmt.Sprintf(" AND channel=$%d", argPos)
		args = append(args, channel)
		argPos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		var errMsg sql.NullString
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Name, &c.Channel, &c.Status, &c.TemplateID, &c.ContactListID,
			&c.Subject, &c.MessageTemplate, &c.Progress, &c.TotalCount, &c.SentCount, &c.FailedCount,
			&c.CreditsUsed, &errMsg, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		c.ErrorMessage = errMsg.String
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE company_id=$1`
	argsCount := []interface{}{companyID}
	argPosCount := 2
	if channel != "" {
		countQuery += fmt.Sprintf(" AND channel=$%d", argPosCount)
		argsCount = append(argsCount, channel)
		argPosCount++
	}
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) ClaimProcessing(companyID, id string) (bool, error) {
	query := `
        UPDATE campaigns
        SET status=$1, progress=0, sent_count=0, failed_count=0, error_message=NULL, updated_at=NOW()
        WHERE id=$2 AND company_id=$3 AND status=$4
    `
	res, err := r.DB.Exec(query, model.CampaignProcessing, id, companyID, model.CampaignDraft)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *CampaignRepository) UpdateProgress(id string, progress, sent, failed, total int) error {
	query := `
        UPDATE campaigns
        SET progress=$1, sent_count=$2, failed_count=$3, total_count=$4, updated_at=NOW()
        WHERE id=$5
    `
	_, err := r.DB.Exec(query, progress, sent, failed, total, id)
	return err
}

func (r *CampaignRepository) Finalize(id string, status model.CampaignStatus, errorMessage string) error {
	query := `
        UPDATE campaigns
        SET status=$1, error_message=NULLIF($2, ''), sent_at=NOW(), updated_at=NOW()
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, status, errorMessage, id)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
