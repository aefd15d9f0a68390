package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unclebandit/paigham-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	Create(t *model.Template) error
	GetByID(companyID, id string, channel model.Channel) (*model.Template, error)
	ListByCompany(companyID string, channel model.Channel) ([]model.Template, error)
}

// TemplateRepository persists email and SMS templates. The two channels live
// in separate tables (email templates carry a subject) but share one shape.
type TemplateRepository struct {
	DB *sql.DB
}

func tableFor(channel model.Channel) string {
	if channel == model.ChannelSMS {
		return "sms_templates"
	}
	return "email_templates"
}

func (r *TemplateRepository) Create(t *model.Template) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now()

	if t.Channel == model.ChannelSMS {
		query := `
            INSERT INTO sms_templates (id, company_id, name, content, variables, created_by, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `
		_, err := r.DB.Exec(query, t.ID, t.CompanyID, t.Name, t.Content, pq.Array(t.Variables), t.CreatedBy, t.CreatedAt)
		return err
	}

	query := `
        INSERT INTO email_templates (id, company_id, name, subject, content, variables, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.Exec(query, t.ID, t.CompanyID, t.Name, t.Subject, t.Content, pq.Array(t.Variables), t.CreatedBy, t.CreatedAt)
	return err
}

func (r *TemplateRepository) GetByID(companyID, id string, channel model.Channel) (*model.Template, error) {
	t := &model.Template{Channel: channel}

	if channel == model.ChannelSMS {
		query := `
            SELECT id, company_id, name, content, variables, created_by, created_at, updated_at
            FROM sms_templates WHERE id=$1 AND company_id=$2
        `
		err := r.DB.QueryRow(query, id, companyID).Scan(
			&t.ID, &t.CompanyID, &t.Name, &t.Content, pq.Array(&t.Variables), &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	query := `
        SELECT id, company_id, name, subject, content, variables, created_by, created_at, updated_at
        FROM email_templates WHERE id=$1 AND company_id=$2
    `
	err := r.DB.QueryRow(query, id, companyID).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.Subject, &t.Content, pq.Array(&t.Variables), &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) ListByCompany(companyID string, channel model.Channel) ([]model.Template, error) {
	templates := []model.Template{}

	scanRows := func(rows *sql.Rows, withSubject bool) error {
		defer rows.Close()
		for rows.Next() {
			t := model.Template{Channel: channel}
			var err error
			if withSubject {
				err = rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Subject, &t.Content, pq.Array(&t.Variables), &t.CreatedAt, &t.UpdatedAt)
			} else {
				err = rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Content, pq.Array(&t.Variables), &t.CreatedAt, &t.UpdatedAt)
			}
			if err != nil {
				return err
			}
			templates = append(templates, t)
		}
		return rows.Err()
	}

	if channel == model.ChannelSMS {
		rows, err := r.DB.Query(`
            SELECT id, company_id, name, content, variables, created_at, updated_at
            FROM sms_templates WHERE company_id=$1 ORDER BY created_at DESC
        `, companyID)
		if err != nil {
			return nil, err
		}
		if err := scanRows(rows, false); err != nil {
			return nil, err
		}
		return templates, nil
	}

	rows, err := r.DB.Query(`
        SELECT id, company_id, name, subject, content, variables, created_at, updated_at
        FROM email_templates WHERE company_id=$1 ORDER BY created_at DESC
    `, companyID)
	if err != nil {
		return nil, err
	}
	if err := scanRows(rows, true); err != nil {
		return nil, err
	}
	return templates, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
