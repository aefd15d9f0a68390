// internal/model/template.go
package model

import "time"

// Template is an email or SMS message template. Variables are derived from
// the content by the template service and recomputed on every write, never
// authored directly.
type Template struct {
	ID        string     `db:"id" json:"id"`
	CompanyID string     `db:"company_id" json:"company_id"`
	Channel   Channel    `db:"-" json:"channel"`
	Name      string     `db:"name" json:"name"`
	Subject   string     `db:"subject" json:"subject,omitempty"` // email only
	Content   string     `db:"content" json:"content"`
	Variables []string   `db:"variables" json:"variables"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
