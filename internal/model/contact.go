// internal/model/contact.go
package model

import "time"

// ContactRecord is one imported row keyed by the trimmed CSV headers. It is
// ephemeral: created at import time and superseded by Contact rows once a
// list is committed.
type ContactRecord map[string]string

type Contact struct {
	ID         string            `db:"id" json:"id"`
	CompanyID  string            `db:"company_id" json:"company_id"`
	ListID     string            `db:"list_id" json:"list_id"`
	FirstName  string            `db:"first_name" json:"first_name"`
	LastName   string            `db:"last_name" json:"last_name"`
	Email      string            `db:"email" json:"email"`
	Phone      string            `db:"phone" json:"phone"`
	Attributes map[string]string `db:"attributes" json:"attributes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}

// Record flattens a stored contact back into the open column->value shape the
// personalizer consumes. Attribute columns never shadow the standard ones.
func (c *Contact) Record() ContactRecord {
	rec := ContactRecord{}
	for k, v := range c.Attributes {
		rec[k] = v
	}
	rec["first_name"] = c.FirstName
	rec["last_name"] = c.LastName
	rec["email"] = c.Email
	rec["phone"] = c.Phone
	return rec
}

type ContactList struct {
	ID           string     `db:"id" json:"id"`
	CompanyID    string     `db:"company_id" json:"company_id"`
	Name         string     `db:"name" json:"name"`
	ContactCount int        `db:"contact_count" json:"contact_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
