package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
)

type ContactListRepositoryInterface interface {
	// CreateWithContacts inserts the list, then its members. If member
	// insertion fails the list row is compensated with a delete so no orphan
	// list survives.
	CreateWithContacts(list *model.ContactList, contacts []*model.Contact) error
	GetByID(companyID, id string) (*model.ContactList, error)
	ListByCompany(companyID string) ([]model.ContactList, error)
	Delete(companyID, id string) error
	Contacts(companyID, listID string) ([]model.Contact, error)
}

type ContactListRepository struct {
	DB *sql.DB
}

func (r *ContactListRepository) CreateWithContacts(list *model.ContactList, contacts []*model.Contact) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	list.ContactCount = len(contacts)
	list.CreatedAt = time.Now()

	query := `
        INSERT INTO contact_lists (id, company_id, name, contact_count, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := r.DB.Exec(query, list.ID, list.CompanyID, list.Name, list.ContactCount, list.CreatedAt); err != nil {
		return fmt.Errorf("create contact list: %w", err)
	}

	if err := r.insertContacts(list, contacts); err != nil {
		// Clean up the list so a half-finished import leaves nothing behind.
		if _, cleanupErr := r.DB.Exec(`DELETE FROM contact_lists WHERE id=$1`, list.ID); cleanupErr != nil {
			log.Println("⚠️ failed to clean up contact list", list.ID, ":", cleanupErr)
		}
		return fmt.Errorf("create contacts: %w", err)
	}
	return nil
}

func (r *ContactListRepository) insertContacts(list *model.ContactList, contacts []*model.Contact) error {
	query := `
        INSERT INTO contacts (id, company_id, list_id, first_name, last_name, email, phone, attributes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	for _, c := range contacts {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.CompanyID = list.CompanyID
		c.ListID = list.ID
		c.CreatedAt = time.Now()

		attrs, err := json.Marshal(c.Attributes)
		if err != nil {
			return err
		}
		if _, err := r.DB.Exec(query,
			c.ID, c.CompanyID, c.ListID, c.FirstName, c.LastName, c.Email, c.Phone, attrs, c.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ContactListRepository) GetByID(companyID, id string) (*model.ContactList, error) {
	query := `
        SELECT id, company_id, name, contact_count, created_at, updated_at
        FROM contact_lists WHERE id=$1 AND company_id=$2
    `
	var l model.ContactList
	err := r.DB.QueryRow(query, id, companyID).Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.ContactCount, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewContactListNotFound(id)
		}
		return nil, err
	}
	return &l, nil
}

func (r *ContactListRepository) ListByCompany(companyID string) ([]model.ContactList, error) {
	query := `
        SELECT id, company_id, name, contact_count, created_at, updated_at
        FROM contact_lists WHERE company_id=$1 ORDER BY created_at DESC
    `
	rows, err := r.DB.Query(query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []model.ContactList{}
	for rows.Next() {
		var l model.ContactList
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.ContactCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// Delete removes contacts first, then the list, matching the persisted
// layout's lack of ON DELETE CASCADE on contacts.list_id.
func (r *ContactListRepository) Delete(companyID, id string) error {
	if _, err := r.DB.Exec(`DELETE FROM contacts WHERE list_id=$1 AND company_id=$2`, id, companyID); err != nil {
		return err
	}
	res, err := r.DB.Exec(`DELETE FROM contact_lists WHERE id=$1 AND company_id=$2`, id, companyID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewContactListNotFound(id)
	}
	return nil
}

func (r *ContactListRepository) Contacts(companyID, listID string) ([]model.Contact, error) {
	query := `
        SELECT id, company_id, list_id, first_name, last_name, email, phone, attributes, created_at
        FROM contacts WHERE list_id=$1 AND company_id=$2
    `
	rows, err := r.DB.Query(query, listID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		var attrs []byte
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ListID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &attrs, &c.CreatedAt); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &c.Attributes); err != nil {
				return nil, err
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ ContactListRepositoryInterface = (*ContactListRepository)(nil)
