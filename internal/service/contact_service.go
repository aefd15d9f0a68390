// internal/service/contact_service.go
package service

import (
	"io"
	"strings"

	"github.com/unclebandit/paigham-backend/internal/importer"
	"github.com/unclebandit/paigham-backend/internal/mapper"
	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/repository"
)

type ContactService struct {
	ListRepo repository.ContactListRepositoryInterface
}

// ImportPreview is the bounded sample returned for user confirmation before
// a list is committed.
type ImportPreview struct {
	Headers []string              `json:"headers"`
	Preview []model.ContactRecord `json:"preview"`
	Total   int                   `json:"total"`
}

// PreviewImport parses an uploaded contact file and returns its headers plus
// the first records for confirmation. The full record set stays client-side
// until commit.
func (s *ContactService) PreviewImport(r io.Reader, requiredColumns []string) (*ImportPreview, error) {
	imp, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(requiredColumns) > 0 {
		if err := imp.ValidateColumns(requiredColumns); err != nil {
			return nil, err
		}
	}
	return &ImportPreview{
		Headers: imp.Headers,
		Preview: imp.Preview(importer.PreviewSize),
		Total:   len(imp.Records),
	}, nil
}

// standard contact columns; everything else lands in Attributes.
var standardFields = []string{"first_name", "last_name", "email", "phone"}

// CreateList validates the field mapping, converts the imported records to
// stored contacts, and commits the list with its members. The repository
// compensates (deletes the list) if member insertion fails partway.
func (s *ContactService) CreateList(companyID, name string, required []string, bindings map[string]string, records []model.ContactRecord) (*model.ContactList, error) {
	binding, err := mapper.Build(required, bindings)
	if err != nil {
		return nil, err
	}

	contacts := make([]*model.Contact, 0, len(records))
	for _, rec := range records {
		c := &model.Contact{
			FirstName: binding.Value(rec, "first_name"),
			LastName:  binding.Value(rec, "last_name"),
			Email:     binding.Value(rec, "email"),
			Phone:     binding.Value(rec, "phone"),
		}

		// Unmapped standard fields fall back to same-named columns.
		if c.FirstName == "" {
			c.FirstName = rec["first_name"]
		}
		if c.LastName == "" {
			c.LastName = rec["last_name"]
		}
		if c.Email == "" {
			c.Email = rec["email"]
		}
		if c.Phone == "" {
			c.Phone = rec["phone"]
		}

		attrs := map[string]string{}
		for col, val := range rec {
			if !isStandard(col) && strings.TrimSpace(val) != "" {
				attrs[col] = val
			}
		}
		if len(attrs) > 0 {
			c.Attributes = attrs
		}
		contacts = append(contacts, c)
	}

	list := &model.ContactList{CompanyID: companyID, Name: name}
	if err := s.ListRepo.CreateWithContacts(list, contacts); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ContactService) ListContactLists(companyID string) ([]model.ContactList, error) {
	return s.ListRepo.ListByCompany(companyID)
}

func (s *ContactService) DeleteList(companyID, id string) error {
	return s.ListRepo.Delete(companyID, id)
}

func (s *ContactService) Contacts(companyID, listID string) ([]model.Contact, error) {
	return s.ListRepo.Contacts(companyID, listID)
}

func isStandard(col string) bool {
	for _, f := range standardFields {
		if f == col {
			return true
		}
	}
	return false
}
