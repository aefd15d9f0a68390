// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// ErrCampaignNotFound is returned when a campaign id does not exist or
// belongs to another company.
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign %s not found", e.CampaignID)
}

func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrContactListNotFound is returned when a contact list id does not exist
// or belongs to another company.
type ErrContactListNotFound struct {
	ListID string
}

func (e *ErrContactListNotFound) Error() string {
	return fmt.Sprintf("contact list %s not found", e.ListID)
}

func NewContactListNotFound(id string) error {
	return &ErrContactListNotFound{ListID: id}
}

// ErrEmptyImport is returned for an empty or header-only contact file.
type ErrEmptyImport struct{}

func (e *ErrEmptyImport) Error() string {
	return "import file contains no contacts"
}

func NewEmptyImport() error {
	return &ErrEmptyImport{}
}

// ErrMissingFields is returned when an import is missing required columns.
// Fields lists every missing column, not just the first.
type ErrMissingFields struct {
	Fields []string
}

func (e *ErrMissingFields) Error() string {
	return fmt.Sprintf("import is missing required columns: %s", strings.Join(e.Fields, ", "))
}

func NewMissingFields(fields []string) error {
	return &ErrMissingFields{Fields: fields}
}

// ErrIncompleteMapping is returned when a field mapping is submitted with
// unmapped required fields. Missing lists every unmapped field.
type ErrIncompleteMapping struct {
	Missing []string
}

func (e *ErrIncompleteMapping) Error() string {
	return fmt.Sprintf("unmapped required fields: %s", strings.Join(e.Missing, ", "))
}

func NewIncompleteMapping(missing []string) error {
	return &ErrIncompleteMapping{Missing: missing}
}

// ErrProviderNotConfigured is returned when no email provider API key is
// available for the tenant or the process.
type ErrProviderNotConfigured struct{}

func (e *ErrProviderNotConfigured) Error() string {
	return "email provider API key not configured; add one under company settings"
}

func NewProviderNotConfigured() error {
	return &ErrProviderNotConfigured{}
}

// ErrNotDraft is returned when a campaign cannot be claimed for processing
// because another invocation already moved it out of draft.
type ErrNotDraft struct {
	Status string
}

func (e *ErrNotDraft) Error() string {
	return fmt.Sprintf("campaign is not in draft status (current: %s)", e.Status)
}

func NewNotDraft(status string) error {
	return &ErrNotDraft{Status: status}
}

// ErrUnauthorized is returned when the request carries no valid session or
// the session's company does not own the resource.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized"
}

func NewUnauthorized() error {
	return &ErrUnauthorized{}
}
