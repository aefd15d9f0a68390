package repository

import (
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
)

func newContactListRepo(t *testing.T) (*ContactListRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ContactListRepository{DB: db}, mock
}

func TestCreateWithContacts(t *testing.T) {
	repo, mock := newContactListRepo(t)

	mock.ExpectExec("INSERT INTO contact_lists").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	list := &model.ContactList{CompanyID: "co1", Name: "leads"}
	contacts := []*model.Contact{
		{FirstName: "Alice", Phone: "0700111222"},
		{FirstName: "Bob", Phone: "0700333444"},
	}

	require.NoError(t, repo.CreateWithContacts(list, contacts))

	assert.NotEmpty(t, list.ID)
	assert.Equal(t, 2, list.ContactCount)
	assert.Equal(t, list.ID, contacts[0].ListID)
	assert.Equal(t, "co1", contacts[1].CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithContactsCompensatesOnFailure(t *testing.T) {
	repo, mock := newContactListRepo(t)

	mock.ExpectExec("INSERT INTO contact_lists").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnError(errors.New("column mismatch"))
	// The half-created list must be cleaned up.
	mock.ExpectExec("DELETE FROM contact_lists").
		WillReturnResult(sqlmock.NewResult(0, 1))

	list := &model.ContactList{CompanyID: "co1", Name: "leads"}
	err := repo.CreateWithContacts(list, []*model.Contact{{FirstName: "Alice"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create contacts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteContactListNotFound(t *testing.T) {
	repo, mock := newContactListRepo(t)

	mock.ExpectExec("DELETE FROM contacts").
		WithArgs("l1", "co1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM contact_lists").
		WithArgs("l1", "co1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete("co1", "l1")

	var notFound *appErrors.ErrContactListNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "l1", notFound.ListID)
}

func TestContactsUnmarshalsAttributes(t *testing.T) {
	repo, mock := newContactListRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "company_id", "list_id", "first_name", "last_name", "email", "phone", "attributes", "created_at",
	}).AddRow("ct1", "co1", "l1", "Alice", "Doe", "alice@example.com", "0700111222", []byte(`{"city":"Nairobi"}`), time.Now())

	mock.ExpectQuery("SELECT .+ FROM contacts WHERE list_id=").
		WithArgs("l1", "co1").
		WillReturnRows(rows)

	contacts, err := repo.Contacts("co1", "l1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Nairobi", contacts[0].Attributes["city"])
	assert.Equal(t, "alice@example.com", contacts[0].Email)
}
