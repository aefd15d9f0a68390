package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/paigham-backend/internal/config"
	"github.com/unclebandit/paigham-backend/internal/delivery"
	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/sendgrid"
)

// --- Mock repositories ---

type progressWrite struct {
	progress, sent, failed, total int
}

type memCampaignRepo struct {
	campaign *model.Campaign
	writes   []progressWrite
}

func (m *memCampaignRepo) Create(c *model.Campaign) error {
	m.campaign = c
	return nil
}

func (m *memCampaignRepo) GetByID(companyID, id string) (*model.Campaign, error) {
	if m.campaign == nil || m.campaign.ID != id || m.campaign.CompanyID != companyID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *m.campaign
	return &cp, nil
}

func (m *memCampaignRepo) ListCampaigns(companyID string, offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	return []*model.Campaign{}, 0, nil
}

func (m *memCampaignRepo) ClaimProcessing(companyID, id string) (bool, error) {
	if m.campaign == nil || m.campaign.ID != id || m.campaign.Status != model.CampaignDraft {
		return false, nil
	}
	m.campaign.Status = model.CampaignProcessing
	return true, nil
}

func (m *memCampaignRepo) UpdateProgress(id string, progress, sent, failed, total int) error {
	m.writes = append(m.writes, progressWrite{progress, sent, failed, total})
	m.campaign.Progress = progress
	m.campaign.SentCount = sent
	m.campaign.FailedCount = failed
	m.campaign.TotalCount = total
	return nil
}

func (m *memCampaignRepo) Finalize(id string, status model.CampaignStatus, errorMessage string) error {
	m.campaign.Status = status
	m.campaign.ErrorMessage = errorMessage
	return nil
}

type memListRepo struct {
	contacts []model.Contact

	createdList     *model.ContactList
	createdContacts []*model.Contact
	createErr       error
}

func (m *memListRepo) CreateWithContacts(list *model.ContactList, contacts []*model.Contact) error {
	if m.createErr != nil {
		return m.createErr
	}
	list.ID = "list-created"
	list.ContactCount = len(contacts)
	m.createdList = list
	m.createdContacts = contacts
	return nil
}
func (m *memListRepo) GetByID(companyID, id string) (*model.ContactList, error) {
	return &model.ContactList{ID: id, CompanyID: companyID, ContactCount: len(m.contacts)}, nil
}
func (m *memListRepo) ListByCompany(companyID string) ([]model.ContactList, error) {
	return nil, nil
}
func (m *memListRepo) Delete(companyID, id string) error { return nil }
func (m *memListRepo) Contacts(companyID, listID string) ([]model.Contact, error) {
	return m.contacts, nil
}

type memSettingsRepo struct {
	settings *model.CompanySettings
}

func (m *memSettingsRepo) GetByCompany(companyID string) (*model.CompanySettings, error) {
	return m.settings, nil
}

type memCreditRepo struct {
	usageCredits  int
	usageCampaign string
}

func (m *memCreditRepo) Balance(companyID string) (int, error) { return 0, nil }
func (m *memCreditRepo) ListTransactions(companyID string, limit int) ([]model.CreditTransaction, error) {
	return nil, nil
}
func (m *memCreditRepo) Record(txn *model.CreditTransaction) error { return nil }
func (m *memCreditRepo) RecordCampaignUsage(companyID, campaignID string, credits int) error {
	m.usageCredits = credits
	m.usageCampaign = campaignID
	return nil
}

type memTemplateRepo struct{}

func (m *memTemplateRepo) Create(t *model.Template) error { return nil }
func (m *memTemplateRepo) GetByID(companyID, id string, channel model.Channel) (*model.Template, error) {
	return nil, nil
}
func (m *memTemplateRepo) ListByCompany(companyID string, channel model.Channel) ([]model.Template, error) {
	return nil, nil
}

// fakeGateway records sends and fails for designated recipients.
type fakeGateway struct {
	failFor map[string]bool
	sends   []delivery.Message
}

func (g *fakeGateway) Send(ctx context.Context, msg delivery.Message) error {
	g.sends = append(g.sends, msg)
	if g.failFor[msg.To] {
		return errors.New("provider rejected message")
	}
	return nil
}

// --- Helpers ---

const (
	testCompany = "company-1"
	testList    = "list-1"
)

type fixture struct {
	svc          *CampaignService
	campaignRepo *memCampaignRepo
	listRepo     *memListRepo
	creditRepo   *memCreditRepo
	gateway      *fakeGateway
	emailKeyUsed string
}

func newFixture(channel model.Channel, contacts []model.Contact, settings *model.CompanySettings) *fixture {
	f := &fixture{
		campaignRepo: &memCampaignRepo{},
		listRepo:     &memListRepo{contacts: contacts},
		creditRepo:   &memCreditRepo{},
		gateway:      &fakeGateway{failFor: map[string]bool{}},
	}

	listID := testList
	f.campaignRepo.campaign = &model.Campaign{
		ID:              "campaign-1",
		CompanyID:       testCompany,
		Name:            "spring promo",
		Channel:         channel,
		Status:          model.CampaignDraft,
		ContactListID:   &listID,
		Subject:         "Hello {first_name}",
		MessageTemplate: "Hi {first_name}, see our offer!",
	}

	f.svc = &CampaignService{
		CampaignRepo: f.campaignRepo,
		ListRepo:     f.listRepo,
		SettingsRepo: &memSettingsRepo{settings: settings},
		CreditRepo:   f.creditRepo,
		TemplateRepo: &memTemplateRepo{},
		Defaults:     config.SendGridConfig{DefaultSenderEmail: "noreply@example.com", DefaultSenderName: "Paigham"},
		EmailGateway: func(apiKey string, from sendgrid.Address) delivery.Gateway {
			f.emailKeyUsed = apiKey
			return f.gateway
		},
		SMSGateway: f.gateway,
	}
	return f
}

func smsContacts(n int) []model.Contact {
	contacts := make([]model.Contact, n)
	for i := range contacts {
		contacts[i] = model.Contact{
			FirstName: fmt.Sprintf("User%d", i+1),
			Phone:     fmt.Sprintf("07001112%02d", i+1),
		}
	}
	return contacts
}

// --- Tests ---

func TestProcessAllSucceed(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(4), nil)

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, model.CampaignCompleted, result.Status)
	assert.Equal(t, 4, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, model.CampaignCompleted, f.campaignRepo.campaign.Status)
	assert.Equal(t, 100, f.campaignRepo.campaign.Progress)
	assert.Equal(t, 4, f.creditRepo.usageCredits)
	assert.Equal(t, "campaign-1", f.creditRepo.usageCampaign)
}

func TestProcessAllFail(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(3), nil)
	for _, c := range f.listRepo.contacts {
		f.gateway.failFor[c.Phone] = true
	}

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, model.CampaignFailed, result.Status)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 3, result.Failed)
	// Nothing sent, nothing debited.
	assert.Equal(t, 0, f.creditRepo.usageCredits)
}

func TestProcessMixedOutcome(t *testing.T) {
	contacts := smsContacts(10)
	f := newFixture(model.ChannelSMS, contacts, nil)
	for _, c := range contacts[7:] {
		f.gateway.failFor[c.Phone] = true
	}

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, model.CampaignPartial, result.Status)
	assert.Equal(t, 7, result.Sent)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 100, f.campaignRepo.campaign.Progress)

	// Counter invariants hold at every persisted step.
	for _, w := range f.campaignRepo.writes {
		assert.LessOrEqual(t, w.sent+w.failed, w.total)
		expected := int(math.Round(float64(w.sent+w.failed) / float64(w.total) * 100))
		assert.Equal(t, expected, w.progress)
	}
}

func TestProcessExcludesBlankRequiredField(t *testing.T) {
	contacts := smsContacts(4)
	contacts = append(contacts, model.Contact{FirstName: "Blank", Phone: "   "})
	f := newFixture(model.ChannelSMS, contacts, nil)

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 4, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, f.gateway.sends, 4)
	for _, w := range f.campaignRepo.writes {
		assert.Equal(t, 4, w.total)
	}
}

func TestProcessPersonalizesPerRecipient(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(2), nil)

	_, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	require.Len(t, f.gateway.sends, 2)
	assert.Equal(t, "Hi User1, see our offer!", f.gateway.sends[0].Body)
	assert.Equal(t, "Hello User1", f.gateway.sends[0].Subject)
	assert.Equal(t, "Hi User2, see our offer!", f.gateway.sends[1].Body)
}

func TestProcessEmailWithoutProviderStaysDraft(t *testing.T) {
	contacts := []model.Contact{{FirstName: "Alice", Email: "alice@example.com"}}
	f := newFixture(model.ChannelEmail, contacts, nil)

	_, err := f.svc.Process(context.Background(), testCompany, "campaign-1")

	var provider *appErrors.ErrProviderNotConfigured
	require.True(t, errors.As(err, &provider))
	assert.Equal(t, model.CampaignDraft, f.campaignRepo.campaign.Status)
	assert.Empty(t, f.campaignRepo.writes)
	assert.Empty(t, f.gateway.sends)
}

func TestProcessRejectsSecondInvocation(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(2), nil)
	f.campaignRepo.campaign.Status = model.CampaignProcessing

	_, err := f.svc.Process(context.Background(), testCompany, "campaign-1")

	var notDraft *appErrors.ErrNotDraft
	require.True(t, errors.As(err, &notDraft))
	assert.Equal(t, string(model.CampaignProcessing), notDraft.Status)
	assert.Empty(t, f.gateway.sends)
}

func TestProcessUnknownCampaign(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(1), nil)

	_, err := f.svc.Process(context.Background(), testCompany, "missing")

	var notFound *appErrors.ErrCampaignNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestProcessForeignCampaignNotFound(t *testing.T) {
	f := newFixture(model.ChannelSMS, smsContacts(1), nil)

	_, err := f.svc.Process(context.Background(), "other-company", "campaign-1")

	var notFound *appErrors.ErrCampaignNotFound
	assert.True(t, errors.As(err, &notFound))
	assert.Empty(t, f.gateway.sends)
}

func TestProcessNoValidRecipients(t *testing.T) {
	contacts := []model.Contact{{FirstName: "Alice", Phone: " "}}
	f := newFixture(model.ChannelSMS, contacts, nil)

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, model.CampaignFailed, result.Status)
	assert.Equal(t, "contact list has no valid recipients", f.campaignRepo.campaign.ErrorMessage)
	assert.Empty(t, f.gateway.sends)
}

func TestProcessEmailUsesTenantKey(t *testing.T) {
	contacts := []model.Contact{{FirstName: "Alice", Email: "alice@example.com"}}
	settings := &model.CompanySettings{
		CompanyID:          testCompany,
		SendGridAPIKey:     "tenant-key",
		DefaultSenderEmail: "news@tenant.example",
		DefaultSenderName:  "Tenant",
	}
	f := newFixture(model.ChannelEmail, contacts, settings)
	f.svc.Defaults.APIKey = "env-key"

	result, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	assert.Equal(t, model.CampaignCompleted, result.Status)
	assert.Equal(t, "tenant-key", f.emailKeyUsed)
}

func TestProcessEmailBatchesProgressWrites(t *testing.T) {
	contacts := []model.Contact{
		{FirstName: "A", Email: "a@example.com"},
		{FirstName: "B", Email: "b@example.com"},
		{FirstName: "C", Email: "c@example.com"},
	}
	settings := &model.CompanySettings{CompanyID: testCompany, SendGridAPIKey: "key"}
	f := newFixture(model.ChannelEmail, contacts, settings)

	_, err := f.svc.Process(context.Background(), testCompany, "campaign-1")
	require.NoError(t, err)

	// The email path persists per batch of 100, so only the initial write
	// and the final one happen for a small list.
	require.Len(t, f.campaignRepo.writes, 2)
	assert.Equal(t, progressWrite{0, 0, 0, 3}, f.campaignRepo.writes[0])
	assert.Equal(t, progressWrite{100, 3, 0, 3}, f.campaignRepo.writes[1])
}

func TestSendBulkEmails(t *testing.T) {
	settings := &model.CompanySettings{CompanyID: testCompany, SendGridAPIKey: "key"}
	f := newFixture(model.ChannelEmail, nil, settings)
	f.gateway.failFor["bad@example.com"] = true

	emails := []BulkEmail{
		{To: "a@example.com", Subject: "s", HTML: "<p>hi</p>"},
		{To: "bad@example.com", Subject: "s", HTML: "<p>hi</p>"},
		{To: "b@example.com", Subject: "s", HTML: "<p>hi</p>"},
	}

	result, err := f.svc.SendBulkEmails(context.Background(), testCompany, "campaign-1", emails)
	require.NoError(t, err)

	assert.Equal(t, &BulkResult{Success: 2, Failed: 1, Total: 3}, result)
	assert.Equal(t, model.CampaignPartial, f.campaignRepo.campaign.Status)
	assert.Equal(t, 2, f.creditRepo.usageCredits)
}

func TestSendBulkEmailsForeignCampaignUntouched(t *testing.T) {
	settings := &model.CompanySettings{CompanyID: "other-company", SendGridAPIKey: "key"}
	f := newFixture(model.ChannelEmail, nil, settings)
	f.campaignRepo.campaign.Status = model.CampaignFailed

	_, err := f.svc.SendBulkEmails(context.Background(), "other-company", "campaign-1", []BulkEmail{
		{To: "a@example.com", Subject: "s", HTML: "x"},
	})

	var notFound *appErrors.ErrCampaignNotFound
	require.True(t, errors.As(err, &notFound))
	// The other tenant's campaign keeps its status and counters, and no
	// usage is recorded against it.
	assert.Equal(t, model.CampaignFailed, f.campaignRepo.campaign.Status)
	assert.Empty(t, f.campaignRepo.writes)
	assert.Equal(t, 0, f.creditRepo.usageCredits)
	assert.Empty(t, f.gateway.sends)
}

func TestSendBulkEmailsRejectsFinishedCampaign(t *testing.T) {
	settings := &model.CompanySettings{CompanyID: testCompany, SendGridAPIKey: "key"}
	f := newFixture(model.ChannelEmail, nil, settings)
	f.campaignRepo.campaign.Status = model.CampaignCompleted

	_, err := f.svc.SendBulkEmails(context.Background(), testCompany, "campaign-1", []BulkEmail{
		{To: "a@example.com", Subject: "s", HTML: "x"},
	})

	var notDraft *appErrors.ErrNotDraft
	require.True(t, errors.As(err, &notDraft))
	assert.Equal(t, string(model.CampaignCompleted), notDraft.Status)
	assert.Equal(t, model.CampaignCompleted, f.campaignRepo.campaign.Status)
	assert.Empty(t, f.gateway.sends)
}

func TestSendBulkEmailsWithoutProvider(t *testing.T) {
	f := newFixture(model.ChannelEmail, nil, nil)

	_, err := f.svc.SendBulkEmails(context.Background(), testCompany, "campaign-1", []BulkEmail{
		{To: "a@example.com", Subject: "s", HTML: "x"},
	})

	var provider *appErrors.ErrProviderNotConfigured
	assert.True(t, errors.As(err, &provider))
}
