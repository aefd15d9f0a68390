// internal/model/credit.go
package model

import "time"

// CreditTransactionType represents valid ledger entry types.
type CreditTransactionType string

const (
	CreditPurchase CreditTransactionType = "purchase"
	CreditUsage    CreditTransactionType = "usage"
	CreditRefund   CreditTransactionType = "refund"
	CreditBonus    CreditTransactionType = "bonus"
)

// CreditTransaction is one append-only ledger entry. The company balance is
// the running sum of Amount scoped to the company, cached on the companies
// row.
type CreditTransaction struct {
	ID          string                `db:"id" json:"id"`
	CompanyID   string                `db:"company_id" json:"company_id"`
	Amount      int                   `db:"amount" json:"amount"`
	Type        CreditTransactionType `db:"type" json:"type"`
	Description string                `db:"description" json:"description"`
	CampaignID  *string               `db:"campaign_id" json:"campaign_id,omitempty"`
	CreatedAt   time.Time             `db:"created_at" json:"created_at"`
}
