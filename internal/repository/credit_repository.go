package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/paigham-backend/internal/model"
)

type CreditRepositoryInterface interface {
	Balance(companyID string) (int, error)
	ListTransactions(companyID string, limit int) ([]model.CreditTransaction, error)

	// Record appends a ledger entry and updates the cached companies
	// balance in the same transaction, so the cache cannot drift from the
	// ledger.
	Record(txn *model.CreditTransaction) error

	// RecordCampaignUsage debits credits for a finished campaign and stamps
	// credits_used on the campaign row, all in one transaction.
	RecordCampaignUsage(companyID, campaignID string, credits int) error
}

type CreditRepository struct {
	DB *sql.DB
}

// Balance reads the cached balance column rather than summing the ledger.
func (r *CreditRepository) Balance(companyID string) (int, error) {
	var balance int
	err := r.DB.QueryRow(`SELECT credits_balance FROM companies WHERE id=$1`, companyID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepository) ListTransactions(companyID string, limit int) ([]model.CreditTransaction, error) {
	query := `
        SELECT id, company_id, amount, type, description, campaign_id, created_at
        FROM credit_transactions
        WHERE company_id=$1 ORDER BY created_at DESC LIMIT $2
    `
	rows, err := r.DB.Query(query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []model.CreditTransaction{}
	for rows.Next() {
		var t model.CreditTransaction
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Amount, &t.Type, &t.Description, &t.CampaignID, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *CreditRepository) Record(txn *model.CreditTransaction) error {
	return r.record(txn, "")
}

func (r *CreditRepository) RecordCampaignUsage(companyID, campaignID string, credits int) error {
	txn := &model.CreditTransaction{
		CompanyID:   companyID,
		Amount:      -credits,
		Type:        model.CreditUsage,
		Description: fmt.Sprintf("campaign send (%d messages)", credits),
		CampaignID:  &campaignID,
	}
	return r.record(txn, campaignID)
}

func (r *CreditRepository) record(txn *model.CreditTransaction, usageCampaignID string) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	txn.CreatedAt = time.Now()

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO credit_transactions (id, company_id, amount, type, description, campaign_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, txn.ID, txn.CompanyID, txn.Amount, txn.Type, txn.Description, txn.CampaignID, txn.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        UPDATE companies SET credits_balance = credits_balance + $1, updated_at=NOW() WHERE id=$2
    `, txn.Amount, txn.CompanyID)
	if err != nil {
		return err
	}

	if usageCampaignID != "" {
		_, err = tx.Exec(`UPDATE campaigns SET credits_used=$1 WHERE id=$2`, -txn.Amount, usageCampaignID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

var _ CreditRepositoryInterface = (*CreditRepository)(nil)
