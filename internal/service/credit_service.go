// internal/service/credit_service.go
package service

import (
	"fmt"

	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/repository"
)

type CreditService struct {
	CreditRepo repository.CreditRepositoryInterface
}

// CreditSummary pairs the cached balance with recent ledger entries.
type CreditSummary struct {
	Balance      int                       `json:"balance"`
	Transactions []model.CreditTransaction `json:"transactions"`
}

func (s *CreditService) Summary(companyID string) (*CreditSummary, error) {
	balance, err := s.CreditRepo.Balance(companyID)
	if err != nil {
		return nil, err
	}
	txns, err := s.CreditRepo.ListTransactions(companyID, 50)
	if err != nil {
		return nil, err
	}
	return &CreditSummary{Balance: balance, Transactions: txns}, nil
}

// Purchase appends a purchase entry to the ledger and bumps the cached
// balance.
func (s *CreditService) Purchase(companyID string, amount int, description string) (*model.CreditTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("purchase amount must be positive")
	}
	if description == "" {
		description = fmt.Sprintf("purchased %d credits", amount)
	}

	txn := &model.CreditTransaction{
		CompanyID:   companyID,
		Amount:      amount,
		Type:        model.CreditPurchase,
		Description: description,
	}
	if err := s.CreditRepo.Record(txn); err != nil {
		return nil, err
	}
	return txn, nil
}
