// internal/handler/credit_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

type CreditHandler struct {
	CreditService *service.CreditService
}

func (h *CreditHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	summary, err := h.CreditService.Summary(sess.CompanyID)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *CreditHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		Amount      int    `json:"amount"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	txn, err := h.CreditService.Purchase(sess.CompanyID, body.Amount, body.Description)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, txn)
}
