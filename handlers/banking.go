package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"yep.or.id/classadmin/models"
	"yep.or.id/classadmin/pkg/banking"
)

func (h *Handler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	var items []models.BankAccount
	if err := h.DB.Order("provider, name").Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) ListBankTransactions(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("posted_at desc").Limit(500)
	if acct := r.URL.Query().Get("accountId"); acct != "" {
		q = q.Where("bank_account_id = ?", acct)
	}
	if rec := r.URL.Query().Get("reconciled"); rec != "" {
		q = q.Where("reconciled = ?", rec == "true")
	}

	var items []models.BankTransaction
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// SyncBanks pulls fresh balances and transactions from all configured
// aggregators, then attempts automatic invoice reconciliation.
func (h *Handler) SyncBanks(w http.ResponseWriter, r *http.Request) {
	if h.Syncer == nil {
		http.Error(w, "no bank providers configured", http.StatusServiceUnavailable)
		return
	}

	results, err := h.Syncer.SyncAll(r.Context())
	if err != nil {
		h.appLog("error", "banking", "bank sync failed: "+err.Error())
		http.Error(w, "sync failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.appLog("info", "banking", "bank sync completed")
	respondJSON(w, http.StatusOK, results)
}

type reconcileReq struct {
	Reconciled       *bool      `json:"reconciled,omitempty"`
	MatchedInvoiceID *uuid.UUID `json:"matchedInvoiceId,omitempty"`
}

// ReconcileTransaction manually marks a transaction reconciled, optionally
// linking it to the invoice it paid.
func (h *Handler) ReconcileTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var tx models.BankTransaction
	if err := h.DB.First(&tx, "id = ?", id).Error; err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	var req reconcileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if req.Reconciled != nil {
		updates["reconciled"] = *req.Reconciled
		if !*req.Reconciled {
			updates["matched_invoice_id"] = nil
		}
	}
	if req.MatchedInvoiceID != nil {
		var inv models.Invoice
		if err := h.DB.First(&inv, "id = ?", *req.MatchedInvoiceID).Error; err != nil {
			http.Error(w, "matched invoice not found", http.StatusBadRequest)
			return
		}
		updates["matched_invoice_id"] = *req.MatchedInvoiceID
		updates["reconciled"] = true
	}
	if len(updates) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.DB.Model(&tx).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// Runway reports total balance, trailing monthly burn and the months of
// runway they imply.
func (h *Handler) Runway(w http.ResponseWriter, r *http.Request) {
	var accounts []models.BankAccount
	if err := h.DB.Find(&accounts).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	cutoff := time.Now().AddDate(0, -4, 0)
	var transactions []models.BankTransaction
	if err := h.DB.Where("posted_at >= ?", cutoff).Find(&transactions).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result := banking.ComputeRunway(banking.RunwayInput{
		Accounts:     accounts,
		Transactions: transactions,
		USDToIDR:     h.Cfg.USDToIDRRate / 100, // rate is per dollar, amounts are cents
		Now:          time.Now(),
	})
	respondJSON(w, http.StatusOK, result)
}
