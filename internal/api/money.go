package api

import (
	"net/http"

	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, txs)
}

// deposit answers a malformed body with the same message as a missing amount.
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req models.MovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ledger.ErrInvalidAmount.Error())
		return
	}

	res, err := s.ledger.Deposit(r.Context(), ledger.MovementParams{
		AccountId:   chi.URLParam(r, "accountId"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.MovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ledger.ErrInvalidAmount.Error())
		return
	}

	res, err := s.ledger.Withdraw(r.Context(), ledger.MovementParams{
		AccountId:   chi.URLParam(r, "accountId"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ledger.ErrTransferFieldsRequired.Error())
		return
	}

	res, err := s.ledger.Transfer(r.Context(), ledger.TransferParams{
		FromAccountId: req.FromAccountId,
		ToAccountId:   req.ToAccountId,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (s *Server) loadDemo(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.SeedDemoData(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, models.DemoLoadResult{
		Message: "Demo data loaded successfully",
		Stats:   *stats,
	})
}
