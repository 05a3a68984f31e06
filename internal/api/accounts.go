/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"net/http"

	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.ledger.GetAccount(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, account)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opened, err := s.ledger.CreateAccount(r.Context(), ledger.CreateAccountParams{
		CustomerId:     req.CustomerId,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	if opened.InitialDeposit != nil {
		zap.L().Info("Opened account with initial deposit",
			zap.String("account_id", opened.Account.Id),
			zap.String("transaction_id", opened.InitialDeposit.Id),
			zap.String("amount", opened.InitialDeposit.Amount.String()))
	}
	writeSuccess(w, http.StatusCreated, opened.Account)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), chi.URLParam(r, "accountId")); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, models.MessageResult{Message: "Account deleted successfully"})
}

func (s *Server) listAccountTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListAccountTransactions(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, txs)
}
