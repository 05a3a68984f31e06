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

	"bank-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.ledger.ListCustomers(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.ledger.GetCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, customer)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var fields models.CustomerFields
	if err := decodeBody(w, r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := s.ledger.CreateCustomer(r.Context(), fields)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, customer)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch models.CustomerPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := s.ledger.UpdateCustomer(r.Context(), chi.URLParam(r, "customerId"), patch)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, customer)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteCustomer(r.Context(), chi.URLParam(r, "customerId")); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, models.MessageResult{Message: "Customer deleted successfully"})
}

func (s *Server) listCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListCustomerAccounts(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, accounts)
}
