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
	"context"
	"net/http"

	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// LedgerService is the part of the ledger engine the handlers call.
type LedgerService interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, fields models.CustomerFields) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch models.CustomerPatch) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListAccounts(ctx context.Context) ([]models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListCustomerAccounts(ctx context.Context, customerId string) ([]models.Account, error)
	CreateAccount(ctx context.Context, params ledger.CreateAccountParams) (*ledger.OpenedAccount, error)
	DeleteAccount(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountId string) ([]models.Transaction, error)
	Deposit(ctx context.Context, params ledger.MovementParams) (*models.MovementResult, error)
	Withdraw(ctx context.Context, params ledger.MovementParams) (*models.MovementResult, error)
	Transfer(ctx context.Context, params ledger.TransferParams) (*models.TransferResult, error)

	SeedDemoData(ctx context.Context) (*models.SeedStats, error)

	Ping(ctx context.Context) error
	Backend() string
}

// Compile-time check: *ledger.Engine must satisfy LedgerService.
var _ LedgerService = (*ledger.Engine)(nil)

// Server maps the REST surface onto a LedgerService
type Server struct {
	ledger   LedgerService
	requests *RequestLog
	cfg      models.ServerConfig
}

// NewServer builds the handler set. requests may be nil to disable the request log.
func NewServer(svc LedgerService, requests *RequestLog, cfg models.ServerConfig) *Server {
	if len(cfg.CorsAllowedOrigins) == 0 {
		cfg.CorsAllowedOrigins = []string{"*"}
	}
	return &Server{
		ledger:   svc,
		requests: requests,
		cfg:      cfg,
	}
}

// Routes returns the full router with every endpoint mounted under /api.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CorsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if s.requests != nil {
		r.Use(s.requests.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/debug/requests", s.recentRequests)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.listCustomers)
			r.Post("/", s.createCustomer)
			r.Get("/{customerId}", s.getCustomer)
			r.Put("/{customerId}", s.updateCustomer)
			r.Delete("/{customerId}", s.deleteCustomer)
			r.Get("/{customerId}/accounts", s.listCustomerAccounts)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.listAccounts)
			r.Post("/", s.createAccount)
			r.Get("/{accountId}", s.getAccount)
			r.Delete("/{accountId}", s.deleteAccount)
			r.Get("/{accountId}/transactions", s.listAccountTransactions)
			r.Post("/{accountId}/deposit", s.deposit)
			r.Post("/{accountId}/withdraw", s.withdraw)
		})

		r.Get("/transactions", s.listTransactions)
		r.Post("/transfer", s.transfer)
		r.Post("/demo/load", s.loadDemo)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{Status: "ok", Backend: s.ledger.Backend()}
	if err := s.ledger.Ping(r.Context()); err != nil {
		logFailure(r, "Health check failed", err)
		status.Status = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, models.Response{Success: false, Data: status, Error: "Document store unavailable"})
		return
	}
	writeSuccess(w, http.StatusOK, status)
}

func (s *Server) recentRequests(w http.ResponseWriter, r *http.Request) {
	if s.requests == nil {
		writeSuccess(w, http.StatusOK, []models.RequestLogEntry{})
		return
	}
	writeSuccess(w, http.StatusOK, s.requests.Recent())
}
