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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response is the envelope wrapped around every HTTP response body
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CustomerFields carries the writable customer attributes on create
type CustomerFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// CustomerPatch carries a partial customer update; nil fields are left untouched
type CustomerPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type CreateAccountRequest struct {
	CustomerId     string          `json:"customerId"`
	Type           AccountType     `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// MovementRequest is the body of a deposit or withdrawal
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransferRequest struct {
	FromAccountId string          `json:"fromAccountId"`
	ToAccountId   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// MovementResult is returned by deposit and withdrawal
type MovementResult struct {
	Transaction Transaction     `json:"transaction"`
	NewBalance  decimal.Decimal `json:"newBalance"`
}

type BalanceUpdate struct {
	Id         string          `json:"id"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

type TransferResult struct {
	Transaction Transaction   `json:"transaction"`
	FromAccount BalanceUpdate `json:"fromAccount"`
	ToAccount   BalanceUpdate `json:"toAccount"`
}

// SeedStats reports the record counts written by a demo seed
type SeedStats struct {
	Customers    int `json:"customers"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
}

type DemoLoadResult struct {
	Message string    `json:"message"`
	Stats   SeedStats `json:"stats"`
}

type MessageResult struct {
	Message string `json:"message"`
}

// RequestLogEntry is one recorded HTTP call in the debug request log
type RequestLogEntry struct {
	Id         string    `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
