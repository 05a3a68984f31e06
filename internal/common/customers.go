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

package common

import (
	"context"
	"fmt"

	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"go.uber.org/zap"
)

// CustomerInfo is the slice of customer data the command-line utilities print
type CustomerInfo struct {
	Id    string
	Name  string
	Email string
}

// InitializeCustomers retrieves customers based on an optional email filter.
// If emailFilter is provided, returns a single customer with that email.
// If emailFilter is empty, returns all customers.
func InitializeCustomers(ctx context.Context, engine *ledger.Engine, emailFilter string, logger *zap.Logger) ([]CustomerInfo, error) {
	var customers []CustomerInfo

	if emailFilter != "" {
		logger.Info("Looking up customer by email", zap.String("email", emailFilter))
		customer, err := engine.FindCustomerByEmail(ctx, emailFilter)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", emailFilter, err)
		}
		customers = append(customers, toCustomerInfo(*customer))
	} else {
		all, err := engine.ListCustomers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get customers: %w", err)
		}
		for _, c := range all {
			customers = append(customers, toCustomerInfo(c))
		}
	}

	logger.Info("Retrieved customers", zap.Int("count", len(customers)))
	return customers, nil
}

func toCustomerInfo(c models.Customer) CustomerInfo {
	return CustomerInfo{
		Id:    c.Id,
		Name:  c.FullName(),
		Email: c.Email,
	}
}
