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

package main

import (
	"context"
	"flag"
	"fmt"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"
	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type balanceStats struct {
	totalCustomers        int
	totalAccounts         int
	customersWithAccounts int
	netBalance            decimal.Decimal
}

func printAccount(account models.Account, isLast bool) {
	fmt.Printf("%s %s %-11s: %15s (updated: %s)\n",
		common.BoxPrefix(isLast),
		account.AccountNumber,
		account.Type,
		common.FormatMoney(account.Balance),
		account.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s    id: %s\n", common.BoxDetailPrefix(isLast), account.Id)
}

func printCustomerHeader(customer common.CustomerInfo, accountCount int) {
	fmt.Printf("\n┌─ Customer: %s (%s)\n", customer.Name, customer.Email)
	fmt.Printf("│  ID: %s\n", customer.Id)
	fmt.Printf("│  Accounts: %d\n", accountCount)
	common.PrintBoxSeparator(common.WideWidth - 2)
}

func processCustomer(ctx context.Context, customer common.CustomerInfo, engine *ledger.Engine) ([]models.Account, error) {
	accounts, err := engine.ListCustomerAccounts(ctx, customer.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	printCustomerHeader(customer, len(accounts))
	for i, account := range accounts {
		printAccount(account, i == len(accounts)-1)
	}

	return accounts, nil
}

func processCustomersAndGenerateReport(ctx context.Context, customers []common.CustomerInfo, engine *ledger.Engine, logger *zap.Logger) balanceStats {
	stats := balanceStats{netBalance: decimal.Zero}

	for _, customer := range customers {
		stats.totalCustomers++

		accounts, err := processCustomer(ctx, customer, engine)
		if err != nil {
			logger.Error("Failed to process customer",
				zap.String("customer_id", customer.Id),
				zap.String("customer_name", customer.Name),
				zap.Error(err))
			continue
		}

		if len(accounts) > 0 {
			stats.customersWithAccounts++
			stats.totalAccounts += len(accounts)
			for _, a := range accounts {
				stats.netBalance = stats.netBalance.Add(a.Balance)
			}
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific customer email (optional)")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	customers, err := common.InitializeCustomers(ctx, services.Engine, *emailFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize customers", zap.Error(err))
	}

	common.PrintHeader("CUSTOMER BALANCE REPORT", common.WideWidth)

	stats := processCustomersAndGenerateReport(ctx, customers, services.Engine, logger)

	summary := fmt.Sprintf("SUMMARY: %d accounts across %d of %d customers, net %s",
		stats.totalAccounts, stats.customersWithAccounts, stats.totalCustomers, common.FormatMoney(stats.netBalance))
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Balance query completed",
		zap.Int("customers_queried", stats.totalCustomers),
		zap.Int("customers_with_accounts", stats.customersWithAccounts),
		zap.Int("total_accounts", stats.totalAccounts),
		zap.String("net_balance", stats.netBalance.String()))
}
