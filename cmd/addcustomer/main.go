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
	"errors"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"
	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type customerRequest struct {
	fields         models.CustomerFields
	accountType    models.AccountType
	initialBalance decimal.Decimal
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func parseAndValidateFlags() (*customerRequest, error) {
	firstFlag := flag.String("first", "", "Customer's first name (required)")
	lastFlag := flag.String("last", "", "Customer's last name (required)")
	emailFlag := flag.String("email", "", "Customer's email address (required)")
	phoneFlag := flag.String("phone", "", "Customer's phone number")
	addressFlag := flag.String("address", "", "Customer's postal address")
	typeFlag := flag.String("type", "", "Open an account of this type: checking, savings or creditCard (optional)")
	initialFlag := flag.String("initial", "0", "Initial balance for the opened account")
	flag.Parse()

	if *firstFlag == "" || *lastFlag == "" || *emailFlag == "" {
		return nil, fmt.Errorf("flags are required: --first, --last and --email")
	}
	if err := validateName(*firstFlag); err != nil {
		return nil, fmt.Errorf("invalid first name: %w", err)
	}
	if err := validateName(*lastFlag); err != nil {
		return nil, fmt.Errorf("invalid last name: %w", err)
	}
	if err := validateEmail(*emailFlag); err != nil {
		return nil, err
	}

	initial, err := decimal.NewFromString(*initialFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance format: %w", err)
	}

	return &customerRequest{
		fields: models.CustomerFields{
			FirstName: *firstFlag,
			LastName:  *lastFlag,
			Email:     *emailFlag,
			Phone:     *phoneFlag,
			Address:   *addressFlag,
		},
		accountType:    models.AccountType(*typeFlag),
		initialBalance: initial,
	}, nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	zap.L().Info("Starting customer creation process",
		zap.String("first_name", req.fields.FirstName),
		zap.String("last_name", req.fields.LastName),
		zap.String("email", req.fields.Email))

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	// Emails are not unique in the ledger itself, the CLI refuses duplicates
	if existing, err := services.Engine.FindCustomerByEmail(ctx, req.fields.Email); err == nil {
		zap.L().Fatal("Customer already exists with this email",
			zap.String("email", req.fields.Email),
			zap.String("id", existing.Id))
	} else if !errors.Is(err, ledger.ErrNotFound) {
		zap.L().Fatal("Failed to check existing customers", zap.Error(err))
	}

	customer, err := services.Engine.CreateCustomer(ctx, req.fields)
	if err != nil {
		zap.L().Fatal("Failed to create customer", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("CUSTOMER CREATED", common.DefaultWidth)
	fmt.Printf("ID:      %s\n", customer.Id)
	fmt.Printf("Name:    %s\n", customer.FullName())
	fmt.Printf("Email:   %s\n", customer.Email)
	if customer.Phone != "" {
		fmt.Printf("Phone:   %s\n", customer.Phone)
	}
	if customer.Address != "" {
		fmt.Printf("Address: %s\n", customer.Address)
	}
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Customer created successfully", zap.String("id", customer.Id))

	if req.accountType == "" {
		return
	}

	opened, err := services.Engine.CreateAccount(ctx, ledger.CreateAccountParams{
		CustomerId:     customer.Id,
		Type:           req.accountType,
		InitialBalance: req.initialBalance,
	})
	if err != nil {
		fmt.Printf("Customer created but the %s account could not be opened: %v\n", req.accountType, err)
		zap.L().Fatal("Failed to open account",
			zap.String("customer_id", customer.Id),
			zap.String("type", string(req.accountType)),
			zap.Error(err))
	}

	common.PrintHeader("ACCOUNT OPENED", common.DefaultWidth)
	fmt.Printf("Account Number: %s\n", opened.Account.AccountNumber)
	fmt.Printf("Type:           %s\n", strings.ToUpper(string(opened.Account.Type[:1]))+string(opened.Account.Type[1:]))
	fmt.Printf("Balance:        %s\n", common.FormatMoney(opened.Account.Balance))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Account opened",
		zap.String("customer_id", customer.Id),
		zap.String("account_id", opened.Account.Id),
		zap.String("account_number", opened.Account.AccountNumber))
}
