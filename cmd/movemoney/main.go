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
	"strings"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"
	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opTransfer = "transfer"
)

type movementRequest struct {
	op          string
	account     string
	to          string
	amount      decimal.Decimal
	description string
}

func parseAndValidateFlags() (*movementRequest, error) {
	opFlag := flag.String("op", "", "Operation: deposit, withdraw or transfer (required)")
	accountFlag := flag.String("account", "", "Account id or 8-digit account number (required; source for transfers)")
	toFlag := flag.String("to", "", "Destination account id or number (transfer only)")
	amountFlag := flag.String("amount", "", "Amount to move (required)")
	descriptionFlag := flag.String("description", "", "Transaction description (optional)")
	flag.Parse()

	if *opFlag == "" || *accountFlag == "" || *amountFlag == "" {
		return nil, fmt.Errorf("flags are required: --op, --account, --amount")
	}

	switch *opFlag {
	case opDeposit, opWithdraw:
	case opTransfer:
		if *toFlag == "" {
			return nil, fmt.Errorf("--to is required for transfers")
		}
	default:
		return nil, fmt.Errorf("unknown operation %q", *opFlag)
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	return &movementRequest{
		op:          *opFlag,
		account:     *accountFlag,
		to:          *toFlag,
		amount:      amount,
		description: *descriptionFlag,
	}, nil
}

// resolveAccount accepts either an account id or an account number
func resolveAccount(ctx context.Context, engine *ledger.Engine, ref string) (*models.Account, error) {
	account, err := engine.GetAccount(ctx, ref)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}

	accounts, err := engine.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.AccountNumber == ref {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", ref, ledger.ErrAccountNotFound)
}

func printFailure(req *movementRequest, err error) {
	common.PrintHeader("MOVEMENT FAILED", common.DefaultWidth)
	fmt.Printf("Operation: %s\n", req.op)
	fmt.Printf("Amount:    %s\n", common.FormatMoney(req.amount))
	fmt.Printf("Error:     %s\n", err)
	common.PrintSeparator("=", common.DefaultWidth)
}

func execute(ctx context.Context, engine *ledger.Engine, req *movementRequest, from *models.Account) error {
	switch req.op {
	case opTransfer:
		to, err := resolveAccount(ctx, engine, req.to)
		if err != nil {
			return err
		}
		res, err := engine.Transfer(ctx, ledger.TransferParams{
			FromAccountId: from.Id,
			ToAccountId:   to.Id,
			Amount:        req.amount,
			Description:   req.description,
		})
		if err != nil {
			return err
		}

		common.PrintHeader("TRANSFER COMPLETE", common.DefaultWidth)
		fmt.Printf("Transaction: %s\n", res.Transaction.Id)
		fmt.Printf("Amount:      %s\n", common.FormatMoney(res.Transaction.Amount))
		fmt.Printf("From:        %s  new balance %s\n", from.AccountNumber, common.FormatMoney(res.FromAccount.NewBalance))
		fmt.Printf("To:          %s  new balance %s\n", to.AccountNumber, common.FormatMoney(res.ToAccount.NewBalance))
		common.PrintSeparator("=", common.DefaultWidth)
		return nil

	default:
		params := ledger.MovementParams{
			AccountId:   from.Id,
			Amount:      req.amount,
			Description: req.description,
		}
		var res *models.MovementResult
		var err error
		if req.op == opDeposit {
			res, err = engine.Deposit(ctx, params)
		} else {
			res, err = engine.Withdraw(ctx, params)
		}
		if err != nil {
			return err
		}

		common.PrintHeader(strings.ToUpper(string(res.Transaction.Type))+" COMPLETE", common.DefaultWidth)
		fmt.Printf("Transaction: %s\n", res.Transaction.Id)
		fmt.Printf("Account:     %s\n", from.AccountNumber)
		fmt.Printf("Amount:      %s\n", common.FormatMoney(res.Transaction.Amount))
		fmt.Printf("Description: %s\n", res.Transaction.Description)
		fmt.Printf("New Balance: %s\n", common.FormatMoney(res.NewBalance))
		common.PrintSeparator("=", common.DefaultWidth)
		return nil
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	zap.L().Info("Starting money movement",
		zap.String("op", req.op),
		zap.String("account", req.account),
		zap.String("to", req.to),
		zap.String("amount", req.amount.String()))

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	from, err := resolveAccount(ctx, services.Engine, req.account)
	if err == nil {
		err = execute(ctx, services.Engine, req, from)
	}
	if err != nil {
		printFailure(req, err)
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			fmt.Println("\n❌ Insufficient funds")
		}
		zap.L().Fatal("Money movement failed", zap.String("op", req.op), zap.Error(err))
	}

	zap.L().Info("Money movement completed", zap.String("op", req.op))
}
