package ledger

import (
	"context"
	"strings"
	"time"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultDepositDescription    = "Deposit"
	defaultWithdrawalDescription = "Withdrawal"
	defaultTransferDescription   = "Transfer"
)

// MovementParams contains the parameters for a deposit or withdrawal.
type MovementParams struct {
	AccountId   string
	Amount      decimal.Decimal
	Description string
}

type TransferParams struct {
	FromAccountId string
	ToAccountId   string
	Amount        decimal.Decimal
	Description   string
}

var moneySets = []store.EntitySet{store.Accounts, store.Transactions}

func (e *Engine) Deposit(ctx context.Context, params MovementParams) (*models.MovementResult, error) {
	var result models.MovementResult
	err := e.mutate(ctx, moneySets, func(snap *Snapshot) error {
		var err error
		result, err = snap.deposit(params, e.ids.NewId(), e.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Deposit processed successfully",
		zap.String("account_id", params.AccountId),
		zap.String("amount", params.Amount.String()),
		zap.String("new_balance", result.NewBalance.String()))
	return &result, nil
}

func (e *Engine) Withdraw(ctx context.Context, params MovementParams) (*models.MovementResult, error) {
	var result models.MovementResult
	err := e.mutate(ctx, moneySets, func(snap *Snapshot) error {
		var err error
		result, err = snap.withdraw(params, e.ids.NewId(), e.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Withdrawal processed successfully",
		zap.String("account_id", params.AccountId),
		zap.String("amount", params.Amount.String()),
		zap.String("new_balance", result.NewBalance.String()))
	return &result, nil
}

// Transfer debits one account and credits another as a single persisted step.
func (e *Engine) Transfer(ctx context.Context, params TransferParams) (*models.TransferResult, error) {
	var result models.TransferResult
	err := e.mutate(ctx, moneySets, func(snap *Snapshot) error {
		var err error
		result, err = snap.transfer(params, e.ids.NewId(), e.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Transfer processed successfully",
		zap.String("from_account_id", params.FromAccountId),
		zap.String("to_account_id", params.ToAccountId),
		zap.String("amount", params.Amount.String()))
	return &result, nil
}

func (e *Engine) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	snap, err := e.read(ctx, store.Transactions)
	if err != nil {
		return nil, err
	}
	return nonNil(snap.Transactions), nil
}

// ListAccountTransactions includes transfers where the account is either side.
func (e *Engine) ListAccountTransactions(ctx context.Context, accountId string) ([]models.Transaction, error) {
	snap, err := e.read(ctx, store.Transactions)
	if err != nil {
		return nil, err
	}
	history := []models.Transaction{}
	for _, tx := range snap.Transactions {
		if tx.Involves(accountId) {
			history = append(history, tx)
		}
	}
	return history, nil
}

func (s *Snapshot) deposit(params MovementParams, txId string, now time.Time) (models.MovementResult, error) {
	if !params.Amount.IsPositive() {
		return models.MovementResult{}, ErrInvalidAmount
	}
	i := s.accountIndex(params.AccountId)
	if i < 0 {
		return models.MovementResult{}, ErrAccountNotFound
	}

	account := &s.Accounts[i]
	account.Balance = account.Balance.Add(params.Amount)
	account.UpdatedAt = now

	tx := s.record(models.Transaction{
		Id:          txId,
		AccountId:   account.Id,
		Type:        models.TransactionTypeDeposit,
		Amount:      params.Amount,
		Description: describe(params.Description, defaultDepositDescription),
		Timestamp:   now,
	})
	return models.MovementResult{Transaction: tx, NewBalance: account.Balance}, nil
}

func (s *Snapshot) withdraw(params MovementParams, txId string, now time.Time) (models.MovementResult, error) {
	if !params.Amount.IsPositive() {
		return models.MovementResult{}, ErrInvalidAmount
	}
	i := s.accountIndex(params.AccountId)
	if i < 0 {
		return models.MovementResult{}, ErrAccountNotFound
	}

	account := &s.Accounts[i]
	if params.Amount.GreaterThan(account.Balance) {
		return models.MovementResult{}, ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(params.Amount)
	account.UpdatedAt = now

	tx := s.record(models.Transaction{
		Id:          txId,
		AccountId:   account.Id,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      params.Amount,
		Description: describe(params.Description, defaultWithdrawalDescription),
		Timestamp:   now,
	})
	return models.MovementResult{Transaction: tx, NewBalance: account.Balance}, nil
}

func (s *Snapshot) transfer(params TransferParams, txId string, now time.Time) (models.TransferResult, error) {
	if params.FromAccountId == "" || params.ToAccountId == "" || !params.Amount.IsPositive() {
		return models.TransferResult{}, ErrTransferFieldsRequired
	}
	if params.FromAccountId == params.ToAccountId {
		return models.TransferResult{}, ErrSameAccount
	}

	fromIdx := s.accountIndex(params.FromAccountId)
	toIdx := s.accountIndex(params.ToAccountId)
	if fromIdx < 0 || toIdx < 0 {
		return models.TransferResult{}, ErrTransferAccountNotFound
	}

	from, to := &s.Accounts[fromIdx], &s.Accounts[toIdx]
	if params.Amount.GreaterThan(from.Balance) {
		return models.TransferResult{}, ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(params.Amount)
	from.UpdatedAt = now
	to.Balance = to.Balance.Add(params.Amount)
	to.UpdatedAt = now

	tx := s.record(models.Transaction{
		Id:          txId,
		AccountId:   from.Id,
		ToAccountId: to.Id,
		Type:        models.TransactionTypeTransfer,
		Amount:      params.Amount,
		Description: describe(params.Description, defaultTransferDescription),
		Timestamp:   now,
	})
	return models.TransferResult{
		Transaction: tx,
		FromAccount: models.BalanceUpdate{Id: from.Id, NewBalance: from.Balance},
		ToAccount:   models.BalanceUpdate{Id: to.Id, NewBalance: to.Balance},
	}, nil
}

// record appends tx and marks both money sets dirty; callers have already changed a balance.
func (s *Snapshot) record(tx models.Transaction) models.Transaction {
	s.Transactions = append(s.Transactions, tx)
	s.touch(store.Accounts, store.Transactions)
	return tx
}

func describe(description, fallback string) string {
	if strings.TrimSpace(description) == "" {
		return fallback
	}
	return description
}
