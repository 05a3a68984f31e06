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

const initialDepositDescription = "Initial deposit"

// CreateAccountParams contains the parameters for opening an account.
type CreateAccountParams struct {
	CustomerId     string
	Type           models.AccountType
	InitialBalance decimal.Decimal
}

// OpenedAccount is the new account plus the deposit synthesized for a positive initial balance.
type OpenedAccount struct {
	Account        models.Account
	InitialDeposit *models.Transaction
}

func (e *Engine) ListAccounts(ctx context.Context) ([]models.Account, error) {
	snap, err := e.read(ctx, store.Accounts)
	if err != nil {
		return nil, err
	}
	return nonNil(snap.Accounts), nil
}

func (e *Engine) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	snap, err := e.read(ctx, store.Accounts)
	if err != nil {
		return nil, err
	}
	i := snap.accountIndex(id)
	if i < 0 {
		return nil, ErrAccountNotFound
	}
	account := snap.Accounts[i]
	return &account, nil
}

// ListCustomerAccounts returns the customer's accounts; an unknown customer simply has none.
func (e *Engine) ListCustomerAccounts(ctx context.Context, customerId string) ([]models.Account, error) {
	snap, err := e.read(ctx, store.Accounts)
	if err != nil {
		return nil, err
	}
	accounts := []models.Account{}
	for _, a := range snap.Accounts {
		if a.CustomerId == customerId {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (e *Engine) CreateAccount(ctx context.Context, params CreateAccountParams) (*OpenedAccount, error) {
	var opened OpenedAccount
	sets := []store.EntitySet{store.Customers, store.Accounts, store.Transactions}
	err := e.mutate(ctx, sets, func(snap *Snapshot) error {
		if err := snap.validateNewAccount(params); err != nil {
			return err
		}
		number, err := e.uniqueAccountNumber(snap)
		if err != nil {
			return err
		}
		opened = snap.openAccount(params, number, e.clock.Now(), e.ids.NewId)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Account created",
		zap.String("account_id", opened.Account.Id),
		zap.String("customer_id", opened.Account.CustomerId),
		zap.String("type", string(opened.Account.Type)),
		zap.String("initial_balance", opened.Account.Balance.String()))
	return &opened, nil
}

func (e *Engine) DeleteAccount(ctx context.Context, id string) error {
	err := e.mutate(ctx, []store.EntitySet{store.Accounts}, func(snap *Snapshot) error {
		return snap.deleteAccount(id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("Account deleted", zap.String("account_id", id))
	return nil
}

func (s *Snapshot) validateNewAccount(params CreateAccountParams) error {
	if strings.TrimSpace(params.CustomerId) == "" || params.Type == "" {
		return ErrAccountFieldsRequired
	}
	if !params.Type.Valid() {
		return ErrInvalidAccountType
	}
	if params.InitialBalance.IsNegative() {
		return ErrNegativeInitialBalance
	}
	if s.customerIndex(params.CustomerId) < 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// openAccount appends a validated account, plus its initial deposit when the balance is positive.
func (s *Snapshot) openAccount(params CreateAccountParams, number string, now time.Time, newId func() string) OpenedAccount {
	account := models.Account{
		Id:            newId(),
		AccountNumber: number,
		CustomerId:    params.CustomerId,
		Type:          params.Type,
		Balance:       params.InitialBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Accounts = append(s.Accounts, account)
	s.touch(store.Accounts)

	opened := OpenedAccount{Account: account}
	if params.InitialBalance.IsPositive() {
		tx := models.Transaction{
			Id:          newId(),
			AccountId:   account.Id,
			Type:        models.TransactionTypeDeposit,
			Amount:      params.InitialBalance,
			Description: initialDepositDescription,
			Timestamp:   now,
		}
		s.Transactions = append(s.Transactions, tx)
		s.touch(store.Transactions)
		opened.InitialDeposit = &tx
	}
	return opened
}

func (s *Snapshot) deleteAccount(id string) error {
	i := s.accountIndex(id)
	if i < 0 {
		return ErrAccountNotFound
	}
	if !s.Accounts[i].Balance.IsZero() {
		return ErrAccountHasBalance
	}

	s.Accounts = append(s.Accounts[:i], s.Accounts[i+1:]...)
	s.touch(store.Accounts)
	return nil
}
