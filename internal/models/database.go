package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Balances and amounts go over the wire as JSON numbers; decoding still accepts strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "creditCard"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// Customer represents a bank customer
type Customer struct {
	Id        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName joins first and last name for reports
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Account represents a customer account. Balance may be negative (credit card debt).
type Account struct {
	Id            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	CustomerId    string          `json:"customerId"`
	Type          AccountType     `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Transaction represents an append-only money movement record.
// AccountId is the depositor, withdrawer or transfer source; ToAccountId is set for transfers only.
type Transaction struct {
	Id          string          `json:"id"`
	AccountId   string          `json:"accountId"`
	ToAccountId string          `json:"toAccountId,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Involves reports whether the transaction touches the account on either side.
func (t Transaction) Involves(accountId string) bool {
	return t.AccountId == accountId || t.ToAccountId == accountId
}
