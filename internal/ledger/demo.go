package ledger

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

//go:embed demo.yaml
var defaultFixtureYAML []byte

type FixtureCustomer struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
}

type FixtureAccount struct {
	AccountNumber string `yaml:"accountNumber"`
	Customer      int    `yaml:"customer"`
	Type          string `yaml:"type"`
	Balance       string `yaml:"balance"`

	balance decimal.Decimal
}

type FixtureTransaction struct {
	Account     int    `yaml:"account"`
	ToAccount   *int   `yaml:"toAccount"`
	Type        string `yaml:"type"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
	DaysAgo     int    `yaml:"daysAgo"`

	amount decimal.Decimal
}

// Fixture is the fixed data set written by SeedDemoData.
type Fixture struct {
	Customers    []FixtureCustomer    `yaml:"customers"`
	Accounts     []FixtureAccount     `yaml:"accounts"`
	Transactions []FixtureTransaction `yaml:"transactions"`
}

// DefaultFixture returns the fixture compiled into the binary.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixtureYAML)
}

// LoadFixture reads a YAML fixture; relative paths resolve against the working directory.
func LoadFixture(fixtureFile string) (*Fixture, error) {
	var fixturePath string
	if filepath.IsAbs(fixtureFile) {
		fixturePath = fixtureFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		fixturePath = filepath.Join(wd, fixtureFile)
	}

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", fixtureFile, err)
	}

	fixture, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", fixtureFile, err)
	}
	return fixture, nil
}

func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}

	for i, c := range fixture.Customers {
		if c.FirstName == "" || c.LastName == "" || c.Email == "" {
			return nil, fmt.Errorf("customer at index %d missing name or email", i)
		}
	}

	numbers := make(map[string]bool, len(fixture.Accounts))
	for i := range fixture.Accounts {
		a := &fixture.Accounts[i]
		if a.Customer < 0 || a.Customer >= len(fixture.Customers) {
			return nil, fmt.Errorf("account at index %d references unknown customer %d", i, a.Customer)
		}
		if !models.AccountType(a.Type).Valid() {
			return nil, fmt.Errorf("account at index %d has invalid type %q", i, a.Type)
		}
		if !isAccountNumber(a.AccountNumber) {
			return nil, fmt.Errorf("account at index %d must have an 8-digit account number", i)
		}
		if numbers[a.AccountNumber] {
			return nil, fmt.Errorf("account at index %d repeats account number %s", i, a.AccountNumber)
		}
		numbers[a.AccountNumber] = true
		balance, err := decimal.NewFromString(a.Balance)
		if err != nil {
			return nil, fmt.Errorf("account at index %d has invalid balance %q: %w", i, a.Balance, err)
		}
		a.balance = balance
	}

	for i := range fixture.Transactions {
		t := &fixture.Transactions[i]
		if t.Account < 0 || t.Account >= len(fixture.Accounts) {
			return nil, fmt.Errorf("transaction at index %d references unknown account %d", i, t.Account)
		}
		switch models.TransactionType(t.Type) {
		case models.TransactionTypeTransfer:
			if t.ToAccount == nil || *t.ToAccount < 0 || *t.ToAccount >= len(fixture.Accounts) {
				return nil, fmt.Errorf("transfer at index %d needs a valid toAccount", i)
			}
			if *t.ToAccount == t.Account {
				return nil, fmt.Errorf("transfer at index %d moves money to its own account", i)
			}
		case models.TransactionTypeDeposit, models.TransactionTypeWithdrawal:
			if t.ToAccount != nil {
				return nil, fmt.Errorf("transaction at index %d is not a transfer but has toAccount", i)
			}
		default:
			return nil, fmt.Errorf("transaction at index %d has invalid type %q", i, t.Type)
		}
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("transaction at index %d needs a positive amount, got %q", i, t.Amount)
		}
		if t.DaysAgo < 0 {
			return nil, fmt.Errorf("transaction at index %d has negative daysAgo", i)
		}
		t.amount = amount
	}

	return &fixture, nil
}

func isAccountNumber(number string) bool {
	if len(number) != 8 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// snapshot materialises the fixture with fresh ids. Transactions are dated whole days before now.
func (f *Fixture) snapshot(now time.Time, newId func() string) *Snapshot {
	snap := &Snapshot{
		Customers:    make([]models.Customer, 0, len(f.Customers)),
		Accounts:     make([]models.Account, 0, len(f.Accounts)),
		Transactions: make([]models.Transaction, 0, len(f.Transactions)),
	}

	for _, c := range f.Customers {
		snap.Customers = append(snap.Customers, models.Customer{
			Id:        newId(),
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: now,
		})
	}

	for _, a := range f.Accounts {
		snap.Accounts = append(snap.Accounts, models.Account{
			Id:            newId(),
			AccountNumber: a.AccountNumber,
			CustomerId:    snap.Customers[a.Customer].Id,
			Type:          models.AccountType(a.Type),
			Balance:       a.balance,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	for _, t := range f.Transactions {
		tx := models.Transaction{
			Id:          newId(),
			AccountId:   snap.Accounts[t.Account].Id,
			Type:        models.TransactionType(t.Type),
			Amount:      t.amount,
			Description: t.Description,
			Timestamp:   now.AddDate(0, 0, -t.DaysAgo),
		}
		if t.ToAccount != nil {
			tx.ToAccountId = snap.Accounts[*t.ToAccount].Id
		}
		snap.Transactions = append(snap.Transactions, tx)
	}

	snap.touch(store.AllSets...)
	return snap
}

// SeedDemoData replaces all three entity sets with the fixture. It never appends.
func (e *Engine) SeedDemoData(ctx context.Context) (*models.SeedStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	unlock, err := e.docs.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to lock document store: %w", err)
	}
	defer unlock()

	snap := e.fixture.snapshot(e.clock.Now(), e.ids.NewId)
	if err := saveSnapshot(ctx, e.docs, snap); err != nil {
		return nil, err
	}

	stats := &models.SeedStats{
		Customers:    len(snap.Customers),
		Accounts:     len(snap.Accounts),
		Transactions: len(snap.Transactions),
	}
	zap.L().Info("Demo data loaded",
		zap.Int("customers", stats.Customers),
		zap.Int("accounts", stats.Accounts),
		zap.Int("transactions", stats.Transactions))
	return stats, nil
}
