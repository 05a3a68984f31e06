package ledger

import "errors"

// Failure categories. Every domain error returned by the engine matches exactly one
// of these with errors.Is; anything else is an infrastructure error.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("Insufficient funds")
)

// Error is a domain failure with a caller-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

var (
	ErrCustomerNotFound        = newError(ErrNotFound, "Customer not found")
	ErrAccountNotFound         = newError(ErrNotFound, "Account not found")
	ErrTransferAccountNotFound = newError(ErrNotFound, "One or both accounts not found")

	ErrCustomerFieldsRequired = newError(ErrInvalidArgument, "First name, last name, and email are required")
	ErrAccountFieldsRequired  = newError(ErrInvalidArgument, "Customer ID and account type are required")
	ErrInvalidAccountType     = newError(ErrInvalidArgument, "Account type must be checking, savings, or creditCard")
	ErrNegativeInitialBalance = newError(ErrInvalidArgument, "Initial balance cannot be negative")
	ErrInvalidAmount          = newError(ErrInvalidArgument, "Valid amount is required")
	ErrTransferFieldsRequired = newError(ErrInvalidArgument, "From account, to account, and valid amount are required")
	ErrSameAccount            = newError(ErrInvalidArgument, "Cannot transfer to the same account")

	ErrCustomerHasAccounts = newError(ErrConflict, "Cannot delete customer with active accounts")
	ErrAccountHasBalance   = newError(ErrConflict, "Cannot delete account with non-zero balance")
)

// ErrAccountNumberExhausted is an infrastructure failure: no free account number was found.
var ErrAccountNumberExhausted = errors.New("unable to allocate a unique account number")
