/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every rejection ProcessTransaction can produce maps to exactly one
  sentinel, so callers branch with errors.Is and drill into context
  with errors.As.

ERROR CATEGORIES:
  1. Configuration errors - duplicate account creation
  2. Replay errors        - idempotency key already consumed
  3. Ordering errors      - nonce is not the strict successor
  4. Referential errors   - source/destination account missing
  5. State errors         - account frozen or closed
  6. Domain errors        - currency mismatch, insufficient funds,
                            negative amount
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountExists is returned when creating an account whose ID is taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrDuplicateIdempotencyKey is returned when a transaction's idempotency
	// key has already been consumed. This is expected behavior for retries of
	// an already-applied transaction.
	ErrDuplicateIdempotencyKey = errors.New("transaction already processed")

	// ErrInvalidNonce is returned when a transaction's nonce is not the strict
	// successor of the account's last accepted nonce. Gaps and replays are
	// both rejected.
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrAccountNotFound is returned when a referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNotActive is returned when a referenced account is frozen
	// or closed.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrCurrencyMismatch is returned when a transaction's currency differs
	// from a referenced account's currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInsufficientFunds is returned when a debit would overdraw the
	// source account.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeAmount is returned when a transaction carries a negative
	// amount. Signs are fixed per transaction type; a negative amount would
	// silently invert the type's semantics.
	ErrNegativeAmount = errors.New("negative amount")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NonceError reports a rejected nonce alongside the value that would have
// been accepted.
type NonceError struct {
	AccountID string
	Expected  uint64
	Got       uint64
}

func (e *NonceError) Error() string {
	return fmt.Sprintf("invalid nonce for account %s: expected %d, got %d",
		e.AccountID, e.Expected, e.Got)
}

func (e *NonceError) Unwrap() error { return ErrInvalidNonce }

// InsufficientFundsError reports a balance shortage on the source account.
type InsufficientFundsError struct {
	AccountID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: available %s, requested %s",
		e.AccountID, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// AccountNotFoundError names the missing account and the role it played in
// the rejected transaction ("source" or "destination").
type AccountNotFoundError struct {
	AccountID string
	Role      string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("%s account %s not found", e.Role, e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// AccountStatusError reports a transaction touching a non-active account.
type AccountStatusError struct {
	AccountID string
	Status    AccountStatus
}

func (e *AccountStatusError) Error() string {
	return fmt.Sprintf("account %s is not active (status: %s)", e.AccountID, e.Status)
}

func (e *AccountStatusError) Unwrap() error { return ErrAccountNotActive }

// CurrencyMismatchError reports a currency disagreement between a
// transaction and one of its accounts.
type CurrencyMismatchError struct {
	AccountID           string
	AccountCurrency     string
	TransactionCurrency string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch for account %s: account holds %s, transaction in %s",
		e.AccountID, e.AccountCurrency, e.TransactionCurrency)
}

func (e *CurrencyMismatchError) Unwrap() error { return ErrCurrencyMismatch }

// NegativeAmountError reports a transaction submitted with a negative
// amount.
type NegativeAmountError struct {
	TransactionID string
	Amount        decimal.Decimal
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("negative amount %s in transaction %s", e.Amount, e.TransactionID)
}

func (e *NegativeAmountError) Unwrap() error { return ErrNegativeAmount }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsReplay returns true if the error means the transaction was already
// applied. Callers should treat this as success of the original attempt.
func IsReplay(err error) bool {
	return errors.Is(err, ErrDuplicateIdempotencyKey)
}

// IsClientError returns true if the error is due to the submitted
// transaction rather than ledger state corruption.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateIdempotencyKey) ||
		errors.Is(err, ErrInvalidNonce) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrAccountNotActive) ||
		errors.Is(err, ErrCurrencyMismatch) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNegativeAmount)
}

// IsRetryable returns true if resubmitting the identical transaction can
// succeed once the underlying condition clears. Insufficient funds does not
// consume the idempotency key or advance the nonce, so the same transaction
// may be resubmitted after the source account is funded. Ordering errors are
// not retryable as-is: state has moved on and the nonce must change.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}
