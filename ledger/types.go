/*
Package ledger implements a double-entry bookkeeping core with strict
transaction ordering and exactly-once processing.

PURPOSE:
  Every economic event is recorded as linked debit and credit entries so
  that total debits always equal total credits system-wide. Accounts carry
  a stored balance, but the entry log is the auditable source of truth:
  the invariant sweep recomputes every balance from entries and flags any
  drift.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: balance-bearing entity with type, status, and currency
  - Transaction: a caller-submitted instruction (deposit, transfer, ...)
  - LedgerEntry: an immutable debit/credit record produced by processing

CRITICAL INVARIANTS:
  1. APPEND-ONLY: entries and processed transactions are never updated
     or deleted
  2. ORDERED: each account accepts nonces in strict 1,2,3,... succession
  3. EXACTLY-ONCE: an idempotency key is applied at most once, ever
  4. BALANCED: sum(credit) - sum(debit) over an account's entries equals
     its stored balance

SEE ALSO:
  - manager.go: transaction processing pipeline
  - nonce.go, idempotency.go: ordering and replay protection
  - reconcile.go, invariants.go: read-only integrity sweeps
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNT
// =============================================================================

type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountFrozen AccountStatus = "frozen"
	AccountClosed AccountStatus = "closed"
)

// EquityDepositAccount is the internal counter-account debited on deposits.
// Funds arriving from outside the system need a double-entry counterpart;
// this virtual account absorbs the debit side.
const EquityDepositAccount = "__equity_deposit__"

// Account is a balance-bearing entity. Balances only change through
// Manager.ProcessTransaction; closure is a status change, never a delete.
type Account struct {
	ID          string
	Name        string
	Type        AccountType
	Balance     decimal.Decimal
	Currency    string
	LastUpdated time.Time
	Status      AccountStatus
}

// =============================================================================
// TRANSACTION
// =============================================================================

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"    // Funds entering from outside the system
	TxWithdrawal TransactionType = "withdrawal" // Funds leaving the system
	TxTransfer   TransactionType = "transfer"   // Internal account-to-account movement
	TxFee        TransactionType = "fee"        // Charge against an account
	TxInterest   TransactionType = "interest"   // Credit to an account, no funding source
	TxAdjustment TransactionType = "adjustment" // Administrative balance override
)

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusSuccess  TransactionStatus = "success"
	StatusFailed   TransactionStatus = "failed"
	StatusReversed TransactionStatus = "reversed"
)

// Transaction is constructed by the caller with StatusPending. Processing
// moves it to StatusSuccess or StatusFailed; successfully applied
// transactions land in the append-only log and are never touched again.
type Transaction struct {
	ID             string
	Type           TransactionType
	Amount         decimal.Decimal
	Currency       string
	Timestamp      time.Time
	FromAccount    string
	ToAccount      string
	Status         TransactionStatus
	Nonce          uint64
	IdempotencyKey string
	Metadata       map[string]string
}

// NewTransaction builds a pending transaction with a generated ID and
// idempotency key. Callers that track their own keys can fill the struct
// directly instead.
func NewTransaction(txType TransactionType, amount decimal.Decimal, currency, from, to string, nonce uint64) Transaction {
	return Transaction{
		ID:             uuid.New().String(),
		Type:           txType,
		Amount:         amount,
		Currency:       currency,
		Timestamp:      time.Now(),
		FromAccount:    from,
		ToAccount:      to,
		Status:         StatusPending,
		Nonce:          nonce,
		IdempotencyKey: uuid.New().String(),
		Metadata:       make(map[string]string),
	}
}

// =============================================================================
// LEDGER ENTRY
// =============================================================================

// LedgerEntry is one side of a double-entry record. Exactly one of Debit
// and Credit is non-zero. Balance is the affected account's balance
// immediately after this entry was applied.
type LedgerEntry struct {
	ID            string
	TransactionID string
	Account       string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Currency      string
	Timestamp     time.Time
	Description   string
	Balance       decimal.Decimal
}
