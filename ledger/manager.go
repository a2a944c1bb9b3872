/*
manager.go - Transaction processing pipeline

PURPOSE:
  Manager owns all ledger state: accounts, the append-only entry log, the
  append-only transaction log, and the nonce/idempotency state. Callers
  create accounts, then submit transactions; each submission is validated
  (idempotency, nonce, account existence/status/currency) and dispatched
  to a type-specific handler that mutates balances and appends paired
  entries.

PROCESSING ORDER (each step short-circuits):
  0. Amount sign check      - negative amounts never reach a handler
  1. Idempotency check      - key already consumed?
  2. Nonce validation       - strict successor for the nonce account
                              (deposits key on the destination, everything
                              else on the source)
  3. Account checks         - existence, active status, currency match
  4. Type-specific handler  - balance mutation + ledger entries
  5. Commit                 - consume key, record nonce, append to log

CONCURRENCY:
  The check-then-act sequence above is not atomic step by step, so the
  whole call runs under a single mutex per Manager instance. One
  authoritative in-memory ledger per Manager; no cross-process concerns.

SEE ALSO:
  - reconcile.go: aggregate debit/credit sweep
  - invariants.go: balance, entry-count, and nonce-order sweep
*/
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Manager is a self-contained double-entry ledger. All exported methods are
// safe for concurrent use; every call is one critical section.
type Manager struct {
	mu           sync.Mutex
	accounts     map[string]*Account
	entries      []LedgerEntry
	transactions []Transaction
	nonces       *NonceManager
	idempotency  *IdempotencyManager

	// now is swappable for deterministic tests.
	now func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		accounts:    make(map[string]*Account),
		nonces:      NewNonceManager(),
		idempotency: NewIdempotencyManager(),
		now:         time.Now,
	}
}

// =============================================================================
// ACCOUNT LIFECYCLE
// =============================================================================

// CreateAccount registers a new active account with a zero balance.
func (m *Manager) CreateAccount(id, name string, accountType AccountType, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; ok {
		return ErrAccountExists
	}

	m.accounts[id] = &Account{
		ID:          id,
		Name:        name,
		Type:        accountType,
		Balance:     decimal.Zero,
		Currency:    currency,
		LastUpdated: m.now(),
		Status:      AccountActive,
	}

	zap.L().Debug("account created",
		zap.String("account_id", id),
		zap.String("type", string(accountType)),
		zap.String("currency", currency))
	return nil
}

// SetAccountStatus freezes, closes, or reactivates an account.
// Administrative use; closure never deletes the account or its entries.
func (m *Manager) SetAccountStatus(id string, status AccountStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[id]
	if !ok {
		return &AccountNotFoundError{AccountID: id, Role: "target"}
	}
	acc.Status = status
	acc.LastUpdated = m.now()

	zap.L().Info("account status changed",
		zap.String("account_id", id),
		zap.String("status", string(status)))
	return nil
}

// =============================================================================
// TRANSACTION PROCESSING
// =============================================================================

// ProcessTransaction validates and applies a transaction.
//
// On success the idempotency key is consumed, the nonce advances, and the
// transaction is appended to the log with StatusSuccess. On a handler
// failure (insufficient funds) the transaction is marked StatusFailed but
// nothing is logged and no nonce or idempotency state changes: the caller
// may resubmit the identical transaction once the account is funded.
func (m *Manager) ProcessTransaction(tx Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Every handler assumes a non-negative amount: a negative deposit would
	// drain the destination and a negative transfer would invert the funds
	// check on the source.
	if tx.Amount.IsNegative() {
		err := &NegativeAmountError{TransactionID: tx.ID, Amount: tx.Amount}
		zap.L().Warn("transaction rejected", zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	if m.idempotency.IsProcessed(tx.IdempotencyKey) {
		zap.L().Debug("transaction replay rejected",
			zap.String("transaction_id", tx.ID),
			zap.String("idempotency_key", tx.IdempotencyKey))
		return ErrDuplicateIdempotencyKey
	}

	// Deposits originate outside the system, so there is no source account
	// to key ordering on; they are sequenced against the destination.
	nonceAccount := tx.FromAccount
	if tx.Type == TxDeposit {
		nonceAccount = tx.ToAccount
	}

	if !m.nonces.ValidateNonce(nonceAccount, tx.Nonce) {
		err := &NonceError{
			AccountID: nonceAccount,
			Expected:  m.nonces.current(nonceAccount) + 1,
			Got:       tx.Nonce,
		}
		zap.L().Warn("transaction rejected", zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	if err := m.checkAccounts(&tx); err != nil {
		zap.L().Warn("transaction rejected", zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	var err error
	switch tx.Type {
	case TxTransfer:
		err = m.applyTransfer(&tx)
	case TxDeposit:
		err = m.applyDeposit(&tx)
	case TxWithdrawal:
		err = m.applyWithdrawal(&tx)
	case TxFee:
		err = m.applyFee(&tx)
	case TxInterest:
		err = m.applyInterest(&tx)
	case TxAdjustment:
		err = m.applyAdjustment(&tx)
	}
	if err != nil {
		zap.L().Warn("transaction failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	m.idempotency.MarkProcessed(tx.IdempotencyKey)
	m.nonces.record(nonceAccount, tx.Nonce)
	m.transactions = append(m.transactions, tx)

	zap.L().Info("transaction processed",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.String()),
		zap.String("currency", tx.Currency))
	return nil
}

// checkAccounts enforces existence, active status, and currency match.
// Deposits only validate the destination; the source may reference an
// external or virtual origin such as "system".
func (m *Manager) checkAccounts(tx *Transaction) error {
	if tx.Type != TxDeposit {
		from, ok := m.accounts[tx.FromAccount]
		if !ok {
			return &AccountNotFoundError{AccountID: tx.FromAccount, Role: "source"}
		}
		to, ok := m.accounts[tx.ToAccount]
		if !ok {
			return &AccountNotFoundError{AccountID: tx.ToAccount, Role: "destination"}
		}
		if from.Status != AccountActive {
			return &AccountStatusError{AccountID: from.ID, Status: from.Status}
		}
		if to.Status != AccountActive {
			return &AccountStatusError{AccountID: to.ID, Status: to.Status}
		}
		if from.Currency != tx.Currency {
			return &CurrencyMismatchError{
				AccountID:           from.ID,
				AccountCurrency:     from.Currency,
				TransactionCurrency: tx.Currency,
			}
		}
		if to.Currency != tx.Currency {
			return &CurrencyMismatchError{
				AccountID:           to.ID,
				AccountCurrency:     to.Currency,
				TransactionCurrency: tx.Currency,
			}
		}
		return nil
	}

	to, ok := m.accounts[tx.ToAccount]
	if !ok {
		return &AccountNotFoundError{AccountID: tx.ToAccount, Role: "destination"}
	}
	if to.Status != AccountActive {
		return &AccountStatusError{AccountID: to.ID, Status: to.Status}
	}
	if to.Currency != tx.Currency {
		return &CurrencyMismatchError{
			AccountID:           to.ID,
			AccountCurrency:     to.Currency,
			TransactionCurrency: tx.Currency,
		}
	}
	return nil
}

// =============================================================================
// TYPE-SPECIFIC HANDLERS
// =============================================================================

// applyTransfer moves amount from source to destination and records a
// debit/credit entry pair.
func (m *Manager) applyTransfer(tx *Transaction) error {
	from := m.accounts[tx.FromAccount]
	to := m.accounts[tx.ToAccount]

	if from.Balance.LessThan(tx.Amount) {
		tx.Status = StatusFailed
		return &InsufficientFundsError{
			AccountID: from.ID,
			Available: from.Balance,
			Requested: tx.Amount,
		}
	}

	ts := m.now()
	from.Balance = from.Balance.Sub(tx.Amount)
	from.LastUpdated = ts
	to.Balance = to.Balance.Add(tx.Amount)
	to.LastUpdated = ts

	m.entries = append(m.entries,
		LedgerEntry{
			ID:            tx.ID + "-debit",
			TransactionID: tx.ID,
			Account:       from.ID,
			Debit:         tx.Amount,
			Credit:        decimal.Zero,
			Currency:      tx.Currency,
			Timestamp:     ts,
			Description:   "Transfer to " + to.ID,
			Balance:       from.Balance,
		},
		LedgerEntry{
			ID:            tx.ID + "-credit",
			TransactionID: tx.ID,
			Account:       to.ID,
			Debit:         decimal.Zero,
			Credit:        tx.Amount,
			Currency:      tx.Currency,
			Timestamp:     ts,
			Description:   "Transfer from " + from.ID,
			Balance:       to.Balance,
		})

	tx.Status = StatusSuccess
	return nil
}

// applyDeposit credits the destination and debits the internal equity
// counter-account so the books stay balanced.
func (m *Manager) applyDeposit(tx *Transaction) error {
	to := m.accounts[tx.ToAccount]

	ts := m.now()
	to.Balance = to.Balance.Add(tx.Amount)
	to.LastUpdated = ts

	m.entries = append(m.entries,
		LedgerEntry{
			ID:            tx.ID + "-credit",
			TransactionID: tx.ID,
			Account:       to.ID,
			Debit:         decimal.Zero,
			Credit:        tx.Amount,
			Currency:      tx.Currency,
			Timestamp:     ts,
			Description:   "Deposit",
			Balance:       to.Balance,
		},
		LedgerEntry{
			ID:            tx.ID + "-debit",
			TransactionID: tx.ID,
			Account:       EquityDepositAccount,
			Debit:         tx.Amount,
			Credit:        decimal.Zero,
			Currency:      tx.Currency,
			Timestamp:     ts,
			Description:   "Equity increase from deposit to " + to.ID,
			Balance:       tx.Amount,
		})

	tx.Status = StatusSuccess
	return nil
}

// applyWithdrawal debits the source account. Single entry: the funds leave
// the system.
func (m *Manager) applyWithdrawal(tx *Transaction) error {
	return m.applyDebit(tx, "Withdrawal")
}

// applyFee debits the source account. Same shape as a withdrawal.
func (m *Manager) applyFee(tx *Transaction) error {
	return m.applyDebit(tx, "Fee")
}

func (m *Manager) applyDebit(tx *Transaction, description string) error {
	from := m.accounts[tx.FromAccount]

	if from.Balance.LessThan(tx.Amount) {
		tx.Status = StatusFailed
		return &InsufficientFundsError{
			AccountID: from.ID,
			Available: from.Balance,
			Requested: tx.Amount,
		}
	}

	ts := m.now()
	from.Balance = from.Balance.Sub(tx.Amount)
	from.LastUpdated = ts

	m.entries = append(m.entries, LedgerEntry{
		ID:            tx.ID + "-debit",
		TransactionID: tx.ID,
		Account:       from.ID,
		Debit:         tx.Amount,
		Credit:        decimal.Zero,
		Currency:      tx.Currency,
		Timestamp:     ts,
		Description:   description,
		Balance:       from.Balance,
	})

	tx.Status = StatusSuccess
	return nil
}

// applyInterest credits the destination account. No balance precondition.
func (m *Manager) applyInterest(tx *Transaction) error {
	to := m.accounts[tx.ToAccount]

	ts := m.now()
	to.Balance = to.Balance.Add(tx.Amount)
	to.LastUpdated = ts

	m.entries = append(m.entries, LedgerEntry{
		ID:            tx.ID + "-credit",
		TransactionID: tx.ID,
		Account:       to.ID,
		Debit:         decimal.Zero,
		Credit:        tx.Amount,
		Currency:      tx.Currency,
		Timestamp:     ts,
		Description:   "Interest",
		Balance:       to.Balance,
	})

	tx.Status = StatusSuccess
	return nil
}

// applyAdjustment overrides the destination balance. The amount is the new
// balance, not a delta, and is recorded as a credit entry even when the
// override is a decrease. The invariant sweep will surface the resulting
// drift between stored balance and entry sums; adjustments are expected to
// be followed by an audit.
func (m *Manager) applyAdjustment(tx *Transaction) error {
	to := m.accounts[tx.ToAccount]

	ts := m.now()
	to.Balance = tx.Amount
	to.LastUpdated = ts

	m.entries = append(m.entries, LedgerEntry{
		ID:            tx.ID + "-adjustment",
		TransactionID: tx.ID,
		Account:       to.ID,
		Debit:         decimal.Zero,
		Credit:        tx.Amount,
		Currency:      tx.Currency,
		Timestamp:     ts,
		Description:   "Account adjustment",
		Balance:       to.Balance,
	})

	tx.Status = StatusSuccess
	return nil
}

// =============================================================================
// READ ACCESSORS - All return copies
// =============================================================================

// GetAccountBalance returns an account's stored balance.
func (m *Manager) GetAccountBalance(accountID string) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[accountID]
	if !ok {
		return decimal.Decimal{}, false
	}
	return acc.Balance, true
}

// GetAccount returns a copy of an account.
func (m *Manager) GetAccount(accountID string) (Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[accountID]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

// GetAllAccounts returns copies of all accounts, ordered by ID.
func (m *Manager) GetAllAccounts() []Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, *acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts
}

// GetAccountEntries returns the ledger entries touching an account, in
// append order.
func (m *Manager) GetAccountEntries(accountID string) []LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []LedgerEntry
	for _, e := range m.entries {
		if e.Account == accountID {
			entries = append(entries, e)
		}
	}
	return entries
}

// GetAllEntries returns the full entry log in append order.
func (m *Manager) GetAllEntries() []LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]LedgerEntry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// GetTransaction looks up a processed transaction by ID.
func (m *Manager) GetTransaction(transactionID string) (Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range m.transactions {
		if tx.ID == transactionID {
			return tx, true
		}
	}
	return Transaction{}, false
}

// GetAllTransactions returns the transaction log in processing order.
func (m *Manager) GetAllTransactions() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]Transaction, len(m.transactions))
	copy(txs, m.transactions)
	return txs
}
