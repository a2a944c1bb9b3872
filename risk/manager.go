/*
manager.go - Per-user limit checks and position tracking

PURPOSE:
  Tracks each user's open position and accumulated daily losses, and
  rejects transactions that would breach configured limits. Users with
  no configured limit pass every check.

  Deposits and transfers grow the hypothetical position, withdrawals
  shrink it (floored at zero), and other transaction types leave it
  unchanged.
*/
package risk

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/ledger-engine/ledger"
)

// Manager enforces risk limits. Safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	limits      map[string]Limit
	positions   map[string]decimal.Decimal
	dailyLosses map[string]decimal.Decimal
}

func NewManager() *Manager {
	return &Manager{
		limits:      make(map[string]Limit),
		positions:   make(map[string]decimal.Decimal),
		dailyLosses: make(map[string]decimal.Decimal),
	}
}

// SetLimits installs or replaces the limits for a user.
func (m *Manager) SetLimits(limit Limit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits[limit.UserID] = limit
}

// Limits returns the configured limit for a user, if any.
func (m *Manager) Limits(userID string) (Limit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit, ok := m.limits[userID]
	return limit, ok
}

// Position returns the tracked position for a user, zero if none.
func (m *Manager) Position(userID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positions[userID]
}

// CheckLimits reports whether applying a transaction of the given type and
// amount would keep the user inside their limits. Read-only; positions are
// only moved by UpdatePosition.
func (m *Manager) CheckLimits(userID string, amount decimal.Decimal, txType ledger.TransactionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	limit, ok := m.limits[userID]
	if !ok {
		return nil
	}

	newPosition := projectPosition(m.positions[userID], amount, txType)
	if newPosition.GreaterThan(limit.MaxPositionSize) {
		err := &PositionLimitError{
			UserID:      userID,
			NewPosition: newPosition,
			MaxPosition: limit.MaxPositionSize,
		}
		zap.L().Warn("risk check failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if m.dailyLosses[userID].GreaterThan(limit.MaxDailyLoss) {
		err := &DailyLossError{
			UserID:    userID,
			DailyLoss: m.dailyLosses[userID],
			MaxLoss:   limit.MaxDailyLoss,
		}
		zap.L().Warn("risk check failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	return nil
}

// UpdatePosition moves the tracked position after a transaction applied.
func (m *Manager) UpdatePosition(userID string, amount decimal.Decimal, txType ledger.TransactionType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[userID] = projectPosition(m.positions[userID], amount, txType)
}

// RecordLoss adds to a user's accumulated daily losses.
func (m *Manager) RecordLoss(userID string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyLosses[userID] = m.dailyLosses[userID].Add(amount)
}

// ResetDailyLosses clears accumulated losses, typically at day rollover.
func (m *Manager) ResetDailyLosses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyLosses = make(map[string]decimal.Decimal)
}

// projectPosition computes the position a transaction would leave behind.
// Withdrawals floor at zero rather than going negative.
func projectPosition(current, amount decimal.Decimal, txType ledger.TransactionType) decimal.Decimal {
	switch txType {
	case ledger.TxTransfer, ledger.TxDeposit:
		return current.Add(amount)
	case ledger.TxWithdrawal:
		next := current.Sub(amount)
		if next.IsNegative() {
			return decimal.Zero
		}
		return next
	default:
		return current
	}
}
