package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrPositionLimitExceeded is returned when a transaction would push a
	// user past their maximum position size.
	ErrPositionLimitExceeded = errors.New("transaction exceeds maximum position size")

	// ErrDailyLossLimitExceeded is returned when a user's recorded losses
	// already exceed their daily ceiling.
	ErrDailyLossLimitExceeded = errors.New("transaction exceeds maximum daily loss limit")
)

// PositionLimitError reports the position a transaction would have created.
type PositionLimitError struct {
	UserID      string
	NewPosition decimal.Decimal
	MaxPosition decimal.Decimal
}

func (e *PositionLimitError) Error() string {
	return fmt.Sprintf("position limit exceeded for user %s: new position %s, limit %s",
		e.UserID, e.NewPosition, e.MaxPosition)
}

func (e *PositionLimitError) Unwrap() error { return ErrPositionLimitExceeded }

// DailyLossError reports a breached loss ceiling.
type DailyLossError struct {
	UserID    string
	DailyLoss decimal.Decimal
	MaxLoss   decimal.Decimal
}

func (e *DailyLossError) Error() string {
	return fmt.Sprintf("daily loss limit exceeded for user %s: lost %s, limit %s",
		e.UserID, e.DailyLoss, e.MaxLoss)
}

func (e *DailyLossError) Unwrap() error { return ErrDailyLossLimitExceeded }
