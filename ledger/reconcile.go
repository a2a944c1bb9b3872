/*
reconcile.go - Aggregate integrity sweep

PURPOSE:
  Read-only pass over the full ledger: totals all debits and credits,
  counts positive asset/liability accounts, and scans the transaction log
  for duplicate IDs. Duplicates should be impossible given idempotency
  gating; the scan is a second line of defense.

SEE ALSO:
  - invariants.go: per-account and per-transaction checks
  - audit: periodic background runner for both sweeps
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconciliationReport summarizes one reconciliation pass. The positive
// account counts are informational; Balanced and Errors carry the verdict.
type ReconciliationReport struct {
	Balanced                  bool
	TotalDebits               decimal.Decimal
	TotalCredits              decimal.Decimal
	AssetAccountsPositive     int
	LiabilityAccountsPositive int
	Errors                    []string
}

// RunReconciliation verifies that total debits equal total credits across
// the whole entry log and that no transaction ID appears twice.
func (m *Manager) RunReconciliation() (ReconciliationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := ReconciliationReport{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, acc := range m.accounts {
		if !acc.Balance.IsPositive() {
			continue
		}
		switch acc.Type {
		case AccountAsset:
			report.AssetAccountsPositive++
		case AccountLiability:
			report.LiabilityAccountsPositive++
		}
	}

	for _, e := range m.entries {
		report.TotalDebits = report.TotalDebits.Add(e.Debit)
		report.TotalCredits = report.TotalCredits.Add(e.Credit)
	}

	report.Balanced = report.TotalDebits.Equal(report.TotalCredits)
	if !report.Balanced {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"total debits do not equal total credits: debits=%s, credits=%s",
			report.TotalDebits, report.TotalCredits))
	}

	seen := make(map[string]struct{}, len(m.transactions))
	for _, tx := range m.transactions {
		if _, dup := seen[tx.ID]; dup {
			report.Errors = append(report.Errors,
				fmt.Sprintf("duplicate transaction ID found: %s", tx.ID))
			continue
		}
		seen[tx.ID] = struct{}{}
	}

	return report, nil
}
