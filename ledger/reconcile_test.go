package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
)

func TestReconciliation_BalancedLedger(t *testing.T) {
	// GIVEN: Deposits to an asset and a liability account, then a transfer
	// WHEN: Reconciliation runs
	// THEN: Debits equal credits and positive accounts are counted per type

	m := ledger.NewManager()
	require.NoError(t, m.CreateAccount("asset1", "Asset 1", ledger.AccountAsset, "USD"))
	require.NoError(t, m.CreateAccount("asset2", "Asset 2", ledger.AccountAsset, "USD"))
	require.NoError(t, m.CreateAccount("liability1", "Liability 1", ledger.AccountLiability, "USD"))

	require.NoError(t, m.ProcessTransaction(depositTx("tx1", "asset1", 1000, 1)))
	require.NoError(t, m.ProcessTransaction(depositTx("tx2", "liability1", 500, 1)))
	require.NoError(t, m.ProcessTransaction(transferTx("tx3", "asset1", "asset2", 300, 2)))

	report, err := m.RunReconciliation()
	require.NoError(t, err)

	assert.True(t, report.Balanced)
	assert.True(t, report.TotalDebits.Equal(report.TotalCredits))
	assert.True(t, report.TotalDebits.Equal(amt(1800)), "1000 + 500 deposits + 300 transfer")
	assert.Equal(t, 2, report.AssetAccountsPositive, "asset1 holds 700, asset2 holds 300")
	assert.Equal(t, 1, report.LiabilityAccountsPositive)
	assert.Empty(t, report.Errors)
}

func TestReconciliation_WithdrawalLeavesLedgerOneSided(t *testing.T) {
	// A withdrawal records only the debit side: funds leaving the system
	// have no internal credit counterpart, so aggregate totals diverge.

	m := newUSDManager(t, "A")
	require.NoError(t, m.ProcessTransaction(depositTx("tx1", "A", 1000, 1)))

	withdrawal := ledger.Transaction{
		ID: "tx2", Type: ledger.TxWithdrawal, Amount: amt(200), Currency: "USD",
		FromAccount: "A", ToAccount: "A", Status: ledger.StatusPending,
		Nonce: 2, IdempotencyKey: "idem-tx2",
	}
	require.NoError(t, m.ProcessTransaction(withdrawal))

	report, err := m.RunReconciliation()
	require.NoError(t, err)

	assert.False(t, report.Balanced)
	assert.True(t, report.TotalDebits.Equal(amt(1200)))
	assert.True(t, report.TotalCredits.Equal(amt(1000)))
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "total debits do not equal total credits")
}

func TestReconciliation_DetectsDuplicateTransactionIDs(t *testing.T) {
	// Idempotency keys gate duplicates, but transaction IDs are caller
	// supplied; the reconciliation scan is the second line of defense.

	m := newUSDManager(t, "A")

	first := depositTx("tx1", "A", 100, 1)
	second := depositTx("tx1", "A", 200, 2)
	second.IdempotencyKey = "idem-tx1-retry"

	require.NoError(t, m.ProcessTransaction(first))
	require.NoError(t, m.ProcessTransaction(second))

	report, err := m.RunReconciliation()
	require.NoError(t, err)

	assert.True(t, report.Balanced, "duplicated IDs are still double-entered")
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "duplicate transaction ID found: tx1")
}
