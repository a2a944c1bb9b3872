package audit_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/audit"
	"github.com/warp/ledger-engine/ledger"
)

func seededManager(t *testing.T) *ledger.Manager {
	t.Helper()
	m := ledger.NewManager()
	require.NoError(t, m.CreateAccount("A", "Account A", ledger.AccountAsset, "USD"))
	require.NoError(t, m.CreateAccount("B", "Account B", ledger.AccountAsset, "USD"))

	deposit := ledger.Transaction{
		ID: "tx1", Type: ledger.TxDeposit, Amount: decimal.NewFromInt(1000),
		Currency: "USD", FromAccount: "system", ToAccount: "A",
		Status: ledger.StatusPending, Nonce: 1, IdempotencyKey: "idem-tx1",
	}
	require.NoError(t, m.ProcessTransaction(deposit))
	return m
}

func TestAuditor_RunNow(t *testing.T) {
	a := audit.NewAuditor(seededManager(t))

	recon, inv := a.RunNow()

	assert.True(t, recon.Balanced)
	assert.True(t, inv.Passed)

	lastRecon, lastInv, ranAt := a.LastReports()
	require.NotNil(t, lastRecon)
	require.NotNil(t, lastInv)
	assert.False(t, ranAt.IsZero())
}

func TestAuditor_StartSweepsImmediately(t *testing.T) {
	a := audit.NewAuditor(seededManager(t))
	a.Interval = 50 * time.Millisecond

	a.Start()
	defer a.Stop()

	require.Eventually(t, func() bool {
		recon, _, _ := a.LastReports()
		return recon != nil
	}, time.Second, 5*time.Millisecond, "first sweep should run on start")
}

func TestAuditor_StopWhileSweeping(t *testing.T) {
	// Stop must not block on a sweep that fires between the stop signal
	// and the ticker shutdown, and a stopped auditor must restart cleanly.
	a := audit.NewAuditor(seededManager(t))
	a.Interval = time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			a.Start()
			time.Sleep(time.Millisecond)
			a.Stop()
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("start/stop cycle did not finish, auditor shutdown is stuck")
	}

	recon, inv, ranAt := a.LastReports()
	require.NotNil(t, recon)
	require.NotNil(t, inv)
	assert.False(t, ranAt.IsZero())
}

func TestAuditor_StopTwice(t *testing.T) {
	a := audit.NewAuditor(seededManager(t))
	a.Interval = 50 * time.Millisecond

	a.Start()
	a.Stop()
	a.Stop()

	recon, _, _ := a.LastReports()
	assert.NotNil(t, recon, "the startup sweep should have run")
}

func TestAuditor_DisabledDoesNotStart(t *testing.T) {
	a := audit.NewAuditor(seededManager(t))
	a.Enabled = false

	a.Start()
	a.Stop()

	recon, inv, _ := a.LastReports()
	assert.Nil(t, recon)
	assert.Nil(t, inv)
}
