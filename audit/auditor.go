/*
Package audit runs the ledger's integrity sweeps on a schedule.

PURPOSE:
  Reconciliation and invariant sweeps are read-only and independent of
  transaction processing, so they run from a background goroutine with a
  configurable interval. Findings are logged and the latest reports kept
  for inspection.

USAGE:
  auditor := audit.NewAuditor(manager)
  auditor.Start()
  // ... later
  auditor.Stop()
*/
package audit

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/ledger-engine/ledger"
)

// DefaultInterval is how often sweeps run unless configured otherwise.
const DefaultInterval = 1 * time.Hour

// Auditor periodically reconciles a ledger manager and checks its
// invariants.
type Auditor struct {
	Manager  *ledger.Manager
	Interval time.Duration
	Enabled  bool

	// mu guards the Start/Stop lifecycle only. The sweep goroutine takes
	// reportMu, never mu, so Stop can wait for it without deadlocking.
	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup

	reportMu           sync.Mutex
	lastReconciliation *ledger.ReconciliationReport
	lastInvariants     *ledger.InvariantTestReport
	lastRun            time.Time
}

func NewAuditor(manager *ledger.Manager) *Auditor {
	return &Auditor{
		Manager:  manager,
		Interval: DefaultInterval,
		Enabled:  true,
	}
}

// Start begins the background sweep loop. A sweep runs immediately, then
// on every interval tick until Stop. Safe to call again after Stop;
// calling Start on a running auditor is a no-op.
func (a *Auditor) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Enabled {
		zap.L().Info("auditor disabled, not starting")
		return
	}
	if a.ticker != nil {
		return
	}

	a.stop = make(chan struct{})
	a.ticker = time.NewTicker(a.Interval)
	a.wg.Add(1)
	go a.run(a.ticker, a.stop)

	zap.L().Info("auditor started", zap.Duration("interval", a.Interval))
}

// Stop shuts the sweep loop down and waits for it to exit. Safe to call
// on a stopped auditor.
func (a *Auditor) Stop() {
	a.mu.Lock()
	if a.ticker == nil {
		a.mu.Unlock()
		return
	}
	a.ticker.Stop()
	a.ticker = nil
	close(a.stop)
	a.mu.Unlock()

	// Wait outside the lock: an in-flight sweep needs reportMu to finish,
	// and a pending tick may start one more sweep before the stop signal
	// is observed.
	a.wg.Wait()
	zap.L().Info("auditor stopped")
}

// run owns no Auditor lifecycle state. The ticker and stop channel are
// handed over at spawn so a later Start cannot swap them underneath it.
func (a *Auditor) run(ticker *time.Ticker, stop chan struct{}) {
	defer a.wg.Done()

	a.sweep()

	for {
		select {
		case <-ticker.C:
			a.sweep()
		case <-stop:
			return
		}
	}
}

// RunNow triggers an immediate sweep and returns both reports.
func (a *Auditor) RunNow() (ledger.ReconciliationReport, ledger.InvariantTestReport) {
	return a.sweep()
}

// LastReports returns the most recent sweep's reports and when it ran.
// All three are zero until the first sweep completes.
func (a *Auditor) LastReports() (*ledger.ReconciliationReport, *ledger.InvariantTestReport, time.Time) {
	a.reportMu.Lock()
	defer a.reportMu.Unlock()
	return a.lastReconciliation, a.lastInvariants, a.lastRun
}

func (a *Auditor) sweep() (ledger.ReconciliationReport, ledger.InvariantTestReport) {
	recon, _ := a.Manager.RunReconciliation()
	inv, _ := a.Manager.RunInvariantTests()

	a.reportMu.Lock()
	a.lastReconciliation = &recon
	a.lastInvariants = &inv
	a.lastRun = time.Now()
	a.reportMu.Unlock()

	if recon.Balanced && inv.Passed {
		zap.L().Info("integrity sweep clean",
			zap.String("total_debits", recon.TotalDebits.String()),
			zap.String("total_credits", recon.TotalCredits.String()))
		return recon, inv
	}

	zap.L().Warn("integrity sweep found problems",
		zap.Bool("balanced", recon.Balanced),
		zap.Bool("invariants_passed", inv.Passed),
		zap.Strings("reconciliation_errors", recon.Errors),
		zap.Strings("invariant_errors", inv.Errors))
	return recon, inv
}
