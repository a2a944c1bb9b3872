/*
Package risk provides economic controls layered on the ledger core:
per-user position and loss limits checked before transactions are
submitted, and adversarial scenario simulation for sizing those limits.

PURPOSE:
  The ledger enforces bookkeeping invariants; this package enforces
  policy. A caller consults Manager.CheckLimits before submitting a
  transaction, updates positions after it applies, and uses Simulator
  to estimate whether a given position makes an attack economically
  attractive.

KEY CONCEPTS:
  - Limit: per-user ceilings (position size, daily loss, leverage)
  - Scenario: a named adverse event with probability, impact, and the
    cost an attacker pays to trigger it
  - Config: YAML-loadable bundle of limits and scenarios

SEE ALSO:
  - manager.go: limit checks and position/loss tracking
  - simulator.go: scenario simulation
  - config.go: YAML loading and validation
*/
package risk

import "github.com/shopspring/decimal"

// Limit is the set of ceilings applied to one user. Monetary quantities
// are in the smallest currency unit.
type Limit struct {
	UserID            string
	MaxPositionSize   decimal.Decimal
	MaxDailyLoss      decimal.Decimal
	MaxLeverage       float64
	SlippageTolerance float64
}

// Scenario describes one adverse economic event for simulation.
type Scenario struct {
	Name        string
	Description string
	Probability float64 // Chance of occurrence, 0..1
	Impact      float64 // Fraction of the position lost, 0..1
	AttackCost  decimal.Decimal
}

// ScenarioResult is the outcome of simulating one scenario against a
// position. NetResult is negative when the attack costs more than it
// yields.
type ScenarioResult struct {
	ScenarioName string
	Probability  float64
	ExpectedLoss decimal.Decimal
	AttackCost   decimal.Decimal
	NetResult    decimal.Decimal
}

// SimulationResult aggregates the per-scenario outcomes for one user.
type SimulationResult struct {
	UserID          string
	Position        decimal.Decimal
	ScenarioResults []ScenarioResult
}
