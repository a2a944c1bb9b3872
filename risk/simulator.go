/*
simulator.go - Economic scenario simulation

PURPOSE:
  Estimates whether attacking a position is profitable under a set of
  adverse scenarios. Each scenario yields an expected loss (position
  times impact fraction) and a net result for the attacker (expected
  gain minus attack cost). The gain model is simplified: the attacker
  captures exactly what the position loses.
*/
package risk

import "github.com/shopspring/decimal"

// Simulator runs scenario analyses against user positions.
type Simulator struct {
	scenarios []Scenario
}

func NewSimulator() *Simulator {
	return &Simulator{}
}

// AddScenario registers a scenario for subsequent simulations.
func (s *Simulator) AddScenario(scenario Scenario) {
	s.scenarios = append(s.scenarios, scenario)
}

// Scenarios returns the registered scenarios.
func (s *Simulator) Scenarios() []Scenario {
	out := make([]Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

// SimulateAttack evaluates every registered scenario against a position.
func (s *Simulator) SimulateAttack(userID string, position decimal.Decimal) SimulationResult {
	results := make([]ScenarioResult, 0, len(s.scenarios))

	for _, scenario := range s.scenarios {
		expectedLoss := position.Mul(decimal.NewFromFloat(scenario.Impact))
		expectedGain := expectedLoss
		netResult := expectedGain.Sub(scenario.AttackCost)

		results = append(results, ScenarioResult{
			ScenarioName: scenario.Name,
			Probability:  scenario.Probability,
			ExpectedLoss: expectedLoss,
			AttackCost:   scenario.AttackCost,
			NetResult:    netResult,
		})
	}

	return SimulationResult{
		UserID:          userID,
		Position:        position,
		ScenarioResults: results,
	}
}
