/*
config.go - YAML risk configuration

PURPOSE:
  Limits and scenarios are operational policy, so they load from a YAML
  file rather than code. Monetary fields are decimal strings to keep
  precision through parsing. Loaded config is validated before use:
  probabilities and impact fractions must sit in [0, 1] and monetary
  fields must parse.

FORMAT:
  limits:
    - user_id: user-1
      max_position_size: "10000"
      max_daily_loss: "1000"
      max_leverage: 5.0
      slippage_tolerance: 0.01
  scenarios:
    - name: market-crash
      description: Sudden market downturn
      probability: 0.1
      impact: 0.3
      attack_cost: "1000"
*/
package risk

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Config bundles the limits and scenarios loaded from one file.
type Config struct {
	Limits    []Limit
	Scenarios []Scenario
}

type limitYAML struct {
	UserID            string  `yaml:"user_id" validate:"required"`
	MaxPositionSize   string  `yaml:"max_position_size" validate:"required"`
	MaxDailyLoss      string  `yaml:"max_daily_loss" validate:"required"`
	MaxLeverage       float64 `yaml:"max_leverage" validate:"gte=0"`
	SlippageTolerance float64 `yaml:"slippage_tolerance" validate:"gte=0,lte=1"`
}

type scenarioYAML struct {
	Name        string  `yaml:"name" validate:"required"`
	Description string  `yaml:"description"`
	Probability float64 `yaml:"probability" validate:"gte=0,lte=1"`
	Impact      float64 `yaml:"impact" validate:"gte=0,lte=1"`
	AttackCost  string  `yaml:"attack_cost" validate:"required"`
}

type configYAML struct {
	Limits    []limitYAML    `yaml:"limits" validate:"dive"`
	Scenarios []scenarioYAML `yaml:"scenarios" validate:"dive"`
}

// LoadConfig reads, validates, and converts a YAML risk configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading risk config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and converts raw YAML risk configuration.
func ParseConfig(data []byte) (*Config, error) {
	var raw configYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing risk config: %w", err)
	}

	if err := validator.New().Struct(&raw); err != nil {
		return nil, fmt.Errorf("invalid risk config: %w", err)
	}

	cfg := &Config{}
	for _, l := range raw.Limits {
		maxPosition, err := decimal.NewFromString(l.MaxPositionSize)
		if err != nil {
			return nil, fmt.Errorf("limit %s: bad max_position_size %q: %w", l.UserID, l.MaxPositionSize, err)
		}
		maxLoss, err := decimal.NewFromString(l.MaxDailyLoss)
		if err != nil {
			return nil, fmt.Errorf("limit %s: bad max_daily_loss %q: %w", l.UserID, l.MaxDailyLoss, err)
		}
		cfg.Limits = append(cfg.Limits, Limit{
			UserID:            l.UserID,
			MaxPositionSize:   maxPosition,
			MaxDailyLoss:      maxLoss,
			MaxLeverage:       l.MaxLeverage,
			SlippageTolerance: l.SlippageTolerance,
		})
	}

	for _, s := range raw.Scenarios {
		attackCost, err := decimal.NewFromString(s.AttackCost)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: bad attack_cost %q: %w", s.Name, s.AttackCost, err)
		}
		cfg.Scenarios = append(cfg.Scenarios, Scenario{
			Name:        s.Name,
			Description: s.Description,
			Probability: s.Probability,
			Impact:      s.Impact,
			AttackCost:  attackCost,
		})
	}

	return cfg, nil
}

// Apply installs the loaded limits on a Manager and the scenarios on a
// Simulator. Either target may be nil.
func (c *Config) Apply(m *Manager, s *Simulator) {
	if m != nil {
		for _, limit := range c.Limits {
			m.SetLimits(limit)
		}
	}
	if s != nil {
		for _, scenario := range c.Scenarios {
			s.AddScenario(scenario)
		}
	}
}
