package risk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/risk"
)

const sampleConfig = `
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
`

func TestParseConfig(t *testing.T) {
	cfg, err := risk.ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Limits, 1)
	limit := cfg.Limits[0]
	assert.Equal(t, "user-1", limit.UserID)
	assert.True(t, limit.MaxPositionSize.Equal(amt(10000)))
	assert.True(t, limit.MaxDailyLoss.Equal(amt(1000)))
	assert.Equal(t, 5.0, limit.MaxLeverage)

	require.Len(t, cfg.Scenarios, 1)
	scenario := cfg.Scenarios[0]
	assert.Equal(t, "market-crash", scenario.Name)
	assert.Equal(t, 0.3, scenario.Impact)
	assert.True(t, scenario.AttackCost.Equal(amt(1000)))
}

func TestParseConfig_RejectsOutOfRangeProbability(t *testing.T) {
	bad := `
scenarios:
  - name: impossible
    probability: 1.5
    impact: 0.3
    attack_cost: "1000"
`
	_, err := risk.ParseConfig([]byte(bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid risk config")
}

func TestParseConfig_RejectsBadDecimal(t *testing.T) {
	bad := `
limits:
  - user_id: user-1
    max_position_size: "lots"
    max_daily_loss: "1000"
`
	_, err := risk.ParseConfig([]byte(bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_position_size")
}

func TestLoadConfig_AppliesToManagerAndSimulator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := risk.LoadConfig(path)
	require.NoError(t, err)

	m := risk.NewManager()
	s := risk.NewSimulator()
	cfg.Apply(m, s)

	_, ok := m.Limits("user-1")
	assert.True(t, ok)
	assert.Len(t, s.Scenarios(), 1)

	// Installed limits are live.
	err = m.CheckLimits("user-1", amt(20000), ledger.TxDeposit)
	assert.ErrorIs(t, err, risk.ErrPositionLimitExceeded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := risk.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
