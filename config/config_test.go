package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkeidar/CivicBudget/budget"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Len(t, cfg.Experiments, 1)
	assert.Equal(t, "baseline", cfg.Experiments[0].Name)
	assert.Equal(t, "logs", cfg.LogsDir)
}

func TestLoadParsesExperiments(t *testing.T) {
	path := writeConfig(t, `
logs_dir: out/logs
output_dir: out/viz
experiments:
  - name: tiny
    wards: 3
    iterations: 2
    turns: 4
    subjects: [parks, transit]
    total_budget: 50
    citizens:
      single_issue: 1
      adaptive: 2
    strategy: bisect
    election_rule: borda
    facility_cost: 12.5
    tolerances:
      slope_epsilon: 1e-6
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/logs", cfg.LogsDir)
	require.Len(t, cfg.Experiments, 1)

	e := cfg.Experiments[0]
	assert.Equal(t, "tiny", e.Name)
	assert.Equal(t, 3, e.Wards)
	assert.Equal(t, []string{"parks", "transit"}, e.Subjects)
	assert.Equal(t, 3, e.Citizens.Total())
	assert.Equal(t, "borda", e.ElectionRule)
	assert.Equal(t, 12.5, e.FacilityCost)

	m, err := e.Mechanism()
	require.NoError(t, err)
	assert.Equal(t, budget.StrategyBisect, m.Strategy)
	assert.Equal(t, 1e-6, m.SlopeEpsilon)
	assert.Equal(t, budget.DefaultSegmentTolerance, m.SegmentTolerance)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
experiments:
  - subjects: [parks]
    total_budget: 10
    citizens:
      even_split: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	e := cfg.Experiments[0]
	assert.Equal(t, "experiment-0", e.Name)
	assert.Equal(t, 1, e.Wards)
	assert.Equal(t, 1, e.Iterations)
	assert.Equal(t, 1, e.Turns)
	assert.Equal(t, "logs", cfg.LogsDir)

	m, err := e.Mechanism()
	require.NoError(t, err)
	assert.Equal(t, budget.StrategyScan, m.Strategy)
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no experiments", "experiments: []\n"},
		{"no subjects", `
experiments:
  - subjects: []
    total_budget: 10
    citizens: {noisy: 1}
`},
		{"no citizens", `
experiments:
  - subjects: [parks]
    total_budget: 10
`},
		{"negative budget", `
experiments:
  - subjects: [parks]
    total_budget: -5
    citizens: {noisy: 1}
`},
		{"unknown strategy", `
experiments:
  - subjects: [parks]
    total_budget: 10
    citizens: {noisy: 1}
    strategy: genetic
`},
		{"unknown election rule", `
experiments:
  - subjects: [parks]
    total_budget: 10
    citizens: {noisy: 1}
    election_rule: approval
`},
		{"negative facility cost", `
experiments:
  - subjects: [parks]
    total_budget: 10
    citizens: {noisy: 1}
    facility_cost: -1
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestEnsureWritesALoadableSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, Ensure(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Experiments, 1)
	assert.Equal(t, "baseline", cfg.Experiments[0].Name)

	// a second call leaves the file alone
	require.NoError(t, Ensure(path))
}
