package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
)

const scenarioYAML = `name: quench
description: hot start dropped below T_c
rows: 8
cols: 8
init: cold
seed: 11
backend: serial
stages:
  - temperature: 1.0e9
    algorithm: metropolis
    steps: 10
  - temperature: 1.5
    algorithm: wolff
    steps: 20
    lag: 5
    record: true
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "quench", sc.Name)
	assert.Equal(t, lattice.Cold, sc.Init)
	assert.Equal(t, 1.0, sc.J, "coupling defaults to 1")
	require.Len(t, sc.Stages, 2)
	assert.True(t, sc.Stages[1].Record)
	assert.Equal(t, 5, sc.Stages[1].Lag)
}

func TestRunRecordsOnlyRequestedStages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	var seen []int
	results, err := Run(context.Background(), sc, func(r StageResult) {
		seen = append(seen, r.Index)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int{0, 1}, seen)

	assert.Nil(t, results[0].Energies)
	assert.Len(t, results[1].Energies, mc.SampleCount(20, 5))
	assert.Len(t, results[1].Magnetizations, 4)
	assert.Positive(t, results[1].MeanClusterSize)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Energy, -2.0)
		assert.LessOrEqual(t, r.Energy, 2.0)
		assert.GreaterOrEqual(t, r.Magnetization, 0.0)
		assert.LessOrEqual(t, r.Magnetization, 1.0)
	}
}

func TestRunStopsOnBadStage(t *testing.T) {
	sc := &Scenario{
		Rows: 4, Cols: 4, J: 1, Seed: 1,
		Stages: []Stage{
			{Temperature: 2, Steps: 5},
			{Temperature: -1, Steps: 5},
		},
	}

	results, err := Run(context.Background(), sc, nil)
	assert.ErrorIs(t, err, mc.ErrInvalidConfig)
	assert.Len(t, results, 1)
}

func TestRunRejectsEmptyAndCancelled(t *testing.T) {
	_, err := Run(context.Background(), &Scenario{Rows: 4, Cols: 4}, nil)
	assert.ErrorIs(t, err, ErrEmptyScenario)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := Run(ctx, Anneal(4, 4, 4, 1, 3, 10, "metropolis"), nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, results)
}

func TestAnneal(t *testing.T) {
	sc := Anneal(16, 16, 4.0, 1.0, 4, 100, "wolff")
	require.Len(t, sc.Stages, 4)
	assert.Equal(t, 4.0, sc.Stages[0].Temperature)
	assert.Equal(t, 1.0, sc.Stages[3].Temperature)
	assert.InDelta(t, 3.0, sc.Stages[1].Temperature, 1e-12)
	assert.False(t, sc.Stages[2].Record)
	assert.True(t, sc.Stages[3].Record)

	results, err := Run(context.Background(), sc, nil)
	require.NoError(t, err)
	assert.Len(t, results[3].Energies, 100)
}
