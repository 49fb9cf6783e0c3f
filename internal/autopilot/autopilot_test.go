package autopilot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

var start = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func fresh() Career {
	return Career{Rank: reactor.RankNovice, Upgrades: []string{}, Hull: 100}
}

func TestRunCompletesShift(t *testing.T) {
	rep, err := Run(Options{Seed: 42, Start: start}, fresh(), reactor.Config{Duration: 60})
	require.NoError(t, err)

	assert.True(t, rep.Result.Success)
	assert.Equal(t, reactor.CauseShiftComplete, rep.Result.Cause)
	assert.Greater(t, rep.Actions, 0)
	assert.Equal(t, 0, rep.Purges)
	assert.Equal(t, 120, rep.Ticks)
	assert.Equal(t, 100.0, rep.Result.Snapshot.HullIntegrity)
	assert.Equal(t, reactor.ComputeReward(rep.Result.Snapshot), rep.Reward)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := reactor.Config{Duration: 90, ReactorType: "circle", DifficultyMult: 1.5}

	a, err := Run(Options{Seed: 7, Start: start}, fresh(), cfg)
	require.NoError(t, err)
	b, err := Run(Options{Seed: 7, Start: start}, fresh(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Ticks, b.Ticks)
	assert.Equal(t, a.Actions, b.Actions)
	assert.Equal(t, a.Reward, b.Reward)
	assert.Equal(t, a.Result.Snapshot.Temperature, b.Result.Snapshot.Temperature)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	_, err := Run(Options{Seed: 1}, fresh(), reactor.Config{Duration: 0})
	assert.True(t, errors.Is(err, reactor.ErrInvalidConfig))
}

func TestPilotPurgesWhenOffered(t *testing.T) {
	eng := reactor.New(reactor.Options{Seed: 3, Clock: clock.NewFake(start)})
	_, err := eng.Initialize(reactor.RankNovice, nil, 100, reactor.Config{Duration: 60})
	require.NoError(t, err)
	defer eng.Stop()

	var rep Report
	s := eng.State()
	s.ShowPurge = true
	s.Temperature = 90

	pilot(eng, s, DefaultThreshold, &rep)
	assert.Equal(t, 1, rep.Purges)
	assert.Equal(t, 0, rep.Actions, "a purge replaces control work for that tick")

	after := eng.State()
	assert.Equal(t, 85.0, after.HullIntegrity)
	assert.Equal(t, 20.0, after.Temperature)
}

func TestPilotWorksHotControls(t *testing.T) {
	eng := reactor.New(reactor.Options{Seed: 3, Clock: clock.NewFake(start)})
	_, err := eng.Initialize(reactor.RankNovice, nil, 100, reactor.Config{Duration: 60})
	require.NoError(t, err)
	defer eng.Stop()

	var rep Report
	s := eng.State()
	s.Pressure = 70
	s.Containment = 56

	pilot(eng, s, DefaultThreshold, &rep)
	assert.Equal(t, 2, rep.Actions)
	assert.True(t, eng.State().Alignment.Pressure)
	assert.True(t, eng.State().Alignment.Containment)
	assert.False(t, eng.State().Alignment.Temperature)
}
