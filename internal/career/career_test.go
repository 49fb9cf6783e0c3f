package career

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

func TestRankFor(t *testing.T) {
	tests := []struct {
		credits int
		name    string
		tier    int
	}{
		{0, reactor.RankNovice, 1},
		{999, reactor.RankNovice, 1},
		{1000, reactor.RankTechnician, 2},
		{2500, reactor.RankEngineer, 2},
		{4999, reactor.RankEngineer, 2},
		{5000, reactor.RankMaster, 3},
		{10000, reactor.RankOverseer, 3},
		{25000, reactor.RankAbyssalArchitect, 4},
		{1 << 30, reactor.RankAbyssalArchitect, 4},
	}

	for _, tt := range tests {
		r := RankFor(tt.credits)
		assert.Equal(t, tt.name, r.Name, "credits %d", tt.credits)
		assert.Equal(t, tt.tier, r.Tier, "credits %d", tt.credits)
	}
}

func TestRanksMatchEngineTable(t *testing.T) {
	names := reactor.RankNames()
	require.Len(t, Ranks, len(names))
	for i, r := range Ranks {
		assert.Equal(t, names[i], r.Name)
	}
}

func TestProgress(t *testing.T) {
	p := Progress(500)
	assert.Equal(t, reactor.RankNovice, p.Current)
	assert.Equal(t, reactor.RankTechnician, p.Next)
	assert.Equal(t, 500, p.CreditsToNext)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)

	p = Progress(3750)
	assert.Equal(t, reactor.RankMaster, p.Next)
	assert.Equal(t, 1250, p.CreditsToNext)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)

	top := Progress(30000)
	assert.Empty(t, top.Next)
	assert.Equal(t, 0, top.CreditsToNext)
	assert.Equal(t, 100.0, top.Percent)
}

func TestIsPromotion(t *testing.T) {
	assert.True(t, IsPromotion(reactor.RankNovice, reactor.RankTechnician))
	assert.True(t, IsPromotion(reactor.RankNovice, reactor.RankMaster))
	assert.False(t, IsPromotion(reactor.RankMaster, reactor.RankMaster))
	assert.False(t, IsPromotion(reactor.RankMaster, reactor.RankNovice))
}

func TestNewProfile(t *testing.T) {
	p := NewProfile("")
	assert.Equal(t, DefaultPlayer, p.Player)
	assert.Equal(t, reactor.RankNovice, p.Rank)
	assert.Equal(t, 1, p.Tier)
	assert.Equal(t, 100.0, p.Hull)
	assert.Zero(t, p.DepthCredits)
	assert.Empty(t, p.Upgrades)
}

func TestPurchase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Profile)
		upgrade string
		wantErr error
	}{
		{"unknown", nil, "Flux Capacitor", ErrUnknownUpgrade},
		{"broke", nil, reactor.UpgradeSuperCoolant, ErrInsufficientCredits},
		{"ok", func(p *Profile) { p.DepthCredits = 75 }, reactor.UpgradeSuperCoolant, nil},
		{"owned", func(p *Profile) {
			p.DepthCredits = 500
			p.Upgrades = []string{reactor.UpgradeHardenedSeals}
		}, reactor.UpgradeHardenedSeals, ErrAlreadyOwned},
		{"stack full", func(p *Profile) {
			p.DepthCredits = 500
			p.Upgrades = []string{UpgradeReinforcedGlass, UpgradeReinforcedGlass, UpgradeReinforcedGlass}
		}, UpgradeReinforcedGlass, ErrMaxStack},
		{"stack second", func(p *Profile) {
			p.DepthCredits = 150
			p.Upgrades = []string{UpgradeReinforcedGlass}
		}, UpgradeReinforcedGlass, nil},
		{"missing prerequisite", func(p *Profile) { p.DepthCredits = 5000 }, ClearanceLevel3, ErrPrerequisite},
		{"prerequisite met", func(p *Profile) {
			p.DepthCredits = 1200
			p.Upgrades = []string{ClearanceLevel2}
		}, ClearanceLevel3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile("tester")
			if tt.setup != nil {
				tt.setup(&p)
			}
			before := p.DepthCredits
			count := p.Count(tt.upgrade)

			u, err := Purchase(&p, tt.upgrade)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, p.DepthCredits, "credits spent on failure")
				assert.Equal(t, count, p.Count(tt.upgrade))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before-u.Cost, p.DepthCredits)
			assert.Equal(t, count+1, p.Count(tt.upgrade))
		})
	}
}

func TestShop(t *testing.T) {
	p := NewProfile("tester")
	p.DepthCredits = 100
	p.Upgrades = []string{reactor.UpgradeHardenedSeals}

	byName := map[string]UpgradeStatus{}
	for _, s := range Shop(p) {
		byName[s.Name] = s
	}
	require.Len(t, byName, len(Catalog()))

	assert.True(t, byName[reactor.UpgradeHardenedSeals].Owned)
	assert.True(t, byName[reactor.UpgradeMagneticsStabilizer].CanAfford)
	assert.False(t, byName[UpgradeReinforcedGlass].CanAfford)
	assert.True(t, byName[ClearanceLevel3].Locked)
	assert.False(t, byName[ClearanceLevel2].Locked)
}

func terminal(success bool, cause reactor.Cause, hull, survival float64) reactor.TerminalResult {
	return reactor.TerminalResult{
		Success: success,
		Cause:   cause,
		Snapshot: reactor.Snapshot{
			SessionID:     "s-1",
			ReactorType:   "circle",
			HullIntegrity: hull,
			SurvivalTime:  survival,
		},
	}
}

func TestSettleSuccess(t *testing.T) {
	p := NewProfile("tester")
	p.TotalCredits, p.DepthCredits = 900, 100

	st := Settle(&p, terminal(true, reactor.CauseShiftComplete, 72, 180), reactor.Reward{Total: 236})

	assert.Equal(t, 236, st.Credited)
	assert.False(t, st.Penalized)
	assert.True(t, st.Promoted)
	assert.Equal(t, reactor.RankNovice, st.OldRank)
	assert.Equal(t, reactor.RankTechnician, st.NewRank)

	assert.Equal(t, 336, p.DepthCredits)
	assert.Equal(t, 1136, p.TotalCredits)
	assert.Equal(t, reactor.RankTechnician, p.Rank)
	assert.Equal(t, 2, p.Tier)
	assert.Equal(t, reactor.RankNovice, p.LastPromotionRank)
	assert.Equal(t, 1, p.TotalShifts)
	assert.Equal(t, 1, p.SuccessfulShifts)
	assert.Equal(t, 180.0, p.TotalSurvival)
	assert.Equal(t, 72.0, p.Hull)
}

func TestSettleFailureHalvesReward(t *testing.T) {
	p := NewProfile("tester")

	st := Settle(&p, terminal(false, reactor.CauseMeltdown, 40, 61), reactor.Reward{Total: 111})

	assert.Equal(t, 55, st.Credited)
	assert.True(t, st.Penalized)
	assert.False(t, st.Promoted)
	assert.Equal(t, 55, p.DepthCredits)
	assert.Equal(t, 1, p.TotalShifts)
	assert.Equal(t, 0, p.SuccessfulShifts)
	assert.Equal(t, reactor.RankNovice, p.LastPromotionRank)
}

func TestSettleClampsHull(t *testing.T) {
	p := NewProfile("tester")
	Settle(&p, terminal(false, reactor.CauseImplosion, -15, 10), reactor.Reward{})
	assert.Equal(t, 0.0, p.Hull)
}

func TestRepair(t *testing.T) {
	p := NewProfile("tester")
	p.Hull = 62.5
	p.DepthCredits = 100

	assert.Equal(t, 75, RepairCost(p))
	cost, err := Repair(&p)
	require.NoError(t, err)
	assert.Equal(t, 75, cost)
	assert.Equal(t, 25, p.DepthCredits)
	assert.Equal(t, 100.0, p.Hull)

	// Full hull is free.
	cost, err = Repair(&p)
	require.NoError(t, err)
	assert.Zero(t, cost)

	p.Hull = 0
	_, err = Repair(&p)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 0.0, p.Hull)
}

func TestUnlockedReactors(t *testing.T) {
	ids := func(p Profile) []string {
		var out []string
		for _, c := range UnlockedReactors(p) {
			out = append(out, c.ID)
		}
		return out
	}

	p := NewProfile("tester")
	assert.Equal(t, []string{"circle"}, ids(p))
	assert.False(t, CanRun(p, "star"))

	p.Upgrades = []string{ClearanceLevel2, ClearanceLevel3}
	assert.Equal(t, []string{"circle", "star", "prism"}, ids(p))
	assert.True(t, CanRun(p, "prism"))
	assert.False(t, CanRun(p, "singularity"))
}

func TestReady(t *testing.T) {
	p := NewProfile("tester")
	assert.NoError(t, Ready(p, ""))
	assert.NoError(t, Ready(p, "circle"))
	assert.ErrorIs(t, Ready(p, "star"), ErrCoreLocked)
	assert.ErrorIs(t, Ready(p, "no-such-core"), ErrCoreLocked)

	p.Hull = 0
	assert.ErrorIs(t, Ready(p, "circle"), ErrHullBreached)
}

func TestServiceLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, repo, nil)

	p, err := svc.Profile("ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Player)
	assert.Equal(t, 100.0, p.Hull)

	p, st, err := svc.CompleteShift("ada", "quick", terminal(true, reactor.CauseShiftComplete, 85, 180))
	require.NoError(t, err)
	assert.Positive(t, st.Credited)
	assert.Equal(t, st.Credited, p.DepthCredits)

	shifts := repo.Shifts()
	require.Len(t, shifts, 1)
	assert.Equal(t, "ada", shifts[0].Player)
	assert.Equal(t, "quick", shifts[0].ShiftType)
	assert.Equal(t, "s-1", shifts[0].ID)
	assert.False(t, shifts[0].CreatedAt.IsZero())

	// Profile was persisted.
	stored, err := repo.LoadProfile("ada")
	require.NoError(t, err)
	assert.Equal(t, p.DepthCredits, stored.DepthCredits)

	p, cost, err := svc.Repair("ada")
	require.NoError(t, err)
	assert.Equal(t, 30, cost)
	assert.Equal(t, 100.0, p.Hull)

	p, u, err := svc.Buy("ada", reactor.UpgradeHardenedSeals)
	require.NoError(t, err)
	assert.Equal(t, 50, u.Cost)
	assert.True(t, p.Has(reactor.UpgradeHardenedSeals))

	_, _, err = svc.Buy("ada", reactor.UpgradeHardenedSeals)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
}

type failingRepo struct{ MemoryRepository }

func (f *failingRepo) LoadProfile(string) (Profile, error) {
	return Profile{}, errors.New("disk on fire")
}

func TestServiceSurfacesRepositoryErrors(t *testing.T) {
	svc := NewService(&failingRepo{}, nil, nil)
	_, err := svc.Profile("ada")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "disk on fire")
}
