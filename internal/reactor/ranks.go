package reactor

// Rank names, lowest first.
const (
	RankNovice           = "Novice"
	RankTechnician       = "Technician"
	RankEngineer         = "Engineer"
	RankMaster           = "Master"
	RankOverseer         = "Overseer"
	RankAbyssalArchitect = "Abyssal Architect"
)

// Mitigation upgrades, each cutting one metric's drift by 20%.
const (
	UpgradeSuperCoolant        = "Super-Coolant"
	UpgradeHardenedSeals       = "Hardened Seals"
	UpgradeMagneticsStabilizer = "Magnetics Stabilizer"
)

type rankModifiers struct {
	name  string
	drift float64 // drift multiplier
	bonus float64 // reward bonus
}

var rankTable = []rankModifiers{
	{RankNovice, 1.0, 1.0},
	{RankTechnician, 1.2, 1.1},
	{RankEngineer, 1.4, 1.2},
	{RankMaster, 1.6, 1.3},
	{RankOverseer, 1.8, 1.4},
	{RankAbyssalArchitect, 2.0, 1.5},
}

// RankNames returns all rank names, lowest first.
func RankNames() []string {
	names := make([]string, len(rankTable))
	for i, r := range rankTable {
		names[i] = r.name
	}
	return names
}

// RankMultiplier returns how much faster metrics drift at the given rank.
// Unknown ranks drift like Novice.
func RankMultiplier(rank string) float64 {
	for _, r := range rankTable {
		if r.name == rank {
			return r.drift
		}
	}
	return 1.0
}

// RankBonus returns the reward bonus for the given rank.
// Unknown ranks get no bonus.
func RankBonus(rank string) float64 {
	for _, r := range rankTable {
		if r.name == rank {
			return r.bonus
		}
	}
	return 1.0
}

// MitigationUpgrade returns the upgrade that slows drift for m.
func MitigationUpgrade(m Metric) string {
	switch m {
	case Temperature:
		return UpgradeSuperCoolant
	case Pressure:
		return UpgradeHardenedSeals
	default:
		return UpgradeMagneticsStabilizer
	}
}
