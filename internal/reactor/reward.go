package reactor

import "math"

// BaseCredits is the unscaled payout for a shift.
const BaseCredits = 100

// Reward is the credit breakdown for a finished shift.
type Reward struct {
	BaseCredits      int     `json:"base_credits"`
	DangerMultiplier float64 `json:"danger_multiplier"`
	RankBonus        float64 `json:"rank_bonus"`
	DifficultyMult   float64 `json:"difficulty_mult"`
	SurvivalBonus    int     `json:"survival_bonus"`
	Total            int     `json:"total"`
}

// ComputeReward derives the credit payout from a snapshot. It is pure and
// applies no success/failure penalty; settlement is the caller's concern.
func ComputeReward(s Snapshot) Reward {
	avgDanger := (s.Temperature + s.Pressure + s.Containment) / 3

	difficulty := s.DifficultyMult
	if difficulty <= 0 {
		difficulty = 1.0
	}

	r := Reward{
		BaseCredits:      BaseCredits,
		DangerMultiplier: DangerMultiplier(avgDanger),
		RankBonus:        RankBonus(s.Rank),
		DifficultyMult:   difficulty,
		SurvivalBonus:    int(math.Floor(s.SurvivalTime / 5)),
	}
	r.Total = int(math.Floor(float64(r.BaseCredits)*r.DangerMultiplier*r.RankBonus*r.DifficultyMult + float64(r.SurvivalBonus)))
	return r
}

// DangerMultiplier rewards keeping the average danger low.
func DangerMultiplier(avgDanger float64) float64 {
	switch {
	case avgDanger < 50:
		return 2.0
	case avgDanger < 70:
		return 1.5
	case avgDanger < 85:
		return 1.0
	default:
		return 0.5
	}
}
