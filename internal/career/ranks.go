// Package career tracks a player's progression between shifts: lifetime
// credits and rank, spendable credits, purchased upgrades, hull condition
// and shift statistics.
package career

import "github.com/vovakirdan/deep-stoker/internal/reactor"

// Rank is a career rank unlocked at a lifetime credit threshold.
type Rank struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Tier      int    `json:"tier"`
}

// Ranks lists every rank, lowest first.
var Ranks = []Rank{
	{reactor.RankNovice, 0, 1},
	{reactor.RankTechnician, 1000, 2},
	{reactor.RankEngineer, 2500, 2},
	{reactor.RankMaster, 5000, 3},
	{reactor.RankOverseer, 10000, 3},
	{reactor.RankAbyssalArchitect, 25000, 4},
}

// RankFor returns the highest rank whose threshold totalCredits meets.
func RankFor(totalCredits int) Rank {
	return Ranks[rankIndexFor(totalCredits)]
}

func rankIndexFor(totalCredits int) int {
	for i := len(Ranks) - 1; i >= 0; i-- {
		if totalCredits >= Ranks[i].Threshold {
			return i
		}
	}
	return 0
}

func rankIndex(name string) int {
	for i, r := range Ranks {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// IsPromotion reports whether newRank is above oldRank.
func IsPromotion(oldRank, newRank string) bool {
	return rankIndex(newRank) > rankIndex(oldRank)
}

// RankProgress describes the way to the next rank.
type RankProgress struct {
	Current       string  `json:"current"`
	Next          string  `json:"next,omitempty"` // empty at the top rank
	CreditsToNext int     `json:"credits_to_next"`
	Percent       float64 `json:"percent"` // 0..100
}

// Progress reports how far totalCredits is through the current rank.
func Progress(totalCredits int) RankProgress {
	i := rankIndexFor(totalCredits)
	cur := Ranks[i]
	if i == len(Ranks)-1 {
		return RankProgress{Current: cur.Name, Percent: 100}
	}

	next := Ranks[i+1]
	span := float64(next.Threshold - cur.Threshold)
	earned := float64(totalCredits - cur.Threshold)
	pct := earned / span * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return RankProgress{
		Current:       cur.Name,
		Next:          next.Name,
		CreditsToNext: next.Threshold - totalCredits,
		Percent:       pct,
	}
}
