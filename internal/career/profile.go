package career

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

// DefaultPlayer names a career created without a player name.
const DefaultPlayer = "Reactor Technician"

// Hull constants.
const (
	FullHull          = 100.0
	RepairCostPerHull = 2 // depth credits per missing hull point
	FailurePenalty    = 0.5
)

// ErrNotFound is returned by repositories for an unknown player.
var ErrNotFound = errors.New("career not found")

// Errors returned by Ready.
var (
	ErrHullBreached = errors.New("hull breached")
	ErrCoreLocked   = errors.New("reactor core locked")
)

// Profile is a player's persistent career.
type Profile struct {
	Player            string   `json:"player"`
	DepthCredits      int      `json:"depth_credits"` // spendable
	TotalCredits      int      `json:"total_credits"` // lifetime, drives rank
	Rank              string   `json:"rank"`
	Tier              int      `json:"tier"`
	LastPromotionRank string   `json:"last_promotion_rank"`
	Upgrades          []string `json:"upgrades"`
	TotalShifts       int      `json:"total_shifts"`
	SuccessfulShifts  int      `json:"successful_shifts"`
	TotalSurvival     float64  `json:"total_survival"`
	Hull              float64  `json:"hull"`
}

// NewProfile returns a fresh Novice career with a full hull.
func NewProfile(player string) Profile {
	if player == "" {
		player = DefaultPlayer
	}
	return Profile{
		Player:            player,
		Rank:              reactor.RankNovice,
		Tier:              1,
		LastPromotionRank: reactor.RankNovice,
		Upgrades:          []string{},
		Hull:              FullHull,
	}
}

// Has reports whether the profile owns at least one of name.
func (p Profile) Has(name string) bool {
	return p.Count(name) > 0
}

// Count returns how many of name the profile owns.
func (p Profile) Count(name string) int {
	n := 0
	for _, u := range p.Upgrades {
		if u == name {
			n++
		}
	}
	return n
}

// Normalize recomputes derived fields after loading.
func (p *Profile) Normalize() {
	r := RankFor(p.TotalCredits)
	p.Rank, p.Tier = r.Name, r.Tier
	if p.LastPromotionRank == "" {
		p.LastPromotionRank = reactor.RankNovice
	}
	if p.Upgrades == nil {
		p.Upgrades = []string{}
	}
	p.Hull = clampHull(p.Hull)
}

// Settlement is the career outcome of one shift.
type Settlement struct {
	Reward    reactor.Reward `json:"reward"`
	Credited  int            `json:"credited"`  // after the failure penalty
	Penalized bool           `json:"penalized"` // failure halved the reward
	Promoted  bool           `json:"promoted"`
	OldRank   string         `json:"old_rank"`
	NewRank   string         `json:"new_rank"`
	Hull      float64        `json:"hull"`
}

// Settle records a finished shift: failures earn half the reward, credits
// accrue to both balances, the rank is recomputed and the final hull is kept.
func Settle(p *Profile, res reactor.TerminalResult, reward reactor.Reward) Settlement {
	credited := reward.Total
	if !res.Success {
		credited = int(math.Floor(float64(reward.Total) * FailurePenalty))
	}
	if credited < 0 {
		credited = 0
	}

	oldRank := p.Rank
	p.TotalShifts++
	if res.Success {
		p.SuccessfulShifts++
	}
	p.TotalSurvival += res.Snapshot.SurvivalTime
	p.DepthCredits += credited
	p.TotalCredits += credited

	r := RankFor(p.TotalCredits)
	promoted := IsPromotion(oldRank, r.Name)
	if promoted {
		p.LastPromotionRank = oldRank
	}
	p.Rank, p.Tier = r.Name, r.Tier
	p.Hull = clampHull(res.Snapshot.HullIntegrity)

	return Settlement{
		Reward:    reward,
		Credited:  credited,
		Penalized: !res.Success,
		Promoted:  promoted,
		OldRank:   oldRank,
		NewRank:   r.Name,
		Hull:      p.Hull,
	}
}

// RepairCost returns the credits needed to restore the hull to 100.
func RepairCost(p Profile) int {
	missing := FullHull - clampHull(p.Hull)
	return int(math.Ceil(missing * RepairCostPerHull))
}

// Repair restores the hull, spending depth credits. It returns the cost paid.
func Repair(p *Profile) (int, error) {
	cost := RepairCost(*p)
	if cost == 0 {
		return 0, nil
	}
	if p.DepthCredits < cost {
		return 0, fmt.Errorf("career: %w: repair costs %d, have %d", ErrInsufficientCredits, cost, p.DepthCredits)
	}
	p.DepthCredits -= cost
	p.Hull = FullHull
	return cost, nil
}

// UnlockedReactors lists the cores the profile has clearance for.
func UnlockedReactors(p Profile) []registry.Core {
	var out []registry.Core
	for _, c := range registry.List() {
		if c.Clearance == "" || p.Has(c.Clearance) {
			out = append(out, c)
		}
	}
	return out
}

// CanRun reports whether the profile may start a shift on core.
func CanRun(p Profile, coreID string) bool {
	for _, c := range UnlockedReactors(p) {
		if c.ID == coreID {
			return true
		}
	}
	return false
}

// Ready reports whether p may start a shift on coreID: the hull must hold
// and the core must be unlocked. An empty coreID means the default core.
func Ready(p Profile, coreID string) error {
	if coreID == "" {
		coreID = registry.DefaultCore
	}
	if clampHull(p.Hull) <= 0 {
		return fmt.Errorf("career: %w: repair before the next shift", ErrHullBreached)
	}
	if !CanRun(p, coreID) {
		return fmt.Errorf("career: %w: %s", ErrCoreLocked, coreID)
	}
	return nil
}

func clampHull(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > FullHull {
		return FullHull
	}
	return v
}
