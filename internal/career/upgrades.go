package career

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Clearance upgrade names. Each unlocks a reactor core.
const (
	UpgradeReinforcedGlass = "Reinforced Glass"
	ClearanceLevel2        = "Level 2 Clearance"
	ClearanceLevel3        = "Level 3 Clearance"
	ClearanceLevel4        = "Level 4 Clearance"
)

// Upgrade is an item in the career shop.
type Upgrade struct {
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	MaxStack    int    `json:"max_stack"`
	Requires    string `json:"requires,omitempty"`
}

// Stackable reports whether the upgrade can be bought more than once.
func (u Upgrade) Stackable() bool { return u.MaxStack > 1 }

var catalog = []Upgrade{
	{UpgradeReinforcedGlass, 150, "Reduces visual distortion during hazards (stacks)", 3, ""},
	{reactor.UpgradeHardenedSeals, 50, "Reduces pressure drift by 20%", 1, ""},
	{reactor.UpgradeSuperCoolant, 75, "Reduces temperature drift by 20%", 1, ""},
	{reactor.UpgradeMagneticsStabilizer, 100, "Reduces containment drift by 20%", 1, ""},
	{ClearanceLevel2, 500, "Unlocks the Binary Star reactor: higher thermal drift", 1, ""},
	{ClearanceLevel3, 1200, "Unlocks the Prism core", 1, ClearanceLevel2},
	{ClearanceLevel4, 3000, "Unlocks the Singularity", 1, ClearanceLevel3},
}

// Catalog returns the shop contents in display order.
func Catalog() []Upgrade {
	return append([]Upgrade(nil), catalog...)
}

// LookupUpgrade finds a catalog entry by name.
func LookupUpgrade(name string) (Upgrade, bool) {
	for _, u := range catalog {
		if u.Name == name {
			return u, true
		}
	}
	return Upgrade{}, false
}

// Purchase errors.
var (
	ErrUnknownUpgrade      = errors.New("invalid upgrade type")
	ErrAlreadyOwned        = errors.New("upgrade already purchased")
	ErrMaxStack            = errors.New("max upgrades reached")
	ErrInsufficientCredits = errors.New("insufficient depth credits")
	ErrPrerequisite        = errors.New("prerequisite not owned")
)

// Purchase buys name for the profile, spending depth credits.
func Purchase(p *Profile, name string) (Upgrade, error) {
	u, ok := LookupUpgrade(name)
	if !ok {
		return Upgrade{}, fmt.Errorf("career: %w: %q", ErrUnknownUpgrade, name)
	}

	count := p.Count(name)
	switch {
	case !u.Stackable() && count > 0:
		return u, fmt.Errorf("career: %w: %s", ErrAlreadyOwned, name)
	case u.Stackable() && count >= u.MaxStack:
		return u, fmt.Errorf("career: %w: %s (%d/%d)", ErrMaxStack, name, count, u.MaxStack)
	case u.Requires != "" && !p.Has(u.Requires):
		return u, fmt.Errorf("career: %w: %s requires %s", ErrPrerequisite, name, u.Requires)
	case p.DepthCredits < u.Cost:
		return u, fmt.Errorf("career: %w: %s costs %d, have %d", ErrInsufficientCredits, name, u.Cost, p.DepthCredits)
	}

	p.DepthCredits -= u.Cost
	p.Upgrades = append(p.Upgrades, name)
	return u, nil
}

// UpgradeStatus is the shop view of one upgrade for a profile.
type UpgradeStatus struct {
	Upgrade
	Count     int  `json:"count"`
	Owned     bool `json:"owned"` // no further purchases possible
	CanAfford bool `json:"can_afford"`
	Locked    bool `json:"locked"` // prerequisite missing
}

// Shop returns the status of every catalog entry for p.
func Shop(p Profile) []UpgradeStatus {
	out := make([]UpgradeStatus, 0, len(catalog))
	for _, u := range catalog {
		n := p.Count(u.Name)
		out = append(out, UpgradeStatus{
			Upgrade:   u,
			Count:     n,
			Owned:     n >= u.MaxStack,
			CanAfford: p.DepthCredits >= u.Cost,
			Locked:    u.Requires != "" && !p.Has(u.Requires),
		})
	}
	return out
}
