package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/career"
)

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Show or manage a career",
	Long: `Inspect a career and spend depth credits outside the interactive menu.

Examples:
  stoker career show
  stoker career buy "Hardened Seals"
  stoker career repair --player ada`,
}

var careerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show rank, credits, hull and upgrades",
	Args:  cobra.NoArgs,
	RunE:  runCareerShow,
}

var careerBuyCmd = &cobra.Command{
	Use:   "buy <upgrade>",
	Short: "Buy an upgrade from the shop",
	Args:  cobra.ExactArgs(1),
	RunE:  runCareerBuy,
}

var careerRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair the hull to 100%",
	Args:  cobra.NoArgs,
	RunE:  runCareerRepair,
}

func init() {
	careerCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Career name (default: $USER)")

	careerCmd.AddCommand(careerShowCmd)
	careerCmd.AddCommand(careerBuyCmd)
	careerCmd.AddCommand(careerRepairCmd)
}

func runCareerShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.service.Profile(playerName(flagPlayer))
	if err != nil {
		return err
	}
	progress := career.Progress(p.TotalCredits)

	fmt.Printf("Career - %s\n", p.Player)
	fmt.Println()
	fmt.Printf("  %-14s %s (tier %d)\n", "Rank", p.Rank, p.Tier)
	if progress.Next != "" {
		fmt.Printf("  %-14s %s credits to %s (%.0f%%)\n", "Next rank", humanize.Comma(int64(progress.CreditsToNext)), progress.Next, progress.Percent)
	}
	fmt.Printf("  %-14s %s\n", "Depth credits", humanize.Comma(int64(p.DepthCredits)))
	fmt.Printf("  %-14s %s\n", "Lifetime", humanize.Comma(int64(p.TotalCredits)))
	fmt.Printf("  %-14s %d (%d successful)\n", "Shifts", p.TotalShifts, p.SuccessfulShifts)
	fmt.Printf("  %-14s %.0fs\n", "Survived", p.TotalSurvival)
	fmt.Printf("  %-14s %.0f%%", "Hull", p.Hull)
	if cost := career.RepairCost(p); cost > 0 {
		fmt.Printf("  (repair: %d credits)", cost)
	}
	fmt.Println()

	fmt.Println()
	fmt.Println("Shop:")
	fmt.Println()
	for _, s := range career.Shop(p) {
		state := fmt.Sprintf("%d", s.Cost)
		switch {
		case s.Owned:
			state = "owned"
		case s.Locked:
			state = "needs " + s.Requires
		case !s.CanAfford:
			state += " (short)"
		}
		name := s.Name
		if s.Stackable() {
			name = fmt.Sprintf("%s [%d/%d]", s.Name, s.Count, s.MaxStack)
		}
		fmt.Printf("  %-28s  %-28s  %s\n", name, state, s.Description)
	}

	fmt.Println()
	fmt.Println("Reactors:")
	for _, c := range career.UnlockedReactors(p) {
		fmt.Printf("  %-12s %s\n", c.ID, c.Title)
	}
	return nil
}

func runCareerBuy(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, u, err := a.service.Buy(playerName(flagPlayer), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Purchased %s for %d credits. %d depth credits left.\n", u.Name, u.Cost, p.DepthCredits)
	return nil
}

func runCareerRepair(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, cost, err := a.service.Repair(playerName(flagPlayer))
	if err != nil {
		return err
	}
	if cost == 0 {
		fmt.Println("Hull is already at 100%.")
		return nil
	}
	fmt.Printf("Hull repaired for %d credits. %d depth credits left.\n", cost, p.DepthCredits)
	return nil
}
