package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/registry"
)

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "List shift presets and reactor cores",
	Long:  `Shows the shift presets from the config and every registered reactor core.`,
	RunE:  runShifts,
}

func runShifts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Shift presets:")
	fmt.Println()
	fmt.Printf("  %-10s  %-16s  %8s  %6s\n", "ID", "Title", "Duration", "Reward")
	fmt.Printf("  %-10s  %-16s  %8s  %6s\n", "--", "-----", "--------", "------")
	for _, s := range cfg.Shifts {
		fmt.Printf("  %-10s  %-16s  %7.0fs  x%.1f\n", s.ID, s.Title, s.Duration, s.Difficulty)
	}

	fmt.Println()
	fmt.Println("Reactor cores:")
	fmt.Println()
	fmt.Printf("  %-12s  %-22s  %5s  %s\n", "ID", "Title", "Drift", "Clearance")
	fmt.Printf("  %-12s  %-22s  %5s  %s\n", "--", "-----", "-----", "---------")
	for _, c := range registry.List() {
		clearance := c.Clearance
		if clearance == "" {
			clearance = "-"
		}
		fmt.Printf("  %-12s  %-22s  %5.1f  %s\n", c.ID, c.Title, c.InitialDrift, clearance)
	}

	fmt.Println()
	fmt.Println("Run 'stoker play --shift <id> --reactor <core>' to start a shift.")
	return nil
}
