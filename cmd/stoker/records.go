package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/career"
)

var (
	flagRecordsLimit   int
	flagRecordsCareers bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show shift history and best rewards",
	Long: `Display the best shifts, a player's recent shifts with --player, or
the career leaderboard with --careers.

Examples:
  stoker records
  stoker records --player ada
  stoker records --careers --limit 5`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().StringVar(&flagPlayer, "player", "", "Show this player's recent shifts")
	recordsCmd.Flags().IntVar(&flagRecordsLimit, "limit", 10, "Number of rows")
	recordsCmd.Flags().BoolVar(&flagRecordsCareers, "careers", false, "Show the career leaderboard")
}

func runRecords(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if flagRecordsCareers {
		return printCareers(a)
	}

	var (
		shifts []career.ShiftRecord
		title  string
	)
	if flagPlayer != "" {
		shifts, err = a.store.RecentShifts(flagPlayer, flagRecordsLimit)
		title = "Recent Shifts - " + flagPlayer
	} else {
		shifts, err = a.store.TopShifts(flagRecordsLimit)
		title = "Best Shifts"
	}
	if err != nil {
		return err
	}

	fmt.Println(title)
	fmt.Println()

	if len(shifts) == 0 {
		fmt.Println("No shifts recorded yet.")
		fmt.Println()
		fmt.Println("Play 'stoker play' to log the first shift!")
		return nil
	}

	fmt.Printf("  %-4s  %-14s  %-9s  %-11s  %-15s  %6s  %8s  %s\n", "#", "Player", "Shift", "Reactor", "Outcome", "Reward", "Credited", "When")
	fmt.Printf("  %-4s  %-14s  %-9s  %-11s  %-15s  %6s  %8s  %s\n", "-", "------", "-----", "-------", "-------", "------", "--------", "----")
	for i, r := range shifts {
		fmt.Printf("  %-4d  %-14s  %-9s  %-11s  %-15s  %6d  %8d  %s\n",
			i+1, truncate(r.Player, 14), r.ShiftType, r.ReactorType, string(r.Cause),
			r.Reward, r.Credited, humanize.Time(r.CreatedAt))
	}

	if flagPlayer != "" {
		stats, err := a.store.PlayerStats(flagPlayer)
		if err == nil && stats.Shifts > 0 {
			fmt.Println()
			fmt.Printf("Shifts: %d  Successful: %d  Best reward: %s  Credited: %s  Last played: %s\n",
				stats.Shifts, stats.Successes, humanize.Comma(int64(stats.BestReward)),
				humanize.Comma(stats.TotalCredited), humanize.Time(stats.LastPlayed))
		}
	}
	return nil
}

func printCareers(a *app) error {
	rows, err := a.store.TopCareers(flagRecordsLimit)
	if err != nil {
		return err
	}

	fmt.Println("Career Leaderboard")
	fmt.Println()
	if len(rows) == 0 {
		fmt.Println("No careers yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-14s  %-18s  %8s  %6s  %7s\n", "#", "Player", "Rank", "Credits", "Shifts", "Success")
	fmt.Printf("  %-4s  %-14s  %-18s  %8s  %6s  %7s\n", "-", "------", "----", "-------", "------", "-------")
	for i, c := range rows {
		fmt.Printf("  %-4d  %-14s  %-18s  %8s  %6d  %7d\n",
			i+1, truncate(c.Player, 14), c.Rank, humanize.Comma(int64(c.TotalCredits)), c.TotalShifts, c.SuccessfulShifts)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
