package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/autopilot"
	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

var (
	flagSimJSON      bool
	flagSimRecord    bool
	flagSimThreshold float64
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless autopilot shift",
	Long: `Play a whole shift with the autopilot on a simulated clock and print
the outcome. The autopilot works every control whose metric is above the
threshold and purges whenever the purge is offered.

The run uses the player's rank, upgrades and hull. With --record the
result is settled into the career like a played shift.

Examples:
  stoker sim
  stoker sim --shift deep --reactor star --seed 42
  stoker sim --json
  stoker sim --record --player ada`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagShift, "shift", "", "Shift preset ID (default: first preset)")
	simCmd.Flags().StringVar(&flagReactor, "reactor", registry.DefaultCore, "Reactor core ID")
	simCmd.Flags().StringVar(&flagPlayer, "player", "", "Career name (default: $USER)")
	simCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print the result as JSON")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Settle the result into the career")
	simCmd.Flags().Float64Var(&flagSimThreshold, "threshold", autopilot.DefaultThreshold, "Metric level the autopilot reacts to")
}

// simOutput is the --json document.
type simOutput struct {
	Player     string            `json:"player"`
	Shift      string            `json:"shift"`
	Seed       int64             `json:"seed"`
	Report     autopilot.Report  `json:"report"`
	Settlement career.Settlement `json:"settlement"`
	Recorded   bool              `json:"recorded"`
}

func runSim(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	shiftID := flagShift
	if shiftID == "" {
		shiftID = a.cfg.Shifts[0].ID
	}
	preset, err := a.cfg.Shift(shiftID)
	if err != nil {
		return err
	}

	player := playerName(flagPlayer)
	profile, err := a.service.Profile(player)
	if err != nil {
		return err
	}
	if err := career.Ready(profile, flagReactor); err != nil {
		return err
	}

	seed := a.cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rep, err := autopilot.Run(
		autopilot.Options{
			Seed:         seed,
			TickInterval: a.cfg.Engine.TickInterval(),
			Threshold:    flagSimThreshold,
			Logger:       a.logger,
		},
		autopilot.Career{Rank: profile.Rank, Upgrades: profile.Upgrades, Hull: profile.Hull},
		reactor.Config{
			Duration:       preset.Duration,
			ReactorType:    flagReactor,
			DifficultyMult: preset.Difficulty,
		},
	)
	if err != nil {
		return err
	}

	out := simOutput{Player: profile.Player, Shift: preset.ID, Seed: seed, Report: rep}
	if flagSimRecord {
		_, st, err := a.service.CompleteShift(player, preset.ID, rep.Result)
		if err != nil {
			return err
		}
		out.Settlement, out.Recorded = st, true
	} else {
		p := profile
		out.Settlement = career.Settle(&p, rep.Result, rep.Reward)
	}

	if flagSimJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printSim(out)
	return nil
}

func printSim(out simOutput) {
	res := out.Report.Result
	snap := res.Snapshot

	outcome := "SHIFT COMPLETE"
	if !res.Success {
		outcome = "FAILED: " + string(res.Cause)
	}

	fmt.Printf("Autopilot - %s on %s (seed %d)\n", out.Shift, snap.ReactorType, out.Seed)
	fmt.Println()
	fmt.Printf("  %-14s %s\n", "Outcome", outcome)
	fmt.Printf("  %-14s %.1fs of %.0fs\n", "Survived", snap.SurvivalTime, snap.ShiftDuration)
	fmt.Printf("  %-14s %.1f%%\n", "Temperature", snap.Temperature)
	fmt.Printf("  %-14s %.1f%%\n", "Pressure", snap.Pressure)
	fmt.Printf("  %-14s %.1f%%\n", "Containment", snap.Containment)
	fmt.Printf("  %-14s %.0f%%\n", "Hull", snap.HullIntegrity)
	fmt.Printf("  %-14s %d controls, %d purges over %d ticks\n", "Autopilot", out.Report.Actions, out.Report.Purges, out.Report.Ticks)

	r := out.Report.Reward
	fmt.Println()
	fmt.Printf("  %-14s %d\n", "Base", r.BaseCredits)
	fmt.Printf("  %-14s x%.2f\n", "Danger", r.DangerMultiplier)
	fmt.Printf("  %-14s x%.2f\n", "Rank bonus", r.RankBonus)
	fmt.Printf("  %-14s x%.2f\n", "Difficulty", r.DifficultyMult)
	fmt.Printf("  %-14s +%d\n", "Survival", r.SurvivalBonus)
	fmt.Printf("  %-14s %d\n", "Reward", r.Total)

	st := out.Settlement
	if st.Penalized {
		fmt.Printf("  %-14s %d (failure penalty)\n", "Credited", st.Credited)
	} else {
		fmt.Printf("  %-14s %d\n", "Credited", st.Credited)
	}
	if st.Promoted {
		fmt.Printf("  %-14s %s -> %s\n", "Promotion", st.OldRank, st.NewRank)
	}

	fmt.Println()
	if out.Recorded {
		fmt.Printf("Result recorded to %s's career.\n", out.Player)
	} else {
		fmt.Println("Dry run: use --record to credit the career.")
	}
}
