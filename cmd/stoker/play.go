package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/platform/tui"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

var (
	flagShift   string
	flagReactor string
	flagPlayer  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run a single shift",
	Long: `Start a shift on the chosen reactor core.

Controls:
  Q/A        - Vent pressure up/down
  W/S        - Coolant up/down
  E/D        - Magnetics up/down
  X          - Emergency purge (when offered)
  P/Space    - Pause
  R          - Restart (after the shift ends)
  B/Esc      - Back (paused or finished)
  Ctrl+C     - Quit

Each slider has an optimal band. Inside the band its metric's drift relaxes;
leaving the band spikes it.

Examples:
  stoker play
  stoker play --shift standard
  stoker play --shift deep --reactor star --player ada`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagShift, "shift", "", "Shift preset ID (default: first preset)")
	playCmd.Flags().StringVar(&flagReactor, "reactor", registry.DefaultCore, "Reactor core ID")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Career name (default: $USER)")
}

func runPlay(cmd *cobra.Command, args []string) error {
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
	c, err := registry.Lookup(flagReactor)
	if err != nil {
		return err
	}

	return tui.RunShift(tui.ShiftOptions{
		Player:   playerName(flagPlayer),
		Preset:   preset,
		Core:     c,
		Controls: a.cfg.Controls,
		Service:  a.service,
		Runtime:  a.runtimeConfig(),
		Logger:   a.logger,
		Bell:     os.Stdout,
	})
}

// playerName picks the career for local commands.
func playerName(flag string) string {
	if flag != "" {
		return flag
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return career.DefaultPlayer
}
