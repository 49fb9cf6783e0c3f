package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Long: `Open the interactive console: pick a shift and reactor core, spend
depth credits in the upgrade shop, repair the hull and browse records.

Navigation:
  Up/Down      - Select
  Left/Right   - Change reactor core
  Enter        - Confirm
  Esc/B        - Back
  Q            - Quit`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagPlayer, "player", "", "Career name (default: $USER)")
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	env := tui.Env{
		Config:  a.cfg,
		Service: a.service,
		Records: a.store,
		Clock:   clock.Real{},
		Logger:  a.logger,
	}
	return tui.RunSession(env, a.runtimeConfig(), playerName(flagPlayer), os.Stdout)
}
