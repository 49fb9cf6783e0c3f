// stoker is a terminal console for keeping a deep-sea reactor alive
// through a timed shift.
//
// Usage:
//
//	stoker shifts            - List shift presets and reactor cores
//	stoker play              - Run a single shift
//	stoker menu              - Interactive menu: shifts, upgrade shop, records
//	stoker sim               - Run a headless autopilot shift
//	stoker records           - Show shift history and best rewards
//	stoker career            - Show or manage a career
//	stoker serve             - Start SSH server (and optional spectator API)
//	stoker config            - Print the effective config or its JSON schema
//
// Global flags:
//
//	--tick <ms>        - Engine tick interval (default: from config, 500)
//	--seed <value>     - RNG seed for reproducible shifts
//	--db <path>        - Database path (default: ~/.stoker/stoker.db)
//	--config <path>    - Path to stoker.yaml
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/config"
	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/storage"
)

var (
	// Global flags
	flagTick     int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stoker",
	Short: "Deep Stoker - keep the reactor alive until the shift ends",
	Long: `Deep Stoker is a terminal reactor console. Temperature, pressure and
containment drift upward; work the vent, coolant and magnetics sliders to
hold them down until the shift clock runs out.

Available commands:
  shifts   - Show shift presets and reactor cores
  play     - Run a single shift
  menu     - Interactive menu with upgrade shop and records
  sim      - Headless autopilot shift
  records  - Shift history and best rewards
  career   - Show, upgrade or repair a career
  serve    - SSH server for remote play
  config   - Effective config or its JSON schema

Examples:
  stoker play --shift quick
  stoker play --shift deep --reactor star
  stoker menu
  stoker sim --seed 42 --json
  stoker serve --ssh :2323 --http :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagTick, "tick", 0, "Engine tick interval in milliseconds (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the career database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to stoker.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(shiftsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "stoker",
	})
	logger.SetLevel(level)
	return logger, nil
}

// loadConfig reads stoker.yaml and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagTick > 0 {
		cfg.Engine.TickMillis = flagTick
	}
	if flagSeed != 0 {
		cfg.Engine.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	return cfg, nil
}

// app bundles what most commands need.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	store   *storage.Store
	service *career.Service
}

func openApp() (*app, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: career.NewService(store, store, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("cannot close database", "error", err)
	}
}

// runtimeConfig sizes the console from the controlling terminal.
func (a *app) runtimeConfig() core.RuntimeConfig {
	rt := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	rt.TickInterval = a.cfg.Engine.TickInterval()
	rt.Seed = a.cfg.Engine.Seed
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	return rt
}
