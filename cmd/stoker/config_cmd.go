package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deep-stoker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective config or its JSON schema",
	Long: `Inspect configuration.

The config is read from --config, then ~/.stoker/configs/stoker.yaml, then
./configs/stoker.yaml, then the built-in defaults. Global flags such as
--tick, --seed and --db override the file.

Examples:
  stoker config show
  stoker config show --config ./my-stoker.yaml
  stoker config schema > stoker.schema.json`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of stoker.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
}
