package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadball/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration quadball would use, after the search order and
the global flag overrides. Save the output as configs/quadball.yaml to
start customizing.

Examples:
  quadball config
  quadball config --config myrules.yaml --db /tmp/results.db`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	data, err := config.Marshal(cfg)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}
