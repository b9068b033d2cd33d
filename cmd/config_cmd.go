package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/theirongolddev/billbuddy/internal/config"
	"github.com/theirongolddev/billbuddy/internal/prioritize"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:      %s\n", dbPath())
	fmt.Printf("    Assume yes:    %v\n", cfg.General.AssumeYes)
	fmt.Printf("    Reminder days: %d\n", cfg.General.ReminderDays)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != nil {
		fmt.Printf("    Initial monthly budget: %.2f\n", *cfg.Budget.Monthly)
	} else {
		fmt.Println("    Initial monthly budget: not set")
	}
	fmt.Printf("    Weighted:               %v\n", cfg.Budget.Weighted)
	fmt.Println()

	fmt.Println("  [Prioritize.Weights]")
	weights := prioritize.DefaultWeights().With(cfg.Prioritize.Weights)
	for _, name := range slices.Sorted(maps.Keys(weights)) {
		fmt.Printf("    %-20s %.2f\n", name, weights[name])
	}
	fmt.Printf("    %-20s %.2f\n", "(anything else)", prioritize.DefaultWeight)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", config.LogLevel(cfg))
	fmt.Println()

	fmt.Println("  Run `billbuddy setup` to reconfigure.")
	return nil
}
