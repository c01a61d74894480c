package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/disciplineos/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "disciplineos",
		Short: "DisciplineOS API Server",
		Long:  `DisciplineOS is a personal daily-compliance engine: a weighted task catalog, day scoring with dynamic thresholds, penalties on failed days, streak milestones with rewards, and couples accountability circles.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewStreakCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
