// Package main provides the entry point for the power demand capture agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "demand_agent",
	Short: "Power demand capture agent",
	Long:  "demand_agent continuously captures power demand figures and a screenshot from the Vidyut PRAVAH dashboard, pushes them to the downstream API and stores them for charting.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
