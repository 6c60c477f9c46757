// Package main provides the entry point for the staffing console server
// and its operator tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "staffing_console",
	Short: "Staffing agency operations console",
	Long:  "Staffing console tracks candidate-clients through the recruiting pipeline, enforcing per-role stage transitions, blocking rights, and evidence-backed action completion.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
