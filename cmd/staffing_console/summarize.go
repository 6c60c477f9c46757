package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/staffing-console/internal/config"
	"github.com/jonathan/staffing-console/internal/db"
	"github.com/jonathan/staffing-console/internal/observability"
	"github.com/jonathan/staffing-console/internal/pipeline"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print a pipeline summary",
	Long:  `Load every client from the database and print aggregate pipeline metrics: stage counts, blocked count, active rate, and conversion rate.`,
	RunE:  runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(_ *cobra.Command, _ []string) error {
	serverCfg, err := config.NewServerConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, serverCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	clients, err := database.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSummary(pipeline.Summarize(clients))
	return nil
}
