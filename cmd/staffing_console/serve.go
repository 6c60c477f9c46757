package main

import (
	"fmt"

	"github.com/jonathan/staffing-console/internal/config"
	"github.com/jonathan/staffing-console/internal/pipeline"
	"github.com/jonathan/staffing-console/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the pipeline engine: stage transitions, blocking, action completion, and summaries.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	serverCfg, err := config.NewServerConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}

	policyCfg, err := config.NewPolicyConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:        serverCfg.Port,
		DatabaseURL: serverCfg.DatabaseURL,
		Policy:      pipeline.Policy{DenyBlockedTransitions: policyCfg.DenyBlockedTransitions},
		MatrixPath:  policyCfg.PermissionMatrixPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
