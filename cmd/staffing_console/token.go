package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/config"
	"github.com/jonathan/staffing-console/internal/server"
	"github.com/jonathan/staffing-console/internal/types"
	"github.com/spf13/cobra"
)

var (
	tokenRole       string
	tokenEmployeeID string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a JWT for local testing",
	Long:  `Generate a signed bearer token for the given role and employee ID, using JWT_SECRET from the environment. Intended for local development against the serve command.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "Role to embed in the token (required)")
	tokenCmd.Flags().StringVar(&tokenEmployeeID, "employee-id", "", "Employee UUID (default: random)")
	if err := tokenCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	role := types.ParseRole(tokenRole)
	if role == types.RoleDefault {
		return fmt.Errorf("unknown role: %s", tokenRole)
	}

	employeeID := uuid.New()
	if tokenEmployeeID != "" {
		parsed, err := uuid.Parse(tokenEmployeeID)
		if err != nil {
			return fmt.Errorf("invalid employee ID: %v", err)
		}
		employeeID = parsed
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(employeeID, string(role))
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}
