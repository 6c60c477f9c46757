// Package config provides configuration loading and validation for the
// staffing console.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds the HTTP server configuration, read from the
// environment.
type ServerConfig struct {
	Port        int
	DatabaseURL string
}

// NewServerConfig reads PORT (default: 8080) and DATABASE_URL (required).
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	cfg := &ServerConfig{
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// PolicyConfig holds the pipeline engine's deploy-time policy knobs.
type PolicyConfig struct {
	// DenyBlockedTransitions rejects transitions for blocked clients.
	DenyBlockedTransitions bool
	// PermissionMatrixPath points at a JSON permission matrix that
	// replaces the built-in one. Empty keeps the built-in matrix.
	PermissionMatrixPath string
}

// NewPolicyConfig reads PIPELINE_DENY_BLOCKED_TRANSITIONS (default:
// false) and PERMISSION_MATRIX_PATH (optional).
func NewPolicyConfig() (*PolicyConfig, error) {
	cfg := &PolicyConfig{
		PermissionMatrixPath: os.Getenv("PERMISSION_MATRIX_PATH"),
	}

	if denyStr := os.Getenv("PIPELINE_DENY_BLOCKED_TRANSITIONS"); denyStr != "" {
		deny, err := strconv.ParseBool(denyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PIPELINE_DENY_BLOCKED_TRANSITIONS: %v", err)
		}
		cfg.DenyBlockedTransitions = deny
	}

	if cfg.PermissionMatrixPath != "" {
		if _, err := os.Stat(cfg.PermissionMatrixPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("permission matrix file not found: %s", cfg.PermissionMatrixPath)
		}
	}
	return cfg, nil
}
