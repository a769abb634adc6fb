package config_test

import (
	"fmt"

	"github.com/wonny/chembridge/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Access configuration values
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Database: %s\n", cfg.Database.Name)
	fmt.Printf("DB Max Connections: %d\n", cfg.Database.MaxConns)
	fmt.Printf("Panel config: %s\n", cfg.PanelConfigPath)
}
