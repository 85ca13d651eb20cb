package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sovannvath/storefront-gateway/internal/config"
	"github.com/sovannvath/storefront-gateway/internal/logging"
)

var configPath string

// rootCmd is the shopgate entry point
var rootCmd = &cobra.Command{
	Use:           "shopgate",
	Short:         "Storefront gateway in front of the shop REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yml (default $SHOPGATE_CONFIG or "+config.DefaultPath+")")
	rootCmd.AddCommand(serveCmd, policiesCmd)
	policiesCmd.AddCommand(policiesSeedCmd, policiesListCmd)
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shopgate:", err)
		os.Exit(1)
	}
}
