package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/policyqa/internal/config"
	logpkg "github.com/kailas-cloud/policyqa/internal/logger"
)

var (
	envName    string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "policyqa",
	Short: "HR policy question answering service",
	Long: `policyqa answers employee questions about HR policies.
Policy files (.txt, .md, .pdf) are chunked, embedded and indexed; questions are
answered by a chat model grounded on the most similar chunks, with citations.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a configuration file, overrides --env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// loadConfig reads the configuration selected by the persistent flags.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(envName)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logpkg.NewLogger(envName, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}
