package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/tracelint/internal/config"
	"github.com/harrison/tracelint/internal/logger"
)

// settings holds what every subcommand derives from the persistent flags.
type settings struct {
	repo   string
	config *config.Config
	logger *logger.ConsoleLogger
}

// loadSettings loads the config file, merges explicitly set flags over it and
// validates the result. Flags that were not set leave the config untouched.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	repo, _ := cmd.Flags().GetString("repo")
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(repo)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var specDirPtr, backendPtr, logLevelPtr *string
	var jobsPtr *int
	var strictPtr *bool

	if flagChanged(cmd, "specs") {
		v, _ := cmd.Flags().GetString("specs")
		specDirPtr = &v
	}
	if flagChanged(cmd, "backend") {
		v, _ := cmd.Flags().GetString("backend")
		backendPtr = &v
	}
	if flagChanged(cmd, "jobs") {
		v, _ := cmd.Flags().GetInt("jobs")
		jobsPtr = &v
	}
	if flagChanged(cmd, "strict") {
		v, _ := cmd.Flags().GetBool("strict")
		strictPtr = &v
	}
	if flagChanged(cmd, "log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &v
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(specDirPtr, backendPtr, jobsPtr, strictPtr, logLevelPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings{
		repo:   repo,
		config: cfg,
		logger: logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel),
	}, nil
}

// flagChanged reports whether a local or inherited flag was set explicitly.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
