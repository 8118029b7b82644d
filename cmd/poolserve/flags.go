package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/poolserve/internal/config"
)

const (
	envPrefix = "POOLSERVE"

	flagConfig        = "config"
	flagListenAddress = "listen-address"
	flagAdminAddress  = "admin-address"
	flagStaticsFolder = "statics-folder"
	flagNumWorkers    = "num-workers"
	flagLogFormat     = "log-format"
	flagLogLevel      = "log-level"
)

// registerFlags declares the run flags. Flag defaults come from the
// configuration struct defaults.
func registerFlags(fs *pflag.FlagSet, defaults *config.Configuration) {
	fs.String(flagConfig, "", "Path to a YAML configuration file")
	fs.String(flagListenAddress, defaults.Server.ListenAddress, "Address of the static page listener")
	fs.String(flagAdminAddress, defaults.Server.AdminAddress, "Address of the admin API and metrics (empty disables it)")
	fs.String(flagStaticsFolder, defaults.Server.StaticsFolder, "Folder holding index.html and 404.html")
	fs.Int(flagNumWorkers, defaults.Pool.NumWorkers, "Number of workers in the pool")
	fs.String(flagLogFormat, defaults.LogFormat, "Log format: console or json")
	fs.String(flagLogLevel, defaults.LogLevel, "Log level: debug, info, warn, error")
}

// loadConfiguration resolves the configuration from, lowest priority first,
// flag defaults, the config file and flags. POOLSERVE_* variables are copied
// into unset flags by the run command PreRunE before this is called.
func loadConfiguration(fs *pflag.FlagSet) (*config.Configuration, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := config.NewConfigurationWithDefaults()
	cfg.Server.ListenAddress = v.GetString(flagListenAddress)
	cfg.Server.AdminAddress = v.GetString(flagAdminAddress)
	cfg.Server.StaticsFolder = v.GetString(flagStaticsFolder)
	cfg.Pool.NumWorkers = v.GetInt(flagNumWorkers)
	cfg.LogFormat = v.GetString(flagLogFormat)
	cfg.LogLevel = v.GetString(flagLogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
