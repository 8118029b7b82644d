package config

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"
)

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Configuration struct {
	Server    Server `debugmap:"visible"`
	Pool      Pool   `debugmap:"visible"`
	LogFormat string `debugmap:"visible" default:"console"`
	LogLevel  string `debugmap:"visible" default:"info"`
}

type Server struct {
	// ListenAddress is where the static page listener accepts connections.
	ListenAddress string `debugmap:"visible" default:"127.0.0.1:7878"`
	// AdminAddress serves the status API and metrics. Empty disables it.
	AdminAddress  string `debugmap:"visible" default:"127.0.0.1:8080"`
	StaticsFolder string `debugmap:"visible" default:"static"`
}

type Pool struct {
	NumWorkers int `debugmap:"visible" default:"4"`
}

// NewConfigurationWithDefaults returns a configuration with every default applied.
func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		// defaults only fails on malformed tags
		panic(err)
	}
	return c
}

func (c *Configuration) Validate() error {
	var errs []error

	if c.Server.ListenAddress == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.Pool.NumWorkers < 1 {
		errs = append(errs, fmt.Errorf("number of workers must be at least 1, got %d", c.Pool.NumWorkers))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatConsole, LogFormatJSON))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}

	return errors.Join(errs...)
}

// DebugMap returns the configuration as a map suitable for structured logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"listen_address": c.Server.ListenAddress,
			"admin_address":  c.Server.AdminAddress,
			"statics_folder": c.Server.StaticsFolder,
		},
		"pool": map[string]any{
			"num_workers": c.Pool.NumWorkers,
		},
		"log_format": c.LogFormat,
		"log_level":  c.LogLevel,
	}
}
