package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const envLogLevel = "PACKFMT_LOG_LEVEL"

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "packfmt",
	Level:  log.WarnLevel,
})

// configureLogging picks the level from, in order of precedence: the
// --log-level flag, PACKFMT_LOG_LEVEL, the [log] table of packfmt.toml.
func configureLogging(flagValue string, flagSet bool, configValue string) error {
	raw := "warn"
	source := "default"
	if v := strings.TrimSpace(configValue); v != "" {
		raw, source = v, "config"
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		raw, source = v, envLogLevel
	}
	if flagSet {
		raw, source = flagValue, "--log-level"
	}
	level, err := log.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fmt.Errorf("invalid log level %q from %s: %w", raw, source, err)
	}
	logger.SetLevel(level)
	logger.Debug("logging configured", "level", level, "source", source)
	return nil
}
