package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"packfmt/internal/pack"
)

// switchMode is an auto|on|off setting (--color, --ui). auto defers to
// whatever the caller can detect about the output.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitch(name, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on", "always":
		return modeOn, nil
	case "off", "never":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid %s value %q (expected auto|on|off)", name, value)
	}
}

func (m switchMode) decide(auto bool) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return auto
	}
}

// enabled: цвет в auto режиме только для терминала
func (m switchMode) enabled(f *os.File) bool {
	return m.decide(isTerminal(f))
}

// settings are the persistent options after merging flags and packfmt.toml.
type settings struct {
	config         packfmtConfig
	configPath     string
	color          switchMode
	quiet          bool
	timings        bool
	maxDiagnostics int
}

var cli settings

func loadSettings(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, path, err := loadConfigFor(configPath)
	if err != nil {
		return err
	}
	cli = settings{config: cfg, configPath: path}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if err := configureLogging(logLevel, cmd.Flags().Changed("log-level"), cfg.Log.Level); err != nil {
		return err
	}
	if path != "" {
		logger.Info("using config", "path", path)
	}

	colorValue, err := stringSetting(cmd, "color", cfg.Output.Color)
	if err != nil {
		return err
	}
	if cli.color, err = readSwitch("color", colorValue); err != nil {
		return err
	}
	if cli.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cli.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cli.maxDiagnostics, err = intSetting(cmd, "max-diagnostics", cfg.Output.MaxDiagnostics); err != nil {
		return err
	}
	if cli.maxDiagnostics <= 0 {
		return fmt.Errorf("--max-diagnostics must be positive, got %d", cli.maxDiagnostics)
	}
	return nil
}

// stringSetting returns the flag when it was given explicitly, then the
// config value, then the flag default.
func stringSetting(cmd *cobra.Command, name, configValue string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if !cmd.Flags().Changed(name) && strings.TrimSpace(configValue) != "" {
		return configValue, nil
	}
	return v, nil
}

func intSetting(cmd *cobra.Command, name string, configValue int) (int, error) {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if !cmd.Flags().Changed(name) && configValue != 0 {
		return configValue, nil
	}
	return v, nil
}

// grammarFlags registers --variant and --version on a subcommand.
func grammarFlags(cmd *cobra.Command) {
	cmd.Flags().String("variant", pack.VariantPack.String(), "template variant (pack|unpack)")
	cmd.Flags().String("version", pack.Version3_2_0.String(), "directive grammar version")
}

// readGrammar resolves --variant/--version against [decode]. A bad value is
// a usage error and exits with status 2.
func readGrammar(cmd *cobra.Command) (pack.Version, pack.Variant, error) {
	versionValue, err := stringSetting(cmd, "version", cli.config.Decode.Version)
	if err != nil {
		return 0, 0, err
	}
	variantValue, err := stringSetting(cmd, "variant", cli.config.Decode.Variant)
	if err != nil {
		return 0, 0, err
	}
	v, err := pack.ParseVersion(versionValue)
	if err != nil {
		return 0, 0, usageFailure(err)
	}
	variant, err := pack.ParseVariant(variantValue)
	if err != nil {
		return 0, 0, usageFailure(err)
	}
	return v, variant, nil
}
