package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"packfmt/internal/pack"
)

const configFileName = "packfmt.toml"

type packfmtConfig struct {
	Decode decodeConfig `toml:"decode"`
	Output outputConfig `toml:"output"`
	Parse  parseConfig  `toml:"parse"`
	Check  checkConfig  `toml:"check"`
	Log    logConfig    `toml:"log"`
}

type decodeConfig struct {
	Version string `toml:"version"`
	Variant string `toml:"variant"`
}

type outputConfig struct {
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type parseConfig struct {
	Format string `toml:"format"`
}

type checkConfig struct {
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"`
	Cache  bool   `toml:"cache"`
}

type logConfig struct {
	Level string `toml:"level"`
}

// findConfig walks up from startDir looking for packfmt.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (packfmtConfig, error) {
	var cfg packfmtConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return packfmtConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return packfmtConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("decode", "version") {
		if _, err := pack.ParseVersion(cfg.Decode.Version); err != nil {
			return packfmtConfig{}, fmt.Errorf("%s: [decode].version: %w", path, err)
		}
	}
	if meta.IsDefined("decode", "variant") {
		if _, err := pack.ParseVariant(cfg.Decode.Variant); err != nil {
			return packfmtConfig{}, fmt.Errorf("%s: [decode].variant: %w", path, err)
		}
	}
	if meta.IsDefined("output", "color") {
		if _, err := readSwitch("color", cfg.Output.Color); err != nil {
			return packfmtConfig{}, fmt.Errorf("%s: [output].color: %w", path, err)
		}
	}
	if meta.IsDefined("output", "max_diagnostics") && cfg.Output.MaxDiagnostics <= 0 {
		return packfmtConfig{}, fmt.Errorf("%s: [output].max_diagnostics must be positive", path)
	}
	if meta.IsDefined("check", "jobs") && cfg.Check.Jobs < 0 {
		return packfmtConfig{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	return cfg, nil
}

// loadConfigFor returns the explicit config when path is set, otherwise the
// nearest packfmt.toml above the working directory, otherwise defaults.
func loadConfigFor(path string) (packfmtConfig, string, error) {
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil || !ok {
			return packfmtConfig{}, "", err
		}
		path = found
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return packfmtConfig{}, "", err
	}
	return cfg, path, nil
}
