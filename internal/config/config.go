// Package config loads project settings from .fluttersweep.yml,
// .fluttersweep.yaml or .fluttersweep.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/safeio"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	readConfigFileErrFmt = "read config file %s: %w"
	parseConfigErrFmt    = "parse config file %s: %w"
	maxConfigBytes       = 1 << 20
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

var defaultConfigNames = []string{".fluttersweep.yml", ".fluttersweep.yaml", ".fluttersweep.toml"}

type LoadResult struct {
	Overrides  Overrides
	ConfigPath string
}

// Load finds and parses the project config. An explicitPath is resolved
// against root when relative and must exist; otherwise the default names are
// probed in order and a missing file yields empty Overrides. A found file is
// validated on its own over Defaults so errors name the file.
func Load(root, explicitPath string) (LoadResult, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return LoadResult{}, fmt.Errorf("resolve root path: %w", err)
	}

	configPath, found, err := resolveConfigPath(rootAbs, strings.TrimSpace(explicitPath))
	if err != nil {
		return LoadResult{}, err
	}
	if !found {
		return LoadResult{}, nil
	}

	data, err := readConfigFile(rootAbs, configPath)
	if err != nil {
		return LoadResult{}, fmt.Errorf(readConfigFileErrFmt, configPath, err)
	}
	cfg, err := parseConfig(configPath, data)
	if err != nil {
		return LoadResult{}, fmt.Errorf(parseConfigErrFmt, configPath, err)
	}

	overrides := cfg.toOverrides()
	resolved, err := overrides.Apply(Defaults())
	if err != nil {
		return LoadResult{}, fmt.Errorf(parseConfigErrFmt, configPath, errors.Join(ErrInvalidConfig, err))
	}
	if err := resolved.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf(parseConfigErrFmt, configPath, errors.Join(ErrInvalidConfig, err))
	}

	return LoadResult{Overrides: overrides, ConfigPath: configPath}, nil
}

func resolveConfigPath(rootPath, explicitPath string) (string, bool, error) {
	if explicitPath != "" {
		candidate := explicitPath
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(rootPath, candidate)
		}
		candidate = filepath.Clean(candidate)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("%w: %s", ErrConfigNotFound, candidate)
			}
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
		return candidate, true, nil
	}

	for _, name := range defaultConfigNames {
		candidate := filepath.Join(rootPath, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
	}
	return "", false, nil
}

func readConfigFile(rootPath, path string) ([]byte, error) {
	if safeio.IsPathWithin(rootPath, path) {
		return safeio.ReadFileUnderLimit(rootPath, path, maxConfigBytes)
	}
	return safeio.ReadFileUnderLimit(filepath.Dir(path), path, maxConfigBytes)
}

type rawConfig struct {
	Extension          *string  `yaml:"extension" toml:"extension"`
	Exclude            []string `yaml:"exclude" toml:"exclude"`
	EntryPoints        []string `yaml:"entry_points" toml:"entry_points"`
	IgnoreDependencies []string `yaml:"ignore_dependencies" toml:"ignore_dependencies"`
	Match              *string  `yaml:"match" toml:"match"`
	Strategy           *string  `yaml:"strategy" toml:"strategy"`
	Workers            *int     `yaml:"workers" toml:"workers"`
	MaxFileBytes       *int64   `yaml:"max_file_bytes" toml:"max_file_bytes"`
}

func (c rawConfig) toOverrides() Overrides {
	return Overrides{
		Extension:          c.Extension,
		Exclude:            c.Exclude,
		EntryPoints:        c.EntryPoints,
		IgnoreDependencies: c.IgnoreDependencies,
		Match:              c.Match,
		Strategy:           c.Strategy,
		Workers:            c.Workers,
		MaxFileBytes:       c.MaxFileBytes,
	}
}

func parseConfig(path string, data []byte) (rawConfig, error) {
	var cfg rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return rawConfig{}, fmt.Errorf("%w: invalid TOML config: %w", ErrInvalidConfig, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return rawConfig{}, fmt.Errorf("%w: invalid YAML config: %w", ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}
