package config

import (
	"fmt"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/corpus"
	"github.com/ben-ranford/fluttersweep/internal/detect"
	"github.com/ben-ranford/fluttersweep/internal/source"
	"github.com/bmatcuk/doublestar/v4"
)

type Values struct {
	Extension          string
	Exclude            []string
	EntryPoints        []string
	IgnoreDependencies []string
	Match              detect.MatchMode
	Strategy           detect.Strategy
	Workers            int
	MaxFileBytes       int64
}

// Overrides holds the settings a config file or the command line actually
// set. Nil fields leave the base value untouched.
type Overrides struct {
	Extension          *string
	Exclude            []string
	EntryPoints        []string
	IgnoreDependencies []string
	Match              *string
	Strategy           *string
	Workers            *int
	MaxFileBytes       *int64
}

func Defaults() Values {
	return Values{
		Extension:    source.DefaultExtension,
		Match:        detect.MatchSubstring,
		Strategy:     detect.StrategyNaive,
		MaxFileBytes: corpus.DefaultMaxFileBytes,
	}
}

func (o *Overrides) Apply(base Values) (Values, error) {
	resolved := base
	if o.Extension != nil {
		resolved.Extension = normalizeExtension(*o.Extension)
	}
	if o.Exclude != nil {
		resolved.Exclude = normalizePatterns(o.Exclude)
	}
	if o.EntryPoints != nil {
		resolved.EntryPoints = normalizePatterns(o.EntryPoints)
	}
	if o.IgnoreDependencies != nil {
		resolved.IgnoreDependencies = normalizePatterns(o.IgnoreDependencies)
	}
	if o.Match != nil {
		mode, err := detect.ParseMatchMode(*o.Match)
		if err != nil {
			return Values{}, err
		}
		resolved.Match = mode
	}
	if o.Strategy != nil {
		strategy, err := detect.ParseStrategy(*o.Strategy)
		if err != nil {
			return Values{}, err
		}
		resolved.Strategy = strategy
	}
	if o.Workers != nil {
		resolved.Workers = *o.Workers
	}
	if o.MaxFileBytes != nil {
		resolved.MaxFileBytes = *o.MaxFileBytes
	}
	return resolved, nil
}

// Merge layers higher on top of o. Lists from higher replace lists from o.
func (o Overrides) Merge(higher Overrides) Overrides {
	merged := o
	if higher.Extension != nil {
		merged.Extension = higher.Extension
	}
	if higher.Exclude != nil {
		merged.Exclude = append([]string{}, higher.Exclude...)
	}
	if higher.EntryPoints != nil {
		merged.EntryPoints = append([]string{}, higher.EntryPoints...)
	}
	if higher.IgnoreDependencies != nil {
		merged.IgnoreDependencies = append([]string{}, higher.IgnoreDependencies...)
	}
	if higher.Match != nil {
		merged.Match = higher.Match
	}
	if higher.Strategy != nil {
		merged.Strategy = higher.Strategy
	}
	if higher.Workers != nil {
		merged.Workers = higher.Workers
	}
	if higher.MaxFileBytes != nil {
		merged.MaxFileBytes = higher.MaxFileBytes
	}
	return merged
}

func (v *Values) Validate() error {
	if v.Extension == "" || v.Extension == "." {
		return fmt.Errorf("invalid extension: must not be empty")
	}
	if v.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be >= 0)", v.Workers)
	}
	for _, pattern := range v.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}
	return v.DetectOptions("").Validate()
}

func (v Values) SourceOptions() source.Options {
	return source.Options{Extension: v.Extension, Exclude: v.Exclude}
}

func (v Values) CorpusOptions() corpus.Options {
	return corpus.Options{Workers: v.Workers, MaxFileBytes: v.MaxFileBytes}
}

func (v Values) DetectOptions(packageName string) detect.Options {
	return detect.Options{
		Match:              v.Match,
		Strategy:           v.Strategy,
		IgnoreDependencies: v.IgnoreDependencies,
		EntryPoints:        v.EntryPoints,
		PackageName:        packageName,
	}
}

func normalizeExtension(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}

func normalizePatterns(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	normalized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
