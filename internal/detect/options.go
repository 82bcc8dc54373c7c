// Package detect decides which declared dependencies and which source files
// are referenced anywhere in a loaded corpus.
package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type MatchMode string

const (
	// MatchSubstring is unconditional, case-sensitive substring containment.
	MatchSubstring MatchMode = "substring"
	// MatchWord requires the needle not to touch identifier characters.
	MatchWord MatchMode = "word"
	// MatchImport only considers import, export and part directive URIs.
	MatchImport MatchMode = "import"
)

type Strategy string

const (
	StrategyNaive   Strategy = "naive"
	StrategyIndexed Strategy = "indexed"
)

var (
	ErrUnknownMatchMode = errors.New("unknown match mode")
	ErrUnknownStrategy  = errors.New("unknown scan strategy")
	ErrInvalidPattern   = errors.New("invalid entry point pattern")
)

func ParseMatchMode(value string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(MatchSubstring):
		return MatchSubstring, nil
	case string(MatchWord):
		return MatchWord, nil
	case string(MatchImport):
		return MatchImport, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMatchMode, value)
	}
}

func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(StrategyNaive):
		return StrategyNaive, nil
	case string(StrategyIndexed):
		return StrategyIndexed, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, value)
	}
}

type Options struct {
	Match    MatchMode
	Strategy Strategy
	// IgnoreDependencies are never reported as unused.
	IgnoreDependencies []string
	// EntryPoints are doublestar globs over slash-separated root-relative
	// paths; matching files are never reported as unused.
	EntryPoints []string
	// PackageName resolves package:<PackageName>/ URIs to lib/ in MatchImport mode.
	PackageName string
}

func (o Options) Validate() error {
	if _, err := ParseMatchMode(string(o.Match)); err != nil {
		return err
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	for _, pattern := range o.EntryPoints {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}
	return nil
}

func (o Options) match() MatchMode {
	if o.Match == "" {
		return MatchSubstring
	}
	return o.Match
}

// indexed reports whether the automaton strategy applies. Only substring
// matching has an indexed implementation.
func (o Options) indexed() bool {
	return o.Strategy == StrategyIndexed && o.match() == MatchSubstring
}

func (o Options) isEntryPoint(rel string) bool {
	for _, pattern := range o.EntryPoints {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
