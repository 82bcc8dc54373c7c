package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/config"
)

// Scope selects which detectors a scan runs.
type Scope string

const (
	ScopeDependencies Scope = "deps"
	ScopeFiles        Scope = "files"
	ScopeAll          Scope = "all"
)

var ErrUnknownScope = errors.New("unknown scan scope")

func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case ScopeDependencies:
		return ScopeDependencies, nil
	case ScopeFiles:
		return ScopeFiles, nil
	case "", ScopeAll:
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownScope, value)
	}
}

func (s Scope) dependencies() bool {
	return s == ScopeDependencies || s == ScopeAll
}

func (s Scope) files() bool {
	return s == ScopeFiles || s == ScopeAll
}

type Request struct {
	Root     string
	Scope    Scope
	Settings config.Values
}
