package detect

import (
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/corpus"
	"github.com/ben-ranford/fluttersweep/internal/manifest"
)

// DependencyResult lists unused dependencies per section in declaration
// order. Ignored holds configured exclusions that were declared.
type DependencyResult struct {
	Unused    []string
	UnusedDev []string
	Ignored   []string
	Scanned   int
}

// FindUnusedDependencies reports every declared dependency for which no
// document references "package:" + name under the configured match mode.
func FindUnusedDependencies(m manifest.Manifest, c corpus.Corpus, opts Options) (DependencyResult, error) {
	if err := opts.Validate(); err != nil {
		return DependencyResult{}, err
	}

	ignore := make(map[string]struct{}, len(opts.IgnoreDependencies))
	for _, name := range opts.IgnoreDependencies {
		ignore[name] = struct{}{}
	}

	result := DependencyResult{}
	regular := make([]string, 0, len(m.Dependencies))
	dev := make([]string, 0, len(m.DevDependencies))
	ignoredSeen := make(map[string]struct{})
	split := func(section manifest.Section, target *[]string) {
		for _, name := range m.Names(section) {
			if _, skip := ignore[name]; skip {
				if _, seen := ignoredSeen[name]; !seen {
					ignoredSeen[name] = struct{}{}
					result.Ignored = append(result.Ignored, name)
				}
				continue
			}
			*target = append(*target, name)
		}
	}
	split(manifest.SectionDependencies, &regular)
	split(manifest.SectionDevDependencies, &dev)

	used := usedDependencies(append(append([]string{}, regular...), dev...), c, opts)
	result.Unused = unusedNames(regular, used)
	result.UnusedDev = unusedNames(dev, used)
	result.Scanned = len(regular) + len(dev)
	return result, nil
}

func unusedNames(names []string, used map[string]bool) []string {
	unused := make([]string, 0)
	for _, name := range names {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	return unused
}

func usedDependencies(names []string, c corpus.Corpus, opts Options) map[string]bool {
	used := make(map[string]bool, len(names))
	if len(names) == 0 {
		return used
	}

	switch {
	case opts.match() == MatchImport:
		markDependencyDirectives(names, c, used)
	case opts.indexed():
		markers := make([]string, 0, len(names))
		for _, name := range names {
			markers = append(markers, packageScheme+name)
		}
		for marker := range newPatternIndex(markers).presentIn(c.Documents, -1) {
			used[strings.TrimPrefix(marker, packageScheme)] = true
		}
	default:
		for _, name := range names {
			used[name] = dependencyReferenced(name, c, opts.match())
		}
	}
	return used
}

func dependencyReferenced(name string, c corpus.Corpus, mode MatchMode) bool {
	marker := []byte(packageScheme + name)
	for _, doc := range c.Documents {
		if !doc.Readable {
			continue
		}
		if contains(mode, doc.Content, marker, false) {
			return true
		}
	}
	return false
}

func markDependencyDirectives(names []string, c corpus.Corpus, used map[string]bool) {
	declared := make(map[string]struct{}, len(names))
	for _, name := range names {
		declared[name] = struct{}{}
	}
	for _, doc := range c.Documents {
		if !doc.Readable {
			continue
		}
		for _, uri := range directiveURIs(doc.Content) {
			name, _, ok := packageOf(uri)
			if !ok {
				continue
			}
			if _, isDeclared := declared[name]; isDeclared {
				used[name] = true
			}
		}
	}
}
