// Package manifest reads the dependency sections of a project's pubspec.yaml.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/safeio"
	"gopkg.in/yaml.v3"
)

const FileName = "pubspec.yaml"

type Section string

const (
	SectionDependencies    Section = "dependencies"
	SectionDevDependencies Section = "dev_dependencies"
)

var (
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestParse    = errors.New("manifest cannot be parsed")
)

// ParseError reports a manifest that exists but is not a usable YAML mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrManifestParse, e.Err}
}

// Dependency is a declared dependency. Spec is the raw declaration and is
// never interpreted.
type Dependency struct {
	Name string `json:"name"`
	Spec string `json:"spec,omitempty"`
}

type Manifest struct {
	Path            string
	Name            string
	Dependencies    []Dependency
	DevDependencies []Dependency
}

// Section returns the dependencies declared in section, in declaration order.
func (m Manifest) Section(section Section) []Dependency {
	switch section {
	case SectionDependencies:
		return m.Dependencies
	case SectionDevDependencies:
		return m.DevDependencies
	default:
		return nil
	}
}

func (m Manifest) Names(section Section) []string {
	deps := m.Section(section)
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)
	}
	return names
}

func Path(root string) string {
	return filepath.Join(root, FileName)
}

func Load(root string) (Manifest, error) {
	path := Path(root)
	data, err := safeio.ReadFileUnder(root, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes manifest bytes. Absent or null sections are empty.
func Parse(path string, data []byte) (Manifest, error) {
	result := Manifest{Path: path}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, &ParseError{Path: path, Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return result, nil
	}

	top := resolveAlias(doc.Content[0])
	if isNull(top) {
		return result, nil
	}
	if top.Kind != yaml.MappingNode {
		return Manifest{}, &ParseError{Path: path, Err: errors.New("top level is not a mapping")}
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		value := resolveAlias(top.Content[i+1])
		switch key {
		case "name":
			if value.Kind == yaml.ScalarNode {
				result.Name = strings.TrimSpace(value.Value)
			}
		case string(SectionDependencies):
			deps, err := parseSection(SectionDependencies, value)
			if err != nil {
				return Manifest{}, &ParseError{Path: path, Err: err}
			}
			result.Dependencies = deps
		case string(SectionDevDependencies):
			deps, err := parseSection(SectionDevDependencies, value)
			if err != nil {
				return Manifest{}, &ParseError{Path: path, Err: err}
			}
			result.DevDependencies = deps
		}
	}
	return result, nil
}

func parseSection(section Section, node *yaml.Node) ([]Dependency, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("section %q is not a mapping (line %d)", section, node.Line)
	}

	deps := make([]Dependency, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		deps = append(deps, Dependency{Name: name, Spec: specText(resolveAlias(node.Content[i+1]))})
	}
	return deps, nil
}

func specText(node *yaml.Node) string {
	if node == nil || isNull(node) {
		return ""
	}
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	encoded, err := yaml.Marshal(node)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(encoded))
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}
