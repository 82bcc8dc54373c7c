package detect

import (
	"bytes"
	"path"
	"regexp"
	"strings"
)

const packageScheme = "package:"

// directivePattern captures the URI of import, export, part and part-of
// directives. Conditional import alternatives are not captured.
var directivePattern = regexp.MustCompile(`(?m)^[ \t]*(?:import|export|part(?:[ \t]+of)?)[ \t]+(?:'([^'\n]*)'|"([^"\n]*)")`)

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// containsToken reports whether needle occurs in content without an
// identifier character directly after it and, when checkBefore is set,
// directly before it.
func containsToken(content, needle []byte, checkBefore bool) bool {
	if len(needle) == 0 {
		return true
	}
	offset := 0
	for {
		index := bytes.Index(content[offset:], needle)
		if index < 0 {
			return false
		}
		start := offset + index
		end := start + len(needle)
		beforeOK := !checkBefore || start == 0 || !isIdentByte(content[start-1])
		afterOK := end == len(content) || !isIdentByte(content[end])
		if beforeOK && afterOK {
			return true
		}
		offset = start + 1
	}
}

func contains(mode MatchMode, content, needle []byte, checkBefore bool) bool {
	if mode == MatchWord {
		return containsToken(content, needle, checkBefore)
	}
	return bytes.Contains(content, needle)
}

func directiveURIs(content []byte) []string {
	matches := directivePattern.FindAllSubmatch(content, -1)
	uris := make([]string, 0, len(matches))
	for _, match := range matches {
		uri := match[1]
		if uri == nil {
			uri = match[2]
		}
		if trimmed := strings.TrimSpace(string(uri)); trimmed != "" {
			uris = append(uris, trimmed)
		}
	}
	return uris
}

// packageOf returns the package name of a package: URI.
func packageOf(uri string) (string, string, bool) {
	rest, ok := strings.CutPrefix(uri, packageScheme)
	if !ok {
		return "", "", false
	}
	name, inner, _ := strings.Cut(rest, "/")
	return name, inner, name != ""
}

type resolution int

const (
	unresolved resolution = iota
	resolvedPath
	resolvedSegment
)

// resolveDirective maps a directive URI found in the file at fromRel to a
// root-relative slash path. package: URIs of an unknown self package fall
// back to their final path segment.
func resolveDirective(uri, fromRel, selfPackage string) (string, resolution) {
	if name, inner, isPackage := packageOf(uri); isPackage {
		switch {
		case inner == "":
			return "", unresolved
		case selfPackage == "":
			return path.Base(inner), resolvedSegment
		case name == selfPackage:
			return path.Join("lib", inner), resolvedPath
		default:
			return "", unresolved
		}
	}
	if strings.Contains(uri, ":") || strings.HasPrefix(uri, "/") {
		return "", unresolved
	}
	return path.Clean(path.Join(path.Dir(fromRel), uri)), resolvedPath
}
