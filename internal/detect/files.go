package detect

import (
	"path"

	"github.com/ben-ranford/fluttersweep/internal/corpus"
	"github.com/ben-ranford/fluttersweep/internal/source"
)

// FileResult lists unused files in collection order. Retained holds files
// that would be unused but match an entry point pattern.
type FileResult struct {
	Unused   []source.File
	Retained []source.File
	Scanned  int
}

// FindUnusedFiles reports every document whose base name is not referenced
// by any other document. A document never references itself.
func FindUnusedFiles(c corpus.Corpus, opts Options) (FileResult, error) {
	if err := opts.Validate(); err != nil {
		return FileResult{}, err
	}

	var used []bool
	switch {
	case opts.match() == MatchImport:
		used = filesReferencedByDirective(c, opts.PackageName)
	case opts.indexed():
		used = filesReferencedIndexed(c)
	default:
		used = filesReferencedNaive(c, opts.match())
	}

	result := FileResult{Unused: make([]source.File, 0), Scanned: len(c.Documents)}
	for i, doc := range c.Documents {
		if used[i] {
			continue
		}
		if opts.isEntryPoint(doc.File.Rel) {
			result.Retained = append(result.Retained, doc.File)
			continue
		}
		result.Unused = append(result.Unused, doc.File)
	}
	return result, nil
}

func filesReferencedNaive(c corpus.Corpus, mode MatchMode) []bool {
	used := make([]bool, len(c.Documents))
	for i, subject := range c.Documents {
		needle := []byte(subject.File.BaseName)
		for _, other := range c.Documents {
			if other.File.Path == subject.File.Path || !other.Readable {
				continue
			}
			if contains(mode, other.Content, needle, true) {
				used[i] = true
				break
			}
		}
	}
	return used
}

func filesReferencedIndexed(c corpus.Corpus) []bool {
	used := make([]bool, len(c.Documents))
	byName := make(map[string][]int)
	names := make([]string, 0, len(c.Documents))
	readable := 0
	for i, doc := range c.Documents {
		byName[doc.File.BaseName] = append(byName[doc.File.BaseName], i)
		names = append(names, doc.File.BaseName)
		if doc.Readable {
			readable++
		}
	}

	index := newPatternIndex(names)
	for j, other := range c.Documents {
		if !other.Readable {
			continue
		}
		for name := range index.hits(other.Content) {
			markOthers(used, c, byName[name], j)
		}
	}

	// The empty base name is contained in every readable document.
	for _, i := range byName[""] {
		selfReadable := 0
		if c.Documents[i].Readable {
			selfReadable = 1
		}
		if readable-selfReadable > 0 {
			used[i] = true
		}
	}
	return used
}

func markOthers(used []bool, c corpus.Corpus, subjects []int, referrer int) {
	for _, i := range subjects {
		if c.Documents[i].File.Path != c.Documents[referrer].File.Path {
			used[i] = true
		}
	}
}

func filesReferencedByDirective(c corpus.Corpus, selfPackage string) []bool {
	used := make([]bool, len(c.Documents))
	byRel := make(map[string][]int, len(c.Documents))
	bySegment := make(map[string][]int, len(c.Documents))
	for i, doc := range c.Documents {
		byRel[doc.File.Rel] = append(byRel[doc.File.Rel], i)
		segment := path.Base(doc.File.Rel)
		bySegment[segment] = append(bySegment[segment], i)
	}

	for j, other := range c.Documents {
		if !other.Readable {
			continue
		}
		for _, uri := range directiveURIs(other.Content) {
			target, kind := resolveDirective(uri, other.File.Rel, selfPackage)
			switch kind {
			case resolvedPath:
				markOthers(used, c, byRel[target], j)
			case resolvedSegment:
				markOthers(used, c, bySegment[target], j)
			}
		}
	}
	return used
}
