package detect

import (
	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"github.com/ben-ranford/fluttersweep/internal/corpus"
)

// patternIndex finds every occurrence of a fixed set of non-empty patterns
// in one pass over a document.
type patternIndex struct {
	trie  *ahocorasick.Trie
	empty bool
}

func newPatternIndex(patterns []string) patternIndex {
	distinct := make([]string, 0, len(patterns))
	seen := make(map[string]struct{}, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}
		distinct = append(distinct, pattern)
	}
	if len(distinct) == 0 {
		return patternIndex{empty: true}
	}
	return patternIndex{trie: ahocorasick.NewTrieBuilder().AddStrings(distinct).Build()}
}

func (p patternIndex) hits(content []byte) map[string]struct{} {
	found := make(map[string]struct{})
	if p.empty || len(content) == 0 {
		return found
	}
	for _, match := range p.trie.Match(content) {
		found[match.MatchString()] = struct{}{}
	}
	return found
}

// presentIn returns the patterns found in any readable document except the
// one at index skip.
func (p patternIndex) presentIn(docs []corpus.Document, skip int) map[string]struct{} {
	found := make(map[string]struct{})
	for i, doc := range docs {
		if i == skip || !doc.Readable {
			continue
		}
		for pattern := range p.hits(doc.Content) {
			found[pattern] = struct{}{}
		}
	}
	return found
}
