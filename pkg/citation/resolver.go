package citation

import (
	"strings"

	"rag-console/internal/entity"
)

// Resolver links a section's raw reference lines back to indexes in
// the answer's citation list.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// MatchSection resolves each reference line to at most one citation.
// Matching is a case-insensitive substring heuristic over the source
// field; a citation is consumed on first match and never attributed
// twice within the same section. Misses are non-fatal: the line simply
// resolves to nothing.
func (r *Resolver) MatchSection(lines []string, citations []entity.Citation) []int {
	matched := make([]int, 0, len(lines))
	consumed := make(map[int]bool, len(citations))

	for _, line := range lines {
		ref := ParseReferenceLine(line)
		if ref.Empty || ref.Source == "" {
			continue
		}

		candidate := strings.ToLower(ref.Source)
		for i, c := range citations {
			if consumed[i] {
				continue
			}
			source := strings.ToLower(c.Source)
			if source == "" {
				continue
			}
			if strings.Contains(source, candidate) || strings.Contains(candidate, source) {
				consumed[i] = true
				matched = append(matched, i)
				break
			}
		}
	}

	return matched
}

// AllIndexes associates every citation with a section. Used outside
// the strict document-grounded mode, where per-line attribution has no
// meaning.
func AllIndexes(citations []entity.Citation) []int {
	indexes := make([]int, len(citations))
	for i := range citations {
		indexes[i] = i
	}
	return indexes
}
