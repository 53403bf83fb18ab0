package citation

import (
	"regexp"
	"strconv"
	"strings"

	"rag-console/internal/constant"
)

// ParsedReference is a single source-reference line extracted from the
// tail of an answer section.
type ParsedReference struct {
	Source      string // candidate source name, page token removed
	Page        *int
	Empty       bool   // explicit "no reliable source" marker
	OriginalRaw string // the original line
}

// Page notations accepted in reference lines:
//
//	文档X P.3    - letter P, period, digits
//	文档X P3     - bare P + digits
//	文档X P：3   - full-width colon
//	文档X P:3    - half-width colon
//
// The last token on the line wins, so source names that happen to start
// with a page-like prefix ("P2P网络 P.5") keep their name intact.
var pagePattern = regexp.MustCompile(`[Pp]\s*[.．:：]?\s*(\d+)`)

// Leading bullet markers and bracketed annotations are decoration, not
// part of the source name.
var (
	bulletPattern    = regexp.MustCompile(`^[\s\-\*•·]+`)
	bracketPattern   = regexp.MustCompile(`^(\[[^\]]*\]|【[^】]*】)\s*`)
	noSourceMarkers  = []string{constant.MsgNoReliableHint, "无来源", "暂无可靠来源"}
	surroundingPunct = "()（）[]【】 \t"
)

// ParseReferenceLine splits one raw reference line into a candidate
// source name and an optional page number. A line that only states the
// absence of a reliable source is intentionally empty, not an error.
func ParseReferenceLine(line string) ParsedReference {
	ref := ParsedReference{OriginalRaw: line}

	cleaned := bulletPattern.ReplaceAllString(line, "")
	cleaned = bracketPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	marker := strings.Trim(cleaned, surroundingPunct)
	for _, m := range noSourceMarkers {
		if marker == m {
			ref.Empty = true
			return ref
		}
	}

	if matches := pagePattern.FindAllStringSubmatchIndex(cleaned, -1); len(matches) > 0 {
		match := matches[len(matches)-1]
		if page, err := strconv.Atoi(cleaned[match[2]:match[3]]); err == nil {
			ref.Page = &page
		}
		cleaned = cleaned[:match[0]] + cleaned[match[1]:]
	}

	ref.Source = strings.TrimSpace(cleaned)
	return ref
}
