package answer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"rag-console/internal/constant"
	"rag-console/internal/entity"
	"rag-console/pkg/citation"
)

// Decomposer splits one raw answer string into an ordered section
// list and resolves which citations back each section. Decomposition
// is pure: the same raw text always yields the same sections.
type Decomposer struct {
	resolver *citation.Resolver
}

func NewDecomposer() *Decomposer {
	return &Decomposer{resolver: citation.NewResolver()}
}

var (
	fencePattern   = regexp.MustCompile("(?s)```.*?```")
	headingPattern = regexp.MustCompile(`^#{1,6}\s+`)
)

// Heading markers inside the first few characters, preceded only by
// trivial filler ("好的，### ..."), mean the filler is noise from the
// generator and the heading is the real start.
const maxLeadFiller = 8

// sourcesLabels are the accepted spellings of the per-section sources
// label line, compared after trimming a trailing colon.
var sourcesLabels = map[string]bool{
	"来源":         true,
	"参考来源":       true,
	"参考":         true,
	"sources":    true,
	"references": true,
}

// Decompose converts raw answer text into sections. Empty input yields
// zero sections; the caller substitutes its fallback. Text without any
// level-3 heading becomes a single implicit section titled by mode.
func (d *Decomposer) Decompose(raw string, mode entity.AnswerMode, citations []entity.Citation) []entity.Section {
	text := normalize(raw)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Protect fenced code blocks so headings inside code never create
	// false section boundaries.
	fences := []string{}
	text = fencePattern.ReplaceAllStringFunc(text, func(block string) string {
		placeholder := fmt.Sprintf("\x00FENCE%d\x00", len(fences))
		fences = append(fences, block)
		return placeholder
	})

	segments := splitSegments(text)

	sections := make([]entity.Section, 0, len(segments))
	seen := make(map[string]bool, len(segments))
	anchors := make(map[string]int, len(segments))

	for _, segment := range segments {
		section := d.parseSegment(segment, fences)
		if section == nil {
			continue
		}
		if section.Title == "" {
			section.Title = implicitTitle(mode)
		}

		key := section.Title + "\x00" + section.Body
		if seen[key] {
			continue
		}
		seen[key] = true

		section.AnchorId = uniqueAnchor(slugify(section.Title), anchors)
		if mode == entity.AnswerModeDoc {
			section.Citations = d.resolver.MatchSection(section.SourceLines, citations)
		} else {
			section.Citations = citation.AllIndexes(citations)
		}
		sections = append(sections, *section)
	}

	return sections
}

func normalize(raw string) string {
	text := strings.TrimPrefix(raw, "\uFEFF")

	idx := strings.Index(text, "###")
	if idx > 0 && utf8.RuneCountInString(text[:idx]) <= maxLeadFiller && isTrivialFiller(text[:idx]) {
		text = text[idx:]
	}
	return text
}

func isTrivialFiller(prefix string) bool {
	for _, r := range prefix {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		return false
	}
	return true
}

// splitSegments cuts the text immediately before each level-3 heading
// line.
func splitSegments(text string) []string {
	lines := strings.Split(text, "\n")
	segments := []string{}
	current := []string{}

	for _, line := range lines {
		if strings.HasPrefix(line, "### ") && len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, "\n"))
	}
	return segments
}

func (d *Decomposer) parseSegment(segment string, fences []string) *entity.Section {
	lines := strings.Split(segment, "\n")
	section := &entity.Section{}

	start := 0
	if len(lines) > 0 && headingPattern.MatchString(lines[0]) {
		section.Title = strings.TrimSpace(headingPattern.ReplaceAllString(lines[0], ""))
		start = 1
	}

	bodyLines := []string{}
	sourceLines := []string{}
	inSources := false
	for _, line := range lines[start:] {
		if !inSources && isSourcesLabel(line) {
			inSources = true
			continue
		}
		if inSources {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				sourceLines = append(sourceLines, trimmed)
			}
			continue
		}
		// Garbled lines come from corrupted document extraction and
		// only pollute the rendered body.
		if IsGarbled(line) {
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	body = restoreFences(body, fences)

	if body == "" && section.Title == "" && len(sourceLines) == 0 {
		return nil
	}

	section.Body = body
	section.SourceLines = sourceLines
	return section
}

func isSourcesLabel(line string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimRight(trimmed, ":：")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return false
	}
	return sourcesLabels[strings.ToLower(trimmed)]
}

func restoreFences(body string, fences []string) string {
	for i, block := range fences {
		placeholder := fmt.Sprintf("\x00FENCE%d\x00", i)
		body = strings.Replace(body, placeholder, block, 1)
	}
	return body
}

func implicitTitle(mode entity.AnswerMode) string {
	if title, ok := constant.ImplicitSectionTitles[string(mode)]; ok {
		return title
	}
	return constant.ImplicitSectionTitles["general"]
}

// slugify builds a stable anchor token from a title. CJK characters
// survive untouched; everything that is not a letter, digit or hyphen
// is dropped.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "section"
	}
	return slug
}

func uniqueAnchor(slug string, anchors map[string]int) string {
	count := anchors[slug]
	anchors[slug] = count + 1
	if count == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, count+1)
}
