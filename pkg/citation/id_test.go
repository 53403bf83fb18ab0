package citation

import (
	"regexp"
	"testing"

	"rag-console/internal/entity"
)

func TestStableIdDeterministic(t *testing.T) {
	page := 3
	c := entity.Citation{Source: "文档X", Page: &page, Snippet: "第一段内容"}

	first := StableId(c)
	second := StableId(c)
	if first != second {
		t.Fatalf("ids differ for identical citation: %q vs %q", first, second)
	}
	if ok, _ := regexp.MatchString(`^[0-9a-f]{8}$`, first); !ok {
		t.Errorf("id %q is not 8 hex digits", first)
	}
}

func TestStableIdIgnoresListPosition(t *testing.T) {
	page := 3
	a := entity.Citation{Source: "文档X", Page: &page, Snippet: "片段"}
	b := entity.Citation{Source: "文档Y", Snippet: "另一段"}

	forward := []string{StableId(a), StableId(b)}
	reversed := []string{StableId(b), StableId(a)}

	if forward[0] != reversed[1] || forward[1] != reversed[0] {
		t.Errorf("ids changed with list order: %v vs %v", forward, reversed)
	}
}

func TestStableIdDistinguishesContent(t *testing.T) {
	pageA, pageB := 3, 4
	base := entity.Citation{Source: "文档X", Page: &pageA, Snippet: "片段"}
	otherPage := entity.Citation{Source: "文档X", Page: &pageB, Snippet: "片段"}
	otherSource := entity.Citation{Source: "文档Y", Page: &pageA, Snippet: "片段"}

	if StableId(base) == StableId(otherPage) {
		t.Errorf("page change did not change id")
	}
	if StableId(base) == StableId(otherSource) {
		t.Errorf("source change did not change id")
	}
}

func TestStableIdNilPage(t *testing.T) {
	c := entity.Citation{Source: "文档X", Snippet: "片段"}
	if got := StableId(c); len(got) != 8 {
		t.Errorf("id = %q, want 8 hex digits", got)
	}
}
