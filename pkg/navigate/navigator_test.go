package navigate

import (
	"errors"
	"testing"
	"time"

	"rag-console/internal/entity"
)

type fakeSurface struct {
	fragment   string
	absolute   string
	scrolled   []string
	highlights map[string]bool
}

func newFakeSurface(fragment string) *fakeSurface {
	return &fakeSurface{fragment: fragment, highlights: map[string]bool{}}
}

func (s *fakeSurface) Fragment() string            { return s.fragment }
func (s *fakeSurface) SetFragment(fragment string) { s.fragment = fragment }
func (s *fakeSurface) AbsoluteURL() string         { return s.absolute + "#" + s.fragment }
func (s *fakeSurface) ScrollTo(anchor string)      { s.scrolled = append(s.scrolled, anchor) }
func (s *fakeSurface) SetHighlight(anchor string, on bool) {
	s.highlights[anchor] = on
}

type fakeClipboard struct {
	written []string
	err     error
}

func (c *fakeClipboard) Write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

type nopLogger struct{ warnings int }

func (l *nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *nopLogger) Info(module, message string, details map[string]interface{})  {}
func (l *nopLogger) Warn(module, message string, details map[string]interface{})  { l.warnings++ }
func (l *nopLogger) Error(module, message string, details map[string]interface{}) {}
func (l *nopLogger) Sync() error                                                  { return nil }

// captureTimers swaps the navigator's timer source for one that records
// callbacks so tests fire them deterministically.
func captureTimers(n *Navigator) *[]func() {
	callbacks := &[]func(){}
	n.afterFunc = func(d time.Duration, f func()) *time.Timer {
		*callbacks = append(*callbacks, f)
		return time.NewTimer(time.Hour)
	}
	return callbacks
}

func sectionsFixture() []entity.Section {
	return []entity.Section{
		{AnchorId: "intro", Title: "引言"},
		{AnchorId: "detail", Title: "详情"},
	}
}

func TestSyncResolvesSectionFragment(t *testing.T) {
	surface := newFakeSurface("detail")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	captureTimers(n)

	n.Sync(sectionsFixture(), nil)

	if len(surface.scrolled) != 1 || surface.scrolled[0] != "detail" {
		t.Fatalf("scrolled = %v, want [detail]", surface.scrolled)
	}
	if !surface.highlights["detail"] {
		t.Errorf("anchor not highlighted")
	}
	if n.Highlighted() != "detail" {
		t.Errorf("Highlighted = %q, want %q", n.Highlighted(), "detail")
	}
}

func TestSyncSkipsUnknownFragment(t *testing.T) {
	surface := newFakeSurface("missing")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})

	n.Sync(sectionsFixture(), nil)

	if len(surface.scrolled) != 0 {
		t.Errorf("scrolled = %v, want none", surface.scrolled)
	}
}

func TestSyncResolvesCitationAnchor(t *testing.T) {
	citations := []entity.Citation{{Source: "文档X", Snippet: "片段"}}
	anchor := CitationAnchor(citations[0])
	surface := newFakeSurface(anchor)
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	captureTimers(n)

	n.Sync(nil, citations)

	if len(surface.scrolled) != 1 || surface.scrolled[0] != anchor {
		t.Fatalf("scrolled = %v, want [%s]", surface.scrolled, anchor)
	}
}

func TestSyncReResolvesWhenContentArrivesLate(t *testing.T) {
	surface := newFakeSurface("detail")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	captureTimers(n)

	// Deep link present before the answer arrives: nothing to scroll to
	// yet, but the fragment must resolve once the sections exist.
	n.Sync(nil, nil)
	if len(surface.scrolled) != 0 {
		t.Fatalf("scrolled before content: %v", surface.scrolled)
	}

	n.Sync(sectionsFixture(), nil)
	if len(surface.scrolled) != 1 || surface.scrolled[0] != "detail" {
		t.Fatalf("scrolled = %v, want [detail]", surface.scrolled)
	}

	// Unchanged counts must not re-trigger.
	n.Sync(sectionsFixture(), nil)
	if len(surface.scrolled) != 1 {
		t.Errorf("unchanged sync re-scrolled: %v", surface.scrolled)
	}
}

func TestHighlightFades(t *testing.T) {
	surface := newFakeSurface("intro")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	callbacks := captureTimers(n)

	n.Sync(sectionsFixture(), nil)
	if n.Highlighted() != "intro" {
		t.Fatalf("Highlighted = %q, want intro", n.Highlighted())
	}

	if len(*callbacks) != 1 {
		t.Fatalf("timer callbacks = %d, want 1", len(*callbacks))
	}
	(*callbacks)[0]()

	if n.Highlighted() != "" {
		t.Errorf("highlight did not fade: %q", n.Highlighted())
	}
	if surface.highlights["intro"] {
		t.Errorf("surface highlight still on")
	}
}

func TestHighlightMoveClearsPrevious(t *testing.T) {
	surface := newFakeSurface("")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	callbacks := captureTimers(n)

	sections := sectionsFixture()
	n.Open("intro", sections, nil)
	n.Open("detail", sections, nil)

	if surface.highlights["intro"] {
		t.Errorf("previous highlight still on")
	}
	if !surface.highlights["detail"] {
		t.Errorf("new anchor not highlighted")
	}

	// The first timer was stopped; firing it anyway must not clear the
	// new highlight.
	(*callbacks)[0]()
	if n.Highlighted() != "detail" {
		t.Errorf("stale timer cleared the active highlight")
	}
}

func TestOpenSetsFragment(t *testing.T) {
	surface := newFakeSurface("")
	n := NewNavigator(surface, &fakeClipboard{}, &nopLogger{})
	captureTimers(n)

	n.Open("intro", sectionsFixture(), nil)

	if surface.fragment != "intro" {
		t.Errorf("fragment = %q, want intro", surface.fragment)
	}
	if len(surface.scrolled) != 1 {
		t.Errorf("scrolled = %v", surface.scrolled)
	}
}

func TestCopyLink(t *testing.T) {
	surface := newFakeSurface("")
	surface.absolute = "http://localhost:8000/"
	clip := &fakeClipboard{}
	n := NewNavigator(surface, clip, &nopLogger{})

	n.CopyLink("cite-0a1b2c3d")

	if surface.fragment != "cite-0a1b2c3d" {
		t.Errorf("fragment = %q", surface.fragment)
	}
	if len(clip.written) != 1 || clip.written[0] != "http://localhost:8000/#cite-0a1b2c3d" {
		t.Errorf("written = %v", clip.written)
	}
}

func TestCopyLinkClipboardFailureIsNonFatal(t *testing.T) {
	surface := newFakeSurface("")
	log := &nopLogger{}
	n := NewNavigator(surface, &fakeClipboard{err: errors.New("no display")}, log)

	n.CopyLink("intro")

	if log.warnings != 1 {
		t.Errorf("warnings = %d, want 1", log.warnings)
	}
}
