package navigate

import (
	"sync"
	"time"

	"rag-console/internal/entity"
	"rag-console/internal/pkg/logger"
	"rag-console/pkg/citation"
)

// CitationAnchorPrefix keeps the citation anchor namespace disjoint
// from plain section slugs.
const CitationAnchorPrefix = "cite-"

// DefaultHighlightFor matches the surface's highlight fade timing.
const DefaultHighlightFor = 1200 * time.Millisecond

// Surface is the consuming view: it owns the address fragment and can
// bring anchors into view.
type Surface interface {
	Fragment() string
	SetFragment(fragment string)
	AbsoluteURL() string
	ScrollTo(anchor string)
	SetHighlight(anchor string, on bool)
}

// Clipboard copies text out of the application. Failures are expected
// (sandboxed environments) and never fatal.
type Clipboard interface {
	Write(text string) error
}

// Navigator resolves address fragments against the current section and
// citation anchors and manages the transient highlight.
type Navigator struct {
	surface      Surface
	clipboard    Clipboard
	logger       logger.ILogger
	highlightFor time.Duration
	afterFunc    func(d time.Duration, f func()) *time.Timer

	mu             sync.Mutex
	highlighted    string
	highlightTimer *time.Timer
	lastSections   int
	lastCitations  int
	synced         bool
}

func NewNavigator(surface Surface, clipboard Clipboard, log logger.ILogger) *Navigator {
	return &Navigator{
		surface:      surface,
		clipboard:    clipboard,
		logger:       log,
		highlightFor: DefaultHighlightFor,
		afterFunc:    time.AfterFunc,
	}
}

// CitationAnchor returns the fragment token for one citation.
func CitationAnchor(c entity.Citation) string {
	return CitationAnchorPrefix + citation.StableId(c)
}

// Sync re-reads the address fragment. It runs on initial mount and
// again whenever the section or citation counts change, so deep links
// still resolve when the content arrives late.
func (n *Navigator) Sync(sections []entity.Section, citations []entity.Citation) {
	n.mu.Lock()
	changed := !n.synced || len(sections) != n.lastSections || len(citations) != n.lastCitations
	n.synced = true
	n.lastSections = len(sections)
	n.lastCitations = len(citations)
	n.mu.Unlock()

	if !changed {
		return
	}

	fragment := n.surface.Fragment()
	if fragment == "" {
		return
	}

	if anchor, ok := resolveFragment(fragment, sections, citations); ok {
		n.surface.ScrollTo(anchor)
		n.highlight(anchor)
	}
}

// Open points the address fragment at an anchor and resolves it right
// away, regardless of whether the counts changed.
func (n *Navigator) Open(fragment string, sections []entity.Section, citations []entity.Citation) {
	n.surface.SetFragment(fragment)
	if anchor, ok := resolveFragment(fragment, sections, citations); ok {
		n.surface.ScrollTo(anchor)
		n.highlight(anchor)
	}
}

// CopyLink rewrites the fragment to the target anchor without a full
// navigation and copies the resulting absolute URL.
func (n *Navigator) CopyLink(anchor string) {
	n.surface.SetFragment(anchor)
	url := n.surface.AbsoluteURL()
	if err := n.clipboard.Write(url); err != nil {
		n.logger.Warn("Navigator", "clipboard write failed", map[string]interface{}{
			"anchor": anchor,
			"error":  err.Error(),
		})
	}
}

func resolveFragment(fragment string, sections []entity.Section, citations []entity.Citation) (string, bool) {
	for _, s := range sections {
		if s.AnchorId == fragment {
			return fragment, true
		}
	}
	for _, c := range citations {
		if CitationAnchor(c) == fragment {
			return fragment, true
		}
	}
	return "", false
}

func (n *Navigator) highlight(anchor string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.highlightTimer != nil {
		n.highlightTimer.Stop()
	}
	if n.highlighted != "" && n.highlighted != anchor {
		n.surface.SetHighlight(n.highlighted, false)
	}

	n.highlighted = anchor
	n.surface.SetHighlight(anchor, true)
	n.highlightTimer = n.afterFunc(n.highlightFor, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.highlighted == anchor {
			n.surface.SetHighlight(anchor, false)
			n.highlighted = ""
		}
	})
}

// Highlighted reports the currently highlighted anchor, empty when the
// highlight has faded.
func (n *Navigator) Highlighted() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.highlighted
}
