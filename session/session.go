// Package session drives the highlight engine for one viewing session:
// document switches, sequential word scans with stale-result discard, the
// selection intake, and fragment-based scroll navigation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wudi/highlightkit/highlight"
	"github.com/wudi/highlightkit/observability"
	"github.com/wudi/highlightkit/recovery"
	"github.com/wudi/highlightkit/registry"
	"github.com/wudi/highlightkit/scan"
	"github.com/wudi/highlightkit/source"
)

// ErrNoLoader is returned by New when no document loader is configured.
var ErrNoLoader = errors.New("document loader is required")

// Scroller is the handle the rendering collaborator registers for scroll
// navigation. The engine only calls it, never owns it; it is dropped on
// every document switch and must be re-registered per load.
type Scroller interface {
	ScrollTo(h highlight.Highlight)
}

// ScrollerFunc adapts a function to the Scroller interface.
type ScrollerFunc func(h highlight.Highlight)

func (f ScrollerFunc) ScrollTo(h highlight.Highlight) { f(h) }

type Config struct {
	// Loader resolves document URLs. Required.
	Loader source.Loader
	// Registry holds the session's highlights. A fresh one is created
	// when nil.
	Registry *registry.Registry
	// Seeds pre-populates known documents on switch.
	Seeds registry.SeedTable
	// Words are scanned in order after every document load.
	Words []string
	// Recovery decides whether a failed word aborts the remaining list.
	// Defaults to fail-fast.
	Recovery recovery.Strategy
	Logger   observability.Logger
	Tracer   observability.Tracer
}

// Session owns the control flow between the document loader, the scanner
// and the registry.
type Session struct {
	loader   source.Loader
	reg      *registry.Registry
	seeds    registry.SeedTable
	words    []string
	strategy recovery.Strategy
	logger   observability.Logger
	scanner  *scan.Scanner

	mu       sync.Mutex
	gen      uint64
	url      string
	scroller Scroller
}

func New(cfg Config) (*Session, error) {
	if cfg.Loader == nil {
		return nil, ErrNoLoader
	}
	s := &Session{
		loader:   cfg.Loader,
		reg:      cfg.Registry,
		seeds:    cfg.Seeds,
		words:    cfg.Words,
		strategy: cfg.Recovery,
		logger:   cfg.Logger,
	}
	if s.reg == nil {
		s.reg = registry.New()
	}
	if s.strategy == nil {
		s.strategy = recovery.NewStrictStrategy()
	}
	if s.logger == nil {
		s.logger = observability.NopLogger{}
	}
	s.scanner = scan.New(scan.Config{Logger: s.logger, Tracer: cfg.Tracer})
	return s, nil
}

// Registry exposes the session's highlight store.
func (s *Session) Registry() *registry.Registry { return s.reg }

// URL reports the currently loaded document URL.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// begin switches the session to url: the generation advances, any
// registered scroller is dropped, and the registry is replaced with the
// url's seed set (empty for unknown documents). Scans started before this
// call belong to an older generation and their results will be discarded.
func (s *Session) begin(url string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.url = url
	s.scroller = nil
	s.reg.Reset(s.seeds.For(url))
	return s.gen
}

// mergeIfCurrent merges a completed scan batch unless the session has
// moved on to another document in the meantime.
func (s *Session) mergeIfCurrent(gen uint64, batch []registry.Draft) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("discarding stale scan batch",
			observability.Int("batch", len(batch)))
		return false
	}
	s.reg.MergeAutomatic(batch)
	s.logger.Debug("merged scan batch",
		observability.Int(observability.MetricMergeCount, len(batch)))
	return true
}

// LoadDocument switches to url and repopulates the automatic highlights by
// scanning each configured word in order. Word scans run strictly one
// after another, so merged batch order equals word-list order. A word that
// fails to scan consults the recovery strategy; with the default strict
// strategy the remaining words are abandoned while already-merged
// highlights stay in place.
func (s *Session) LoadDocument(ctx context.Context, url string) error {
	gen := s.begin(url)

	doc, err := s.loader.Load(ctx, url)
	if err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}

	for _, word := range s.words {
		positions, err := s.scanner.ScanDocument(ctx, doc, word)
		if err != nil {
			loc := recovery.Location{URL: url, Word: word, Component: "scan"}
			if s.strategy.OnError(ctx, err, loc) == recovery.ActionFail {
				return fmt.Errorf("scan %q: %w", word, err)
			}
			s.logger.Warn("word scan failed",
				observability.String("word", word),
				observability.Error("err", err))
			continue
		}
		if !s.mergeIfCurrent(gen, draftsFor(word, positions)) {
			// The session moved on; the new load owns the registry.
			return nil
		}
	}
	return nil
}

func draftsFor(word string, positions []highlight.ScaledPosition) []registry.Draft {
	drafts := make([]registry.Draft, 0, len(positions))
	for _, pos := range positions {
		drafts = append(drafts, registry.Draft{
			Position: pos,
			Content:  highlight.Content{Text: word},
		})
	}
	return drafts
}

// AddManual records a user-drawn selection delivered by the selection
// collaborator.
func (s *Session) AddManual(content highlight.Content, position highlight.ScaledPosition, comment highlight.Comment) highlight.Highlight {
	return s.reg.AddManual(registry.Draft{
		Position: position,
		Content:  content,
		Comment:  comment,
	})
}

// SetScroller registers the rendering collaborator's scroll handle for the
// current document.
func (s *Session) SetScroller(sc Scroller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroller = sc
}

const fragmentPrefix = "highlight-"

// ParseFragment extracts the highlight id from a location fragment of the
// form "#highlight-<id>". The leading "#" is optional.
func ParseFragment(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	id := strings.TrimPrefix(fragment, fragmentPrefix)
	if id == fragment || id == "" {
		return "", false
	}
	return id, true
}

// HandleFragment resolves a fragment-change notification and defers to the
// registered scroller. It reports whether a scroll was issued.
func (s *Session) HandleFragment(fragment string) bool {
	id, ok := ParseFragment(fragment)
	if !ok {
		return false
	}
	h, ok := s.reg.FindByID(id)
	if !ok {
		s.logger.Debug("fragment names unknown highlight",
			observability.String("id", id))
		return false
	}
	s.mu.Lock()
	sc := s.scroller
	s.mu.Unlock()
	if sc == nil {
		return false
	}
	sc.ScrollTo(h)
	return true
}
