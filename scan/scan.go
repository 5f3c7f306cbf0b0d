// Package scan locates whole-word occurrences of a search term inside a
// page's text runs and converts the glyph-space matches into page-relative
// rectangles.
//
// Glyph positioning uses a uniform per-character advance (run width divided
// by character count). This is a deliberate approximation: it places
// highlights well enough for regular body text without per-glyph width
// tables.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/wudi/highlightkit/highlight"
	"github.com/wudi/highlightkit/observability"
	"github.com/wudi/highlightkit/source"
)

// ErrEmptyWord is returned when the search term is empty.
var ErrEmptyWord = errors.New("search word is empty")

type Config struct {
	Logger observability.Logger
	Tracer observability.Tracer
}

// Scanner finds word occurrences in extracted text runs. Matching is
// case-sensitive and whole-word: an occurrence must be bounded by non-word
// characters or the ends of the run's text, and matches never overlap.
type Scanner struct {
	logger observability.Logger
	tracer observability.Tracer
}

func New(cfg Config) *Scanner {
	s := &Scanner{logger: cfg.Logger, tracer: cfg.Tracer}
	if s.logger == nil {
		s.logger = observability.NopLogger{}
	}
	if s.tracer == nil {
		s.tracer = observability.NopTracer()
	}
	return s
}

// wordPattern builds the boundary-anchored pattern for a literal word.
// Metacharacters are escaped so the word is matched as text, never
// interpreted as a pattern.
func wordPattern(word string) (*regexp2.Regexp, error) {
	if word == "" {
		return nil, ErrEmptyWord
	}
	re, err := regexp2.Compile(`\b`+regexp2.Escape(word)+`\b`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("word pattern for %q: %w", word, err)
	}
	return re, nil
}

// ScanPage returns one position per whole-word occurrence of word in the
// given runs. Rectangles are in top-left-origin page space; the outer
// bounding rect carries the viewport dimensions, the inner rect the match
// extent.
func (s *Scanner) ScanPage(runs []source.TextRun, geom source.PageGeometry, word string) ([]highlight.ScaledPosition, error) {
	re, err := wordPattern(word)
	if err != nil {
		return nil, err
	}
	return scanRuns(re, runs, geom), nil
}

func scanRuns(re *regexp2.Regexp, runs []source.TextRun, geom source.PageGeometry) []highlight.ScaledPosition {
	var out []highlight.ScaledPosition
	for _, run := range runs {
		length := utf8.RuneCountInString(run.Text)
		if length == 0 {
			continue
		}
		charWidth := run.Width / float64(length)
		tx := run.Transform.TranslateX()
		ty := run.Transform.TranslateY()
		// Flip the bottom-up text origin into top-down page space.
		baseline := geom.ViewportHeight - ty

		m, err := re.FindStringMatch(run.Text)
		for err == nil && m != nil {
			x := tx + float64(m.Index)*charWidth
			matchWidth := float64(m.Length) * charWidth
			inner := highlight.BoundingRect{
				X1:     x,
				Y1:     baseline - run.Height,
				X2:     x + matchWidth,
				Y2:     baseline,
				Width:  matchWidth,
				Height: run.Height,
			}
			outer := inner
			outer.Width = geom.ViewportWidth
			outer.Height = geom.ViewportHeight
			out = append(out, highlight.ScaledPosition{
				PageNumber:   geom.PageNumber,
				BoundingRect: outer,
				Rects:        []highlight.BoundingRect{inner},
			})
			m, err = re.FindNextMatch(m)
		}
	}
	return out
}

// ScanDocument scans every page of doc in page order and concatenates the
// results. A page whose text cannot be extracted fails the whole scan; a
// partial result would be indistinguishable from "no matches".
func (s *Scanner) ScanDocument(ctx context.Context, doc source.Document, word string) ([]highlight.ScaledPosition, error) {
	re, err := wordPattern(word)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.StartSpan(ctx, "scan.document")
	span.SetTag("word", word)
	defer span.Finish()
	start := time.Now()

	var out []highlight.ScaledPosition
	pages := doc.NumPages()
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			span.SetError(err)
			return nil, err
		}
		page, err := doc.Page(n)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		runs, err := page.TextContent(ctx)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("page %d text: %w", n, err)
		}
		w, h := page.Viewport()
		geom := source.PageGeometry{PageNumber: n, ViewportWidth: w, ViewportHeight: h}
		out = append(out, scanRuns(re, runs, geom)...)
	}

	span.SetTag(observability.MetricPageCount, pages)
	span.SetTag(observability.MetricMatchCount, len(out))
	s.logger.Debug("document scan complete",
		observability.String("word", word),
		observability.Int(observability.MetricPageCount, pages),
		observability.Int(observability.MetricMatchCount, len(out)),
		observability.Float64(observability.MetricScanTime, time.Since(start).Seconds()))
	return out, nil
}
