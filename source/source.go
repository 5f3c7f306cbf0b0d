// Package source defines the document-side collaborators of the highlight
// engine: per-page text runs with their placement geometry, and the handles
// through which a loaded document exposes them. The engine never fetches or
// decodes document bytes itself.
package source

import (
	"context"

	"github.com/wudi/highlightkit/coords"
)

// TextRun is one atomic string fragment extracted from a page. Transform
// maps glyph space to page space; Width and Height are the fragment's total
// box extent in page units.
type TextRun struct {
	Text      string        `json:"text"`
	Transform coords.Matrix `json:"transform"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
}

// PageGeometry carries the page container dimensions used to normalize
// match rectangles into top-left-origin page space.
type PageGeometry struct {
	PageNumber     int     `json:"pageNumber"`
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// Page exposes one page of a loaded document.
type Page interface {
	// TextContent returns the page's text runs in extraction order.
	TextContent(ctx context.Context) ([]TextRun, error)
	// Viewport returns the page container dimensions.
	Viewport() (width, height float64)
}

// Document exposes a loaded document. Pages are 1-indexed.
type Document interface {
	NumPages() int
	Page(n int) (Page, error)
}

// Loader resolves a document URL to a loaded document. Fetching and
// decoding are entirely the loader's concern.
type Loader interface {
	Load(ctx context.Context, url string) (Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) (Document, error)

func (f LoaderFunc) Load(ctx context.Context, url string) (Document, error) {
	return f(ctx, url)
}
