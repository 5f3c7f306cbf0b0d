// Package registry owns the in-memory highlight collection for the
// currently loaded document: identity assignment, manual/automatic
// classification, and lookup for navigation and hit-testing.
package registry

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wudi/highlightkit/highlight"
)

// Draft is a highlight without identity or origin, as delivered by the
// selection collaborator or produced by a word scan.
type Draft struct {
	Position highlight.ScaledPosition
	Content  highlight.Content
	Comment  highlight.Comment
}

// SeedTable maps document URLs to pre-defined highlight sets, consulted on
// document switch for known demo and test documents.
type SeedTable map[string][]highlight.Highlight

// For returns the seed set for url, or nil for unknown documents.
func (t SeedTable) For(url string) []highlight.Highlight {
	if t == nil {
		return nil
	}
	return t[url]
}

// Registry is the authoritative highlight store for one document session.
// It is purely transient: the collection is replaced wholesale on every
// document switch. All methods are safe for concurrent use; manual adds
// (user-driven) and automatic merges (scan-driven) can legitimately race
// in a multi-threaded host.
type Registry struct {
	mu         sync.Mutex
	highlights []highlight.Highlight
	index      map[int]*quadTree
}

func New() *Registry {
	return &Registry{}
}

// Reset replaces the whole collection with seed. Seed records keep the ids
// they carry.
func (r *Registry) Reset(seed []highlight.Highlight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlights = append([]highlight.Highlight(nil), seed...)
	r.index = nil
}

// Clear empties the collection.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlights = nil
	r.index = nil
}

// AddManual records a user-drawn highlight under a fresh id and prepends
// it, so UI lists show the newest manual highlight first.
func (r *Registry) AddManual(d Draft) highlight.Highlight {
	h := highlight.Highlight{
		ID:       uuid.NewString(),
		Position: d.Position,
		Content:  d.Content,
		Comment:  d.Comment,
		Origin:   highlight.OriginManual,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlights = append([]highlight.Highlight{h}, r.highlights...)
	r.index = nil
	return h
}

// MergeAutomatic records one scan batch under fresh ids, appending in batch
// order. Successive batches accumulate; the registry never deduplicates by
// content.
func (r *Registry) MergeAutomatic(batch []Draft) []highlight.Highlight {
	created := make([]highlight.Highlight, 0, len(batch))
	for _, d := range batch {
		created = append(created, highlight.Highlight{
			ID:       uuid.NewString(),
			Position: d.Position,
			Content:  d.Content,
			Comment:  d.Comment,
			Origin:   highlight.OriginAutomatic,
		})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlights = append(r.highlights, created...)
	r.index = nil
	return created
}

// FindByID resolves a highlight by identifier.
func (r *Registry) FindByID(id string) (highlight.Highlight, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.highlights {
		if h.ID == id {
			return h, true
		}
	}
	return highlight.Highlight{}, false
}

// All returns a copy of the collection in its current order.
func (r *Registry) All() []highlight.Highlight {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]highlight.Highlight(nil), r.highlights...)
}

// Len reports the number of stored highlights.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.highlights)
}

// FindAt returns the highlights whose bounding rect on page contains the
// point (x, y), in collection order.
func (r *Registry) FindAt(page int, x, y float64) []highlight.Highlight {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil {
		r.rebuildIndex()
	}
	tree := r.index[page]
	if tree == nil {
		return nil
	}
	indices := tree.queryPoint(x, y)
	sort.Ints(indices)
	var out []highlight.Highlight
	for _, i := range indices {
		h := r.highlights[i]
		if h.Position.BoundingRect.Canonical().Contains(x, y) {
			out = append(out, h)
		}
	}
	return out
}

// rebuildIndex regroups bounding rects into per-page quadtrees. Caller
// holds the lock.
func (r *Registry) rebuildIndex() {
	r.index = make(map[int]*quadTree)
	bounds := make(map[int]highlight.BoundingRect)
	for _, h := range r.highlights {
		page := h.Position.PageNumber
		rect := h.Position.BoundingRect.Canonical()
		b, ok := bounds[page]
		if !ok {
			// The outer rect's reference frame is the page viewport.
			b = highlight.BoundingRect{X2: rect.Width, Y2: rect.Height}
		}
		bounds[page] = b.Union(rect)
	}
	for page, b := range bounds {
		r.index[page] = newQuadTree(b, quadTreeCapacity)
	}
	for i, h := range r.highlights {
		tree := r.index[h.Position.PageNumber]
		tree.insert(h.Position.BoundingRect.Canonical(), i)
	}
}
