package registry

import "github.com/wudi/highlightkit/highlight"

const (
	quadTreeCapacity = 10

	// Nodes at or below this extent never subdivide: entries accumulate
	// in the leaf instead. Stacked zero-area rects (click-without-drag
	// selections) would otherwise force subdivision forever, since no
	// child quadrant can separate them.
	quadTreeMinExtent = 1e-6
)

// quadTree is a spatial index over highlight bounding rects for one page.
// Entries hold indices into the registry's collection.
type quadTree struct {
	bounds   highlight.BoundingRect
	capacity int
	entries  []quadEntry
	nodes    []*quadTree
}

type quadEntry struct {
	rect  highlight.BoundingRect
	index int
}

func newQuadTree(bounds highlight.BoundingRect, capacity int) *quadTree {
	return &quadTree{
		bounds:   bounds,
		capacity: capacity,
		entries:  make([]quadEntry, 0, capacity),
	}
}

func (qt *quadTree) insert(rect highlight.BoundingRect, index int) bool {
	if !intersects(qt.bounds, rect) {
		return false
	}

	if qt.nodes != nil {
		for _, node := range qt.nodes {
			if contains(node.bounds, rect) {
				if node.insert(rect, index) {
					return true
				}
			}
		}
	}

	if qt.nodes == nil {
		if len(qt.entries) < qt.capacity || !qt.divisible() {
			qt.entries = append(qt.entries, quadEntry{rect: rect, index: index})
			return true
		}
		// Split and redistribute, then retry the new entry.
		qt.subdivide()
		old := qt.entries
		qt.entries = make([]quadEntry, 0, qt.capacity)
		for _, e := range old {
			qt.insert(e.rect, e.index)
		}
		return qt.insert(rect, index)
	}

	// Straddles the child boundaries, so it stays at this level.
	qt.entries = append(qt.entries, quadEntry{rect: rect, index: index})
	return true
}

func (qt *quadTree) divisible() bool {
	return qt.bounds.X2-qt.bounds.X1 > quadTreeMinExtent &&
		qt.bounds.Y2-qt.bounds.Y1 > quadTreeMinExtent
}

func (qt *quadTree) subdivide() {
	xMid := (qt.bounds.X1 + qt.bounds.X2) / 2
	yMid := (qt.bounds.Y1 + qt.bounds.Y2) / 2

	qt.nodes = []*quadTree{
		newQuadTree(highlight.BoundingRect{X1: qt.bounds.X1, Y1: qt.bounds.Y1, X2: xMid, Y2: yMid}, qt.capacity),
		newQuadTree(highlight.BoundingRect{X1: xMid, Y1: qt.bounds.Y1, X2: qt.bounds.X2, Y2: yMid}, qt.capacity),
		newQuadTree(highlight.BoundingRect{X1: qt.bounds.X1, Y1: yMid, X2: xMid, Y2: qt.bounds.Y2}, qt.capacity),
		newQuadTree(highlight.BoundingRect{X1: xMid, Y1: yMid, X2: qt.bounds.X2, Y2: qt.bounds.Y2}, qt.capacity),
	}
}

func (qt *quadTree) query(rangeRect highlight.BoundingRect) []int {
	var found []int
	if !intersects(qt.bounds, rangeRect) {
		return found
	}

	for _, e := range qt.entries {
		if intersects(e.rect, rangeRect) {
			found = append(found, e.index)
		}
	}

	if qt.nodes != nil {
		for _, node := range qt.nodes {
			found = append(found, node.query(rangeRect)...)
		}
	}
	return found
}

func (qt *quadTree) queryPoint(x, y float64) []int {
	return qt.query(highlight.BoundingRect{X1: x, Y1: y, X2: x, Y2: y})
}

func intersects(r1, r2 highlight.BoundingRect) bool {
	return !(r2.X1 > r1.X2 || r2.X2 < r1.X1 || r2.Y1 > r1.Y2 || r2.Y2 < r1.Y1)
}

func contains(outer, inner highlight.BoundingRect) bool {
	return inner.X1 >= outer.X1 && inner.X2 <= outer.X2 &&
		inner.Y1 >= outer.Y1 && inner.Y2 <= outer.Y2
}
