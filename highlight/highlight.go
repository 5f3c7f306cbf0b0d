// Package highlight defines the records anchoring annotations to
// page-relative rectangles inside a paginated document.
package highlight

// BoundingRect is an axis-aligned rectangle in page space (origin top-left,
// y increasing downward). X1 <= X2 and Y1 <= Y2 must hold; Width and Height
// describe the containing reference frame, not the rectangle's own extent:
// the page viewport for a position's outer rect, the match extent for the
// inner sub-rects.
type BoundingRect struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Canonical returns r with the corner coordinates swapped where needed so
// that X1 <= X2 and Y1 <= Y2.
func (r BoundingRect) Canonical() BoundingRect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// Contains reports whether the point (x, y) lies inside r, edges included.
func (r BoundingRect) Contains(x, y float64) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Union returns the smallest rectangle covering both r and o. The reference
// frame dimensions are taken from r.
func (r BoundingRect) Union(o BoundingRect) BoundingRect {
	out := r
	if o.X1 < out.X1 {
		out.X1 = o.X1
	}
	if o.Y1 < out.Y1 {
		out.Y1 = o.Y1
	}
	if o.X2 > out.X2 {
		out.X2 = o.X2
	}
	if o.Y2 > out.Y2 {
		out.Y2 = o.Y2
	}
	return out
}

// ScaledPosition anchors a highlight to a page independently of the current
// render scale. Rects holds one rectangle per contiguous visual span of the
// anchored text; BoundingRect is their union envelope, used for hit-testing
// and scroll targeting.
type ScaledPosition struct {
	PageNumber   int            `json:"pageNumber"`
	BoundingRect BoundingRect   `json:"boundingRect"`
	Rects        []BoundingRect `json:"rects"`
}

// Content is the text captured by a highlight.
type Content struct {
	Text string `json:"text,omitempty"`
}

// Comment is the user-visible note attached to a highlight.
type Comment struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji,omitempty"`
}

// Origin classifies how a highlight came to exist. It is assigned at
// creation time and never inferred from display text.
type Origin string

const (
	// OriginManual marks highlights drawn by the user through selection.
	OriginManual Origin = "manual"
	// OriginAutomatic marks highlights produced by word scanning.
	OriginAutomatic Origin = "automatic"
)

// Highlight is one annotation record. Identity is the ID alone; two
// highlights with identical content are still distinct records.
type Highlight struct {
	ID       string         `json:"id"`
	Position ScaledPosition `json:"position"`
	Content  Content        `json:"content"`
	Comment  Comment        `json:"comment"`
	Origin   Origin         `json:"origin"`
}
