package registry

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wudi/highlightkit/highlight"
)

func draftAt(page int, x1, y1, x2, y2 float64, text string) Draft {
	rect := highlight.BoundingRect{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: 600, Height: 800}
	return Draft{
		Position: highlight.ScaledPosition{
			PageNumber:   page,
			BoundingRect: rect,
			Rects:        []highlight.BoundingRect{rect},
		},
		Content: highlight.Content{Text: text},
	}
}

func TestAddManualAssignsIdentity(t *testing.T) {
	r := New()
	d := draftAt(1, 0, 90, 10, 100, "In")
	d.Comment = highlight.Comment{Text: "interesting", Emoji: "💡"}

	first := r.AddManual(d)
	second := r.AddManual(d)

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("ids must be fresh and distinct: %q vs %q", first.ID, second.ID)
	}
	if first.Origin != highlight.OriginManual || second.Origin != highlight.OriginManual {
		t.Fatalf("manual adds must carry the manual origin: %+v", second)
	}
	if diff := cmp.Diff(first.Content, second.Content); diff != "" {
		t.Fatalf("identical drafts must keep identical content:\n%s", diff)
	}

	// Newest-first for manual adds.
	all := r.All()
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestMergeAutomaticAccumulates(t *testing.T) {
	r := New()
	batch := []Draft{
		draftAt(1, 0, 90, 10, 100, "In"),
		draftAt(2, 5, 40, 25, 50, "In"),
	}

	first := r.MergeAutomatic(batch)
	second := r.MergeAutomatic(batch)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(first), len(second))
	}
	if r.Len() != 4 {
		t.Fatalf("merges must accumulate, got %d records", r.Len())
	}
	seen := map[string]bool{}
	for _, h := range r.All() {
		if h.Origin != highlight.OriginAutomatic {
			t.Fatalf("merged record lacks automatic origin: %+v", h)
		}
		if seen[h.ID] {
			t.Fatalf("duplicate id %q", h.ID)
		}
		seen[h.ID] = true
	}
	if diff := cmp.Diff(first[0].Position, second[0].Position); diff != "" {
		t.Fatalf("re-merged batch must keep content:\n%s", diff)
	}

	// Batch order is preserved at the tail, after earlier merges.
	all := r.All()
	if all[2].ID != second[0].ID || all[3].ID != second[1].ID {
		t.Fatalf("batch order not preserved: %+v", all)
	}
}

func TestResetSeedsAndFindByID(t *testing.T) {
	seed := []highlight.Highlight{
		{ID: "fixture-1", Position: draftAt(1, 0, 0, 10, 10, "x").Position, Origin: highlight.OriginManual},
		{ID: "fixture-2", Position: draftAt(2, 0, 0, 10, 10, "y").Position, Origin: highlight.OriginAutomatic},
	}
	r := New()
	r.MergeAutomatic([]Draft{draftAt(1, 0, 0, 5, 5, "stale")})
	r.Reset(seed)

	if r.Len() != 2 {
		t.Fatalf("reset must replace the collection, got %d records", r.Len())
	}
	got, ok := r.FindByID("fixture-1")
	if !ok {
		t.Fatal("seed record not found")
	}
	if diff := cmp.Diff(seed[0], got); diff != "" {
		t.Fatalf("seed record changed:\n%s", diff)
	}
}

func TestClearForgetsAllIDs(t *testing.T) {
	r := New()
	created := r.MergeAutomatic([]Draft{
		draftAt(1, 0, 0, 10, 10, "a"),
		draftAt(1, 20, 0, 30, 10, "b"),
	})
	manual := r.AddManual(draftAt(1, 40, 0, 50, 10, "c"))

	r.Clear()

	for _, id := range []string{created[0].ID, created[1].ID, manual.ID} {
		if _, ok := r.FindByID(id); ok {
			t.Fatalf("id %q still resolvable after clear", id)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("clear left %d records", r.Len())
	}
}

func TestFindByIDMissing(t *testing.T) {
	r := New()
	if _, ok := r.FindByID("nope"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestFindAt(t *testing.T) {
	r := New()
	r.MergeAutomatic([]Draft{
		draftAt(1, 0, 90, 10, 100, "In"),
		draftAt(1, 200, 300, 250, 310, "paper"),
		draftAt(2, 0, 90, 10, 100, "other page"),
	})

	hits := r.FindAt(1, 5, 95)
	if len(hits) != 1 || hits[0].Content.Text != "In" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	if hits := r.FindAt(1, 500, 500); len(hits) != 0 {
		t.Fatalf("unexpected hits in empty space: %+v", hits)
	}
	if hits := r.FindAt(3, 5, 95); len(hits) != 0 {
		t.Fatalf("unexpected hits on unknown page: %+v", hits)
	}

	// Overlapping rects report in collection order.
	r.MergeAutomatic([]Draft{draftAt(1, 0, 85, 20, 105, "overlap")})
	hits = r.FindAt(1, 5, 95)
	if len(hits) != 2 || hits[0].Content.Text != "In" || hits[1].Content.Text != "overlap" {
		t.Fatalf("unexpected overlap hits: %+v", hits)
	}
}

func TestFindAtManyHighlights(t *testing.T) {
	// Force quadtree subdivision past the node capacity.
	r := New()
	var batch []Draft
	for i := 0; i < 100; i++ {
		x := float64(i%10) * 60
		y := float64(i/10) * 80
		batch = append(batch, Draft{
			Position: highlight.ScaledPosition{
				PageNumber: 1,
				BoundingRect: highlight.BoundingRect{
					X1: x, Y1: y, X2: x + 30, Y2: y + 20,
					Width: 600, Height: 800,
				},
			},
			Content: highlight.Content{Text: fmt.Sprintf("cell-%d", i)},
		})
	}
	r.MergeAutomatic(batch)

	hits := r.FindAt(1, 125, 170)
	if len(hits) != 1 || hits[0].Content.Text != "cell-22" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestFindAtStackedPointRects(t *testing.T) {
	// Click-without-drag selections produce zero-area rects. Many of them
	// at the same point can never be separated spatially, so they must
	// pile up in one leaf instead of forcing endless subdivision.
	r := New()
	var batch []Draft
	for i := 0; i < 3*quadTreeCapacity; i++ {
		batch = append(batch, Draft{
			Position: highlight.ScaledPosition{
				PageNumber: 1,
				BoundingRect: highlight.BoundingRect{
					X1: 100, Y1: 100, X2: 100, Y2: 100,
					Width: 600, Height: 800,
				},
			},
			Content: highlight.Content{Text: fmt.Sprintf("click-%d", i)},
		})
	}
	r.MergeAutomatic(batch)

	hits := r.FindAt(1, 100, 100)
	if len(hits) != 3*quadTreeCapacity {
		t.Fatalf("got %d hits, want %d", len(hits), 3*quadTreeCapacity)
	}
	if hits := r.FindAt(1, 100.5, 100); len(hits) != 0 {
		t.Fatalf("unexpected hits next to the point: %+v", hits)
	}
}

func TestFindAtNonCanonicalRect(t *testing.T) {
	// Seed records may carry swapped corners; index and exact check must
	// agree on the canonical form.
	r := New()
	r.Reset([]highlight.Highlight{{
		ID: "swapped",
		Position: highlight.ScaledPosition{
			PageNumber: 1,
			BoundingRect: highlight.BoundingRect{
				X1: 10, Y1: 100, X2: 0, Y2: 90,
				Width: 600, Height: 800,
			},
		},
	}})

	hits := r.FindAt(1, 5, 95)
	if len(hits) != 1 || hits[0].ID != "swapped" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestSeedTableFor(t *testing.T) {
	table := SeedTable{"https://example.com/a.pdf": {{ID: "a-1"}}}
	if got := table.For("https://example.com/a.pdf"); len(got) != 1 || got[0].ID != "a-1" {
		t.Fatalf("unexpected seed set: %+v", got)
	}
	if got := table.For("https://example.com/b.pdf"); got != nil {
		t.Fatalf("unknown url must have no seeds: %+v", got)
	}
	var empty SeedTable
	if got := empty.For("anything"); got != nil {
		t.Fatalf("nil table must have no seeds: %+v", got)
	}
}
