package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

// PageSpec describes one page of a static document.
type PageSpec struct {
	Width  float64   `json:"width" validate:"required,gt=0"`
	Height float64   `json:"height" validate:"required,gt=0"`
	Runs   []TextRun `json:"runs"`
}

// DocumentSpec is a literal description of a document's extracted text,
// used for fixtures, demos and the cmd tools. Pages appear in page order.
type DocumentSpec struct {
	Pages []PageSpec `json:"pages" validate:"required,min=1,dive"`
}

// Validate checks the spec's structural constraints.
func (s *DocumentSpec) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("document spec: %w", err)
	}
	return nil
}

// LoadSpec decodes and validates a DocumentSpec from JSON.
func LoadSpec(r io.Reader) (*DocumentSpec, error) {
	var spec DocumentSpec
	if err := json.NewDecoder(r).Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode document spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadSpecFile reads a DocumentSpec from a JSON file on disk.
func LoadSpecFile(path string) (*DocumentSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document spec: %w", err)
	}
	defer f.Close()
	return LoadSpec(f)
}

// StaticDocument is an in-memory Document backed by a DocumentSpec.
type StaticDocument struct {
	pages []StaticPage
}

// NewStaticDocument builds a document from a validated spec.
func NewStaticDocument(spec *DocumentSpec) *StaticDocument {
	doc := &StaticDocument{pages: make([]StaticPage, len(spec.Pages))}
	for i, p := range spec.Pages {
		doc.pages[i] = StaticPage{width: p.Width, height: p.Height, runs: p.Runs}
	}
	return doc
}

func (d *StaticDocument) NumPages() int { return len(d.pages) }

func (d *StaticDocument) Page(n int) (Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, len(d.pages))
	}
	return &d.pages[n-1], nil
}

// StaticPage is an in-memory Page.
type StaticPage struct {
	width, height float64
	runs          []TextRun
}

func (p *StaticPage) TextContent(ctx context.Context) ([]TextRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]TextRun, len(p.runs))
	copy(out, p.runs)
	return out, nil
}

func (p *StaticPage) Viewport() (float64, float64) { return p.width, p.height }
