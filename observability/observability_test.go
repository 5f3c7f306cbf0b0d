package observability

import (
	"context"
	"testing"
)

func TestFields(t *testing.T) {
	cases := []struct {
		field Field
		key   string
	}{
		{String("url", "doc.pdf"), "url"},
		{Int("page", 3), "page"},
		{Float64("y", 99.5), "y"},
		{Error("err", nil), "err"},
	}
	for _, c := range cases {
		if c.field.Key() != c.key {
			t.Fatalf("unexpected key %q", c.field.Key())
		}
	}
}

func TestNopImplementations(t *testing.T) {
	var logger Logger = NopLogger{}
	logger.With(String("k", "v")).Info("ignored")

	_, span := NopTracer().StartSpan(context.Background(), "scan")
	span.SetTag("word", "In")
	span.SetError(nil)
	span.Finish()
}
