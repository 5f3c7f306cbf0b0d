// Command scanwords searches a document's extracted text runs for a list
// of words and prints the resulting highlight records.
//
// The document is described by a JSON file with one entry per page:
//
//	{"pages": [{"width": 600, "height": 800, "runs": [
//	    {"text": "In this paper", "transform": [1,0,0,1,0,700], "width": 65, "height": 10}
//	]}]}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wudi/highlightkit/recovery"
	"github.com/wudi/highlightkit/session"
	"github.com/wudi/highlightkit/source"
)

type options struct {
	docPath string
	words   []string
	asJSON  bool
	bestEff bool
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scanwords: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "scanwords: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: scanwords [flags] <document.json>\n")
		flag.PrintDefaults()
	}
	words := flag.String("words", os.Getenv("SCANWORDS_WORDS"), "Comma-separated words to highlight")
	asJSON := flag.Bool("json", false, "Emit highlight records as JSON")
	bestEff := flag.Bool("best-effort", false, "Keep scanning remaining words when one fails")
	flag.Parse()

	opts.docPath = flag.Arg(0)
	if opts.docPath == "" {
		opts.docPath = os.Getenv("SCANWORDS_DOC")
	}
	if opts.docPath == "" {
		return opts, fmt.Errorf("a document file is required")
	}
	for _, w := range strings.Split(*words, ",") {
		if w = strings.TrimSpace(w); w != "" {
			opts.words = append(opts.words, w)
		}
	}
	if len(opts.words) == 0 {
		return opts, fmt.Errorf("at least one word is required (-words or SCANWORDS_WORDS)")
	}
	opts.asJSON = *asJSON
	opts.bestEff = *bestEff
	return opts, nil
}

func run(opts options) error {
	spec, err := source.LoadSpecFile(opts.docPath)
	if err != nil {
		return err
	}
	doc := source.NewStaticDocument(spec)

	var strategy recovery.Strategy
	lenient := recovery.NewLenientStrategy()
	if opts.bestEff {
		strategy = lenient
	}
	sess, err := session.New(session.Config{
		Loader: source.LoaderFunc(func(ctx context.Context, url string) (source.Document, error) {
			return doc, nil
		}),
		Words:    opts.words,
		Recovery: strategy,
	})
	if err != nil {
		return err
	}

	if err := sess.LoadDocument(context.Background(), opts.docPath); err != nil {
		return err
	}
	for _, scanErr := range lenient.Errors {
		fmt.Fprintf(os.Stderr, "scanwords: warning: %v\n", scanErr)
	}

	highlights := sess.Registry().All()
	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(highlights)
	}
	for _, h := range highlights {
		r := h.Position.BoundingRect
		fmt.Printf("page %d  [%.1f %.1f %.1f %.1f]  %q  (%s)\n",
			h.Position.PageNumber, r.X1, r.Y1, r.X2, r.Y2, h.Content.Text, h.ID)
	}
	if len(highlights) == 0 {
		fmt.Println("no matches")
	}
	return nil
}
