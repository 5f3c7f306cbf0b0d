// Package recovery decides what happens when one word's scan fails while
// populating a document's automatic highlights.
package recovery

import "context"

// Strategy is consulted once per failed scan.
type Strategy interface {
	OnError(ctx context.Context, err error, location Location) Action
}

// Location identifies where a scan failed.
type Location struct {
	URL       string
	Word      string
	Page      int
	Component string
}

type Action int

const (
	// ActionFail aborts the remaining word list for this document load.
	ActionFail Action = iota
	// ActionSkip drops the failed word and continues with the next one.
	ActionSkip
	// ActionWarn records the failure and continues with the next word.
	ActionWarn
)
