package recovery

import (
	"context"
	"fmt"
)

// StrictStrategy fails fast: the first word that cannot be scanned aborts
// the rest of the word list, since a silently degraded highlight set is
// misleading. Highlights already merged stay in place.
type StrictStrategy struct{}

func NewStrictStrategy() *StrictStrategy {
	return &StrictStrategy{}
}

func (s *StrictStrategy) OnError(ctx context.Context, err error, location Location) Action {
	return ActionFail
}

// LenientStrategy accumulates failures and keeps scanning the remaining
// words, so one unextractable page does not empty the whole document's
// automatic highlight set.
type LenientStrategy struct {
	Errors []error
}

func NewLenientStrategy() *LenientStrategy {
	return &LenientStrategy{}
}

func (s *LenientStrategy) OnError(ctx context.Context, err error, location Location) Action {
	s.Errors = append(s.Errors, fmt.Errorf("[%s] word %q in %s: %w", location.Component, location.Word, location.URL, err))
	return ActionWarn
}
