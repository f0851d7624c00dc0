package scraper

import (
	"context"
	"errors"

	"github.com/pastewatch/pastewatch/internal/model"
)

// ErrSourceExhausted is returned by Next when a source has permanently
// run out of pastes. Finite sources are mostly useful in tests; real
// sources poll forever and only return errors for unrecoverable faults.
var ErrSourceExhausted = errors.New("scrape source exhausted")

// Source is the extension contract for paste producers.
//
// Next is a pull-style blocking generator: it waits (polling the remote
// origin, honoring politeness delays) until a new paste is available or
// the context is cancelled. Within one Source, pastes are produced in
// the order the origin published them.
type Source interface {
	// Name identifies the source; it is stamped onto every produced paste.
	Name() string

	// Next blocks until the next paste is available. It returns
	// ctx.Err() when cancelled, ErrSourceExhausted when the source is
	// permanently done, or any other error for an unrecoverable source
	// fault. Transient trouble (a failed poll, a missing raw body) is
	// the source's own business to retry internally.
	Next(ctx context.Context) (*model.Paste, error)
}
