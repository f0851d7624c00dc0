package action

import (
	"context"

	"github.com/pastewatch/pastewatch/internal/model"
)

// Action is the extension contract for match handlers.
//
// Implementations must be safe for concurrent use after construction:
// the action stage may invoke the same Action for pastes from different
// sources back to back, and configuration set at construction is the
// only state an Action may carry.
type Action interface {
	// Name returns the action's name for logging purposes.
	Name() string

	// Perform executes the action for a matched paste. matcherName is
	// the name of the matcher that triggered the action and matches is
	// the list of matched terms it produced.
	//
	// Expected operational conditions (a missing output directory, a
	// cold database connection) should be remediated locally before
	// returning an error. Any returned error is logged by the action
	// stage and does not halt the pipeline.
	Perform(ctx context.Context, paste *model.Paste, matcherName string, matches []string) error
}

// Store is the persistence collaborator used by the built-in store action.
// Concrete backends live in internal/database and are selected by
// configuration, not by this package.
type Store interface {
	// StorePaste persists a paste. Storing the same key twice must be
	// an update, not an error, since sources can re-emit a paste.
	StorePaste(ctx context.Context, paste *model.Paste) error
}

// MatchRecorder persists match records for later reporting. It is kept
// separate from Store because storing pastes and recording matches are
// independently configurable behaviors.
type MatchRecorder interface {
	// StoreMatch records that matcherName matched the given paste with
	// the given matched terms.
	StoreMatch(ctx context.Context, paste *model.Paste, matcherName string, matches []string) error
}
