package action

import (
	"context"
	"fmt"

	"github.com/pastewatch/pastewatch/internal/model"
)

// StorePaste persists every matched paste through the configured Store.
// Combined with the always-true matcher this implements the
// "store everything" mode.
type StorePaste struct {
	store Store
}

// NewStorePaste creates a store action backed by the given Store.
func NewStorePaste(store Store) *StorePaste {
	return &StorePaste{store: store}
}

// Name returns the action name.
func (a *StorePaste) Name() string {
	return "store"
}

// Perform stores the paste. The matcher name and matches are not
// persisted by this action; match records are written by RecordMatch.
func (a *StorePaste) Perform(ctx context.Context, paste *model.Paste, _ string, _ []string) error {
	if err := a.store.StorePaste(ctx, paste); err != nil {
		return fmt.Errorf("failed to store paste %s: %w", paste.Key, err)
	}
	return nil
}

// RecordMatch persists the paste together with a match record so the
// report command can aggregate matcher hits later.
type RecordMatch struct {
	store    Store
	recorder MatchRecorder
}

// NewRecordMatch creates a record action backed by the given store and
// recorder. Both are typically the same *database.PasteDB.
func NewRecordMatch(store Store, recorder MatchRecorder) *RecordMatch {
	return &RecordMatch{store: store, recorder: recorder}
}

// Name returns the action name.
func (a *RecordMatch) Name() string {
	return "record"
}

// Perform stores the paste first so the match record always references a
// stored key, then records the match itself.
func (a *RecordMatch) Perform(ctx context.Context, paste *model.Paste, matcherName string, matches []string) error {
	if err := a.store.StorePaste(ctx, paste); err != nil {
		return fmt.Errorf("failed to store paste %s: %w", paste.Key, err)
	}
	if err := a.recorder.StoreMatch(ctx, paste, matcherName, matches); err != nil {
		return fmt.Errorf("failed to record match for paste %s: %w", paste.Key, err)
	}
	return nil
}
