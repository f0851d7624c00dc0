package action

import (
	"context"
	"errors"
	"testing"

	"github.com/pastewatch/pastewatch/internal/model"
)

// mockStore is a test double for the Store and MatchRecorder contracts.
type mockStore struct {
	pastes   []*model.Paste
	matches  []string
	storeErr error
	matchErr error
}

func (m *mockStore) StorePaste(_ context.Context, paste *model.Paste) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.pastes = append(m.pastes, paste)
	return nil
}

func (m *mockStore) StoreMatch(_ context.Context, paste *model.Paste, matcherName string, _ []string) error {
	if m.matchErr != nil {
		return m.matchErr
	}
	m.matches = append(m.matches, paste.Key+"/"+matcherName)
	return nil
}

// TestStorePastePerform tests the store-everything action.
func TestStorePastePerform(t *testing.T) {
	t.Parallel()

	t.Run("stores the paste", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		a := NewStorePaste(store)
		paste := model.NewPaste("abc", "", "body", "pastebin")

		if err := a.Perform(context.Background(), paste, "always", nil); err != nil {
			t.Fatalf("Perform failed: %v", err)
		}
		if len(store.pastes) != 1 || store.pastes[0].Key != "abc" {
			t.Errorf("expected one stored paste with key abc, got %+v", store.pastes)
		}
	})

	t.Run("wraps store errors", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("disk full")
		a := NewStorePaste(&mockStore{storeErr: sentinel})
		paste := model.NewPaste("abc", "", "body", "pastebin")

		err := a.Perform(context.Background(), paste, "always", nil)
		if !errors.Is(err, sentinel) {
			t.Errorf("expected wrapped sentinel error, got %v", err)
		}
	})
}

// TestRecordMatchPerform tests the match-recording action.
func TestRecordMatchPerform(t *testing.T) {
	t.Parallel()

	t.Run("stores paste then records match", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		a := NewRecordMatch(store, store)
		paste := model.NewPaste("abc", "", "body", "pastebin")

		if err := a.Perform(context.Background(), paste, "credentials", []string{"password"}); err != nil {
			t.Fatalf("Perform failed: %v", err)
		}
		if len(store.pastes) != 1 {
			t.Errorf("expected paste stored, got %d", len(store.pastes))
		}
		if len(store.matches) != 1 || store.matches[0] != "abc/credentials" {
			t.Errorf("expected match record abc/credentials, got %+v", store.matches)
		}
	})

	t.Run("does not record match when store fails", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{storeErr: errors.New("boom")}
		a := NewRecordMatch(store, store)
		paste := model.NewPaste("abc", "", "body", "pastebin")

		if err := a.Perform(context.Background(), paste, "m", nil); err == nil {
			t.Fatal("expected error")
		}
		if len(store.matches) != 0 {
			t.Errorf("match should not be recorded after store failure, got %+v", store.matches)
		}
	})
}
