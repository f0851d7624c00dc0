package matcher

import (
	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/model"
)

// AlwaysTrue matches every paste. The orchestrator binds it to the store
// action when store-everything mode is enabled, and it is handy for
// smoke-testing a new action configuration.
type AlwaysTrue struct {
	actions []action.Action
}

// NewAlwaysTrue creates a matcher that matches every paste.
func NewAlwaysTrue(actions ...action.Action) *AlwaysTrue {
	return &AlwaysTrue{actions: actions}
}

// Name returns the matcher name.
func (m *AlwaysTrue) Name() string {
	return "always"
}

// Actions returns the bound actions.
func (m *AlwaysTrue) Actions() []action.Action {
	return m.actions
}

// Match reports a single synthetic match for every non-nil paste.
func (m *AlwaysTrue) Match(paste *model.Paste) ([]string, error) {
	if paste == nil {
		return nil, nil
	}
	return []string{"*"}, nil
}
