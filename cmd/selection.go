package cmd

import (
	"time"
)

// NoneSelected is the sentinel for an unchosen user or model. A question
// may only be submitted when neither field carries it.
const NoneSelected = "None"

// Selection is the user's chosen identity and model, plus an optional date
// range filter. It is the required context for any conversation turn.
type Selection struct {
	UserID    string
	ModelName string
	StartDate time.Time
	EndDate   time.Time
}

// SelectionObserver is notified synchronously after any field of the
// selection changes. Observers run before the next render, so downstream
// state (the conversation session) never lags the visible selection.
type SelectionObserver interface {
	SelectionChanged(old, new Selection)
}

// SelectionStore owns the current selection. Setters are no-ops when the
// new value equals the current one, so observers only ever see real
// changes.
type SelectionStore struct {
	sel       Selection
	observers []SelectionObserver
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		sel: Selection{UserID: NoneSelected, ModelName: NoneSelected},
	}
}

// Subscribe registers an observer for subsequent changes.
func (s *SelectionStore) Subscribe(o SelectionObserver) {
	s.observers = append(s.observers, o)
}

// Current returns a copy of the selection.
func (s *SelectionStore) Current() Selection { return s.sel }

func (s *SelectionStore) SetUser(id string) {
	if id == s.sel.UserID {
		return
	}
	old := s.sel
	s.sel.UserID = id
	s.notify(old)
}

func (s *SelectionStore) SetModel(name string) {
	if name == s.sel.ModelName {
		return
	}
	old := s.sel
	s.sel.ModelName = name
	s.notify(old)
}

func (s *SelectionStore) SetStartDate(d time.Time) {
	if d.Equal(s.sel.StartDate) {
		return
	}
	old := s.sel
	s.sel.StartDate = d
	s.notify(old)
}

func (s *SelectionStore) SetEndDate(d time.Time) {
	if d.Equal(s.sel.EndDate) {
		return
	}
	old := s.sel
	s.sel.EndDate = d
	s.notify(old)
}

func (s *SelectionStore) notify(old Selection) {
	for _, o := range s.observers {
		o.SelectionChanged(old, s.sel)
	}
}
