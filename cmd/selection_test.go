package cmd

import (
	"testing"
	"time"
)

type recordingObserver struct {
	changes []Selection
	olds    []Selection
}

func (r *recordingObserver) SelectionChanged(old, new Selection) {
	r.olds = append(r.olds, old)
	r.changes = append(r.changes, new)
}

func TestSelectionDefaults(t *testing.T) {
	store := NewSelectionStore()
	sel := store.Current()
	if sel.UserID != NoneSelected || sel.ModelName != NoneSelected {
		t.Errorf("defaults = %+v, want %q sentinels", sel, NoneSelected)
	}
	if !sel.StartDate.IsZero() || !sel.EndDate.IsZero() {
		t.Errorf("default dates not zero: %+v", sel)
	}
}

func TestSelectionNotifiesObservers(t *testing.T) {
	store := NewSelectionStore()
	obs := &recordingObserver{}
	store.Subscribe(obs)

	store.SetUser("Ken")
	store.SetModel("Falcon-40B-Docs")
	store.SetStartDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	store.SetEndDate(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	if len(obs.changes) != 4 {
		t.Fatalf("got %d notifications, want 4", len(obs.changes))
	}
	if obs.olds[0].UserID != NoneSelected || obs.changes[0].UserID != "Ken" {
		t.Errorf("first change old=%+v new=%+v", obs.olds[0], obs.changes[0])
	}
	if obs.changes[1].ModelName != "Falcon-40B-Docs" {
		t.Errorf("second change = %+v", obs.changes[1])
	}
	// Old snapshot of the model change still carries the already-set user
	if obs.olds[1].UserID != "Ken" {
		t.Errorf("old selection lost prior field: %+v", obs.olds[1])
	}
}

func TestSelectionSameValueIsNoOp(t *testing.T) {
	store := NewSelectionStore()
	obs := &recordingObserver{}
	store.Subscribe(obs)

	store.SetUser("Ken")
	store.SetUser("Ken")
	store.SetModel(NoneSelected) // already the sentinel
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetStartDate(d)
	store.SetStartDate(d)

	if len(obs.changes) != 2 {
		t.Errorf("got %d notifications, want 2 (no-ops must not notify)", len(obs.changes))
	}
}

func TestSelectionMultipleObservers(t *testing.T) {
	store := NewSelectionStore()
	a := &recordingObserver{}
	b := &recordingObserver{}
	store.Subscribe(a)
	store.Subscribe(b)

	store.SetModel("Swiss-Finish-Docs")

	if len(a.changes) != 1 || len(b.changes) != 1 {
		t.Errorf("observer counts: a=%d b=%d", len(a.changes), len(b.changes))
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	store := NewSelectionStore()
	store.SetUser("Ken")

	sel := store.Current()
	sel.UserID = "Mallory"

	if store.Current().UserID != "Ken" {
		t.Error("mutating the returned selection changed the store")
	}
}
