package cmd

import (
	"errors"
	"testing"
)

func chosenSelection() Selection {
	return Selection{UserID: "Ken", ModelName: "Falcon-40B-Docs"}
}

func TestValidateOrdering(t *testing.T) {
	s := NewSessionController()

	tests := []struct {
		name     string
		question string
		sel      Selection
		want     string
	}{
		{"empty question", "", chosenSelection(), msgEmptyQuestion},
		{"whitespace question", "   \t", chosenSelection(), msgEmptyQuestion},
		{"no user", "q", Selection{UserID: NoneSelected, ModelName: "m"}, msgNoUser},
		{"no model", "q", Selection{UserID: "Ken", ModelName: NoneSelected}, msgNoModel},
		// Empty question wins even when everything is unselected
		{"all missing", "", Selection{UserID: NoneSelected, ModelName: NoneSelected}, msgEmptyQuestion},
		// Missing user reported before missing model
		{"user before model", "q", Selection{UserID: NoneSelected, ModelName: NoneSelected}, msgNoUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.question, tt.sel)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != tt.want {
				t.Errorf("message = %q, want %q", verr.Message, tt.want)
			}
		})
	}

	if err := s.Validate("q", chosenSelection()); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}

func TestAskLifecycleSuccess(t *testing.T) {
	s := NewSessionController()

	req, err := s.BeginAsk("what is the travel policy?", chosenSelection())
	if err != nil {
		t.Fatalf("BeginAsk failed: %v", err)
	}
	if req.MemoryID != nil {
		t.Errorf("first turn memory_id = %v, want nil", *req.MemoryID)
	}
	if !s.Pending() {
		t.Error("expected pending after BeginAsk")
	}
	if s.Provisional() != "what is the travel policy?" {
		t.Errorf("provisional = %q", s.Provisional())
	}
	if len(s.Turns()) != 0 {
		t.Errorf("history grew before outcome: %d turns", len(s.Turns()))
	}

	s.CompleteAsk(&Answer{
		Answer:   "See page 3.",
		Source:   []SourceRef{{Name: "policy.pdf"}},
		MemoryID: "abc123",
	})

	turns := s.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].IsBot || turns[0].Text != "what is the travel policy?" {
		t.Errorf("turn 0 = %+v", turns[0])
	}
	if !turns[1].IsBot || turns[1].Text != "See page 3." {
		t.Errorf("turn 1 = %+v", turns[1])
	}
	if s.MemoryToken() != "abc123" {
		t.Errorf("memory token = %q", s.MemoryToken())
	}
	if s.Pending() || s.Provisional() != "" {
		t.Error("staging not cleared after completion")
	}

	// Second turn carries the adopted token
	req2, err := s.BeginAsk("and for contractors?", chosenSelection())
	if err != nil {
		t.Fatalf("second BeginAsk failed: %v", err)
	}
	if req2.MemoryID == nil || *req2.MemoryID != "abc123" {
		t.Errorf("second turn memory_id = %v, want abc123", req2.MemoryID)
	}
}

func TestAskLifecycleFailure(t *testing.T) {
	s := NewSessionController()

	if _, err := s.BeginAsk("anything new?", chosenSelection()); err != nil {
		t.Fatalf("BeginAsk failed: %v", err)
	}
	s.FailAsk()

	turns := s.Turns()
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].IsBot || turns[0].Text != "anything new?" {
		t.Errorf("turn 0 = %+v", turns[0])
	}
	if s.Pending() {
		t.Error("still pending after failure")
	}
	if s.MemoryToken() != "" {
		t.Errorf("memory token = %q, want empty", s.MemoryToken())
	}
}

func TestConcurrentAskRejected(t *testing.T) {
	s := NewSessionController()

	if _, err := s.BeginAsk("first", chosenSelection()); err != nil {
		t.Fatalf("BeginAsk failed: %v", err)
	}

	_, err := s.BeginAsk("second", chosenSelection())
	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected StateConflictError, got %v", err)
	}
	if s.Provisional() != "first" {
		t.Errorf("provisional clobbered: %q", s.Provisional())
	}
}

func TestCompleteAndFailIgnoredWhenIdle(t *testing.T) {
	s := NewSessionController()
	s.CompleteAsk(&Answer{Answer: "stray", MemoryID: "zzz"})
	s.FailAsk()
	if len(s.Turns()) != 0 || s.MemoryToken() != "" {
		t.Errorf("idle controller mutated: %d turns, token %q", len(s.Turns()), s.MemoryToken())
	}
}

func TestTokenReplacedOnEveryAnswer(t *testing.T) {
	s := NewSessionController()

	s.BeginAsk("one", chosenSelection())
	s.CompleteAsk(&Answer{Answer: "a", MemoryID: "tok-1"})
	s.BeginAsk("two", chosenSelection())
	s.CompleteAsk(&Answer{Answer: "b", MemoryID: "tok-2"})

	if s.MemoryToken() != "tok-2" {
		t.Errorf("memory token = %q, want tok-2", s.MemoryToken())
	}
	if len(s.Turns()) != 4 {
		t.Errorf("got %d turns, want 4", len(s.Turns()))
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewSessionController()
	s.BeginAsk("q", chosenSelection())
	s.CompleteAsk(&Answer{Answer: "a", MemoryID: "tok"})

	s.Reset()

	if len(s.Turns()) != 0 || s.MemoryToken() != "" || s.Pending() || s.Provisional() != "" {
		t.Error("Reset left state behind")
	}
}

func TestSelectionChangedResetsSession(t *testing.T) {
	start := Selection{UserID: "Ken", ModelName: "Falcon-40B-Docs"}

	tests := []struct {
		name      string
		next      Selection
		wantReset bool
	}{
		{"user change", Selection{UserID: "Jeff", ModelName: "Falcon-40B-Docs"}, true},
		{"model change", Selection{UserID: "Ken", ModelName: "GPT-3.5-Turbo-Docs"}, true},
		{"date change only", start, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionController()
			s.BeginAsk("q", start)
			s.CompleteAsk(&Answer{Answer: "a", MemoryID: "tok"})

			s.SelectionChanged(start, tt.next)

			if tt.wantReset {
				if len(s.Turns()) != 0 || s.MemoryToken() != "" {
					t.Error("expected session reset")
				}
			} else {
				if len(s.Turns()) != 2 || s.MemoryToken() != "tok" {
					t.Error("session reset on non-identity change")
				}
			}
		})
	}
}

func TestSessionResetsViaStoreSubscription(t *testing.T) {
	store := NewSelectionStore()
	s := NewSessionController()
	store.Subscribe(s)

	store.SetUser("Ken")
	store.SetModel("Falcon-40B-Docs")

	s.BeginAsk("q", store.Current())
	s.CompleteAsk(&Answer{Answer: "a", MemoryID: "tok"})

	store.SetUser("Jeff")
	if len(s.Turns()) != 0 {
		t.Error("user switch did not reset session")
	}
}

func TestFirstSource(t *testing.T) {
	tests := []struct {
		name string
		turn ChatTurn
		want string
	}{
		{"bot with sources", ChatTurn{IsBot: true, Source: []SourceRef{{Name: "a.pdf"}, {Name: "b.pdf"}}}, "Source: a.pdf"},
		{"bot without sources", ChatTurn{IsBot: true}, ""},
		{"user turn", ChatTurn{IsBot: false, Source: []SourceRef{{Name: "a.pdf"}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstSource(tt.turn); got != tt.want {
				t.Errorf("FirstSource = %q, want %q", got, tt.want)
			}
		})
	}
}
