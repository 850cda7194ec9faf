package cmd

import (
	"strings"
)

// ChatTurn is one entry of the conversation history. Text is the question
// for user turns and the answer for bot turns; Source is populated only on
// completed bot turns.
type ChatTurn struct {
	IsBot  bool
	Text   string
	Source []SourceRef
}

// ValidationError is a precondition failure raised before any network call.
// Its message is shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation messages shown when a question cannot be submitted. Texts
// match the product's established wording.
const (
	msgEmptyQuestion = "Please enter valid input and try again."
	msgNoUser        = "Please select a user and try again."
	msgNoModel       = "Please select a model and try again."
)

// SessionController owns the conversation: the turn history, the opaque
// memory token correlating turns server-side, and the in-flight question.
//
// The ask cycle is a two-phase append: BeginAsk stages the user's question
// in a provisional buffer, and the turn is promoted into the canonical
// history only on a definitive outcome. A failed ask promotes the question
// alone, leaving it visible as sent-but-unanswered; a successful ask
// promotes question and answer together.
//
// The controller is exclusively owned by the UI event loop; nothing else
// mutates it.
type SessionController struct {
	turns       []ChatTurn
	memoryToken string
	provisional string
	pending     bool
}

func NewSessionController() *SessionController { return &SessionController{} }

// Validate checks the ask preconditions in order, short-circuiting on the
// first failure. It performs no network activity.
func (s *SessionController) Validate(question string, sel Selection) error {
	if strings.TrimSpace(question) == "" {
		return &ValidationError{Message: msgEmptyQuestion}
	}
	if sel.UserID == NoneSelected {
		return &ValidationError{Message: msgNoUser}
	}
	if sel.ModelName == NoneSelected {
		return &ValidationError{Message: msgNoModel}
	}
	return nil
}

// BeginAsk validates the question against the selection and, on success,
// stages it and returns the transport request for this turn. Concurrent
// asks are rejected: one question is in flight at a time, matching the
// single-flight discipline of the upload and ingest tracks.
func (s *SessionController) BeginAsk(question string, sel Selection) (AskRequest, error) {
	if s.pending {
		return AskRequest{}, &StateConflictError{Op: "ask"}
	}
	if err := s.Validate(question, sel); err != nil {
		return AskRequest{}, err
	}

	s.provisional = question
	s.pending = true

	req := AskRequest{
		Query:     question,
		User:      sel.UserID,
		ModelName: sel.ModelName,
	}
	if s.memoryToken != "" {
		token := s.memoryToken
		req.MemoryID = &token
	}
	return req, nil
}

// CompleteAsk promotes the staged question and the bot's answer into the
// history and adopts the returned memory token. The backend is
// authoritative for session continuity, so the token is replaced even when
// it differs from the prior value.
func (s *SessionController) CompleteAsk(ans *Answer) {
	if !s.pending {
		return
	}
	s.turns = append(s.turns,
		ChatTurn{IsBot: false, Text: s.provisional},
		ChatTurn{IsBot: true, Text: ans.Answer, Source: ans.Source},
	)
	s.memoryToken = ans.MemoryID
	s.provisional = ""
	s.pending = false
}

// FailAsk promotes only the staged question. The dangling user turn signals
// that the question was sent but never answered.
func (s *SessionController) FailAsk() {
	if !s.pending {
		return
	}
	s.turns = append(s.turns, ChatTurn{IsBot: false, Text: s.provisional})
	s.provisional = ""
	s.pending = false
}

// Turns returns the canonical history. The provisional question is not part
// of it; the presentation layer renders it from Provisional while Pending.
func (s *SessionController) Turns() []ChatTurn { return s.turns }

// Pending reports whether a question is awaiting its answer.
func (s *SessionController) Pending() bool { return s.pending }

// Provisional returns the staged question text, or "" when none is staged.
func (s *SessionController) Provisional() string { return s.provisional }

// MemoryToken returns the current backend-issued correlation token, or ""
// for a fresh session.
func (s *SessionController) MemoryToken() string { return s.memoryToken }

// Reset discards the conversation: history, staged question, and memory
// token. The next ask starts a new server-side session.
func (s *SessionController) Reset() {
	s.turns = nil
	s.memoryToken = ""
	s.provisional = ""
	s.pending = false
}

// SelectionChanged implements SelectionObserver. Switching identity or
// model invalidates the conversational context, so the session resets; date
// range changes leave it intact.
func (s *SessionController) SelectionChanged(old, new Selection) {
	if old.UserID != new.UserID || old.ModelName != new.ModelName {
		s.Reset()
	}
}

// FirstSource returns the display text for a bot turn's citation, or ""
// when the turn carries none. Only the first entry of the source list is
// surfaced even when the backend returns more.
func FirstSource(turn ChatTurn) string {
	if !turn.IsBot || len(turn.Source) == 0 {
		return ""
	}
	return "Source: " + turn.Source[0].Name
}
