package cmd

import (
	"errors"
	"strings"
	"testing"

	"alpinesearch-cli/cmd/config"
)

func testConfig() *config.Config { return config.DefaultConfig() }

func TestNextInRoster(t *testing.T) {
	roster := []string{"Ken", "Jeff", "Andrew"}

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"from sentinel", NoneSelected, "Ken"},
		{"middle", "Jeff", "Andrew"},
		{"wraps around", "Andrew", "Ken"},
		{"unknown value", "Mallory", "Ken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextInRoster(roster, tt.current); got != tt.want {
				t.Errorf("nextInRoster(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}

	if got := nextInRoster(nil, "x"); got != "" {
		t.Errorf("empty roster gave %q", got)
	}
}

func TestAskFailureText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server error with detail", &TransportError{Status: 500, Body: "model unavailable"}, "Error getting data.model unavailable"},
		{"server error empty body", &TransportError{Status: 502}, "Error getting data."},
		{"network error", &TransportError{Err: errors.New("dial refused")}, "Error Fetching Answer. Please try again."},
		{"plain error", errors.New("oops"), "Error Fetching Answer. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := askFailureText(tt.err); got != tt.want {
				t.Errorf("askFailureText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLastBotAnswer(t *testing.T) {
	turns := []ChatTurn{
		{IsBot: false, Text: "q1"},
		{IsBot: true, Text: "a1"},
		{IsBot: false, Text: "q2"},
		{IsBot: true, Text: "a2"},
		{IsBot: false, Text: "unanswered"},
	}
	if got := lastBotAnswer(turns); got != "a2" {
		t.Errorf("lastBotAnswer = %q", got)
	}
	if got := lastBotAnswer(nil); got != "" {
		t.Errorf("empty history gave %q", got)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/tmp/docs/report.pdf", "report.pdf"},
		{`C:\docs\report.pdf`, "report.pdf"},
		{"report.pdf", "report.pdf"},
	}
	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTurn(t *testing.T) {
	bot := ChatTurn{IsBot: true, Text: "See page 3.", Source: []SourceRef{{Name: "policy.pdf"}}}
	out := renderTurn(bot, 80)
	if !strings.Contains(out, "See page 3.") {
		t.Error("bot text missing from rendering")
	}
	if !strings.Contains(out, "Source: policy.pdf") {
		t.Error("source citation missing from rendering")
	}

	user := ChatTurn{IsBot: false, Text: "what is the policy?"}
	out = renderTurn(user, 80)
	if !strings.Contains(out, "what is the policy?") {
		t.Error("user text missing from rendering")
	}
	if strings.Contains(out, "Source:") {
		t.Error("user turn must not carry a citation")
	}
}

func TestRenderChatContentPendingPlaceholder(t *testing.T) {
	m := newChatModel(testConfig())
	m.width = 80
	m.selection.SetUser("Ken")
	m.selection.SetModel("Falcon-40B-Docs")

	if _, err := m.session.BeginAsk("pending question", m.selection.Current()); err != nil {
		t.Fatalf("BeginAsk failed: %v", err)
	}

	out := m.renderChatContent()
	if !strings.Contains(out, "pending question") {
		t.Error("provisional question not rendered while pending")
	}
	if !strings.Contains(out, "Thinking") {
		t.Error("thinking placeholder not rendered while pending")
	}

	m.session.CompleteAsk(&Answer{Answer: "done", MemoryID: "tok"})
	out = m.renderChatContent()
	if strings.Contains(out, "Thinking") {
		t.Error("thinking placeholder survives completion")
	}
	if !strings.Contains(out, "done") {
		t.Error("answer missing after completion")
	}
}

func TestRenderChatContentEmptyState(t *testing.T) {
	m := newChatModel(testConfig())
	m.width = 80
	out := m.renderChatContent()
	if !strings.Contains(out, emptyTitle) {
		t.Error("empty state title missing")
	}
}

func TestInfoBarShowsSessionToken(t *testing.T) {
	m := newChatModel(testConfig())
	m.width = 120
	m.selection.SetUser("Ken")
	m.selection.SetModel("Falcon-40B-Docs")

	bar := m.renderInfoBar()
	if !strings.Contains(bar, "Ken") || !strings.Contains(bar, "Falcon-40B-Docs") {
		t.Errorf("info bar missing selection: %q", bar)
	}
	if !strings.Contains(bar, "Session: new") {
		t.Errorf("fresh session not labeled: %q", bar)
	}

	m.session.BeginAsk("q", m.selection.Current())
	m.session.CompleteAsk(&Answer{Answer: "a", MemoryID: "abcdef123456"})
	bar = m.renderInfoBar()
	if !strings.Contains(bar, "Session: abcdef12") {
		t.Errorf("token not truncated to 8 chars: %q", bar)
	}
}
