package chat

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/assistant"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/transcript"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestChat(m *api.MockClient) *ChatScreen {
	svc := &services.Services{API: m, Language: "en"}
	svc.Quiz.NumQuestions = 2
	svc.Quiz.Language = "en"
	return New(svc, store.Identity{UserID: "u1", Username: "Ada"}, assistant.ModeStudy)
}

// run executes cmd and feeds every resulting message back into the screen.
func run(c *ChatScreen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			run(c, sub)
		}
		return
	}
	_, next := c.Update(msg)
	if _, isTick := msg.(refreshTickMsg); isTick {
		return
	}
	run(c, next)
}

func texts(c *ChatScreen) []string {
	var out []string
	for _, e := range c.conv.Transcript.Entries() {
		out = append(out, e.Text)
	}
	return out
}

func TestQuizFlowThroughScreen(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 2}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "a", Question: "2+2?", Options: []string{"3", "4", "5"}}}},
		AnswerResults: []api.MockResult[api.AnswerResponse]{
			{Value: &api.AnswerResponse{Correct: true, NextQuestion: &api.Question{ID: "b", Question: "Capital of France?"}}},
			{Value: &api.AnswerResponse{Correct: false, Summary: &api.Summary{Correct: 1, Total: 2}}},
		},
	}
	c := newTestChat(m)

	run(c, c.handleKey(specialKey(tea.KeyTab)))
	if c.HeaderStatus() != "Quiz mode" {
		t.Fatalf("status = %q, want Quiz mode", c.HeaderStatus())
	}
	if !c.choosing() {
		t.Fatal("expected option picker for multiple-choice question")
	}
	if v := c.View(100, 30); !strings.Contains(v, "2)  4") {
		t.Errorf("expected numbered options in view:\n%s", v)
	}

	// Pick "4" by number.
	run(c, c.handleKey(keyPress('2')))
	if len(m.AnswerCalls) != 1 || m.AnswerCalls[0].UserAnswer != "4" {
		t.Fatalf("answer calls = %+v", m.AnswerCalls)
	}
	if c.choosing() {
		t.Error("expected free-text input after next question")
	}

	for _, r := range "Paris" {
		c.Update(keyPress(r))
	}
	run(c, c.handleKey(specialKey(tea.KeyEnter)))

	if len(m.AnswerCalls) != 2 || m.AnswerCalls[1].UserAnswer != "Paris" {
		t.Fatalf("answer calls = %+v", m.AnswerCalls)
	}
	all := texts(c)
	if got := all[len(all)-1]; got != "Quiz finished! You scored 1 out of 2." {
		t.Errorf("last entry = %q", got)
	}
	if c.pending != 0 || c.inputBusy {
		t.Errorf("pending=%d busy=%v, want idle", c.pending, c.inputBusy)
	}
}

func TestStudyQuestionThroughScreen(t *testing.T) {
	m := &api.MockClient{
		ChatResults: []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{Answer: "Cells divide by mitosis."}}},
	}
	c := newTestChat(m)

	for _, r := range "mitosis?" {
		c.Update(keyPress(r))
	}
	run(c, c.handleKey(specialKey(tea.KeyEnter)))

	if len(m.ChatCalls) != 1 || m.ChatCalls[0].Query != "mitosis?" {
		t.Fatalf("chat calls = %+v", m.ChatCalls)
	}
	entries := c.conv.Transcript.Entries()
	last := entries[len(entries)-1]
	if last.Kind != transcript.KindMessage || last.Text != "Cells divide by mitosis." {
		t.Errorf("last entry = %+v", last)
	}
	if c.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", c.input.Value())
	}
}

func TestEnterIgnoredWhileBusy(t *testing.T) {
	m := &api.MockClient{}
	c := newTestChat(m)
	c.inputBusy = true

	for _, r := range "hi" {
		c.Update(keyPress(r))
	}
	if cmd := c.handleKey(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected no command while a submission is in flight")
	}
}

func TestToggleBackToStudyDropsPendingQuiz(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 2}}},
	}
	c := newTestChat(m)

	startCmd := c.handleKey(specialKey(tea.KeyTab))
	c.handleKey(specialKey(tea.KeyTab))
	run(c, startCmd)

	if m.CreateCount() != 0 {
		t.Errorf("expected no quiz request after switching back, got %d", m.CreateCount())
	}
	if c.HeaderStatus() != "Study mode" {
		t.Errorf("status = %q, want Study mode", c.HeaderStatus())
	}
}

func TestRenderEntryStyles(t *testing.T) {
	yes := true
	tests := []struct {
		entry transcript.Entry
		want  string
	}{
		{transcript.Entry{Role: transcript.RoleUser, Kind: transcript.KindMessage, Text: "hi"}, "You: "},
		{transcript.Entry{Role: transcript.RoleAssistant, Kind: transcript.KindQuestion, Text: "2+2?"}, "Question: "},
		{transcript.Entry{Role: transcript.RoleSystem, Kind: transcript.KindError, Text: "boom"}, "! boom"},
		{transcript.Entry{Role: transcript.RoleAssistant, Kind: transcript.KindFeedback, Text: "Correct!", Correct: &yes}, "Correct!"},
	}
	for _, tt := range tests {
		if got := renderEntry(tt.entry); !strings.Contains(got, tt.want) {
			t.Errorf("renderEntry(%q) = %q, want it to contain %q", tt.entry.Text, got, tt.want)
		}
	}
}
