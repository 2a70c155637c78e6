package login

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
)

type stubScreen struct{ id store.Identity }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestLogin(t *testing.T, m *api.MockClient) (*LoginScreen, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := &services.Services{API: m, Identity: st.IdentityRepo()}
	return New(svc, func(id store.Identity) screen.Screen { return &stubScreen{id: id} }), st
}

func typeText(l *LoginScreen, s string) {
	for _, r := range s {
		l.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// drain runs cmd and returns every message it produces, expanding batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestEmptyNameShowsError(t *testing.T) {
	l, _ := newTestLogin(t, &api.MockClient{})

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty name")
	}
	if !strings.Contains(l.View(80, 24), "Please enter your name.") {
		t.Error("expected validation message in view")
	}
}

func TestRegisterSavesIdentityAndReplaces(t *testing.T) {
	m := &api.MockClient{
		RegisterResults: []api.MockResult[api.RegisterResponse]{{Value: &api.RegisterResponse{UserID: "u-42", Name: "Ada"}}},
	}
	l, st := newTestLogin(t, m)
	typeText(l, "Ada")

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected register command")
	}
	if !l.busy {
		t.Error("expected busy while registering")
	}

	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	_, cmd = l.Update(msgs[0])

	var replaced, announced bool
	for _, msg := range drain(cmd) {
		switch msg := msg.(type) {
		case router.ReplaceScreenMsg:
			replaced = true
			if got := msg.Screen.(*stubScreen).id.UserID; got != "u-42" {
				t.Errorf("home got user %q, want u-42", got)
			}
		case services.IdentityChangedMsg:
			announced = true
		}
	}
	if !replaced || !announced {
		t.Errorf("replaced=%v announced=%v, want both", replaced, announced)
	}

	if got := m.RegisterCalls; len(got) != 1 || got[0] != "Ada" {
		t.Errorf("register calls = %v", got)
	}
	id, err := st.IdentityRepo().Load(context.Background())
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if id.UserID != "u-42" || id.Username != "Ada" {
		t.Errorf("stored identity = %+v", id)
	}
}

func TestRegisterFailureShowsMessage(t *testing.T) {
	l, st := newTestLogin(t, &api.MockClient{})
	typeText(l, "Ada")

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	for _, msg := range drain(cmd) {
		l.Update(msg)
	}

	if l.busy {
		t.Error("expected busy cleared after failure")
	}
	if !strings.Contains(l.View(80, 24), "Failed to connect to server.") {
		t.Error("expected connection error in view")
	}
	id, _ := st.IdentityRepo().Load(context.Background())
	if !id.Guest() {
		t.Errorf("expected no identity stored, got %+v", id)
	}
}

func TestTabContinuesAsGuest(t *testing.T) {
	l, _ := newTestLogin(t, &api.MockClient{})

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyTab})

	var next *stubScreen
	for _, msg := range drain(cmd) {
		if r, ok := msg.(router.ReplaceScreenMsg); ok {
			next = r.Screen.(*stubScreen)
		}
	}
	if next == nil {
		t.Fatal("expected replace to home")
	}
	if !next.id.Guest() {
		t.Errorf("expected guest identity, got %+v", next.id)
	}

	// Only one transition even if Tab is pressed again.
	_, cmd = l.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd != nil {
		t.Error("expected no second transition")
	}
}
