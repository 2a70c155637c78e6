package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
)

func testServices() *services.Services {
	return &services.Services{API: &api.MockClient{}}
}

func TestStartsAtLoginForGuest(t *testing.T) {
	m := newAppModel(testServices(), store.Identity{UserID: store.GuestUserID}, Options{})
	if got := m.router.Active().Title(); got != "Sign in" {
		t.Errorf("first screen = %q, want Sign in", got)
	}
}

func TestStartsAtHomeForKnownUser(t *testing.T) {
	m := newAppModel(testServices(), store.Identity{UserID: "u1", Username: "Ada"}, Options{})
	if got := m.router.Active().Title(); got != "Home" {
		t.Errorf("first screen = %q, want Home", got)
	}

	forced := newAppModel(testServices(), store.Identity{UserID: "u1"}, Options{ForceLogin: true})
	if got := forced.router.Active().Title(); got != "Sign in" {
		t.Errorf("forced first screen = %q, want Sign in", got)
	}
}

func TestStartQuizPushesChat(t *testing.T) {
	m := newAppModel(testServices(), store.Identity{UserID: "u1"}, Options{StartQuiz: true})
	if m.router.Depth() != 2 || m.router.Active().Title() != "Chat" {
		t.Errorf("depth=%d active=%q, want chat over home", m.router.Depth(), m.router.Active().Title())
	}
}

func TestIdentityChangeTracked(t *testing.T) {
	var model tea.Model = newAppModel(testServices(), store.Identity{UserID: "u1", Username: "Ada"}, Options{})
	model, _ = model.Update(services.IdentityChangedMsg{Identity: store.Identity{UserID: "u2", Username: "Grace"}})

	if got := model.(AppModel).identity.Username; got != "Grace" {
		t.Errorf("identity = %q, want Grace", got)
	}
}

func TestEscPopsOnlyAboveRoot(t *testing.T) {
	m := newAppModel(testServices(), store.Identity{UserID: "u1"}, Options{})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc at root should do nothing")
	}
}

func TestStartQuizOpensAfterGuestLogin(t *testing.T) {
	m := newAppModel(testServices(), store.Identity{UserID: store.GuestUserID}, Options{StartQuiz: true})
	if m.router.Depth() != 1 || m.router.Active().Title() != "Sign in" {
		t.Fatalf("depth=%d active=%q, want sign in only", m.router.Depth(), m.router.Active().Title())
	}

	var model tea.Model = m
	model, cmd := model.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd == nil {
		t.Fatal("expected a command from continuing as guest")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", cmd())
	}

	var replace router.ReplaceScreenMsg
	for _, c := range batch {
		switch msg := c().(type) {
		case router.ReplaceScreenMsg:
			replace = msg
		default:
			model, _ = model.Update(msg)
		}
	}
	if replace.Screen == nil {
		t.Fatal("login did not hand over to home")
	}

	model, cmd = model.Update(replace)
	if cmd == nil {
		t.Fatal("home should open the quiz on start")
	}
	model, _ = model.Update(cmd())

	r := model.(AppModel).router
	if r.Depth() != 2 || r.Active().Title() != "Chat" {
		t.Errorf("depth=%d active=%q, want chat over home", r.Depth(), r.Active().Title())
	}
}
