package home

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/chat"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
)

type loginStub struct{}

func (loginStub) Init() tea.Cmd                             { return nil }
func (s loginStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (loginStub) View(int, int) string                      { return "login" }
func (loginStub) Title() string                             { return "Sign in" }

func newTestHome(t *testing.T, id store.Identity) (*HomeScreen, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.IdentityRepo().Save(context.Background(), id))

	svc := &services.Services{API: &api.MockClient{}, Identity: st.IdentityRepo()}
	return New(svc, id, func() screen.Screen { return loginStub{} }), st
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestGreetingUsesName(t *testing.T) {
	h, _ := newTestHome(t, store.Identity{UserID: "u1", Username: "Ada"})
	assert.Contains(t, h.View(100, 40), "Welcome back, Ada!")
}

func TestQuizMeOpensChat(t *testing.T) {
	h, _ := newTestHome(t, store.Identity{UserID: "u1", Username: "Ada"})

	press(h, tea.KeyDown)
	cmd := press(h, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	c, ok := msg.Screen.(*chat.ChatScreen)
	require.True(t, ok)
	assert.Equal(t, "Chat", c.Title())
}

func TestGuestCannotOpenProfile(t *testing.T) {
	h, _ := newTestHome(t, store.Identity{UserID: "guest"})
	assert.True(t, h.menu.Items[2].Disabled)
	assert.True(t, strings.Contains(h.View(100, 40), "guest"))
}

func TestSignOutClearsIdentity(t *testing.T) {
	h, st := newTestHome(t, store.Identity{UserID: "u1", Username: "Ada"})

	for range 5 {
		press(h, tea.KeyDown)
	}
	cmd := press(h, tea.KeyEnter)
	require.NotNil(t, cmd)

	_, cmd = h.Update(cmd())
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	changed, ok := batch[0]().(services.IdentityChangedMsg)
	require.True(t, ok)
	assert.Equal(t, store.GuestUserID, changed.Identity.UserID)
	replace, ok := batch[1]().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Sign in", replace.Screen.Title())

	id, err := st.IdentityRepo().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.GuestUserID, id.UserID)
}

func TestOpenOnStartPushesOnce(t *testing.T) {
	h, _ := newTestHome(t, store.Identity{UserID: "u1", Username: "Ada"})
	h.OpenOnStart(loginStub{})

	cmd := h.Init()
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Sign in", push.Screen.Title())

	assert.Nil(t, h.Init())
}
