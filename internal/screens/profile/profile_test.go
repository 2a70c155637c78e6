package profile

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/services"
	"github.com/abhisek/studymate/internal/store"
)

func TestProfileLoadsReport(t *testing.T) {
	m := &api.MockClient{
		ProfileResults: []api.MockResult[api.WeakTopicsResponse]{{Value: &api.WeakTopicsResponse{
			UserID:     "u1",
			WeakTopics: []string{"Optics"},
			Summary:    &api.ProfileSummary{Attempts: 4, Correct: 3, Accuracy: 75},
			User: &api.UserProfile{
				Name:   "Ada",
				Joined: "2026-01-02 10:00:00",
				Topics: []api.TopicStat{
					{Topic: "Optics", Attempts: 2, Correct: 1, Accuracy: 50},
					{Topic: "Mechanics", Attempts: 2, Correct: 2, Accuracy: 100},
				},
			},
		}}},
	}
	s := New(&services.Services{API: m}, store.Identity{UserID: "u1", Username: "Ada"})

	msg := s.Init()()
	s.Update(msg)

	if len(m.ProfileCalls) != 1 || m.ProfileCalls[0] != "u1" {
		t.Fatalf("profile calls = %v", m.ProfileCalls)
	}
	view := s.View(100, 30)
	for _, want := range []string{"75.0%", "Mechanics", "2026-01-02", "Optics"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProfileErrorThenRefresh(t *testing.T) {
	m := &api.MockClient{
		ProfileResults: []api.MockResult[api.WeakTopicsResponse]{
			{Err: &api.ErrStatus{Code: 500}},
			{Value: &api.WeakTopicsResponse{UserID: "u1"}},
		},
	}
	s := New(&services.Services{API: m}, store.Identity{UserID: "u1"})

	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "Could not load your profile") {
		t.Fatalf("expected error view, got:\n%s", s.View(100, 30))
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	s.Update(cmd())
	if view := s.View(100, 30); !strings.Contains(view, "No quiz history yet") {
		t.Errorf("expected empty report, got:\n%s", view)
	}
}
