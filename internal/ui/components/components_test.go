package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestOptionListEnterChoosesCursor(t *testing.T) {
	o := NewOptionList([]string{"3", "4", "5"})

	o, _ = o.Update(keyCode(tea.KeyDown))
	o, chosen := o.Update(keyCode(tea.KeyEnter))

	if !chosen {
		t.Fatal("expected a choice on enter")
	}
	if o.Chosen != 1 {
		t.Errorf("chosen = %d, want 1", o.Chosen)
	}
}

func TestOptionListNumberKey(t *testing.T) {
	o := NewOptionList([]string{"3", "4", "5"})

	o, chosen := o.Update(keyRune('3'))
	if !chosen || o.Chosen != 2 {
		t.Fatalf("chosen=%v index=%d, want true/2", chosen, o.Chosen)
	}

	// Further keys are ignored once chosen.
	o, chosen = o.Update(keyRune('1'))
	if chosen || o.Chosen != 2 {
		t.Errorf("expected choice to stick, got chosen=%v index=%d", chosen, o.Chosen)
	}
}

func TestOptionListIgnoresOutOfRangeNumber(t *testing.T) {
	o := NewOptionList([]string{"yes", "no"})
	o, chosen := o.Update(keyRune('5'))
	if chosen || o.Done() {
		t.Error("expected no choice for out-of-range number")
	}
}

func TestOptionListCursorBounds(t *testing.T) {
	o := NewOptionList([]string{"a", "b"})
	o, _ = o.Update(keyCode(tea.KeyUp))
	if o.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", o.Cursor)
	}
	o, _ = o.Update(keyCode(tea.KeyDown))
	o, _ = o.Update(keyCode(tea.KeyDown))
	if o.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", o.Cursor)
	}
}

func TestOptionListViewNumbersOptions(t *testing.T) {
	v := NewOptionList([]string{"Paris", "Lyon"}).View()
	if !strings.Contains(v, "1)  Paris") || !strings.Contains(v, "2)  Lyon") {
		t.Errorf("unexpected view:\n%s", v)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "Study", Action: func() tea.Cmd { picked = "study"; return nil }},
		{Label: "Offline", Disabled: true},
		{Label: "Exit", Action: func() tea.Cmd { picked = "exit"; return nil }},
	})

	m, _ = m.Update(keyCode(tea.KeyDown))
	if m.Selected != 2 {
		t.Fatalf("selected = %d, want 2", m.Selected)
	}
	m.Update(keyCode(tea.KeyEnter))
	if picked != "exit" {
		t.Errorf("picked = %q, want exit", picked)
	}
}

func TestTextInputTake(t *testing.T) {
	ti := NewTextInput("Ask", 0)
	ti.Model.SetValue("  hi  ")
	if got := ti.Take(); got != "hi" {
		t.Errorf("Take() = %q, want hi", got)
	}
	if ti.Value() != "" {
		t.Errorf("expected empty input after Take, got %q", ti.Value())
	}
}

func TestTextInputBusyIgnoresKeys(t *testing.T) {
	ti := NewTextInput("Ask", 0)
	ti.Busy = true
	ti, _ = ti.Update(keyRune('x'))
	if ti.Value() != "" {
		t.Errorf("expected busy input to ignore keys, got %q", ti.Value())
	}
}

func TestQuizProgressLabel(t *testing.T) {
	v := QuizProgress(1, 5, 40).View()
	if !strings.Contains(v, "Question 2/5") {
		t.Errorf("unexpected progress view: %q", v)
	}
}
