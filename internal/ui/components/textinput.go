package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with StudyMate styling. While Busy is
// set the input ignores keys and shows a waiting marker.
type TextInput struct {
	Model    textinput.Model
	MaxWidth int
	Busy     bool
}

// NewTextInput creates a new styled, focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Busy {
		if _, ok := msg.(tea.KeyMsg); ok {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Busy {
		view += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("…")
	}
	return view
}

// SetWidth sets the visible width of the input field.
func (t *TextInput) SetWidth(w int) {
	if t.MaxWidth > 0 && w > t.MaxWidth {
		w = t.MaxWidth
	}
	if w < 10 {
		w = 10
	}
	t.Model.SetWidth(w)
}

// Value returns the current input value, trimmed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Take returns the trimmed value and clears the input.
func (t *TextInput) Take() string {
	v := t.Value()
	t.Model.Reset()
	return v
}
