package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// OptionList lets the user pick one answer option, either by moving the
// cursor and pressing Enter or by typing the option's number. Grading
// happens server-side, so the list only reports which option was chosen.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 until a choice is made
}

// NewOptionList creates an option list with nothing chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{
		Options: append([]string(nil), options...),
		Chosen:  -1,
	}
}

// Done reports whether an option has been chosen.
func (o OptionList) Done() bool {
	return o.Chosen >= 0
}

// Update handles keyboard navigation and selection. Once an option is
// chosen further keys are ignored.
func (o OptionList) Update(msg tea.Msg) (OptionList, bool) {
	if o.Done() || len(o.Options) == 0 {
		return o, false
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "enter":
		o.Chosen = o.Cursor
		return o, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(o.Options) {
				o.Cursor = idx
				o.Chosen = idx
				return o, true
			}
		}
	}
	return o, false
}

// View renders the options, numbered from 1.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Done() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case o.Done() && i == o.Chosen:
			style = theme.Selected
		case o.Done():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
