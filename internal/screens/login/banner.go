package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

const bannerArt = `
 ╔═╗┌┬┐┬ ┬┌┬┐┬ ┬╔╦╗┌─┐┌┬┐┌─┐
 ╚═╗ │ │ │ ││└┬┘║║║├─┤ │ ├┤
 ╚═╝ ┴ └─┘─┴┘ ┴ ╩ ╩┴ ┴ ┴ └─┘`

const bannerCompact = "S T U D Y M A T E"

// RenderBanner returns the StudyMate banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 32 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 32 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
