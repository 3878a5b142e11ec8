package output

import "github.com/charmbracelet/lipgloss"

// Badge colours, one per badge kind.
var (
	ColorLibrary    = lipgloss.Color("#6495ED")
	ColorDeprecated = lipgloss.Color("#DC4B4B")
	ColorHost       = lipgloss.Color("#5AB45A")
	ColorUpdate     = lipgloss.Color("#6F42C1")
	ColorDimGray    = lipgloss.Color("240")
)

var (
	// StyleName renders a mod's display name.
	StyleName = lipgloss.NewStyle().Bold(true)

	// StyleDim renders secondary text such as ids and versions.
	StyleDim = lipgloss.NewStyle().Foreground(ColorDimGray)

	badgeBase = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
)

// BadgeStyle returns the style for a badge id ("library", "deprecated", "host", "update").
func BadgeStyle(id string) lipgloss.Style {
	switch id {
	case "library":
		return badgeBase.Background(ColorLibrary)
	case "deprecated":
		return badgeBase.Background(ColorDeprecated)
	case "host":
		return badgeBase.Background(ColorHost)
	case "update":
		return badgeBase.Background(ColorUpdate)
	default:
		return badgeBase.Background(ColorDimGray)
	}
}

// Badge renders label in the style of badge id.
func Badge(id, label string) string {
	return BadgeStyle(id).Render(label)
}
