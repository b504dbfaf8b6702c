// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorRed    = lipgloss.Color("#f7768e")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorPurple = lipgloss.Color("#bb9af7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
	ColorDark   = lipgloss.Color("#1a1b26")
)

// Banner ASCII art for the header.
const Banner = `
 ╔═╗╦ ╦╔═╗╔╦╗╦  ╔═╗╔╗╔╔═╗
 ║  ╠═╣╠═╣ ║ ║  ║╣ ║║║╚═╗
 ╚═╝╩ ╩╩ ╩ ╩ ╩═╝╚═╝╝╚╝╚═╝`

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// Section and content styles.
var (
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true)

	SectionActiveStyle = lipgloss.NewStyle().
				Foreground(ColorDark).
				Background(ColorBlue).
				Bold(true).
				Padding(0, 1)

	SectionInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)

	AuthorStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TopicStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Italic(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Summary annotation styles. The bracketed part is emphasized and the
// detail after the middle dot is muted.
var (
	AnnotationStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	AnnotationDetailStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Notice styles keyed by severity.
var (
	NoticeInfoStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	NoticeSuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	NoticeErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	SpinnerStyle       = lipgloss.NewStyle().Foreground(ColorBlue)
)

// FormTheme returns the huh theme used by every interactive form.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorBlue)
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorGray)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPurple)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorGreen)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPurple)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(ColorGray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorRed)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorRed)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(ColorDark).Background(ColorBlue)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorGray).Bold(false)

	return t
}
