// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	AccentColor        = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Overlay (log viewer and quick-return header)
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#8C8C8C"}

	// Quick-return states, shown in the status bar
	StateOnscreenColor  = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StateOffscreenColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}
	StateReturningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	StateExpandedColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

	// List rows
	ItemStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor).
			PaddingLeft(1)

	ItemSeparatorStyle = lipgloss.NewStyle().
				Foreground(BorderDefaultColor)

	HeaderFooterStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor).
				Italic(true).
				PaddingLeft(1)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)
)

// StateColor returns the status bar color for a quick-return state name.
func StateColor(state string) lipgloss.TerminalColor {
	switch state {
	case "onscreen":
		return StateOnscreenColor
	case "offscreen":
		return StateOffscreenColor
	case "returning":
		return StateReturningColor
	case "expanded":
		return StateExpandedColor
	default:
		return TextMutedColor
	}
}
