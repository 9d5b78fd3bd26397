package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the renderer and semantic colors shared by every panel
// and overlay.
type Theme struct {
	Renderer *lipgloss.Renderer
	Base     lipgloss.Style

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
}

// DefaultTheme builds the standard dark-first palette bound to the given
// renderer.
func DefaultTheme(renderer *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  renderer,
		Primary:   lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#4C566A", Dark: string(ColorSecondary)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#6B7280", Dark: string(ColorSubtext)},
		Muted:     lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: string(ColorMuted)},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: string(ColorBgHighlight)},
		Highlight: lipgloss.AdaptiveColor{Light: "#E9D5FF", Dark: string(ColorBgHighlight)},
		Success:   lipgloss.AdaptiveColor{Light: "#16A34A", Dark: string(ColorSuccess)},
		Warning:   lipgloss.AdaptiveColor{Light: "#D97706", Dark: string(ColorWarning)},
		Danger:    lipgloss.AdaptiveColor{Light: "#DC2626", Dark: string(ColorDanger)},
		Info:      lipgloss.AdaptiveColor{Light: "#0891B2", Dark: string(ColorInfo)},
	}
	t.Base = renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1F2937", Dark: string(ColorText)})
	return t
}
