// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for CLI output. Adaptive colors keep notices legible on light and
// dark terminals.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorGood    = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorBad     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorCaution = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorKey     = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
)

var (
	// TitleStyle renders headings.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// SubtitleStyle renders secondary text and placeholders like "(using defaults)".
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	// SuccessStyle renders values and check marks.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorGood)
	// ErrorStyle renders the "Error:" prefix.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	// WarningStyle renders the "Warning:" prefix.
	WarningStyle = lipgloss.NewStyle().Foreground(colorCaution)
	// CmdStyle renders config keys.
	CmdStyle = lipgloss.NewStyle().Foreground(colorKey)
)
