// Package ui holds terminal styling and prompt helpers for the hrms CLI.
package ui

import "github.com/charmbracelet/lipgloss"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = "74"  // blue
	colorCmd    = "250" // light gray
	colorMuted  = "245" // medium gray
	colorError  = "203" // red
	colorWarn   = "179" // amber
	colorOK     = "114" // green
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCmd))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorOK))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Bold(true)
	bannerStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorError)).
			Padding(0, 1)
)

var noColor bool

func render(st lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return st.Render(s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(mutedStyle, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(commandStyle, s) }

// RenderOK returns s in green.
func RenderOK(s string) string { return render(okStyle, s) }

// RenderWarn returns s in amber.
func RenderWarn(s string) string { return render(warnStyle, s) }

// RenderError returns s in bold red.
func RenderError(s string) string { return render(errorStyle, s) }

// RenderBanner boxes an error message with a retry hint underneath.
// Without color it falls back to a plain "Error:" line.
func RenderBanner(msg, hint string) string {
	body := msg
	if hint != "" {
		body += "\n" + hint
	}
	if noColor {
		return "Error: " + body
	}
	return bannerStyle.Render(body)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
