package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// High priority: red, it should stand out
	colorHigh = color.New(color.FgRed, color.Bold)

	// Medium priority: yellow
	colorMedium = color.New(color.FgYellow)

	// Low priority: green
	colorLow = color.New(color.FgGreen)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Success messages
	colorOK = color.New(color.FgGreen)

	// Warnings, e.g. a fallback placement or drift
	colorWarn = color.New(color.FgYellow, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatOK formats text for a successful outcome.
func formatOK(s string) string {
	return colorOK.Sprint(s)
}

// formatWarn formats text for a warning.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
