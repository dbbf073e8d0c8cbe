// Package ui holds terminal presentation: lipgloss styles and the glamour
// markdown renderer for assistant replies.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the CLI
var (
	Green = lipgloss.Color("10") // success
	Red   = lipgloss.Color("9")  // errors
	Grey  = lipgloss.Color("8")  // muted text
	Cyan  = lipgloss.Color("14") // prompt, headers
	White = lipgloss.Color("15")
)

var (
	// PromptStyle renders the REPL input prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	// BadgeStyle renders the context badge line (tone, name, memory count).
	BadgeStyle = lipgloss.NewStyle().
			Foreground(Grey)

	// HeaderStyle renders the chat banner and section titles.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	// ErrorStyle renders command errors.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	// SuccessStyle renders confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	// MutedStyle renders secondary detail (timestamps, ids, hints).
	MutedStyle = lipgloss.NewStyle().
			Foreground(Grey)

	// BoldStyle renders emphasized values.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)
)
