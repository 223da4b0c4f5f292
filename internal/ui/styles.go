// Package ui provides consistent styling for the wlscene CLI
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Color palette - consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconSection = "»"
)

// FormatHeader renders a section title over a separator.
func FormatHeader(title string) string {
	return HeaderStyle.Render(IconSection+" "+title) + "\n" + CreateSeparator(50, "─")
}

// FormatKeyValue renders one "key: value" line.
func FormatKeyValue(key, value string) string {
	if value == "" {
		value = SubtleStyle.Render("(unset)")
	} else {
		value = ValueStyle.Render(value)
	}
	return "  " + KeyStyle.Render(key+":") + " " + value
}

// FormatCheck renders a pass/fail line.
func FormatCheck(ok bool, what string) string {
	if ok {
		return "  " + SuccessStyle.Render(IconSuccess) + " " + what
	}
	return "  " + ErrorStyle.Render(IconError) + " " + what
}

// Table renders rows under headers with the application table style.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().
					Foreground(ColorPrimary).
					Bold(true).
					Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().
					Foreground(ColorInfo).
					Padding(0, 1)
			default:
				return lipgloss.NewStyle().
					Foreground(ColorText).
					Padding(0, 1)
			}
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}
	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
