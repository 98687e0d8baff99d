package ui

import "github.com/charmbracelet/lipgloss"

var (
	purple = lipgloss.Color("99")
	gray   = lipgloss.Color("240")
	green  = lipgloss.Color("86")
	red    = lipgloss.Color("196")
	orange = lipgloss.Color("214")
	light  = lipgloss.Color("252")
	dim    = lipgloss.Color("245")
)

var (
	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(purple).Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().Foreground(dim)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray)

	// Record list
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(green)
	normalStyle     = lipgloss.NewStyle().Foreground(light)
	tagStyle        = lipgloss.NewStyle().Foreground(gray)
	cmdPreviewStyle = lipgloss.NewStyle().Foreground(dim).Italic(true)

	outputTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(gray)

	// Help bar
	helpStyle    = lipgloss.NewStyle().Foreground(dim)
	helpKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(purple)

	// Form
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(purple)
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(gray).
			Padding(0, 1)
	focusedInputStyle = inputStyle.BorderForeground(purple)

	// Status line
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(orange)
)
