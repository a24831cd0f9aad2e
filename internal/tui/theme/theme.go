// Package theme supplies the lipgloss styles shared by the progress UI's
// single-screen view: a banner title, the active step name, a dimmed
// counter, and the two terminal marks a run ends in.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	crust    = lipgloss.Color("#11111b")
	mauve    = lipgloss.Color("#cba6f7")
	red      = lipgloss.Color("#f38ba8")
	green    = lipgloss.Color("#a6e3a1")
	overlay0 = lipgloss.Color("#6c7086")
	lavender = lipgloss.Color("#b4befe")
)

// Title renders the program banner.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(crust).
	Background(mauve).
	Padding(0, 1)

// Header renders the name of the step currently running.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lavender)

// Running marks a step, or the whole run, as having finished successfully.
var Running = lipgloss.NewStyle().
	Foreground(green)

// Stopped marks a step, or the whole run, as having failed.
var Stopped = lipgloss.NewStyle().
	Foreground(red)

// Dim renders secondary text: step counters, timestamps, captions.
var Dim = lipgloss.NewStyle().
	Foreground(overlay0)
