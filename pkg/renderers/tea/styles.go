package tea

import "github.com/charmbracelet/lipgloss"

var (
	colorError   = lipgloss.Color("#cc4400")
	colorSuccess = lipgloss.Color("#29a329")
	colorAccent  = lipgloss.Color("#3b82f6")
	colorDim     = lipgloss.Color("#6b7280")
	colorText    = lipgloss.Color("#f9fafb")
)

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Box       lipgloss.Style
	ErrorBox  lipgloss.Style
	DoneBox   lipgloss.Style
	Label     lipgloss.Style
	Caption   lipgloss.Style
	Cursor    lipgloss.Style
	Error     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Footer    lipgloss.Style
}

// DefaultStyles mirrors the keyframes renderer: a rounded box whose border
// turns to the error or success colour.
func DefaultStyles() Styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1)
	return Styles{
		Box:      box,
		ErrorBox: box.BorderForeground(colorError),
		DoneBox:  box.BorderForeground(colorSuccess),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText),
		Caption: lipgloss.NewStyle().
			Foreground(colorDim),
		Cursor: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colorError),
		Tab: lipgloss.NewStyle().
			Foreground(colorDim),
		ActiveTab: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(colorDim).
			MarginTop(1),
	}
}

const (
	markActive   = "●"
	markInactive = "○"
	markChecked  = "[x]"
	markEmpty    = "[ ]"
	markRadioOn  = "(•)"
	markRadioOff = "( )"
)
