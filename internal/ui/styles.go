package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorGreenConstant  = lipgloss.Color("10")
	colorYellowConstant = lipgloss.Color("11")
	colorRedConstant    = lipgloss.Color("9")
	colorGrayConstant   = lipgloss.Color("8")
	colorBlueConstant   = lipgloss.Color("12")
)

type styles struct {
	header         lipgloss.Style
	cursor         lipgloss.Style
	cursorSelected lipgloss.Style
	selected       lipgloss.Style
	normal         lipgloss.Style
	title          lipgloss.Style
	byline         lipgloss.Style
	status         lipgloss.Style
	success        lipgloss.Style
	failure        lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:         lipgloss.NewStyle().Bold(true).Foreground(colorBlueConstant),
		cursor:         lipgloss.NewStyle().Bold(true).Foreground(colorGreenConstant),
		cursorSelected: lipgloss.NewStyle().Bold(true).Foreground(colorYellowConstant),
		selected:       lipgloss.NewStyle().Foreground(colorRedConstant),
		normal:         lipgloss.NewStyle(),
		title:          lipgloss.NewStyle().Faint(true),
		byline:         lipgloss.NewStyle().Foreground(colorGrayConstant),
		status:         lipgloss.NewStyle().Italic(true),
		success:        lipgloss.NewStyle().Foreground(colorGreenConstant),
		failure:        lipgloss.NewStyle().Foreground(colorRedConstant),
	}
}

// rowStyle colors the highlighted row yellow when it is selected and green otherwise;
// selected rows away from the cursor are red.
func (palette styles) rowStyle(highlighted bool, selected bool) lipgloss.Style {
	switch {
	case highlighted && selected:
		return palette.cursorSelected
	case highlighted:
		return palette.cursor
	case selected:
		return palette.selected
	default:
		return palette.normal
	}
}
