package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorYellow   = "#ffd580"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)

	bordersAndPaddingWidth = 4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Scroll text that does not fit into availableWidth
func (m model) marqueeText(text string, availableWidth int) string {
	runes := []rune(text)
	if availableWidth <= 0 || len(runes) <= availableWidth {
		return text
	}
	padded := append(append(runes, []rune("    ")...), runes...)
	offset := m.marqueeOffset % (len(runes) + 4)
	return string(padded[offset : offset+availableWidth])
}

// Cut text to availableWidth runes, marking the cut with two dots
func truncate(text string, availableWidth int) string {
	runes := []rune(text)
	if availableWidth <= 3 || len(runes) <= availableWidth {
		return text
	}
	return string(runes[:availableWidth-2]) + ".."
}

// Left column is the entry list, right column the detail or form
func (m model) columnWidths() (int, int) {
	leftWidth := (m.width * 40) / 100
	return leftWidth, m.width - leftWidth
}
