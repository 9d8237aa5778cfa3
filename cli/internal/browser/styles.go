package browser

import "github.com/charmbracelet/lipgloss"

const (
	codeBlue   = "#6D89FF"
	codePurple = "#A36C8C"
	codeGreen  = "#B3D77E"
	dimGrey    = "#767676"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(codeBlue))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Dark: codeGreen, Light: codePurple})
	paneTitle     = lipgloss.NewStyle().Bold(true)
	columnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(dimGrey))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	// The cursor of the pane without focus.
	inactiveStyle = lipgloss.NewStyle().Underline(true)
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(codeBlue))
)
