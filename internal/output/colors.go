package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// InitColors disables styling when stdout is not a terminal, so piped
// output stays plain.
func InitColors() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

var (
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	mergedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	protectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// ColorCurrent highlights the checked-out branch
func ColorCurrent(text string) string { return currentStyle.Render(text) }

// ColorMerged colors merge-tier marks
func ColorMerged(text string) string { return mergedStyle.Render(text) }

// ColorDim dims secondary details such as descriptions
func ColorDim(text string) string { return dimStyle.Render(text) }

// ColorProtected colors protected branch names
func ColorProtected(text string) string { return protectedStyle.Render(text) }
