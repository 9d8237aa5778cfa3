package browser

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("the browser needs an interactive terminal; use 'linkerland summary' or 'linkerland export' instead")

// Run shows the browser on the terminal until the user quits.
func Run(snap *Snapshot, opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}
	p := tea.NewProgram(New(snap, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run browser")
	}
	return nil
}
