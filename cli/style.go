package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to a writer so color is dropped when it is not a
// terminal.
type styles struct {
	err   lipgloss.Style
	hint  lipgloss.Style
	title lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		err:   r.NewStyle().Foreground(lipgloss.Color("1")),
		hint:  r.NewStyle().Foreground(lipgloss.Color("8")),
		title: r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	}
}

// banner is the REPL greeting. The liner prompt itself stays plain since
// liner measures its width in runes.
func (s styles) banner() string {
	return s.title.Render("Lox REPL") + " " + s.hint.Render("(enter `exit` to quit)")
}

// reporter returns a diagnostic sink writing one styled line per error.
func (s styles) reporter(w io.Writer) func(error) {
	return func(err error) {
		fmt.Fprintln(w, s.err.Render(err.Error()))
	}
}
