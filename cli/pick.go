package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sergev/lox/log"
)

// ErrNoScripts is returned when the pick directory holds no scripts.
var ErrNoScripts = errors.New("no .lox scripts found")

// scriptExt is the file extension of Lox scripts.
const scriptExt = ".lox"

// PickCmd lets the user choose a script with a fuzzy finder and runs it.
type PickCmd struct {
	Dir string `arg:"" default:"examples" help:"Directory searched for *.lox scripts." optional:"" type:"path"`
}

// Run executes the pick command.
func (c *PickCmd) Run(ctx context.Context, cli *CLI, std *streams) error {
	scripts, err := findScripts(c.Dir)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if std.in != os.Stdin {
		opts = append(opts, tea.WithInput(std.in))
	}
	if std.out != os.Stdout {
		opts = append(opts, tea.WithOutput(std.out))
	}

	final, err := tea.NewProgram(newPicker(scripts), opts...).Run()
	if err != nil {
		return err
	}

	choice := final.(picker).choice
	if choice == "" {
		log.DebugContext(ctx, "pick cancelled")

		return nil
	}

	log.DebugContext(ctx, "pick", slog.String("script", choice))

	path := filepath.Join(c.Dir, choice)
	if err := runScript(ctx, cli, std, path); err != nil {
		if isDiagnostic(err) {
			return fmt.Errorf("%w: %s", ErrDiagnostics, path)
		}

		return err
	}

	return nil
}

// findScripts returns the *.lox files below dir, relative to dir and
// sorted.
func findScripts(dir string) ([]string, error) {
	var scripts []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(path) != scriptExt {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		scripts = append(scripts, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(scripts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoScripts, dir)
	}

	slices.Sort(scripts)

	return scripts, nil
}

const (
	pickPrompt     = "script: "
	pickMaxVisible = 10
)

var (
	pickPromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	pickItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	pickMatchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	pickSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	pickHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// picker is the Bubble Tea model of the script finder.
type picker struct {
	input    textinput.Model
	scripts  []string
	matches  fuzzy.Matches
	cursor   int
	choice   string
	quitting bool
}

func newPicker(scripts []string) picker {
	ti := textinput.New()
	ti.Prompt = pickPromptStyle.Render(pickPrompt)
	ti.Placeholder = "type to filter"
	ti.Focus()

	m := picker{input: ti, scripts: scripts}
	m.refilter()

	return m
}

func (m picker) Init() tea.Cmd {
	return textinput.Blink
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true

			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.matches) == 0 {
				return m, nil
			}

			m.choice = m.matches[m.cursor].Str
			m.quitting = true

			return m, tea.Quit

		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}

			return m, nil

		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}

			return m, nil
		}
	}

	var cmd tea.Cmd

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.refilter()
	}

	return m, cmd
}

// refilter ranks scripts against the current query. An empty query keeps
// every script in sorted order.
func (m *picker) refilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.scripts))
		for i, s := range m.scripts {
			m.matches[i] = fuzzy.Match{Str: s, Index: i}
		}
	} else {
		m.matches = fuzzy.Find(query, m.scripts)
	}

	m.cursor = 0
}

func (m picker) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.matches) == 0 {
		b.WriteString(pickHintStyle.Render("no scripts match"))
		b.WriteString("\n")

		return b.String()
	}

	// Keep the cursor inside the visible window.
	start := 0
	if m.cursor >= pickMaxVisible {
		start = m.cursor - pickMaxVisible + 1
	}

	end := min(start+pickMaxVisible, len(m.matches))
	for i := start; i < end; i++ {
		b.WriteString(renderMatch(m.matches[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(pickHintStyle.Render(
		fmt.Sprintf("%d/%d  enter: run  esc: cancel", len(m.matches), len(m.scripts)),
	))
	b.WriteString("\n")

	return b.String()
}

// renderMatch renders one candidate with matched characters highlighted.
func renderMatch(match fuzzy.Match, selected bool) string {
	base, highlight := pickItemStyle, pickMatchStyle
	marker := "  "

	if selected {
		base = pickSelectedStyle
		highlight = pickSelectedStyle.Bold(true)
		marker = "> "
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	b.WriteString(marker)

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
