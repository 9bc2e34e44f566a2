package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quill/internal/core"
	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/macroeval"
	"quill/internal/reader"
	"quill/internal/source"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// historyEntry is one finished interaction.
type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// replModel drives the interactive expansion loop: each entry is read and
// expanded; a blocked expansion stays current until its signals arrive via
// the :signal command or a new entry replaces it.
type replModel struct {
	input   textinput.Model
	spinner spinner.Model
	history []historyEntry
	width   int

	// текущее заблокированное раскрытие
	strings *source.Interner
	state   *expand.State
	pending string // исходный текст заблокированного выражения
}

// NewReplModel returns a Bubble Tea model for the quill REPL.
func NewReplModel() tea.Model {
	ti := textinput.New()
	ti.Placeholder = "(lambda [x] x)"
	ti.Prompt = promptStyle.Render("quill> ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = blockedStyle

	return &replModel{
		input:   ti,
		spinner: sp,
		width:   80,
	}
}

func (m *replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.handleLine(line)
			return m, nil
		}

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) handleLine(line string) {
	switch {
	case line == ":quit" || line == ":q":
		// выход обрабатывает Update по Ctrl+C; здесь просто подсказка
		m.push(line, "press ctrl+c to quit", false)

	case strings.HasPrefix(line, ":signal "):
		m.handleSignal(line)

	default:
		m.handleExpression(line)
	}
}

// firstMessage returns the message of the first error-severity diagnostic in
// the bag, falling back to the first diagnostic of any severity.
func firstMessage(bag *diag.Bag) string {
	items := bag.Items()
	for _, d := range items {
		if d.Severity >= diag.SevError {
			return d.Message
		}
	}
	if len(items) > 0 {
		return items[0].Message
	}
	return ""
}

func (m *replModel) handleSignal(line string) {
	arg := strings.TrimSpace(strings.TrimPrefix(line, ":signal"))
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		m.push(line, fmt.Sprintf("bad signal %q", arg), true)
		return
	}
	if m.state == nil {
		m.push(line, "no blocked expansion", true)
		return
	}

	m.state.SendSignal(expand.Signal(n))
	res, rerr := m.state.Resume()
	if rerr != nil {
		m.push(m.pending, rerr.Error(), true)
		m.clearPending()
		return
	}
	if res.Status == expand.StatusBlocked {
		return // ждём дальше, возможно другой сигнал
	}
	m.push(m.pending, core.Print(res.Tree(), m.strings), false)
	m.clearPending()
}

func (m *replModel) handleExpression(line string) {
	in := source.NewInterner()
	fs := source.NewFileSet()
	bag := diag.NewBag(16)
	_, res := reader.ReadString(fs, "repl.ql", line, reader.Options{
		Strings:  in,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if bag.HasErrors() {
		m.push(line, firstMessage(bag), true)
		return
	}
	if len(res.Body) == 0 {
		return
	}

	st := expand.NewState(expand.Options{
		Strings:   in,
		Evaluator: macroeval.New(in),
	})

	var er *expand.Result
	var err error
	if len(res.Body) == 1 {
		er, err = st.ExpandExpression(res.Body[0])
	} else {
		er, err = st.ExpandModuleBody(res.Body)
	}
	if err != nil {
		m.push(line, err.Error(), true)
		return
	}

	if er.Status == expand.StatusBlocked {
		// новое заблокированное раскрытие вытесняет предыдущее
		m.strings = in
		m.state = st
		m.pending = line
		return
	}
	m.push(line, core.Print(er.Tree(), in), false)
}

func (m *replModel) push(input, output string, isErr bool) {
	m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	if len(m.history) > 20 {
		m.history = m.history[len(m.history)-20:]
	}
}

func (m *replModel) clearPending() {
	m.state = nil
	m.strings = nil
	m.pending = ""
}

func (m *replModel) View() string {
	var b strings.Builder

	for _, h := range m.history {
		b.WriteString(promptStyle.Render("quill> "))
		b.WriteString(h.input)
		b.WriteByte('\n')
		line := truncate(h.output, m.width-2)
		if h.isErr {
			b.WriteString(errorStyle.Render(line))
		} else {
			b.WriteString(resultStyle.Render(line))
		}
		b.WriteByte('\n')
	}

	if m.state != nil {
		sigs := m.state.BlockedSignals()
		b.WriteString(m.spinner.View())
		b.WriteString(blockedStyle.Render(fmt.Sprintf(" blocked on signals %v — send with :signal N", sigs)))
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render("enter an expression; :signal N delivers a signal; ctrl+c quits"))
	b.WriteByte('\n')
	return b.String()
}

func truncate(value string, width int) string {
	if width < 8 {
		width = 8
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width-3, "...")
}
