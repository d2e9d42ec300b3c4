package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jsa-runtime/jsa"
	"github.com/wippyai/jsa-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxHistoryLines = 500

type replModel struct {
	rt       *runtime.Runtime
	err      error
	input    textinput.Model
	filename string
	lines    []replLine
	history  []string
	histPos  int
}

type replLine struct {
	text  string
	style lipgloss.Style
}

type loadedMsg struct {
	err error
	rt  *runtime.Runtime
}

type evalResultMsg struct {
	err    error
	source string
	result string
}

func newReplModel(filename string) *replModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "JavaScript expression"
	ti.Width = 78
	ti.Focus()

	return &replModel{
		filename: filename,
		input:    ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return m.loadRuntime
}

func (m *replModel) loadRuntime() tea.Msg {
	rt, err := runtime.New(&runtime.Options{
		SourceURL:     "<repl>",
		EnableConsole: true,
	})
	if err != nil {
		return loadedMsg{err: err}
	}

	if m.filename != "" {
		data, err := os.ReadFile(m.filename)
		if err != nil {
			rt.Close()
			return loadedMsg{err: err}
		}
		if _, err := rt.EvalSource(string(data), m.filename, 0); err != nil {
			rt.Close()
			return loadedMsg{err: err}
		}
	}

	return loadedMsg{rt: rt}
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "up":
			if len(m.history) > 0 && m.histPos > 0 {
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histPos < len(m.history)-1 {
				m.histPos++
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			} else {
				m.histPos = len(m.history)
				m.input.SetValue("")
			}
			return m, nil

		case "enter":
			source := strings.TrimSpace(m.input.Value())
			if source == "" {
				return m, nil
			}
			m.history = append(m.history, source)
			m.histPos = len(m.history)
			m.input.SetValue("")

			if cmd := m.handleCommand(source); cmd != nil {
				return m, cmd
			}
			return m, m.evalCmd(source)
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		if m.filename != "" {
			m.appendLine("loaded "+m.filename, infoStyle)
		}

	case evalResultMsg:
		m.appendLine("> "+msg.source, inputStyle)
		if msg.err != nil {
			m.appendLine(formatJSError(msg.err).Error(), errorStyle)
		} else if msg.result != "" {
			m.appendLine(msg.result, resultStyle)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleCommand intercepts REPL meta commands. Returns nil for plain
// JavaScript input.
func (m *replModel) handleCommand(source string) tea.Cmd {
	switch source {
	case ":quit", ":q":
		if m.rt != nil {
			m.rt.Close()
		}
		return tea.Quit

	case ":clear":
		m.lines = nil
		return func() tea.Msg { return nil }

	case ":globals":
		return m.globalsCmd

	case ":help":
		m.appendLine(":globals list global properties", helpStyle)
		m.appendLine(":clear   clear the screen", helpStyle)
		m.appendLine(":quit    exit", helpStyle)
		return func() tea.Msg { return nil }
	}
	return nil
}

func (m *replModel) evalCmd(source string) tea.Cmd {
	return func() tea.Msg {
		if m.rt == nil {
			return evalResultMsg{source: source, err: fmt.Errorf("runtime not ready")}
		}
		v, err := m.rt.Eval(source)
		if err != nil {
			return evalResultMsg{source: source, err: err}
		}
		return evalResultMsg{source: source, result: renderValue(m.rt, v)}
	}
}

func (m *replModel) globalsCmd() tea.Msg {
	if m.rt == nil {
		return evalResultMsg{source: ":globals", err: fmt.Errorf("runtime not ready")}
	}
	ctx := m.rt.Context()

	global := ctx.Global()
	defer global.Release()

	names, err := global.PropertyNames(ctx)
	if err != nil {
		return evalResultMsg{source: ":globals", err: err}
	}

	var out []string
	for i := 0; i < names.Size(ctx); i++ {
		nv, err := names.ValueAtIndex(ctx, i)
		if err != nil {
			continue
		}
		if s, err := nv.UTF8(ctx); err == nil {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return evalResultMsg{source: ":globals", result: strings.Join(out, "  ")}
}

func renderValue(rt *runtime.Runtime, v jsa.Value) string {
	if v.IsUndefined() {
		return "undefined"
	}
	exported, err := runtime.Export(rt.Context(), v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return formatExported(exported)
}

func (m *replModel) appendLine(text string, style lipgloss.Style) {
	for _, l := range strings.Split(text, "\n") {
		m.lines = append(m.lines, replLine{text: l, style: style})
	}
	if len(m.lines) > maxHistoryLines {
		m.lines = m.lines[len(m.lines)-maxHistoryLines:]
	}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("JS Runner"))
	if m.filename != "" {
		b.WriteString(" ")
		b.WriteString(m.filename)
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+c quit"))
		return b.String()
	}

	if m.rt == nil {
		b.WriteString("Starting runtime...\n")
		return b.String()
	}

	for _, l := range m.lines {
		b.WriteString(l.style.Render(l.text))
		b.WriteString("\n")
	}
	if len(m.lines) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter eval • ↑/↓ history • :help commands • ctrl+c quit"))
	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newReplModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
