package terminal

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/widget"
)

const panelWidth = 52

type changedMsg struct{}

type sentMsg struct{ err error }

// Model is the bubbletea model of a terminal-hosted widget.
type Model struct {
	widget *widget.Widget
	view   *View
	cfg    widget.Config
	theme  theme

	input   textinput.Model
	spinner spinner.Model

	state   widget.State
	entries []widget.Entry
	typing  bool
	err     error

	width  int
	height int
}

// New creates the program model. view must be the view w was created with.
func New(w *widget.Widget, view *View) Model {
	cfg := w.Config()

	input := textinput.New()
	input.Placeholder = cfg.Placeholder
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Width = panelWidth - 6

	// Transitions run with the machine locked; only signal.
	w.OnStateChange(func(_, _ widget.State) { view.Notify() })

	entries, typing := view.Snapshot()
	return Model{
		widget:  w,
		view:    view,
		cfg:     cfg,
		theme:   newTheme(cfg),
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Points)),
		state:   w.State(),
		entries: entries,
		typing:  typing,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case changedMsg:
		m.sync()
		if m.state == widget.Open && !m.input.Focused() {
			cmds = append(cmds, m.input.Focus())
		}
		cmds = append(cmds, m.waitForChange())
		return m, tea.Batch(cmds...)

	case sentMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case widget.Open:
		switch msg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.widget.Close()
			return m, nil
		case tea.KeyEnter:
			text := m.input.Value()
			m.input.Reset()
			return m, m.send(text)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case widget.Teaser:
		switch msg.String() {
		case "x":
			m.widget.Dismiss()
		case "enter", "o":
			m.widget.Open()
		case "q", "esc":
			return m, tea.Quit
		}

	default:
		switch msg.String() {
		case "enter", "o":
			m.widget.Open()
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// send runs the blocking round trip off the update loop.
func (m Model) send(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	w := m.widget
	return func() tea.Msg {
		return sentMsg{err: w.Send(context.Background(), text)}
	}
}

func (m Model) waitForChange() tea.Cmd {
	wake := m.view.Wake()
	return func() tea.Msg {
		<-wake
		return changedMsg{}
	}
}

func (m *Model) sync() {
	m.state = m.widget.State()
	m.entries, m.typing = m.view.Snapshot()
}

func (m Model) View() string {
	var block string
	switch m.state {
	case widget.Open:
		block = m.panelView()
	case widget.Teaser:
		block = m.teaserView()
	default:
		block = m.triggerView()
	}

	if m.width == 0 || m.height == 0 {
		return block
	}

	vertical := lipgloss.Bottom
	if m.cfg.Position == widget.TopLeft || m.cfg.Position == widget.TopRight {
		vertical = lipgloss.Top
	}
	return lipgloss.Place(m.width, m.height, m.align(), vertical, block)
}

func (m Model) align() lipgloss.Position {
	if m.cfg.Position == widget.BottomLeft || m.cfg.Position == widget.TopLeft {
		return lipgloss.Left
	}
	return lipgloss.Right
}

func (m Model) triggerView() string {
	return m.theme.trigger.Render(m.cfg.TriggerIcon + " " + m.cfg.TriggerText)
}

func (m Model) teaserView() string {
	hint := m.theme.muted.Render("enter to chat · x to dismiss")
	return m.theme.teaser.Render(m.cfg.TeaserMessage + "\n" + hint)
}

func (m Model) panelView() string {
	var b strings.Builder
	b.WriteString(m.theme.header.Render(m.cfg.HeaderTitle))
	b.WriteString("\n\n")

	for _, e := range m.entries {
		b.WriteString(m.bubble(e))
		b.WriteString("\n")
	}
	if m.typing {
		b.WriteString(m.theme.bot.Render(m.spinner.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.theme.muted.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.muted.Render("esc to close · ctrl+c to quit"))

	return m.theme.panel.Render(b.String())
}

func (m Model) bubble(e widget.Entry) string {
	if e.Role == model.RoleUser {
		return lipgloss.PlaceHorizontal(panelWidth-4, lipgloss.Right, fit(m.theme.user, e.Content))
	}
	return fit(m.theme.bot, e.Content)
}
