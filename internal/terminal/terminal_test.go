package terminal

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/widget"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

type echoClient struct{}

func (echoClient) Ask(_ context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	last, _ := req.LastUser()
	return &model.AskResponse{Content: "you said " + last.Content}, nil
}

func newHosted(t *testing.T, attrs widget.Attributes) (*widget.Widget, Model) {
	t.Helper()
	view := NewView()
	w := widget.New(widget.Resolve(attrs),
		widget.WithClient(echoClient{}),
		widget.WithView(view),
		widget.WithLogger(logger.Nop()),
	)
	t.Cleanup(w.Destroy)
	m := New(w, view)
	w.Mount()
	return w, m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestViewNeverBlocks(t *testing.T) {
	v := NewView()
	for i := 0; i < 10; i++ {
		v.Render(widget.Entry{Role: model.RoleAssistant, Content: "x"})
		v.ShowTyping()
	}
	entries, typing := v.Snapshot()
	assert.Len(t, entries, 10)
	assert.True(t, typing)
	assert.Len(t, v.Wake(), 1)
}

func TestChatRoundTrip(t *testing.T) {
	w, m := newHosted(t, widget.Attributes{"auto_show": "false", "trigger_text": "Ask Us"})
	assert.Contains(t, m.View(), "Ask Us")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, widget.Open, w.State())

	m, _ = update(t, m, changedMsg{})
	require.Len(t, m.entries, 1)
	assert.Equal(t, w.Config().WelcomeMessage, m.entries[0].Content)

	m.input.SetValue("hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sent, ok := cmd().(sentMsg)
	require.True(t, ok)
	require.NoError(t, sent.err)

	m, _ = update(t, m, changedMsg{})
	require.Len(t, m.entries, 3)
	assert.Equal(t, "hello", m.entries[1].Content)
	assert.Equal(t, "you said hello", m.entries[2].Content)
	assert.False(t, m.typing)
	assert.Contains(t, m.View(), "you said hello")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, widget.Collapsed, w.State())
	m, _ = update(t, m, changedMsg{})
	assert.NotContains(t, m.View(), "you said hello")
}

func TestBlankInputIsIgnored(t *testing.T) {
	w, m := newHosted(t, widget.Attributes{"auto_show": "false"})
	w.Open()
	m, _ = update(t, m, changedMsg{})

	m.input.SetValue("   ")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, w.History(), 2)
}

func TestTeaserDismiss(t *testing.T) {
	w, m := newHosted(t, widget.Attributes{
		"auto_show_delay": "10",
		"teaser_message":  "Need a hand?",
		"trigger_text":    "Talk to us",
	})
	assert.Contains(t, m.View(), "Talk to us")

	require.Eventually(t, func() bool { return w.State() == widget.Teaser }, time.Second, 5*time.Millisecond)
	m, _ = update(t, m, changedMsg{})
	assert.Contains(t, m.View(), "Need a hand?")
	assert.NotContains(t, m.View(), "Talk to us", "trigger is hidden while the teaser shows")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, widget.Collapsed, w.State())
	m, _ = update(t, m, changedMsg{})
	assert.NotContains(t, m.View(), "Need a hand?")
	assert.Contains(t, m.View(), "Talk to us")
}

func TestQuit(t *testing.T) {
	_, m := newHosted(t, widget.Attributes{"auto_show": "false"})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
