package widget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/identity"
	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

func newTestWidget(t *testing.T, cfg Config, opts ...Option) (*Widget, *manualClock, *recordingView) {
	t.Helper()
	clock := newManualClock()
	view := &recordingView{}
	store := identity.NewStore(identity.NewMemoryStorage(),
		identity.WithClock(clock.Now),
		identity.WithLogger(logger.Nop()),
	)
	opts = append([]Option{
		WithClock(clock),
		WithView(view),
		WithIdentity(store),
		WithLogger(logger.Nop()),
	}, opts...)
	w := New(cfg, opts...)
	t.Cleanup(w.Destroy)
	return w, clock, view
}

func TestWidgetFirstVisit(t *testing.T) {
	w, clock, view := newTestWidget(t, Defaults(), WithClient(replyWith("hello")))
	w.Mount()

	assert.Equal(t, Collapsed, w.State())
	assert.True(t, w.Styles().Trigger.Visible)

	clock.Advance(2 * time.Second)
	assert.Equal(t, Teaser, w.State())
	assert.True(t, w.Styles().Teaser.Visible)

	require.True(t, w.Open())
	assert.Equal(t, Open, w.State())
	assert.Equal(t, []string{"assistant:Hi! I'm Yuno—how can I help you today?"}, view.Events())

	require.True(t, w.Close())
	require.True(t, w.Open())

	history := w.History()
	assert.Len(t, history, 2, "welcome is shown once per lifetime")
	assert.Equal(t, model.RoleSystem, history[0].Role)
}

func TestWidgetSendStampsIdentity(t *testing.T) {
	client := replyWith("sure")
	w, _, _ := newTestWidget(t, Resolve(Attributes{AttrSiteID: "acme"}), WithClient(client))
	w.Mount()
	id := w.Identity()

	require.NoError(t, w.Send(context.Background(), "help"))

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "acme", reqs[0].SiteID)
	assert.Equal(t, id.VisitorID, reqs[0].UserID)
	assert.Equal(t, id.SessionID, reqs[0].SessionID)
	assert.Len(t, id.VisitorID, 36)
}

func TestWidgetRepliesWhileClosedAreFlushedOnOpen(t *testing.T) {
	w, _, view := newTestWidget(t, Resolve(Attributes{AttrAutoShow: "false"}), WithClient(replyWith("answer")))
	w.Mount()

	require.True(t, w.Open())
	require.True(t, w.Close())
	require.NoError(t, w.Send(context.Background(), "question"))
	assert.Len(t, view.Events(), 1)

	require.True(t, w.Open())
	assert.Equal(t, []string{
		"assistant:Hi! I'm Yuno—how can I help you today?",
		"user:question",
		"assistant:answer",
	}, view.Events())
}

func TestWidgetEmptyWelcome(t *testing.T) {
	cfg := Defaults()
	cfg.WelcomeMessage = ""
	w, _, _ := newTestWidget(t, cfg)
	w.Mount()

	w.Open()
	assert.Len(t, w.History(), 1)
}

func TestWidgetDestroy(t *testing.T) {
	w, clock, _ := newTestWidget(t, Defaults())
	w.Mount()
	w.Destroy()
	w.Destroy()

	clock.Advance(time.Minute)
	assert.Equal(t, Collapsed, w.State())
	assert.False(t, w.Open())
	assert.ErrorIs(t, w.Send(context.Background(), "hi"), ErrClosed)
}

func TestWidgetMountIsIdempotent(t *testing.T) {
	w, clock, _ := newTestWidget(t, Defaults())
	w.Mount()
	w.Mount()

	clock.mu.Lock()
	armed := len(clock.timers)
	clock.mu.Unlock()
	assert.Equal(t, 1, armed)
}

func TestWidgetSessionIsFixedForPageLoad(t *testing.T) {
	client := replyWith("sure")
	w, clock, _ := newTestWidget(t, Resolve(Attributes{AttrSiteID: "acme", AttrAutoShow: "false"}), WithClient(client))
	w.Mount()
	id := w.Identity()

	clock.Advance(31 * time.Minute)
	require.NoError(t, w.Send(context.Background(), "still here"))

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, id.SessionID, reqs[0].SessionID)
	assert.Equal(t, id.VisitorID, reqs[0].UserID)
	assert.Equal(t, id, w.Identity())
}
