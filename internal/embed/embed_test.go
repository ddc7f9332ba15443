package embed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/widget"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

const hostPage = `<!DOCTYPE html>
<html>
<head>
  <script src="/analytics.js"></script>
  <script src="https://cdn.example.com/yuno.js"
          site_id="acme"
          theme="light"
          auto_show="false"
          defer></script>
</head>
<body>
  <h1>Acme</h1>
  <!-- </body> in a comment -->
</body>
</html>`

type staticClient struct{ content string }

func (c staticClient) Ask(context.Context, *model.AskRequest) (*model.AskResponse, error) {
	return &model.AskResponse{Content: c.content}, nil
}

func TestDiscover(t *testing.T) {
	attrs, ok, err := Discover(strings.NewReader(hostPage))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "acme", attrs[widget.AttrSiteID])
	assert.Equal(t, "light", attrs[widget.AttrTheme])
	assert.Equal(t, "false", attrs[widget.AttrAutoShow])
	assert.NotContains(t, attrs, "src")

	cfg := widget.Resolve(attrs)
	assert.Equal(t, widget.ThemeLight, cfg.Theme)
	assert.False(t, cfg.AutoShow)
}

func TestDiscoverMissing(t *testing.T) {
	attrs, ok, err := Discover(strings.NewReader(`<html><script src="/other.js"></script></html>`))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, attrs)
}

func TestRegistryOneWidgetPerPage(t *testing.T) {
	r := NewRegistry(logger.Nop())
	defer r.Close()

	opts := []widget.Option{widget.WithLogger(logger.Nop())}
	first, created := r.Boot("page-1", widget.Attributes{widget.AttrSiteID: "acme"}, opts...)
	require.True(t, created)
	second, created := r.Boot("page-1", widget.Attributes{widget.AttrSiteID: "other"}, opts...)
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, "acme", second.Config().SiteID)

	_, created = r.Boot("page-2", nil, opts...)
	assert.True(t, created)
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Defined(ElementName))

	assert.True(t, r.Destroy("page-1"))
	assert.False(t, r.Destroy("page-1"))
	_, ok := r.Get("page-1")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDefineIsIdempotent(t *testing.T) {
	r := NewRegistry(logger.Nop())

	assert.True(t, r.Define("yuno-chat"))
	assert.False(t, r.Define("yuno-chat"))
}

func TestRenderCollapsed(t *testing.T) {
	w := widget.New(widget.Resolve(widget.Attributes{widget.AttrSiteID: "acme"}), widget.WithLogger(logger.Nop()))
	defer w.Destroy()

	var buf bytes.Buffer
	require.NoError(t, Render(w).Render(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<yuno-chat site_id="acme" theme="dark" position="bottom-right" state="collapsed">`))
	assert.Contains(t, out, `<template shadowrootmode="open">`)
	assert.Contains(t, out, "Ask Yuno")
	assert.Contains(t, out, `placeholder="Type your message…"`)
	assert.Contains(t, out, ".bubble{display:inline-flex")
	assert.NotContains(t, out, "You are Yuno", "system prompt must never be rendered")
}

func TestRenderConversation(t *testing.T) {
	w := widget.New(widget.Defaults(),
		widget.WithClient(staticClient{content: "<b>bold</b> reply"}),
		widget.WithLogger(logger.Nop()),
	)
	defer w.Destroy()
	w.Open()
	require.NoError(t, w.Send(context.Background(), "hello"))

	var buf bytes.Buffer
	require.NoError(t, Render(w).Render(&buf))
	out := buf.String()

	assert.Contains(t, out, `state="open"`)
	assert.Contains(t, out, `<div class="msg user"><div class="chatbot-bubble">hello</div></div>`)
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt; reply")
	assert.Contains(t, out, ".chatbox{display:flex")
}

func TestInject(t *testing.T) {
	w := widget.New(widget.Defaults(), widget.WithLogger(logger.Nop()))
	defer w.Destroy()

	var out bytes.Buffer
	require.NoError(t, Inject(&out, strings.NewReader(hostPage), Render(w)))
	page := out.String()

	widgetAt := strings.Index(page, "<yuno-chat")
	require.NotEqual(t, -1, widgetAt)
	assert.Less(t, strings.Index(page, "<!-- </body> in a comment -->"), widgetAt)
	assert.True(t, strings.HasSuffix(page, "</yuno-chat></body>\n</html>"))

	var again bytes.Buffer
	require.NoError(t, Inject(&again, strings.NewReader(page), Render(w)))
	assert.Equal(t, page, again.String())
}

func TestInjectWithoutBody(t *testing.T) {
	w := widget.New(widget.Defaults(), widget.WithLogger(logger.Nop()))
	defer w.Destroy()

	var out bytes.Buffer
	require.NoError(t, Inject(&out, strings.NewReader("<p>fragment</p>"), Render(w)))

	assert.True(t, strings.HasPrefix(out.String(), "<p>fragment</p><yuno-chat"))
	assert.True(t, strings.HasSuffix(out.String(), "</yuno-chat>"))
}
