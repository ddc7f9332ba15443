package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylesForVisibility(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		state   State
		trigger bool
		teaser  bool
		panel   bool
	}{
		{Collapsed, true, false, false},
		{Teaser, false, true, false},
		{Open, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			s := StylesFor(cfg, tt.state)

			assert.Equal(t, tt.trigger, s.Trigger.Visible)
			assert.Equal(t, tt.teaser, s.Teaser.Visible)
			assert.Equal(t, tt.panel, s.Panel.Visible)
			assert.Equal(t, tt.panel, s.BotBubble.Visible)
			assert.Equal(t, display(tt.trigger, "inline-flex"), s.Trigger.Get("display"))
			assert.Equal(t, display(tt.panel, "flex"), s.Panel.Get("display"))
		})
	}
}

func TestStylesForThemes(t *testing.T) {
	dark := StylesFor(Resolve(Attributes{AttrTheme: "dark"}), Open)
	light := StylesFor(Resolve(Attributes{AttrTheme: "light"}), Open)

	assert.Equal(t, "rgba(0, 0, 0, 0.85)", dark.Panel.Get("background"))
	assert.Equal(t, "blur(30px)", dark.Panel.Get("backdrop-filter"))
	assert.Equal(t, "rgba(255, 107, 53, 0.2)", dark.BotBubble.Get("border")[len("1px solid "):])

	assert.Equal(t, "rgba(255, 255, 255, 0.85)", light.Panel.Get("background"))
	assert.Equal(t, "blur(20px)", light.Panel.Get("backdrop-filter"))
	assert.Equal(t, "1px solid rgba(255, 107, 53, 0.15)", light.BotBubble.Get("border"))
}

func TestStylesForOverrides(t *testing.T) {
	cfg := Resolve(Attributes{
		AttrBackgroundColor: "#101010",
		AttrTextColor:       "#eeeeee",
		AttrBlurEffect:      "false",
		AttrPrimaryColor:    "#00f",
		AttrAnimation:       "scale",
		AttrBorderRadius:    "4px",
	})
	s := StylesFor(cfg, Open)

	assert.Equal(t, "#101010", s.Panel.Get("background"))
	assert.Equal(t, "#eeeeee", s.Panel.Get("color"))
	assert.Equal(t, "none", s.Panel.Get("backdrop-filter"))
	assert.Equal(t, "#00f", s.UserBubble.Get("background"))
	assert.Equal(t, "yuno-scale 0.3s ease-out", s.Panel.Get("animation"))
	assert.Equal(t, "4px", s.Panel.Get("border-radius"))
	assert.Contains(t, s.Trigger.Get("box-shadow"), "rgba(0, 0, 255, 0.3)")
}

func TestStylesForPosition(t *testing.T) {
	tests := []struct {
		pos        Position
		vertical   string
		horizontal string
	}{
		{BottomRight, "bottom", "right"},
		{BottomLeft, "bottom", "left"},
		{TopRight, "top", "right"},
		{TopLeft, "top", "left"},
	}

	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			cfg := Defaults()
			cfg.Position = tt.pos
			s := StylesFor(cfg, Collapsed)

			assert.Equal(t, "fixed", s.Host.Get("position"))
			assert.Equal(t, "30px", s.Host.Get(tt.vertical))
			assert.Equal(t, "30px", s.Host.Get(tt.horizontal))
		})
	}
}

func TestGradient(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "linear-gradient(to right, #FF6B35, #FF8C42)", Gradient(cfg))

	cfg.AccentColor = ""
	assert.Equal(t, "#FF6B35", Gradient(cfg))
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, "rgba(255, 107, 53, 0.5)", withAlpha("#FF6B35", 0.5))
	assert.Equal(t, "rgba(170, 187, 204, 1)", withAlpha("#abc", 1))
	assert.Equal(t, "red", withAlpha("red", 0.5))
	assert.Equal(t, "#12345", withAlpha("#12345", 0.5))
}

func TestStylesAreDeterministicAndSanitized(t *testing.T) {
	cfg := Resolve(Attributes{AttrPrimaryColor: "red;}</style><script>"})

	a := StylesFor(cfg, Open).CSS()
	b := StylesFor(cfg, Open).CSS()

	assert.Equal(t, a, b)
	assert.NotContains(t, a, "</style>")
	assert.NotContains(t, a, "red;")
	assert.True(t, strings.HasPrefix(a, SelectorHost+"{"))
	assert.Contains(t, a, "@keyframes yuno-slide")
}

func TestStylesStripCommentMarkers(t *testing.T) {
	for _, color := range []string{"red/*", "red*/", "red/<*", "red/;*"} {
		css := StylesFor(Resolve(Attributes{AttrPrimaryColor: color}), Open).CSS()
		assert.NotContains(t, css, "/*", color)
		assert.NotContains(t, css, "*/", color)
	}
}
