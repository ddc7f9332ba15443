package widget

import (
	"fmt"
	"strconv"
	"strings"
)

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// ElementStyle is the computed style of one widget element. Declarations
// keep insertion order so rendering is stable.
type ElementStyle struct {
	Visible bool
	Decls   []Declaration
}

// Get returns the value of property, or "" when it is not set.
func (e ElementStyle) Get(property string) string {
	for _, d := range e.Decls {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}

func (e *ElementStyle) set(property, value string) {
	value = sanitizeCSS(value)
	for i := range e.Decls {
		if e.Decls[i].Property == property {
			e.Decls[i].Value = value
			return
		}
	}
	e.Decls = append(e.Decls, Declaration{Property: property, Value: value})
}

// StyleSet holds the computed styles of every widget element for one state.
type StyleSet struct {
	State      State
	Host       ElementStyle
	Trigger    ElementStyle
	Teaser     ElementStyle
	Panel      ElementStyle
	Header     ElementStyle
	Input      ElementStyle
	BotBubble  ElementStyle
	UserBubble ElementStyle
	Typing     ElementStyle
}

type palette struct {
	panel       string
	botBubble   string
	header      string
	text        string
	muted       string
	closeBg     string
	blur        string
	borderAlpha float64
}

var palettes = map[Theme]palette{
	ThemeDark: {
		panel:       "rgba(0, 0, 0, 0.85)",
		botBubble:   "rgba(20, 20, 20, 0.95)",
		header:      "rgba(0, 0, 0, 0.9)",
		text:        "#ffffff",
		muted:       "#a0a0a0",
		closeBg:     "rgba(40, 40, 40, 0.8)",
		blur:        "30px",
		borderAlpha: 0.2,
	},
	ThemeLight: {
		panel:       "rgba(255, 255, 255, 0.85)",
		botBubble:   "rgba(248, 248, 248, 0.95)",
		header:      "rgba(255, 255, 255, 0.9)",
		text:        "#1a1a1a",
		muted:       "#666666",
		closeBg:     "rgba(240, 240, 240, 0.8)",
		blur:        "20px",
		borderAlpha: 0.15,
	},
}

// cssUnsafe strips sequences that would let a configured value escape its
// declaration or the enclosing style element, or comment out what follows.
var cssUnsafe = strings.NewReplacer("<", "", ">", "", "{", "", "}", "", ";", "", "\\", "", "/*", "", "*/", "")

// sanitizeCSS applies cssUnsafe until nothing changes, since a removal can
// join its neighbours into a new comment marker.
func sanitizeCSS(value string) string {
	for {
		next := cssUnsafe.Replace(value)
		if next == value {
			return value
		}
		value = next
	}
}

// edgeOffset is the distance from the anchored viewport corner.
const edgeOffset = "30px"

// StylesFor maps a configuration and a visual state to concrete styles. It
// is a pure function: equal inputs always produce equal output.
func StylesFor(cfg Config, state State) StyleSet {
	pal, ok := palettes[cfg.Theme]
	if !ok {
		pal = palettes[ThemeDark]
	}

	panelBg := pal.panel
	if cfg.BackgroundColor != "" {
		panelBg = cfg.BackgroundColor
	}
	text := pal.text
	if cfg.TextColor != "" {
		text = cfg.TextColor
	}

	accent := Gradient(cfg)
	border := withAlpha(cfg.PrimaryColor, pal.borderAlpha)
	glow := withAlpha(cfg.PrimaryColor, 0.3)
	blur := "none"
	if cfg.BlurEffect {
		blur = "blur(" + pal.blur + ")"
	}
	anim := animationValue(cfg.Animation)

	s := StyleSet{State: state}

	s.Host.Visible = true
	s.Host.set("position", "fixed")
	vertical, horizontal := cfg.Position.edges()
	s.Host.set(vertical, edgeOffset)
	s.Host.set(horizontal, edgeOffset)
	s.Host.set("z-index", "9999")
	s.Host.set("font-family", "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif")

	s.Trigger.Visible = state == Collapsed
	s.Trigger.set("display", display(s.Trigger.Visible, "inline-flex"))
	s.Trigger.set("background", accent)
	s.Trigger.set("color", "#ffffff")
	s.Trigger.set("border-radius", "22px")
	s.Trigger.set("box-shadow", "0 6px 20px "+glow)

	s.Teaser.Visible = state == Teaser
	s.Teaser.set("display", display(s.Teaser.Visible, "inline-flex"))
	s.Teaser.set("background", panelBg)
	s.Teaser.set("color", text)
	s.Teaser.set("backdrop-filter", blur)
	s.Teaser.set("border-radius", "24px")
	s.Teaser.set("animation", anim)

	s.Panel.Visible = state == Open
	s.Panel.set("display", display(s.Panel.Visible, "flex"))
	s.Panel.set("width", cfg.Width)
	s.Panel.set("max-height", cfg.Height)
	s.Panel.set("background", panelBg)
	s.Panel.set("color", text)
	s.Panel.set("backdrop-filter", blur)
	s.Panel.set("border-radius", cfg.BorderRadius)
	s.Panel.set("box-shadow", "0 20px 40px rgba(0, 0, 0, 0.3), 0 0 0 1px "+border)
	s.Panel.set("animation", anim)

	s.Header.Visible = s.Panel.Visible
	s.Header.set("background", pal.header)
	s.Header.set("color", text)
	s.Header.set("backdrop-filter", blur)

	s.Input.Visible = s.Panel.Visible
	s.Input.set("color", text)
	s.Input.set("border-top", "1px solid "+border)
	s.Input.set("--placeholder-color", pal.muted)
	s.Input.set("--close-background", pal.closeBg)

	s.BotBubble.Visible = s.Panel.Visible
	s.BotBubble.set("background", pal.botBubble)
	s.BotBubble.set("color", text)
	s.BotBubble.set("border", "1px solid "+border)

	s.UserBubble.Visible = s.Panel.Visible
	s.UserBubble.set("background", cfg.PrimaryColor)
	s.UserBubble.set("color", "#ffffff")

	s.Typing.Visible = s.Panel.Visible
	s.Typing.set("background", cfg.PrimaryColor)

	return s
}

// Gradient is the trigger fill: a two-stop gradient from primary to accent,
// or the flat primary color when no accent is set.
func Gradient(cfg Config) string {
	if cfg.AccentColor == "" {
		return cfg.PrimaryColor
	}
	return fmt.Sprintf("linear-gradient(to right, %s, %s)", cfg.PrimaryColor, cfg.AccentColor)
}

// edges returns the vertical and horizontal CSS offsets of a position.
func (p Position) edges() (string, string) {
	switch p {
	case BottomLeft:
		return "bottom", "left"
	case TopRight:
		return "top", "right"
	case TopLeft:
		return "top", "left"
	default:
		return "bottom", "right"
	}
}

func display(visible bool, shown string) string {
	if visible {
		return shown
	}
	return "none"
}

func animationValue(a Animation) string {
	switch a {
	case AnimationFade:
		return "yuno-fade 0.4s ease-out"
	case AnimationScale:
		return "yuno-scale 0.3s ease-out"
	default:
		return "yuno-slide 0.5s ease-out"
	}
}

// withAlpha turns a #rgb or #rrggbb color into an rgba() value. Anything
// else is returned unchanged.
func withAlpha(color string, alpha float64) string {
	r, g, b, ok := parseHex(color)
	if !ok {
		return color
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

func parseHex(color string) (uint8, uint8, uint8, bool) {
	hex, found := strings.CutPrefix(strings.TrimSpace(color), "#")
	if !found {
		return 0, 0, 0, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Selectors used by CSS for each element of a StyleSet.
const (
	SelectorHost       = ":host"
	SelectorTrigger    = ".bubble"
	SelectorTeaser     = ".teaser"
	SelectorPanel      = ".chatbox"
	SelectorHeader     = ".header"
	SelectorInput      = ".input-row"
	SelectorBotBubble  = ".msg.bot .chatbot-bubble"
	SelectorUserBubble = ".msg.user .chatbot-bubble"
	SelectorTyping     = ".typing .dot"
)

const keyframes = `@keyframes yuno-slide{from{transform:translateY(20px);opacity:0}to{transform:translateY(0);opacity:1}}
@keyframes yuno-fade{from{opacity:0}to{opacity:1}}
@keyframes yuno-scale{from{transform:scale(0.9);opacity:0}to{transform:scale(1);opacity:1}}
@keyframes yuno-bounce{0%,80%,100%{transform:scale(0.8);opacity:0.5}40%{transform:scale(1.2);opacity:1}}
`

// CSS renders the set as a stylesheet scoped to the widget's shadow root.
func (s StyleSet) CSS() string {
	var b strings.Builder
	rules := []struct {
		selector string
		style    ElementStyle
	}{
		{SelectorHost, s.Host},
		{SelectorTrigger, s.Trigger},
		{SelectorTeaser, s.Teaser},
		{SelectorPanel, s.Panel},
		{SelectorHeader, s.Header},
		{SelectorInput, s.Input},
		{SelectorBotBubble, s.BotBubble},
		{SelectorUserBubble, s.UserBubble},
		{SelectorTyping, s.Typing},
	}
	for _, r := range rules {
		b.WriteString(r.selector)
		b.WriteString("{")
		for i, d := range r.style.Decls {
			if i > 0 {
				b.WriteString(";")
			}
			b.WriteString(d.Property)
			b.WriteString(":")
			b.WriteString(d.Value)
		}
		b.WriteString("}\n")
	}
	b.WriteString(".input-row input::placeholder{color:var(--placeholder-color)}\n")
	b.WriteString(".typing .dot{animation:yuno-bounce 0.8s infinite ease-in-out}\n")
	b.WriteString(keyframes)
	return b.String()
}
