// Package widget implements the embeddable chat widget as a host-agnostic
// core: configuration resolution, theming, the trigger/teaser/panel state
// machine and the conversation engine.
package widget

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Attributes are the declared options of one embedding, keyed by attribute
// name (site_id, theme, ...).
type Attributes map[string]string

// Theme names.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Position is the screen corner the widget is anchored to.
type Position string

const (
	BottomRight Position = "bottom-right"
	BottomLeft  Position = "bottom-left"
	TopRight    Position = "top-right"
	TopLeft     Position = "top-left"
)

// Animation is the entrance animation of the teaser and panel.
type Animation string

const (
	AnimationSlide Animation = "slide"
	AnimationFade  Animation = "fade"
	AnimationScale Animation = "scale"
)

// Attribute names.
const (
	AttrSiteID          = "site_id"
	AttrAPIEndpoint     = "api_endpoint"
	AttrTheme           = "theme"
	AttrPosition        = "position"
	AttrPrimaryColor    = "primary_color"
	AttrAccentColor     = "accent_color"
	AttrBackgroundColor = "background_color"
	AttrTextColor       = "text_color"
	AttrWelcomeMessage  = "welcome_message"
	AttrTeaserMessage   = "teaser_message"
	AttrTriggerText     = "trigger_text"
	AttrTriggerIcon     = "trigger_icon"
	AttrHeaderTitle     = "header_title"
	AttrPlaceholder     = "placeholder"
	AttrAutoShow        = "auto_show"
	AttrAutoShowDelay   = "auto_show_delay"
	AttrShowTeaser      = "show_teaser"
	AttrWidth           = "width"
	AttrHeight          = "height"
	AttrBorderRadius    = "border_radius"
	AttrBlurEffect      = "blur_effect"
	AttrAnimation       = "animation"
	AttrSystemPrompt    = "system_prompt"
)

// Config is the fully defaulted widget configuration. It is a value and is
// never modified after Resolve.
type Config struct {
	SiteID          string
	APIEndpoint     string
	Theme           Theme
	Position        Position
	PrimaryColor    string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	WelcomeMessage  string
	TeaserMessage   string
	TriggerText     string
	TriggerIcon     string
	HeaderTitle     string
	Placeholder     string
	AutoShow        bool
	AutoShowDelay   time.Duration
	ShowTeaser      bool
	Width           string
	Height          string
	BorderRadius    string
	BlurEffect      bool
	Animation       Animation
	SystemPrompt    string
}

// Defaults returns the configuration used for every option that is not
// declared.
func Defaults() Config {
	return Config{
		SiteID:         "default_site",
		APIEndpoint:    "https://luckylabs.pythonanywhere.com/ask",
		Theme:          ThemeDark,
		Position:       BottomRight,
		PrimaryColor:   "#FF6B35",
		AccentColor:    "#FF8C42",
		WelcomeMessage: "Hi! I'm Yuno—how can I help you today?",
		TeaserMessage:  "Let me know if you need help",
		TriggerText:    "Ask Yuno",
		TriggerIcon:    "💬",
		HeaderTitle:    "Chat with Yuno",
		Placeholder:    "Type your message…",
		AutoShow:       true,
		AutoShowDelay:  2000 * time.Millisecond,
		ShowTeaser:     true,
		Width:          "340px",
		Height:         "450px",
		BorderRadius:   "16px",
		BlurEffect:     true,
		Animation:      AnimationSlide,
		SystemPrompt:   "You are Yuno, a friendly assistant.",
	}
}

// Resolve builds a Config from declared attributes. Blank values, values
// outside an enumeration and unparsable numbers or booleans fall back to the
// default; unknown attributes are ignored.
func Resolve(attrs Attributes) Config {
	cfg := Defaults()

	str := func(key string, dst *string) {
		if v := attrs.get(key); v != "" {
			*dst = v
		}
	}

	str(AttrSiteID, &cfg.SiteID)
	str(AttrAPIEndpoint, &cfg.APIEndpoint)
	str(AttrPrimaryColor, &cfg.PrimaryColor)
	str(AttrAccentColor, &cfg.AccentColor)
	str(AttrBackgroundColor, &cfg.BackgroundColor)
	str(AttrTextColor, &cfg.TextColor)
	str(AttrWelcomeMessage, &cfg.WelcomeMessage)
	str(AttrTeaserMessage, &cfg.TeaserMessage)
	str(AttrTriggerText, &cfg.TriggerText)
	str(AttrTriggerIcon, &cfg.TriggerIcon)
	str(AttrHeaderTitle, &cfg.HeaderTitle)
	str(AttrPlaceholder, &cfg.Placeholder)
	str(AttrWidth, &cfg.Width)
	str(AttrHeight, &cfg.Height)
	str(AttrBorderRadius, &cfg.BorderRadius)
	str(AttrSystemPrompt, &cfg.SystemPrompt)

	switch Theme(strings.ToLower(attrs.get(AttrTheme))) {
	case ThemeDark:
		cfg.Theme = ThemeDark
	case ThemeLight:
		cfg.Theme = ThemeLight
	}

	switch p := Position(strings.ToLower(attrs.get(AttrPosition))); p {
	case BottomRight, BottomLeft, TopRight, TopLeft:
		cfg.Position = p
	}

	switch a := Animation(strings.ToLower(attrs.get(AttrAnimation))); a {
	case AnimationSlide, AnimationFade, AnimationScale:
		cfg.Animation = a
	}

	cfg.AutoShow = parseBool(attrs.get(AttrAutoShow), cfg.AutoShow)
	cfg.ShowTeaser = parseBool(attrs.get(AttrShowTeaser), cfg.ShowTeaser)
	cfg.BlurEffect = parseBool(attrs.get(AttrBlurEffect), cfg.BlurEffect)

	if v := attrs.get(AttrAutoShowDelay); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err == nil && ms >= 0 && ms <= math.MaxInt64/int64(time.Millisecond) {
			cfg.AutoShowDelay = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}

// Attributes returns the declared form of cfg: site_id plus every option
// whose value differs from its default, so Resolve(cfg.Attributes()) == cfg.
func (c Config) Attributes() Attributes {
	d := Defaults()
	attrs := Attributes{AttrSiteID: c.SiteID}

	diff := func(key, got, def string) {
		if got != def {
			attrs[key] = got
		}
	}

	diff(AttrAPIEndpoint, c.APIEndpoint, d.APIEndpoint)
	diff(AttrTheme, string(c.Theme), string(d.Theme))
	diff(AttrPosition, string(c.Position), string(d.Position))
	diff(AttrPrimaryColor, c.PrimaryColor, d.PrimaryColor)
	diff(AttrAccentColor, c.AccentColor, d.AccentColor)
	diff(AttrBackgroundColor, c.BackgroundColor, d.BackgroundColor)
	diff(AttrTextColor, c.TextColor, d.TextColor)
	diff(AttrWelcomeMessage, c.WelcomeMessage, d.WelcomeMessage)
	diff(AttrTeaserMessage, c.TeaserMessage, d.TeaserMessage)
	diff(AttrTriggerText, c.TriggerText, d.TriggerText)
	diff(AttrTriggerIcon, c.TriggerIcon, d.TriggerIcon)
	diff(AttrHeaderTitle, c.HeaderTitle, d.HeaderTitle)
	diff(AttrPlaceholder, c.Placeholder, d.Placeholder)
	diff(AttrAutoShow, strconv.FormatBool(c.AutoShow), strconv.FormatBool(d.AutoShow))
	diff(AttrAutoShowDelay, strconv.FormatInt(c.AutoShowDelay.Milliseconds(), 10), strconv.FormatInt(d.AutoShowDelay.Milliseconds(), 10))
	diff(AttrShowTeaser, strconv.FormatBool(c.ShowTeaser), strconv.FormatBool(d.ShowTeaser))
	diff(AttrWidth, c.Width, d.Width)
	diff(AttrHeight, c.Height, d.Height)
	diff(AttrBorderRadius, c.BorderRadius, d.BorderRadius)
	diff(AttrBlurEffect, strconv.FormatBool(c.BlurEffect), strconv.FormatBool(d.BlurEffect))
	diff(AttrAnimation, string(c.Animation), string(d.Animation))
	diff(AttrSystemPrompt, c.SystemPrompt, d.SystemPrompt)

	return attrs
}

// snippetOrder is the order attributes appear in a generated embed tag.
var snippetOrder = []string{
	AttrSiteID, AttrAPIEndpoint, AttrTheme, AttrPosition,
	AttrPrimaryColor, AttrAccentColor, AttrBackgroundColor, AttrTextColor,
	AttrWelcomeMessage, AttrTeaserMessage, AttrTriggerText, AttrTriggerIcon,
	AttrHeaderTitle, AttrPlaceholder, AttrAutoShow, AttrAutoShowDelay,
	AttrShowTeaser, AttrWidth, AttrHeight, AttrBorderRadius, AttrBlurEffect,
	AttrAnimation, AttrSystemPrompt,
}

// AttributeNames returns every recognized attribute name in declaration
// order.
func AttributeNames() []string {
	return append([]string(nil), snippetOrder...)
}

// Snippet renders the script tag a site owner pastes into their page. Only
// options that differ from the defaults are emitted.
func Snippet(scriptURL string, cfg Config) string {
	attrs := cfg.Attributes()

	var b strings.Builder
	b.WriteString(`<script src="`)
	b.WriteString(escapeAttr(scriptURL))
	b.WriteString("\"\n")
	for _, key := range snippetOrder {
		v, ok := attrs[key]
		if !ok {
			continue
		}
		b.WriteString("        ")
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(v))
		b.WriteString("\"\n")
	}
	b.WriteString("        defer></script>")
	return b.String()
}

// Keys returns the attribute names in a stable order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of a with every key of other applied on top.
func (a Attributes) Merge(other Attributes) Attributes {
	out := make(Attributes, len(a)+len(other))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func (a Attributes) get(key string) string {
	return strings.TrimSpace(a[key])
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return def
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
