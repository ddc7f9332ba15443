package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

type theme struct {
	trigger lipgloss.Style
	teaser  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	bot     lipgloss.Style
	user    lipgloss.Style
	muted   lipgloss.Style
}

// newTheme maps the widget palette onto terminal colors. Hex colors from the
// configuration pass through; the translucent panel colors have no terminal
// equivalent and use the nearest ANSI shade.
func newTheme(cfg widget.Config) theme {
	panelBg, botBg, text, muted := lipgloss.Color("233"), lipgloss.Color("235"), lipgloss.Color("#ffffff"), lipgloss.Color("245")
	if cfg.Theme == widget.ThemeLight {
		panelBg, botBg, text, muted = lipgloss.Color("255"), lipgloss.Color("254"), lipgloss.Color("#1a1a1a"), lipgloss.Color("242")
	}
	if cfg.BackgroundColor != "" {
		panelBg = lipgloss.Color(cfg.BackgroundColor)
	}
	if cfg.TextColor != "" {
		text = lipgloss.Color(cfg.TextColor)
	}
	primary := lipgloss.Color(cfg.PrimaryColor)
	accent := lipgloss.Color(cfg.AccentColor)

	return theme{
		trigger: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 2),
		teaser: lipgloss.NewStyle().
			Foreground(text).
			Background(panelBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginBottom(1).
			Width(panelWidth - 12),
		panel: lipgloss.NewStyle().
			Foreground(text).
			Background(panelBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1).
			Width(panelWidth),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		bot: lipgloss.NewStyle().
			Foreground(text).
			Background(botBg).
			Padding(0, 1),
		user: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 1),
		muted: lipgloss.NewStyle().Foreground(muted),
	}
}

// bubbleWidth is the widest a message bubble grows before wrapping.
const bubbleWidth = panelWidth - 10

func fit(style lipgloss.Style, text string) string {
	if lipgloss.Width(text) > bubbleWidth {
		style = style.Width(bubbleWidth)
	}
	return style.Render(text)
}
