package embed

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// Render returns the markup of w in its current state. Everything but the
// host element lives in a declarative shadow root so page styles cannot
// reach the widget and widget styles cannot leak out.
func Render(w *widget.Widget) g.Node {
	cfg := w.Config()
	styles := w.Styles()

	return g.El(ElementName,
		g.Attr("site_id", cfg.SiteID),
		g.Attr("theme", string(cfg.Theme)),
		g.Attr("position", string(cfg.Position)),
		g.Attr("state", styles.State.String()),
		g.El("template",
			g.Attr("shadowrootmode", "open"),
			g.El("style", g.Raw(styles.CSS())),
			trigger(cfg),
			teaser(cfg),
			panel(cfg, w.History(), w.Pending() > 0),
		),
	)
}

func trigger(cfg widget.Config) g.Node {
	return Div(
		Class("bubble"),
		g.Attr("role", "button"),
		g.Attr("tabindex", "0"),
		Span(Class("bubble-icon"), g.Text(cfg.TriggerIcon)),
		Span(Class("bubble-text"), g.Text(cfg.TriggerText)),
	)
}

func teaser(cfg widget.Config) g.Node {
	return Div(
		Class("teaser"),
		Span(Class("teaser-text"), g.Text(cfg.TeaserMessage)),
		Button(Class("teaser-close"), g.Attr("aria-label", "Dismiss"), g.Text("×")),
	)
}

func panel(cfg widget.Config, history []model.ChatMessage, typing bool) g.Node {
	return Div(
		Class("chatbox"),
		Div(
			Class("header"),
			Span(Class("header-title"), g.Text(cfg.HeaderTitle)),
			Button(Class("close-btn"), g.Attr("aria-label", "Close"), g.Text("×")),
		),
		Div(
			Class("messages"),
			g.Group(g.Map(visible(history), message)),
			g.If(typing, Div(
				Class("typing"),
				Span(Class("dot")), Span(Class("dot")), Span(Class("dot")),
			)),
		),
		Div(
			Class("input-row"),
			Input(Type("text"), g.Attr("placeholder", cfg.Placeholder), g.Attr("aria-label", "Message")),
			Button(Class("send-btn"), g.Text("Send")),
		),
	)
}

func message(m model.ChatMessage) g.Node {
	kind := "bot"
	if m.Role == model.RoleUser {
		kind = "user"
	}
	return Div(
		Class("msg "+kind),
		Div(Class("chatbot-bubble"), g.Text(m.Content)),
	)
}

// visible drops the system entry, which is never shown.
func visible(history []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(history))
	for _, m := range history {
		if m.Role != model.RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
