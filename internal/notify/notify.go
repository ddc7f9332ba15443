// Package notify tells the team about new pilot leads.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// Notifier sends a team notification for a new pilot lead.
type Notifier interface {
	PilotLead(ctx context.Context, lead *model.PilotLead) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) PilotLead(context.Context, *model.PilotLead) error { return nil }

// SendFunc delivers one email.
type SendFunc func(params *resend.SendEmailRequest) error

// ResendNotifier emails the team through Resend.
type ResendNotifier struct {
	send       SendFunc
	from       string
	recipients []string
}

// NewResend creates a notifier for apiKey.
func NewResend(apiKey, from string, recipients []string) *ResendNotifier {
	emails := resend.NewClient(apiKey).Emails
	send := func(params *resend.SendEmailRequest) error {
		_, err := emails.Send(params)
		return err
	}
	return NewResendWithSender(send, from, recipients)
}

// NewResendWithSender creates a notifier over an existing send function.
func NewResendWithSender(send SendFunc, from string, recipients []string) *ResendNotifier {
	return &ResendNotifier{send: send, from: from, recipients: recipients}
}

// PilotLead sends the new-lead email. It is a no-op without recipients.
func (n *ResendNotifier) PilotLead(ctx context.Context, lead *model.PilotLead) error {
	if len(n.recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := pilotLeadEmail(lead)
	if err != nil {
		return err
	}

	err = n.send(&resend.SendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: fmt.Sprintf("New Yuno pilot lead: %s", lead.WebsiteURL),
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send pilot lead email via Resend: %w", err)
	}
	return nil
}

func pilotLeadEmail(lead *model.PilotLead) (string, error) {
	business := "not specified"
	if lead.BusinessType != nil {
		business = *lead.BusinessType
	}

	row := func(label, value string) g.Node {
		return Tr(Td(Strong(g.Text(label))), Td(g.Text(value)))
	}

	doc := Div(
		H2(g.Text("New pilot program signup")),
		Table(
			row("Name", lead.FirstName),
			row("Email", lead.Email),
			row("Website", lead.WebsiteURL),
			row("Business type", business),
			row("Lead ID", lead.ID),
			row("Received", lead.CreatedAt.UTC().Format("2006-01-02 15:04 MST")),
		),
	)

	var b strings.Builder
	if err := doc.Render(&b); err != nil {
		return "", fmt.Errorf("failed to render pilot lead email: %w", err)
	}
	return b.String(), nil
}
