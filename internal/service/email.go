package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
)

// ProviderError is a rejection reported by the email provider, as opposed to
// a failure to reach it
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider rejected message: status %d: %s", e.StatusCode, e.Body)
}

// EmailLinks are the destinations the welcome and reminder mails point to
type EmailLinks struct {
	CommunityChatURL string
	ProfileURL       string
}

type message struct {
	to, toName, subject, plain, html string
}

// sendFunc delivers one message and reports the provider's status code and body
type sendFunc func(m *mail.SGMailV3) (int, string, error)

type emailService struct {
	send  sendFunc
	from  *mail.Email
	links EmailLinks
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string, links EmailLinks) EmailService {
	client := sendgrid.NewSendClient(apiKey)
	return newEmailService(func(m *mail.SGMailV3) (int, string, error) {
		resp, err := client.Send(m)
		if err != nil {
			return 0, "", err
		}
		return resp.StatusCode, resp.Body, nil
	}, fromEmail, fromName, links)
}

func newEmailService(send sendFunc, fromEmail, fromName string, links EmailLinks) *emailService {
	return &emailService{
		send:  send,
		from:  mail.NewEmail(fromName, fromEmail),
		links: links,
	}
}

func (s *emailService) SendApprovalEmail(ctx context.Context, to string) error {
	if err := validateEmail("email", to); err != nil {
		return err
	}
	return s.deliver(approvalMessage(to, s.links))
}

func (s *emailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.JoinRequest) error {
	return s.deliver(digestMessage(to, pending))
}

func (s *emailService) SendProfileReminder(ctx context.Context, to, name string) error {
	return s.deliver(reminderMessage(to, name, s.links))
}

func (s *emailService) deliver(m message) error {
	msg := mail.NewSingleEmail(s.from, m.subject, mail.NewEmail(m.toName, m.to), m.plain, m.html)

	logger.ExternalServiceCall("sendgrid", "Send", "to", m.to, "subject", m.subject)
	status, body, err := s.send(msg)
	if err == nil && status >= 400 {
		err = &ProviderError{StatusCode: status, Body: body}
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "status", status)
	if err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", m.subject, m.to, err)
	}
	return nil
}

// logEmailService writes messages to the log instead of sending them
type logEmailService struct {
	links EmailLinks
}

func NewLogEmailService(links EmailLinks) EmailService {
	return &logEmailService{links: links}
}

func (s *logEmailService) SendApprovalEmail(ctx context.Context, to string) error {
	if err := validateEmail("email", to); err != nil {
		return err
	}
	s.log(ctx, approvalMessage(to, s.links))
	return nil
}

func (s *logEmailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.JoinRequest) error {
	s.log(ctx, digestMessage(to, pending))
	return nil
}

func (s *logEmailService) SendProfileReminder(ctx context.Context, to, name string) error {
	s.log(ctx, reminderMessage(to, name, s.links))
	return nil
}

func (s *logEmailService) log(ctx context.Context, m message) {
	logger.InfoContext(ctx, "Email not sent (log provider)", "to", m.to, "subject", m.subject, "body", m.plain)
}

func approvalMessage(to string, links EmailLinks) message {
	chat := html.EscapeString(links.CommunityChatURL)
	profile := html.EscapeString(links.ProfileURL)
	return message{
		to:      to,
		subject: "Welcome to YAMLRG!",
		plain: fmt.Sprintf("Welcome to YAMLRG!\n\nYour request to join has been approved. You can now join our community chat: %s\n\n"+
			"We're excited to have you as part of our community!\n\nPlease also complete your profile on the website: %s\n",
			links.CommunityChatURL, links.ProfileURL),
		html: fmt.Sprintf(`<h1>Welcome to YAMLRG!</h1>
<p>Your request to join has been approved. You can now join our community chat:</p>
<p><a href="%s">Click here to join the group</a></p>
<p>We're excited to have you as part of our community!</p>
<p>Please also complete your profile on the website: <a href="%s">%s</a></p>`, chat, profile, profile),
	}
}

func digestMessage(to string, pending []domain.JoinRequest) message {
	var plain, rows strings.Builder
	fmt.Fprintf(&plain, "There are %d join requests waiting for review:\n\n", len(pending))
	for _, req := range pending {
		fmt.Fprintf(&plain, "- %s <%s>, submitted %s\n", req.Name, req.Email, req.CreatedAt)
		fmt.Fprintf(&rows, "<li>%s &lt;%s&gt;, submitted %s</li>\n",
			html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.CreatedAt))
	}
	return message{
		to:      to,
		subject: fmt.Sprintf("YAMLRG: %d pending join requests", len(pending)),
		plain:   plain.String(),
		html:    fmt.Sprintf("<p>There are %d join requests waiting for review:</p>\n<ul>\n%s</ul>", len(pending), rows.String()),
	}
}

func reminderMessage(to, name string, links EmailLinks) message {
	if name == "" {
		name = "there"
	}
	return message{
		to:      to,
		toName:  name,
		subject: "Complete your YAMLRG profile",
		plain: fmt.Sprintf("Hi %s,\n\nYour YAMLRG profile is not complete yet. Add your LinkedIn and status so other members can find you: %s\n",
			name, links.ProfileURL),
		html: fmt.Sprintf(`<p>Hi %s,</p>
<p>Your YAMLRG profile is not complete yet. Add your LinkedIn and status so other members can find you:</p>
<p><a href="%s">%s</a></p>`, html.EscapeString(name), html.EscapeString(links.ProfileURL), html.EscapeString(links.ProfileURL)),
	}
}
