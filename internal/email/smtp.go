package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/raexevents/ticketmailer/internal/config"
)

// SMTPTransport delivers messages through one outbound SMTP account.
type SMTPTransport struct {
	acct config.Account
}

// NewSMTPTransport binds a transport to acct's credentials.
func NewSMTPTransport(acct config.Account) *SMTPTransport {
	return &SMTPTransport{acct: acct}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(t.acct.Host, t.acct.Port, t.acct.User, t.acct.Pass)
	d.SSL = t.acct.Secure

	// gomail has no context support; honour cancellation before dialing at
	// least, since the dial itself cannot be interrupted.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send via %s: %w", t.acct.Host, err)
	}
	return nil
}
