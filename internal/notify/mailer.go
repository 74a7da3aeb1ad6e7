package notify

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// InlineImage is an image embedded in the email body by Content-ID
type InlineImage struct {
	CID  string
	Data []byte
}

// Sender delivers a rendered notification email
type Sender interface {
	Send(to, subject, htmlBody string, images []InlineImage) error
}

// Mailer sends HTML email with embedded images over SMTP with implicit TLS
// (Gmail, port 465).
type Mailer struct {
	host     string
	port     int
	user     string
	password string
}

// NewMailer creates an SMTP mailer
func NewMailer(host string, port int, user, password string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
	}
}

// Send builds a multipart/related message and delivers it
func (m *Mailer) Send(to, subject, htmlBody string, images []InlineImage) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		data := img.Data
		msg.Embed(img.CID+".png",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-ID": {"<" + img.CID + ">"},
			}),
		)
	}

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	dialer.SSL = m.port == 465

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
