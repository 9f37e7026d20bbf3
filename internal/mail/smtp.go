package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/scraperite/storefront-backend/pkg/config"
)

const (
	methodEmailitSMTP = "emailit_smtp"
	methodDirectSMTP  = "direct_smtp"
	methodGmail       = "gmail"

	gmailHost = "smtp.gmail.com"
	gmailPort = 587
)

type smtpSettings struct {
	Host           string
	Port           int
	Username       string
	Password       string
	ImplicitTLS    bool
	ConnectTimeout time.Duration
	HelloTimeout   time.Duration
	SocketTimeout  time.Duration
}

// SMTPTransport delivers mail over SMTP with STARTTLS (or implicit TLS) and
// per-phase timeouts so a hung server falls through to the next transport.
type SMTPTransport struct {
	method     string
	settings   smtpSettings
	fromName   string
	fromEmail  string
	configured bool
}

// NewEmailitSMTP is the second transport in the chain; EmailIT uses the SMTP
// key as both username and password.
func NewEmailitSMTP(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{
		method: methodEmailitSMTP,
		settings: smtpSettings{
			Host:           cfg.EmailitHost,
			Port:           cfg.EmailitPort,
			Username:       cfg.EmailitSMTPKey,
			Password:       cfg.EmailitSMTPKey,
			ConnectTimeout: 10 * time.Second,
			HelloTimeout:   5 * time.Second,
			SocketTimeout:  10 * time.Second,
		},
		fromName:   cfg.FromName,
		fromEmail:  cfg.FromEmail,
		configured: cfg.EmailitSMTPKey != "",
	}
}

// NewDirectSMTP is the third transport, an operator-supplied SMTP relay.
func NewDirectSMTP(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{
		method: methodDirectSMTP,
		settings: smtpSettings{
			Host:           cfg.SMTPHost,
			Port:           cfg.SMTPPort,
			Username:       cfg.SMTPUser,
			Password:       cfg.SMTPPass,
			ImplicitTLS:    cfg.SMTPSecure,
			ConnectTimeout: 15 * time.Second,
			HelloTimeout:   10 * time.Second,
			SocketTimeout:  15 * time.Second,
		},
		fromName:   cfg.FromName,
		fromEmail:  cfg.SMTPUser,
		configured: cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "",
	}
}

// NewGmail is the last-resort transport using a Gmail app password.
func NewGmail(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{
		method: methodGmail,
		settings: smtpSettings{
			Host:           gmailHost,
			Port:           gmailPort,
			Username:       cfg.GmailUser,
			Password:       cfg.GmailAppPassword,
			ConnectTimeout: 15 * time.Second,
			HelloTimeout:   10 * time.Second,
			SocketTimeout:  15 * time.Second,
		},
		fromName:   cfg.FromName,
		fromEmail:  cfg.GmailUser,
		configured: cfg.GmailUser != "" && cfg.GmailAppPassword != "",
	}
}

func (t *SMTPTransport) Name() string {
	return t.method
}

func (t *SMTPTransport) Configured() bool {
	return t.configured
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	addr := fmt.Sprintf("%s:%d", t.settings.Host, t.settings.Port)

	dialer := net.Dialer{Timeout: t.settings.ConnectTimeout}
	var (
		conn net.Conn
		err  error
	)
	if t.settings.ImplicitTLS {
		tlsDialer := tls.Dialer{NetDialer: &dialer, Config: &tls.Config{ServerName: t.settings.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}

	_ = conn.SetDeadline(time.Now().Add(t.settings.HelloTimeout))
	client, err := smtp.NewClient(conn, t.settings.Host)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("smtp greeting: %w", err)
	}
	defer client.Close()

	if err := t.verify(client); err != nil {
		return "", err
	}

	_ = conn.SetDeadline(time.Now().Add(t.settings.SocketTimeout))
	if err := t.submit(client, msg); err != nil {
		return "", err
	}
	return t.method, nil
}

// verify performs hello + STARTTLS + auth before any message bytes go out, so
// broken credentials fail fast instead of mid-transaction.
func (t *SMTPTransport) verify(client *smtp.Client) error {
	if err := client.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello: %w", err)
	}

	if !t.settings.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsCfg := &tls.Config{ServerName: t.settings.Host}
			if err := client.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if t.settings.Username != "" {
		auth := smtp.PlainAuth("", t.settings.Username, t.settings.Password, t.settings.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	return nil
}

func (t *SMTPTransport) submit(client *smtp.Client, msg Message) error {
	if err := client.Mail(t.fromEmail); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(t.buildMIME(msg)); err != nil {
		writer.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}
	return client.Quit()
}

func (t *SMTPTransport) buildMIME(msg Message) []byte {
	var body strings.Builder
	alt := multipart.NewWriter(&body)

	fromName := msg.FromName
	if fromName == "" {
		fromName = t.fromName
	}

	headers := []string{
		fmt.Sprintf("From: %q <%s>", fromName, t.fromEmail),
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + alt.Boundary(),
	}
	if msg.FromEmail != "" {
		headers = append(headers, "Reply-To: "+msg.FromEmail)
	}

	part, _ := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	fmt.Fprint(part, msg.TextOrFallback())

	part, _ = alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	fmt.Fprint(part, msg.HTML)

	alt.Close()

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body.String())
}
