package smtp

import (
	"context"
	"fmt"
	"mime"
	netsmtp "net/smtp"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// SendMailFunc matches net/smtp.SendMail and exists so tests can inject
// a transport.
type SendMailFunc func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error

// Client sends notification emails over SMTP. Relative action URLs are
// rewritten against the configured frontend base URL before rendering.
type Client struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	baseURL     string
	sendMail    SendMailFunc
	rateLimiter *rate.Limiter
}

func NewClient(host string, port int, username, password, from, baseURL string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		baseURL:  baseURL,
		sendMail: netsmtp.SendMail,
	}
}

func (c *Client) SetTransport(sendMail SendMailFunc) {
	c.sendMail = sendMail
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// Send delivers one message with a plain-text and an HTML alternative.
func (c *Client) Send(to string, subject string, textBody string, htmlBody string) error {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(context.Background()); err != nil {
			return err
		}
	}

	var auth netsmtp.Auth
	if c.username != "" {
		auth = netsmtp.PlainAuth("", c.username, c.password, c.host)
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	msg := buildMessage(c.from, to, subject, textBody, htmlBody)

	if err := c.sendMail(addr, auth, c.from, []string{to}, msg); err != nil {
		return fmt.Errorf("error sending mail to %v: %w", to, err)
	}
	return nil
}

// SendNotification renders a notification email and sends it. The
// subject is the notification title.
func (c *Client) SendNotification(to string, title string, message string, actionURL string, agencyName string) error {
	link := c.AbsoluteActionURL(actionURL)
	return c.Send(to, title, renderText(title, message, link, agencyName), renderHTML(title, message, link, agencyName))
}

// AbsoluteActionURL resolves a relative action URL against the frontend
// base URL; absolute URLs pass through unchanged.
func (c *Client) AbsoluteActionURL(actionURL string) string {

	if actionURL == "" {
		return ""
	}

	ref, err := url.Parse(actionURL)
	if err != nil || ref.IsAbs() {
		return actionURL
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return actionURL
	}
	return base.ResolveReference(ref).String()
}

const boundary = "hsnotification"

func buildMessage(from, to, subject, textBody, htmlBody string) []byte {

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody + "\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody + "\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}
