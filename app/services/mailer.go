package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/utils/format"
	"github.com/rs/zerolog"
)

// DefaultMailTimeout bounds one delivery when the caller sets no deadline.
const DefaultMailTimeout = 20 * time.Second

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type Mailer struct {
	config Config
	logger zerolog.Logger
}

func NewMailer(cfg Config, logger zerolog.Logger) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMailTimeout
	}
	return &Mailer{
		config: cfg,
		logger: logger,
	}
}

// SendHTMLEmail delivers one message. The whole SMTP exchange ends at the
// earlier of ctx's deadline and the configured timeout.
func (m *Mailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	headers := []string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	if err := m.deliver(ctx, to, []byte(msg)); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (m *Mailer) deliver(ctx context.Context, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	addr := net.JoinHostPort(m.config.Host, m.config.Port)
	dialer := net.Dialer{Timeout: m.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return err
		}
	}
	if m.config.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(m.config.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// ReceiptNotifier tells a buyer their order was placed.
type ReceiptNotifier interface {
	SendOrderReceipt(ctx context.Context, buyer *models.User, order *models.Order) error
}

type MailReceiptNotifier struct {
	mailer  *Mailer
	money   *format.Money
	appName string
}

func NewMailReceiptNotifier(mailer *Mailer, money *format.Money, appName string) *MailReceiptNotifier {
	return &MailReceiptNotifier{mailer: mailer, money: money, appName: appName}
}

func (n *MailReceiptNotifier) SendOrderReceipt(ctx context.Context, buyer *models.User, order *models.Order) error {
	subject := fmt.Sprintf("%s order %s", n.appName, order.OrderCode)
	return n.mailer.SendHTMLEmail(ctx, buyer.Email, subject, BuildReceiptEmailBody(n.money, buyer, order))
}

// NoopReceiptNotifier is used when no mail server is configured.
type NoopReceiptNotifier struct{}

func (NoopReceiptNotifier) SendOrderReceipt(context.Context, *models.User, *models.Order) error {
	return nil
}

func BuildReceiptEmailBody(money *format.Money, buyer *models.User, order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(item.ProductName), item.Quantity, money.Format(item.Price), money.Format(item.LineTotal))
	}

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Order %[1]s</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                table { border-collapse: collapse; width: 100%%; }
                td, th { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
            </style>
        </head>
        <body>
            <p>Hi %[2]s,</p>
            <p>Thank you for your order <strong>%[1]s</strong>. Your payment was received.</p>
            <table>
                <tr><th>Product</th><th>Qty</th><th>Price</th><th>Subtotal</th></tr>
                %[3]s
            </table>
            <p><strong>Total: %[4]s</strong></p>
        </body>
        </html>
    `, html.EscapeString(order.OrderCode), html.EscapeString(buyer.Name), rows.String(), money.Format(order.Total))
}
