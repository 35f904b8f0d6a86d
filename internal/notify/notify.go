// Package notify — уведомления оператора магазина о новых заказах.
// Все реализации best-effort: сервис заказов вызывает их асинхронно
// и не откатывает заказ при ошибке доставки уведомления.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

// LogNotifier пишет уведомление в журнал. Используется по умолчанию,
// когда SMTP не сконфигурирован.
type LogNotifier struct {
	logger *log.Entry
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.WithField("component", "notify")}
}

func (n *LogNotifier) OrderPlaced(order domain.Order) error {
	n.logger.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"customer":     order.Customer.Name,
		"phone":        order.Customer.Phone,
		"total":        order.Total,
	}).Info("new order placed")
	return nil
}

// EmailConfig — параметры SMTP-доставки уведомлений.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	// BaseURL — адрес админки для ссылки на заказ в письме.
	BaseURL string
}

// Enabled сообщает, достаточно ли конфигурации для отправки почты.
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && c.To != ""
}

// EmailNotifier отправляет письмо оператору через net/smtp.
type EmailNotifier struct {
	cfg    EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger *log.Entry
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		send:   smtp.SendMail,
		logger: log.WithField("component", "notify"),
	}
}

func (n *EmailNotifier) OrderPlaced(order domain.Order) error {
	msg := buildMessage(n.cfg.From, n.cfg.To, order, n.cfg.BaseURL)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}

	n.logger.WithField("order_number", order.OrderNumber).Debug("order email sent")
	return nil
}

// buildMessage собирает письмо целиком: заголовки и текстовое тело.
func buildMessage(from, to string, order domain.Order, baseURL string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New order %s\r\n", order.OrderNumber)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Order %s\r\n\r\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\r\n", order.Customer.Name)
	fmt.Fprintf(&b, "Phone:    %s\r\n", order.Customer.Phone)
	fmt.Fprintf(&b, "Address:  %s\r\n\r\n", order.Customer.Address)

	for _, item := range order.Items {
		line := item.Name
		if item.Variant != nil {
			var parts []string
			if item.Variant.Color != "" {
				parts = append(parts, item.Variant.Color)
			}
			if item.Variant.Power != "" {
				parts = append(parts, item.Variant.Power)
			}
			if len(parts) > 0 {
				line += " (" + strings.Join(parts, ", ") + ")"
			}
		}
		fmt.Fprintf(&b, "  %dx %s — %d tk\r\n", item.Quantity, line, item.Price)
	}

	fmt.Fprintf(&b, "\r\nSubtotal: %d tk\r\n", order.Subtotal)
	fmt.Fprintf(&b, "Delivery: %d tk\r\n", order.DeliveryCharge)
	fmt.Fprintf(&b, "Total:    %d tk\r\n", order.Total)

	if baseURL != "" {
		fmt.Fprintf(&b, "\r\n%s/admin/orders/%s\r\n", strings.TrimRight(baseURL, "/"), order.ID)
	}

	return []byte(b.String())
}
