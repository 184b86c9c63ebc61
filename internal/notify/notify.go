// Package notify envía los correos de confirmación y cambio de estado.
// Todos los envíos son best-effort: el checkout nunca falla por un correo.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/wneessen/go-mail"

	"hacienda_backend/internal/config"
	"hacienda_backend/internal/models"
)

// Notifier es el colaborador de notificaciones del workflow de checkout.
type Notifier interface {
	OrderCreated(email string, order *models.Order, details []models.OrderDetail) error
	OrderStatusChanged(email string, order *models.Order, newStatus string) error
}

// Mailer implementa Notifier sobre SMTP.
type Mailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) OrderCreated(email string, order *models.Order, details []models.OrderDetail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola,\n\nRecibimos tu pedido %s.\n\n", order.ID)
	for _, d := range details {
		fmt.Fprintf(&b, "- %s (%g %s) x%d: $%.0f\n",
			d.ProductName, d.VariantWeight, d.VariantUnit, d.Quantity, d.Subtotal)
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.0f\nEnvío: $%.0f\nComisión: $%.0f\nTotal: $%.0f\n",
		order.Subtotal, order.ShippingCost, order.PaymentCommission, order.Total)
	fmt.Fprintf(&b, "Entrega estimada: %s\n\nHacienda Cantabria\n",
		order.EstimatedDelivery.Format("02-01-2006"))

	return m.send(email, "Confirmación de tu pedido - Hacienda Cantabria", b.String())
}

func (m *Mailer) OrderStatusChanged(email string, order *models.Order, newStatus string) error {
	subject := statusSubject(newStatus)
	body := fmt.Sprintf("Hola,\n\nTu pedido %s cambió de estado: %s.\n\nHacienda Cantabria\n",
		order.ID, newStatus)
	return m.send(email, subject, body)
}

func statusSubject(status string) string {
	switch status {
	case models.OrderStatusCompletado:
		return "✅ Pago confirmado - Hacienda Cantabria"
	case models.OrderStatusProcesando:
		return "📦 Tu pedido está en preparación - Hacienda Cantabria"
	case models.OrderStatusFinalizado:
		return "🎉 Tu pedido fue entregado - Hacienda Cantabria"
	case models.OrderStatusCancelado:
		return "❌ Pedido cancelado - Hacienda Cantabria"
	default:
		return "📋 Actualización de tu pedido - Hacienda Cantabria"
	}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.SMTPFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.cfg.SMTPHost,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.SMTPUsername),
		mail.WithPassword(m.cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Enviando correo a", to)
	return client.DialAndSend(msg)
}
