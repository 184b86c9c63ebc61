package payments

import (
	"strings"

	"hacienda_backend/internal/config"
	"hacienda_backend/internal/models"
)

// MercadoPagoPreference es la preferencia de pago creada para un pedido.
// Las URLs de notificación y retorno vienen de la configuración.
type MercadoPagoPreference struct {
	ExternalReference string  `json:"external_reference"`
	NotificationURL   string  `json:"notification_url"`
	BackURL           string  `json:"back_url"`
	Amount            float64 `json:"monto"`
}

// InitMercadoPago arma la preferencia para un pedido; external_reference
// lleva el id del pedido para correlacionar el IPN.
func InitMercadoPago(cfg *config.Config, order *models.Order) MercadoPagoPreference {
	return MercadoPagoPreference{
		ExternalReference: order.ID.String(),
		NotificationURL:   cfg.MercadoPagoNotifyURL,
		BackURL:           cfg.MercadoPagoBackURL,
		Amount:            order.Total,
	}
}

// MercadoPagoIPN es la notificación entrante de MercadoPago.
type MercadoPagoIPN struct {
	PaymentID         string `json:"payment_id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// MapMercadoPagoStatus traduce el estado del proveedor al par (estado pago,
// estado pedido). terminal=false para estados intermedios (pending,
// in_process): el pedido no se toca todavía.
func MapMercadoPagoStatus(status string) (paymentStatus, orderStatus string, terminal bool) {
	switch strings.ToLower(status) {
	case "approved":
		return models.PaymentStatusCompletado, models.OrderStatusCompletado, true
	case "pending", "in_process", "authorized":
		return models.PaymentStatusPendiente, models.OrderStatusPendiente, false
	default:
		// rejected, cancelled, refunded, charged_back y cualquier otro
		// estado terminal desconocido se tratan como fallo.
		return models.PaymentStatusFallido, models.OrderStatusCancelado, true
	}
}
