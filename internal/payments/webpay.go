// Package payments modela WebPay y MercadoPago como colaboradores opacos:
// iniciación de transacción con URLs explícitas de configuración y mapeo de
// resultados de proveedor a estados de pedido.
package payments

import (
	"strings"

	"github.com/google/uuid"

	"hacienda_backend/internal/config"
	"hacienda_backend/internal/models"
)

const (
	ProviderWebpay      = "webpay"
	ProviderMercadoPago = "mercadopago"
)

// WebpayTransaction es la transacción creada contra WebPay. El token viaja
// al front para el redirect y vuelve en el retorno del proveedor.
type WebpayTransaction struct {
	Token       string  `json:"token"`
	RedirectURL string  `json:"url"`
	BuyOrder    string  `json:"buyOrder"`
	Amount      float64 `json:"monto"`
}

// NewWebpayToken genera el token de transacción. Se genera antes de crear
// el pedido para que quede indexado en orders_by_transaction desde el insert.
func NewWebpayToken() string {
	return "tbk-" + uuid.NewString()
}

// InitWebpay arma la transacción WebPay para un pedido ya creado con su
// token asignado. La URL de retorno sale de la configuración, nunca de
// estado global.
func InitWebpay(cfg *config.Config, order *models.Order) WebpayTransaction {
	return WebpayTransaction{
		Token:       order.Payment.TransactionID,
		RedirectURL: cfg.WebpayReturnURL,
		BuyOrder:    order.ID.String(),
		Amount:      order.Total,
	}
}

// WebpayResult es el retorno de WebPay tras el pago.
type WebpayResult struct {
	Token             string  `json:"token_ws"`
	BuyOrder          string  `json:"buy_order"`
	ResponseCode      int     `json:"response_code"`
	Amount            float64 `json:"amount"`
	AuthorizationCode string  `json:"authorization_code"`
}

// Approved reporta si el resultado es un pago aprobado. WebPay usa código
// de respuesta 0 para aprobado; cualquier otro código es rechazo.
func (r WebpayResult) Approved() bool { return r.ResponseCode == 0 }

// MapWebpayResult traduce el resultado al par (estado pago, estado pedido).
func MapWebpayResult(r WebpayResult) (paymentStatus, orderStatus string) {
	if r.Approved() {
		return models.PaymentStatusCompletado, models.OrderStatusCompletado
	}
	return models.PaymentStatusFallido, models.OrderStatusCancelado
}

// Terminal reporta si un estado de pago ya es definitivo: los webhooks
// repetidos sobre un pago terminal se ignoran.
func Terminal(paymentStatus string) bool {
	switch strings.ToLower(paymentStatus) {
	case models.PaymentStatusCompletado, models.PaymentStatusFallido:
		return true
	}
	return false
}
