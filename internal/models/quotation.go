package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estados de una cotización.
const (
	QuotationStatusPendiente  = "pendiente"
	QuotationStatusAprobada   = "aprobada"
	QuotationStatusRechazada  = "rechazada"
	QuotationStatusFinalizada = "finalizada"
)

// ValidQuotationStatus verifica pertenencia al enum de estados.
func ValidQuotationStatus(s string) bool {
	switch s {
	case QuotationStatusPendiente, QuotationStatusAprobada,
		QuotationStatusRechazada, QuotationStatusFinalizada:
		return true
	}
	return false
}

// Quotation es una retención de precio no vinculante: misma forma que un
// pedido pero sin pago y sin descontar stock. El stock se compromete recién
// al convertirla en pedido.
type Quotation struct {
	ID        gocql.UUID `json:"id" db:"quotation_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Status    string     `json:"estado" db:"status"`
	CreatedAt time.Time  `json:"fechaCreacion" db:"created_at"`
	ValidUntil time.Time `json:"validaHasta" db:"valid_until"`

	Subtotal          float64 `json:"subtotal" db:"subtotal"`
	ShippingCost      float64 `json:"costoEnvio" db:"shipping_cost"`
	PaymentCommission float64 `json:"comisionPago" db:"payment_commission"`
	Total             float64 `json:"total" db:"total"`

	ShippingAddress    AddressSnapshot `json:"direccionEnvio"`
	CarrierID          gocql.UUID      `json:"carrierId" db:"carrier_id"`
	CarrierName        string          `json:"carrierNombre" db:"carrier_name"`
	ShippingMethodName string          `json:"metodoEnvio" db:"shipping_method_name"`
	PaymentMethodID    gocql.UUID      `json:"metodoPagoId" db:"payment_method_id"`
	PaymentMethodName  string          `json:"metodoPago" db:"payment_method_name"`

	EstimatedDelivery time.Time `json:"fechaEntregaEstimada" db:"estimated_delivery"`

	// Pedido generado al convertir, si ya se convirtió.
	OrderID *gocql.UUID `json:"orderId,omitempty" db:"order_id"`
}

// Expired indica si la cotización venció respecto de now.
func (q *Quotation) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// QuotationDetail es estructuralmente paralelo a OrderDetail.
type QuotationDetail struct {
	QuotationID gocql.UUID `json:"quotation_id" db:"quotation_id"`
	DetailID    gocql.UUID `json:"id" db:"detail_id"`
	ProductID   gocql.UUID `json:"productId" db:"product_id"`
	Quantity    int        `json:"cantidad" db:"quantity"`

	VariantID     gocql.UUID `json:"varianteId" db:"variant_id"`
	VariantSKU    string     `json:"varianteSku" db:"variant_sku"`
	VariantWeight float64    `json:"variantePeso" db:"variant_weight"`
	VariantUnit   string     `json:"varianteUnidad" db:"variant_unit"`

	BasePrice   float64 `json:"precioBase" db:"base_price"`
	DiscountPct float64 `json:"descuento" db:"discount_pct"`
	FinalPrice  float64 `json:"precioFinal" db:"final_price"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`

	ProductName     string `json:"productoNombre" db:"product_name"`
	ProductCategory string `json:"productoCategoria" db:"product_category"`
	ProductType     string `json:"productoTipo" db:"product_type"`
	ProductImage    string `json:"productoImagen" db:"product_image"`
}
