package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estados de un pedido.
const (
	OrderStatusPendiente  = "pendiente"
	OrderStatusProcesando = "procesando"
	OrderStatusCompletado = "completado"
	OrderStatusCancelado  = "cancelado"
	OrderStatusFinalizado = "finalizado"
)

// Estados del sub-documento de pago.
const (
	PaymentStatusPendiente  = "pendiente"
	PaymentStatusCompletado = "completado"
	PaymentStatusFallido    = "fallido"
)

// ValidOrderStatus verifica pertenencia al enum de estados.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPendiente, OrderStatusProcesando, OrderStatusCompletado,
		OrderStatusCancelado, OrderStatusFinalizado:
		return true
	}
	return false
}

// Order es el registro inmutable de un checkout completado. Los montos no
// se tocan después de creado; sólo estado y pago mutan vía admin o webhook.
type Order struct {
	ID        gocql.UUID `json:"id" db:"order_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Status    string     `json:"estado" db:"status"`
	CreatedAt time.Time  `json:"fechaCreacion" db:"created_at"`

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

	Payment           PaymentInfo `json:"pago"`
	EstimatedDelivery time.Time   `json:"fechaEntregaEstimada" db:"estimated_delivery"`

	// Cotización de origen cuando el pedido nace de una conversión.
	QuotationID *gocql.UUID `json:"cotizacionId,omitempty" db:"quotation_id"`
}

// PaymentInfo es el sub-documento de pago del pedido. Claves acotadas y
// tipadas, nada de mapas dinámicos.
type PaymentInfo struct {
	Status        string     `json:"estado" db:"payment_status"`
	Provider      string     `json:"proveedor" db:"payment_provider"`
	TransactionID string     `json:"transaccionId" db:"payment_transaction_id"`
	Amount        float64    `json:"monto" db:"payment_amount"`
	ProcessedAt   *time.Time `json:"procesadoEn,omitempty" db:"payment_processed_at"`
}

// OrderDetail es una línea del pedido con fotos congeladas de variante,
// precio y producto, para que ediciones posteriores del catálogo no alteren
// pedidos históricos.
type OrderDetail struct {
	OrderID   gocql.UUID `json:"order_id" db:"order_id"`
	DetailID  gocql.UUID `json:"id" db:"detail_id"`
	ProductID gocql.UUID `json:"productId" db:"product_id"`
	Quantity  int        `json:"cantidad" db:"quantity"`

	// Foto de la variante
	VariantID     gocql.UUID `json:"varianteId" db:"variant_id"`
	VariantSKU    string     `json:"varianteSku" db:"variant_sku"`
	VariantWeight float64    `json:"variantePeso" db:"variant_weight"`
	VariantUnit   string     `json:"varianteUnidad" db:"variant_unit"`

	// Foto del precio
	BasePrice   float64 `json:"precioBase" db:"base_price"`
	DiscountPct float64 `json:"descuento" db:"discount_pct"`
	FinalPrice  float64 `json:"precioFinal" db:"final_price"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`

	// Foto del producto
	ProductName     string `json:"productoNombre" db:"product_name"`
	ProductCategory string `json:"productoCategoria" db:"product_category"`
	ProductType     string `json:"productoTipo" db:"product_type"`
	ProductImage    string `json:"productoImagen" db:"product_image"`
}

// AddressSnapshot es la foto de la dirección de envío al crear el pedido.
type AddressSnapshot struct {
	Street    string `json:"calle" db:"street"`
	Number    string `json:"numero" db:"number"`
	City      string `json:"ciudad" db:"city"`
	Region    string `json:"region" db:"region"`
	ZipCode   string `json:"codigoPostal" db:"zip_code"`
	Reference string `json:"referencia" db:"reference"`
}

// Address es una dirección del libro de direcciones del usuario.
type Address struct {
	ID     gocql.UUID `json:"id" db:"address_id"`
	UserID string     `json:"user_id" db:"user_id"`
	AddressSnapshot
}
