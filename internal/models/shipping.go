package models

import "github.com/gocql/gocql"

// Carrier es un transportista con uno o más métodos de envío nombrados.
type Carrier struct {
	ID      gocql.UUID          `json:"id" db:"carrier_id"`
	Name    string              `json:"nombre" db:"name"`
	Active  bool                `json:"activo" db:"is_active"`
	Methods []ShippingSubMethod `json:"metodos"`
}

// ShippingSubMethod es un método concreto dentro de un carrier.
type ShippingSubMethod struct {
	Name                  string  `json:"nombre" db:"name"`
	BaseCost              float64 `json:"costoBase" db:"base_cost"`
	ExtraCostPerKg        float64 `json:"costoExtraPorKg" db:"extra_cost_per_kg"`
	FreeShippingThreshold float64 `json:"umbralEnvioGratis" db:"free_shipping_threshold"` // 0 = sin umbral
	DeliveryTime          string  `json:"tiempoEntrega" db:"delivery_time"`               // texto libre, ej. "3-5 días hábiles"
}

// PaymentMethod es un medio de pago con su comisión porcentual.
type PaymentMethod struct {
	ID            gocql.UUID `json:"id" db:"payment_method_id"`
	Name          string     `json:"nombre" db:"name"`
	Provider      string     `json:"proveedor" db:"provider"` // "webpay" | "mercadopago"
	CommissionPct float64    `json:"comision" db:"commission_pct"`
	Active        bool       `json:"activo" db:"is_active"`
}
