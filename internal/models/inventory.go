package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Tipos de movimiento de stock.
const (
	MovementVenta      = "venta"
	MovementReposicion = "reposicion"
	MovementAjuste     = "ajuste"
	MovementDevolucion = "devolucion"
)

// StockMovement registra cada cambio de stock de una variante.
type StockMovement struct {
	ID        gocql.UUID  `json:"id"`
	ProductID gocql.UUID  `json:"product_id"`
	VariantID gocql.UUID  `json:"variant_id"`
	Type      string      `json:"tipo"`
	Quantity  int         `json:"cantidad"`
	PrevStock int         `json:"stockAnterior"`
	NewStock  int         `json:"stockNuevo"`
	Reason    string      `json:"motivo"`
	OrderID   *gocql.UUID `json:"order_id,omitempty"`
	UserID    string      `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// Tipos de alerta de stock.
const (
	AlertStockBajo = "stock_bajo"
	AlertSinStock  = "sin_stock"
)

// StockAlert es una alerta de stock bajo o agotado sobre una variante.
type StockAlert struct {
	ID             gocql.UUID `json:"id"`
	ProductID      gocql.UUID `json:"product_id"`
	VariantID      gocql.UUID `json:"variant_id"`
	ProductName    string     `json:"productoNombre"`
	CurrentStock   int        `json:"stockActual"`
	ThresholdStock int        `json:"umbral"`
	AlertType      string     `json:"tipo"`
	IsResolved     bool       `json:"resuelta"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resuelta_en,omitempty"`
}
