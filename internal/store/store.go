// Package store define los accesos a datos del flujo de pedidos y sus
// implementaciones sobre ScyllaDB y Redis. Las implementaciones en memoria
// viven en memory.go y respaldan la suite de tests.
package store

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/models"
)

// ErrNotFound lo retornan todos los stores cuando el registro no existe.
var ErrNotFound = errors.New("registro no encontrado")

// ErrStockContention indica que el descuento condicional agotó sus
// reintentos perdiendo el CAS contra otros checkouts, con stock todavía
// suficiente. La operación es reintentable.
var ErrStockContention = errors.New("contención al descontar stock")

// CatalogStore expone el catálogo y la operación de stock acotada a una
// variante dentro de un producto.
type CatalogStore interface {
	// GetProduct retorna el producto con sus variantes indexadas por id.
	GetProduct(ctx context.Context, productID string) (*models.Product, error)

	// DecrementStock descuenta qty del stock de la variante sólo si alcanza
	// (actualización condicional). Retorna applied=false y el stock
	// disponible actual cuando no alcanza. Registra el movimiento "venta".
	DecrementStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) (applied bool, available int, err error)

	// RestoreStock devuelve qty unidades (compensación de un checkout
	// fallido a mitad de escritura). Registra el movimiento "devolucion".
	RestoreStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) error
}

// InventoryStore expone las operaciones administrativas de inventario.
type InventoryStore interface {
	// AdjustStock aplica una reposición (delta) o un ajuste (valor
	// absoluto) sobre una variante y registra el movimiento.
	AdjustStock(ctx context.Context, productID, variantID, movType string, qty int, reason, userID string) (*models.StockMovement, error)
	ListMovements(ctx context.Context, productID string, limit int) ([]models.StockMovement, error)
	ListAlerts(ctx context.Context) ([]models.StockAlert, error)
	ResolveAlert(ctx context.Context, alertID string) error
}

// CartStore es el carrito por usuario. Get retorna ErrNotFound si el
// usuario no tiene carrito.
type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Delete(ctx context.Context, userID string) error
}

// AddressStore expone el libro de direcciones (colaborador externo).
type AddressStore interface {
	Get(ctx context.Context, addressID string) (*models.Address, error)
}

// MethodStore expone transportistas y medios de pago.
type MethodStore interface {
	GetCarrier(ctx context.Context, carrierID string) (*models.Carrier, error)
	GetPaymentMethod(ctx context.Context, paymentMethodID string) (*models.PaymentMethod, error)
}

// OrderStore persiste pedidos y sus detalles.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order, details []models.OrderDetail) error
	// Delete remueve un pedido insertado a medias (compensación).
	Delete(ctx context.Context, orderID gocql.UUID) error
	Get(ctx context.Context, orderID string) (*models.Order, []models.OrderDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	// UpdatePayment actualiza el sub-documento de pago y el estado del
	// pedido en una sola pasada (callbacks de proveedores).
	UpdatePayment(ctx context.Context, orderID string, payment models.PaymentInfo, orderStatus string) error
	// GetByTransaction busca por (proveedor, id de transacción) para el
	// chequeo de idempotencia de los webhooks.
	GetByTransaction(ctx context.Context, provider, transactionID string) (*models.Order, error)
}

// QuotationStore persiste cotizaciones y sus detalles.
type QuotationStore interface {
	Insert(ctx context.Context, q *models.Quotation, details []models.QuotationDetail) error
	Get(ctx context.Context, quotationID string) (*models.Quotation, []models.QuotationDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.Quotation, error)
	UpdateStatus(ctx context.Context, quotationID, status string) error
	// MarkConverted deja la cotización finalizada y enlazada al pedido.
	MarkConverted(ctx context.Context, quotationID string, orderID gocql.UUID) error
}
