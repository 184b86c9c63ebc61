// Package checkout orquesta la conversión de un carrito en pedido o
// cotización: validación de disponibilidad, cálculo de precios, persistencia
// con fotos congeladas y descuento de stock por variante.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/notify"
	"hacienda_backend/internal/pricing"
	"hacienda_backend/internal/store"
)

// Vigencia por defecto de una cotización.
const defaultQuotationValidDays = 7

// Workflow agrupa los colaboradores del flujo de checkout.
type Workflow struct {
	Catalog   store.CatalogStore
	Carts     store.CartStore
	Addresses store.AddressStore
	Methods   store.MethodStore
	Orders    store.OrderStore
	Quotes    store.QuotationStore
	Notifier  notify.Notifier

	// Now permite anclar el reloj en tests; nil usa time.Now.
	Now func() time.Time
}

// Input son los parámetros de un checkout o cotización.
type Input struct {
	UserID          string
	Email           string
	AddressID       string
	PaymentMethodID string
	CarrierID       string

	// TransactionID es el identificador de transacción pre-generado para
	// el proveedor de pago; puede venir vacío (cotizaciones, MercadoPago).
	TransactionID string
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// checked es el resultado de las precondiciones comunes a pedido y
// cotización, en el orden del contrato: dirección → medio de pago →
// transportista → carrito → líneas.
type checked struct {
	address *models.Address
	payment *models.PaymentMethod
	carrier *models.Carrier
	method  models.ShippingSubMethod
	lines   []pricing.Line
}

func (w *Workflow) validate(ctx context.Context, in Input) (*checked, error) {
	// 1. La dirección debe existir y pertenecer al usuario.
	address, err := w.Addresses.Get(ctx, in.AddressID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFound("Dirección no encontrada")
	}
	if err != nil {
		return nil, apperr.Internal("Error consultando la dirección", err)
	}
	if address.UserID != in.UserID {
		return nil, apperr.Authorization("La dirección no pertenece al usuario")
	}

	// 2. El medio de pago debe existir y estar activo.
	payment, err := w.Methods.GetPaymentMethod(ctx, in.PaymentMethodID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFound("Medio de pago no encontrado")
	}
	if err != nil {
		return nil, apperr.Internal("Error consultando el medio de pago", err)
	}
	if !payment.Active {
		return nil, apperr.Conflict("Medio de pago inactivo")
	}

	// 3. El transportista debe existir, estar activo y tener al menos un
	// método; se toma el primero.
	carrier, err := w.Methods.GetCarrier(ctx, in.CarrierID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFound("Transportista no encontrado")
	}
	if err != nil {
		return nil, apperr.Internal("Error consultando el transportista", err)
	}
	if !carrier.Active {
		return nil, apperr.Conflict("Transportista inactivo")
	}
	if len(carrier.Methods) == 0 {
		return nil, apperr.Conflict("El transportista no tiene métodos de envío")
	}

	// 4. El carrito debe existir y no estar vacío.
	cart, err := w.Carts.Get(ctx, in.UserID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFound("Carrito inexistente")
	}
	if err != nil {
		return nil, apperr.Internal("Error leyendo el carrito", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperr.Validation("El carrito está vacío")
	}

	// 5. Cada línea contra el catálogo vigente. Cualquier violación
	// aborta completo: nunca se crean pedidos parciales.
	lines, err := w.buildLines(ctx, cartLines(cart.Items))
	if err != nil {
		return nil, err
	}

	return &checked{
		address: address,
		payment: payment,
		carrier: carrier,
		method:  carrier.Methods[0],
		lines:   lines,
	}, nil
}

// lineRef es una referencia (producto, variante, cantidad) por validar.
type lineRef struct {
	ProductID string
	VariantID string
	Quantity  int
}

func cartLines(items []models.CartItem) []lineRef {
	refs := make([]lineRef, 0, len(items))
	for _, it := range items {
		refs = append(refs, lineRef{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return refs
}

// buildLines valida cada referencia contra el catálogo vigente y arma las
// líneas para el motor de precios.
func (w *Workflow) buildLines(ctx context.Context, refs []lineRef) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(refs))
	for _, ref := range refs {
		if ref.Quantity < 1 {
			return nil, apperr.Validation("Cantidad inválida en el carrito")
		}

		product, err := w.Catalog.GetProduct(ctx, ref.ProductID)
		if err == store.ErrNotFound {
			return nil, apperr.NotFound("Producto no encontrado: " + ref.ProductID)
		}
		if err != nil {
			return nil, apperr.Internal("Error consultando el catálogo", err)
		}
		if !product.Active {
			return nil, apperr.Conflict("Producto inactivo: " + product.Name)
		}

		variant, ok := product.VariantByID(ref.VariantID)
		if !ok {
			return nil, apperr.NotFound("Variante no encontrada para " + product.Name)
		}
		if variant.Stock < ref.Quantity {
			return nil, apperr.StockConflict(product.Name, variant.Stock, ref.Quantity)
		}

		lines = append(lines, pricing.Line{Product: *product, Variant: variant, Quantity: ref.Quantity})
	}
	return lines, nil
}

// CreateOrder convierte el carrito del usuario en un pedido: valida, cotiza,
// persiste pedido y detalles, descuenta stock variante por variante y borra
// el carrito. La notificación es best-effort.
func (w *Workflow) CreateOrder(ctx context.Context, in Input) (*models.Order, []models.OrderDetail, error) {
	chk, err := w.validate(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	now := w.now()
	breakdown := pricing.Price(chk.lines, chk.method, *chk.payment, now)

	order, details := buildOrder(in, chk, breakdown, now, nil)

	if err := w.Orders.Insert(ctx, order, details); err != nil {
		return nil, nil, apperr.Internal("Error guardando el pedido", err)
	}

	if err := w.reserveStock(ctx, order, breakdown.Lines, in.UserID); err != nil {
		return nil, nil, err
	}

	if err := w.Carts.Delete(ctx, in.UserID); err != nil {
		log.Printf("⚠️ No se pudo borrar el carrito de %s: %v", in.UserID, err)
	}

	w.notifyCreated(in.Email, order, details)

	log.Printf("✅ Pedido %s creado para %s (total $%.0f)", order.ID, in.UserID, order.Total)
	return order, details, nil
}

// reserveStock descuenta el stock de cada línea. Ante un fallo restaura los
// descuentos ya aplicados y elimina el pedido: nunca queda un pedido con
// reserva parcial.
func (w *Workflow) reserveStock(ctx context.Context, order *models.Order, lines []pricing.PricedLine, userID string) error {
	oid := order.ID
	for i, line := range lines {
		pid := line.Product.ID.String()
		vid := line.Variant.ID.String()

		applied, available, err := w.Catalog.DecrementStock(ctx, pid, vid, line.Quantity, &oid, userID)
		if err == nil && applied {
			continue
		}

		w.rollback(ctx, order, lines[:i], userID)

		if err != nil {
			return apperr.Internal("Error descontando stock", err)
		}
		return apperr.StockConflict(line.Product.Name, available, line.Quantity)
	}
	return nil
}

func (w *Workflow) rollback(ctx context.Context, order *models.Order, applied []pricing.PricedLine, userID string) {
	oid := order.ID
	for _, line := range applied {
		if err := w.Catalog.RestoreStock(ctx, line.Product.ID.String(), line.Variant.ID.String(),
			line.Quantity, &oid, userID); err != nil {
			log.Printf("❌ Compensación de stock falló para variante %s: %v", line.Variant.ID, err)
		}
	}
	if err := w.Orders.Delete(ctx, order.ID); err != nil {
		log.Printf("❌ No se pudo eliminar el pedido %s tras el fallo: %v", order.ID, err)
	}
}

func (w *Workflow) notifyCreated(email string, order *models.Order, details []models.OrderDetail) {
	if w.Notifier == nil || email == "" {
		return
	}
	if err := w.Notifier.OrderCreated(email, order, details); err != nil {
		log.Printf("⚠️ Error enviando confirmación de pedido %s: %v", order.ID, err)
	}
}

// buildOrder congela el pedido y sus detalles a partir del desglose.
func buildOrder(in Input, chk *checked, b pricing.Breakdown, now time.Time, quotationID *gocql.UUID) (*models.Order, []models.OrderDetail) {
	order := &models.Order{
		ID:        gocql.TimeUUID(),
		UserID:    in.UserID,
		Status:    models.OrderStatusPendiente,
		CreatedAt: now,

		Subtotal:          b.Subtotal,
		ShippingCost:      b.ShippingCost,
		PaymentCommission: b.PaymentCommission,
		Total:             b.Total,

		ShippingAddress:    chk.address.AddressSnapshot,
		CarrierID:          chk.carrier.ID,
		CarrierName:        chk.carrier.Name,
		ShippingMethodName: chk.method.Name,
		PaymentMethodID:    chk.payment.ID,
		PaymentMethodName:  chk.payment.Name,

		Payment: models.PaymentInfo{
			Status:        models.PaymentStatusPendiente,
			Provider:      chk.payment.Provider,
			TransactionID: in.TransactionID,
			Amount:        b.Total,
		},
		EstimatedDelivery: b.EstimatedDelivery,
		QuotationID:       quotationID,
	}

	details := make([]models.OrderDetail, 0, len(b.Lines))
	for _, line := range b.Lines {
		details = append(details, models.OrderDetail{
			OrderID:   order.ID,
			DetailID:  gocql.TimeUUID(),
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,

			VariantID:     line.Variant.ID,
			VariantSKU:    line.Variant.SKU,
			VariantWeight: line.Variant.Weight,
			VariantUnit:   line.Variant.Unit,

			BasePrice:   line.BasePrice,
			DiscountPct: line.DiscountPct,
			FinalPrice:  line.FinalPrice,
			Subtotal:    line.Subtotal,

			ProductName:     line.Product.Name,
			ProductCategory: line.Product.Category,
			ProductType:     line.Product.Type,
			ProductImage:    line.Product.ImageURL,
		})
	}

	return order, details
}

// CreateQuotation arma una cotización a partir del carrito: mismas
// validaciones y mismo motor de precios que un pedido, sin descontar stock.
// El carrito se consume igual que en un checkout; la conversión posterior
// parte de los detalles congelados, no del carrito.
func (w *Workflow) CreateQuotation(ctx context.Context, in Input, validDays int) (*models.Quotation, []models.QuotationDetail, error) {
	chk, err := w.validate(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	if validDays <= 0 {
		validDays = defaultQuotationValidDays
	}

	now := w.now()
	b := pricing.Price(chk.lines, chk.method, *chk.payment, now)

	quotation := &models.Quotation{
		ID:         gocql.TimeUUID(),
		UserID:     in.UserID,
		Status:     models.QuotationStatusPendiente,
		CreatedAt:  now,
		ValidUntil: now.AddDate(0, 0, validDays),

		Subtotal:          b.Subtotal,
		ShippingCost:      b.ShippingCost,
		PaymentCommission: b.PaymentCommission,
		Total:             b.Total,

		ShippingAddress:    chk.address.AddressSnapshot,
		CarrierID:          chk.carrier.ID,
		CarrierName:        chk.carrier.Name,
		ShippingMethodName: chk.method.Name,
		PaymentMethodID:    chk.payment.ID,
		PaymentMethodName:  chk.payment.Name,
		EstimatedDelivery:  b.EstimatedDelivery,
	}

	details := make([]models.QuotationDetail, 0, len(b.Lines))
	for _, line := range b.Lines {
		details = append(details, models.QuotationDetail{
			QuotationID: quotation.ID,
			DetailID:    gocql.TimeUUID(),
			ProductID:   line.Product.ID,
			Quantity:    line.Quantity,

			VariantID:     line.Variant.ID,
			VariantSKU:    line.Variant.SKU,
			VariantWeight: line.Variant.Weight,
			VariantUnit:   line.Variant.Unit,

			BasePrice:   line.BasePrice,
			DiscountPct: line.DiscountPct,
			FinalPrice:  line.FinalPrice,
			Subtotal:    line.Subtotal,

			ProductName:     line.Product.Name,
			ProductCategory: line.Product.Category,
			ProductType:     line.Product.Type,
			ProductImage:    line.Product.ImageURL,
		})
	}

	if err := w.Quotes.Insert(ctx, quotation, details); err != nil {
		return nil, nil, apperr.Internal("Error guardando la cotización", err)
	}

	if err := w.Carts.Delete(ctx, in.UserID); err != nil {
		log.Printf("⚠️ No se pudo borrar el carrito de %s tras cotizar: %v", in.UserID, err)
	}

	log.Printf("✅ Cotización %s creada para %s (total $%.0f, vence %s)",
		quotation.ID, in.UserID, quotation.Total, quotation.ValidUntil.Format("02-01-2006"))
	return quotation, details, nil
}

// SetQuotationStatus aplica la decisión administrativa sobre una cotización
// pendiente: aprobada o rechazada. Finalizada sólo se alcanza vía Convert.
func (w *Workflow) SetQuotationStatus(ctx context.Context, quotationID, status string) (*models.Quotation, error) {
	if status != models.QuotationStatusAprobada && status != models.QuotationStatusRechazada {
		return nil, apperr.Validation("Estado de cotización inválido: " + status)
	}

	quotation, _, err := w.Quotes.Get(ctx, quotationID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFound("Cotización no encontrada")
	}
	if err != nil {
		return nil, apperr.Internal("Error consultando la cotización", err)
	}

	if quotation.Status != models.QuotationStatusPendiente {
		return nil, apperr.Conflict(fmt.Sprintf("La cotización ya está %s", quotation.Status))
	}

	if err := w.Quotes.UpdateStatus(ctx, quotationID, status); err != nil {
		return nil, apperr.Internal("Error actualizando la cotización", err)
	}

	quotation.Status = status
	return quotation, nil
}

// ConvertQuotation convierte una cotización aprobada y vigente en un pedido:
// revalida cada línea contra el catálogo actual, recotiza con el mismo
// motor, descuenta stock y enlaza la cotización al pedido resultante. La
// conversión es idempotente: una cotización ya convertida no vuelve a
// descontar stock.
func (w *Workflow) ConvertQuotation(ctx context.Context, quotationID string, in Input, isAdmin bool) (*models.Order, []models.OrderDetail, error) {
	quotation, qDetails, err := w.Quotes.Get(ctx, quotationID)
	if err == store.ErrNotFound {
		return nil, nil, apperr.NotFound("Cotización no encontrada")
	}
	if err != nil {
		return nil, nil, apperr.Internal("Error consultando la cotización", err)
	}

	if quotation.UserID != in.UserID && !isAdmin {
		return nil, nil, apperr.Authorization("La cotización no pertenece al usuario")
	}

	// La expiración bloquea la conversión sin importar el estado.
	if quotation.Expired(w.now()) {
		return nil, nil, apperr.Conflict("La cotización está vencida")
	}
	if quotation.OrderID != nil {
		return nil, nil, apperr.Conflict("La cotización ya fue convertida en pedido")
	}
	if quotation.Status != models.QuotationStatusAprobada {
		return nil, nil, apperr.Conflict("Sólo se convierten cotizaciones aprobadas (estado actual: " + quotation.Status + ")")
	}

	// Medio de pago y transportista se revalidan al momento de convertir.
	payment, err := w.Methods.GetPaymentMethod(ctx, quotation.PaymentMethodID.String())
	if err == store.ErrNotFound {
		return nil, nil, apperr.NotFound("Medio de pago no encontrado")
	}
	if err != nil {
		return nil, nil, apperr.Internal("Error consultando el medio de pago", err)
	}
	if !payment.Active {
		return nil, nil, apperr.Conflict("Medio de pago inactivo")
	}

	carrier, err := w.Methods.GetCarrier(ctx, quotation.CarrierID.String())
	if err == store.ErrNotFound {
		return nil, nil, apperr.NotFound("Transportista no encontrado")
	}
	if err != nil {
		return nil, nil, apperr.Internal("Error consultando el transportista", err)
	}
	if !carrier.Active {
		return nil, nil, apperr.Conflict("Transportista inactivo")
	}
	if len(carrier.Methods) == 0 {
		return nil, nil, apperr.Conflict("El transportista no tiene métodos de envío")
	}

	refs := make([]lineRef, 0, len(qDetails))
	for _, d := range qDetails {
		refs = append(refs, lineRef{
			ProductID: d.ProductID.String(),
			VariantID: d.VariantID.String(),
			Quantity:  d.Quantity,
		})
	}

	lines, err := w.buildLines(ctx, refs)
	if err != nil {
		return nil, nil, err
	}

	now := w.now()
	b := pricing.Price(lines, carrier.Methods[0], *payment, now)

	qid := quotation.ID
	chk := &checked{
		address: &models.Address{UserID: quotation.UserID, AddressSnapshot: quotation.ShippingAddress},
		payment: payment,
		carrier: carrier,
		method:  carrier.Methods[0],
	}
	order, details := buildOrder(Input{UserID: quotation.UserID, TransactionID: in.TransactionID}, chk, b, now, &qid)

	if err := w.Orders.Insert(ctx, order, details); err != nil {
		return nil, nil, apperr.Internal("Error guardando el pedido", err)
	}

	if err := w.reserveStock(ctx, order, b.Lines, in.UserID); err != nil {
		return nil, nil, err
	}

	if err := w.Quotes.MarkConverted(ctx, quotationID, order.ID); err != nil {
		// El pedido ya está comprometido; se reporta pero no se revierte.
		log.Printf("❌ No se pudo marcar convertida la cotización %s: %v", quotationID, err)
	}

	w.notifyCreated(in.Email, order, details)

	log.Printf("✅ Cotización %s convertida en pedido %s", quotationID, order.ID)
	return order, details, nil
}
