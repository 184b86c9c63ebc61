package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/models"
)

// Memory es el estado compartido de los stores en memoria. Implementa
// CatalogStore, InventoryStore y MethodStore directamente; los accesos con
// nombres de método en conflicto (Get/Insert/Delete) se exponen como vistas:
// Carts(), Addresses(), Orders(), Quotations(). Respalda la suite de tests
// y el modo de desarrollo sin bases de datos.
type Memory struct {
	mu sync.Mutex

	Products       map[string]*models.Product
	CartItems      map[string][]models.CartItem
	AddressBook    map[string]*models.Address
	Carriers       map[string]*models.Carrier
	PaymentMethods map[string]*models.PaymentMethod

	OrdersByID     map[string]*models.Order
	OrderDetails   map[string][]models.OrderDetail
	QuotationsByID map[string]*models.Quotation
	QuoteDetails   map[string][]models.QuotationDetail

	Movements []models.StockMovement
	Alerts    []models.StockAlert

	// FailOrderInsert fuerza el fallo del insert de pedidos para probar la
	// compensación del workflow.
	FailOrderInsert bool
}

func NewMemory() *Memory {
	return &Memory{
		Products:       make(map[string]*models.Product),
		CartItems:      make(map[string][]models.CartItem),
		AddressBook:    make(map[string]*models.Address),
		Carriers:       make(map[string]*models.Carrier),
		PaymentMethods: make(map[string]*models.PaymentMethod),
		OrdersByID:     make(map[string]*models.Order),
		OrderDetails:   make(map[string][]models.OrderDetail),
		QuotationsByID: make(map[string]*models.Quotation),
		QuoteDetails:   make(map[string][]models.QuotationDetail),
	}
}

// Vistas por interfaz.
func (m *Memory) Carts() CartStore           { return memoryCarts{m} }
func (m *Memory) Addresses() AddressStore    { return memoryAddresses{m} }
func (m *Memory) Orders() OrderStore         { return memoryOrders{m} }
func (m *Memory) Quotations() QuotationStore { return memoryQuotations{m} }

// --- CatalogStore ---

func (m *Memory) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return nil, ErrNotFound
	}

	// Copia defensiva: el mapa de variantes no debe compartirse.
	cp := *p
	cp.Variants = make(map[string]models.Variant, len(p.Variants))
	for k, v := range p.Variants {
		cp.Variants[k] = v
	}
	return &cp, nil
}

func (m *Memory) DecrementStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return false, 0, ErrNotFound
	}
	v, ok := p.Variants[variantID]
	if !ok {
		return false, 0, ErrNotFound
	}

	if v.Stock < qty {
		return false, v.Stock, nil
	}

	prev := v.Stock
	v.Stock -= qty
	v.UpdatedAt = time.Now()
	p.Variants[variantID] = v

	m.record(p, v, models.MovementVenta, qty, prev, v.Stock, "venta checkout", orderID, userID)
	return true, v.Stock, nil
}

func (m *Memory) RestoreStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return ErrNotFound
	}
	v, ok := p.Variants[variantID]
	if !ok {
		return ErrNotFound
	}

	prev := v.Stock
	v.Stock += qty
	p.Variants[variantID] = v
	m.record(p, v, models.MovementDevolucion, qty, prev, v.Stock, "compensación checkout", orderID, userID)
	return nil
}

// --- InventoryStore ---

func (m *Memory) AdjustStock(ctx context.Context, productID, variantID, movType string, qty int, reason, userID string) (*models.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	v, ok := p.Variants[variantID]
	if !ok {
		return nil, ErrNotFound
	}

	prev := v.Stock
	switch movType {
	case models.MovementReposicion:
		v.Stock += qty
	case models.MovementAjuste:
		v.Stock = qty
	default:
		return nil, fmt.Errorf("tipo de movimiento inválido: %s", movType)
	}
	if v.Stock < 0 {
		return nil, fmt.Errorf("el stock no puede quedar negativo")
	}

	v.UpdatedAt = time.Now()
	p.Variants[variantID] = v
	mov := m.record(p, v, movType, qty, prev, v.Stock, reason, nil, userID)
	return mov, nil
}

func (m *Memory) ListMovements(ctx context.Context, productID string, limit int) ([]models.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.StockMovement
	for _, mov := range m.Movements {
		if productID != "" && mov.ProductID.String() != productID {
			continue
		}
		out = append(out, mov)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.StockAlert
	for _, a := range m.Alerts {
		if !a.IsResolved {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) ResolveAlert(ctx context.Context, alertID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Alerts {
		if m.Alerts[i].ID.String() == alertID {
			now := time.Now()
			m.Alerts[i].IsResolved = true
			m.Alerts[i].ResolvedAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) record(p *models.Product, v models.Variant, movType string, qty, prev, next int, reason string, orderID *gocql.UUID, userID string) *models.StockMovement {
	mov := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: p.ID,
		VariantID: v.ID,
		Type:      movType,
		Quantity:  qty,
		PrevStock: prev,
		NewStock:  next,
		Reason:    reason,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	m.Movements = append(m.Movements, mov)

	threshold := v.LowStockThreshold
	if threshold == 0 {
		threshold = defaultLowStockThreshold
	}
	if next <= threshold {
		alertType := models.AlertStockBajo
		if next == 0 {
			alertType = models.AlertSinStock
		}
		m.Alerts = append(m.Alerts, models.StockAlert{
			ID:             gocql.TimeUUID(),
			ProductID:      p.ID,
			VariantID:      v.ID,
			ProductName:    p.Name,
			CurrentStock:   next,
			ThresholdStock: threshold,
			AlertType:      alertType,
			CreatedAt:      time.Now(),
		})
	}
	return &mov
}

// --- MethodStore ---

func (m *Memory) GetCarrier(ctx context.Context, carrierID string) (*models.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Carriers[carrierID]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *Memory) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pm, ok := m.PaymentMethods[paymentMethodID]
	if !ok {
		return nil, ErrNotFound
	}
	return pm, nil
}

// --- CartStore ---

type memoryCarts struct{ m *Memory }

func (s memoryCarts) Get(ctx context.Context, userID string) (*models.Cart, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	items, ok := s.m.CartItems[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]models.CartItem, len(items))
	copy(cp, items)
	return &models.Cart{UserID: userID, Items: cp}, nil
}

func (s memoryCarts) Save(ctx context.Context, userID string, items []models.CartItem) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.CartItems[userID] = items
	return nil
}

func (s memoryCarts) Delete(ctx context.Context, userID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.CartItems, userID)
	return nil
}

// --- AddressStore ---

type memoryAddresses struct{ m *Memory }

func (s memoryAddresses) Get(ctx context.Context, addressID string) (*models.Address, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	a, ok := s.m.AddressBook[addressID]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// --- OrderStore ---

type memoryOrders struct{ m *Memory }

func (s memoryOrders) Insert(ctx context.Context, order *models.Order, details []models.OrderDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if s.m.FailOrderInsert {
		return fmt.Errorf("fallo inyectado en insert de pedido")
	}

	s.m.OrdersByID[order.ID.String()] = order
	s.m.OrderDetails[order.ID.String()] = details
	return nil
}

func (s memoryOrders) Delete(ctx context.Context, orderID gocql.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	delete(s.m.OrdersByID, orderID.String())
	delete(s.m.OrderDetails, orderID.String())
	return nil
}

func (s memoryOrders) Get(ctx context.Context, orderID string) (*models.Order, []models.OrderDetail, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	o, ok := s.m.OrdersByID[orderID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return o, s.m.OrderDetails[orderID], nil
}

func (s memoryOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var out []models.Order
	for _, o := range s.m.OrdersByID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memoryOrders) UpdateStatus(ctx context.Context, orderID, status string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	o, ok := s.m.OrdersByID[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (s memoryOrders) UpdatePayment(ctx context.Context, orderID string, payment models.PaymentInfo, orderStatus string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	o, ok := s.m.OrdersByID[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Payment = payment
	o.Status = orderStatus
	return nil
}

func (s memoryOrders) GetByTransaction(ctx context.Context, provider, transactionID string) (*models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, o := range s.m.OrdersByID {
		if o.Payment.Provider == provider && o.Payment.TransactionID == transactionID {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

// --- QuotationStore ---

type memoryQuotations struct{ m *Memory }

func (s memoryQuotations) Insert(ctx context.Context, q *models.Quotation, details []models.QuotationDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.QuotationsByID[q.ID.String()] = q
	s.m.QuoteDetails[q.ID.String()] = details
	return nil
}

func (s memoryQuotations) Get(ctx context.Context, quotationID string) (*models.Quotation, []models.QuotationDetail, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	q, ok := s.m.QuotationsByID[quotationID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return q, s.m.QuoteDetails[quotationID], nil
}

func (s memoryQuotations) ListByUser(ctx context.Context, userID string) ([]models.Quotation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var out []models.Quotation
	for _, q := range s.m.QuotationsByID {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memoryQuotations) UpdateStatus(ctx context.Context, quotationID, status string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	q, ok := s.m.QuotationsByID[quotationID]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	return nil
}

func (s memoryQuotations) MarkConverted(ctx context.Context, quotationID string, orderID gocql.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	q, ok := s.m.QuotationsByID[quotationID]
	if !ok {
		return ErrNotFound
	}
	q.Status = models.QuotationStatusFinalizada
	q.OrderID = &orderID
	return nil
}
