package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/store"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fixture arma un Memory sembrado con un producto, una dirección, un
// transportista y un medio de pago, más el workflow sobre ellos.
type fixture struct {
	mem      *store.Memory
	workflow *Workflow

	userID    string
	productID string
	variantID string
	addressID string
	carrierID string
	pmID      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemory()

	variantID := gocql.TimeUUID()
	productID := gocql.TimeUUID()
	product := &models.Product{
		ID:          productID,
		SKU:         "LOMO",
		Name:        "Lomo Vetado",
		Category:    "vacuno",
		Type:        models.ProductTypeCarne,
		DiscountPct: 0,
		Active:      true,
		Variants: map[string]models.Variant{
			variantID.String(): {
				ID:     variantID,
				SKU:    "LOMO-500",
				Weight: 500,
				Unit:   "g",
				Price:  1000,
				Stock:  10,
			},
		},
	}
	mem.Products[productID.String()] = product

	addressID := gocql.TimeUUID()
	mem.AddressBook[addressID.String()] = &models.Address{
		ID:     addressID,
		UserID: "user-1",
		AddressSnapshot: models.AddressSnapshot{
			Street: "Av. Las Condes", Number: "1234", City: "Santiago", Region: "RM",
		},
	}

	carrierID := gocql.TimeUUID()
	mem.Carriers[carrierID.String()] = &models.Carrier{
		ID:     carrierID,
		Name:   "Chilexpress",
		Active: true,
		Methods: []models.ShippingSubMethod{{
			Name:         "Normal",
			BaseCost:     500,
			DeliveryTime: "3 a 5 días hábiles",
		}},
	}

	pmID := gocql.TimeUUID()
	mem.PaymentMethods[pmID.String()] = &models.PaymentMethod{
		ID:            pmID,
		Name:          "WebPay",
		Provider:      "webpay",
		CommissionPct: 5,
		Active:        true,
	}

	mem.CartItems["user-1"] = []models.CartItem{{
		ProductID: productID.String(),
		VariantID: variantID.String(),
		Name:      "Lomo Vetado",
		Price:     1000,
		Quantity:  2,
	}}

	return &fixture{
		mem: mem,
		workflow: &Workflow{
			Catalog:   mem,
			Carts:     mem.Carts(),
			Addresses: mem.Addresses(),
			Methods:   mem,
			Orders:    mem.Orders(),
			Quotes:    mem.Quotations(),
			Now:       func() time.Time { return fixedNow },
		},
		userID:    "user-1",
		productID: productID.String(),
		variantID: variantID.String(),
		addressID: addressID.String(),
		carrierID: carrierID.String(),
		pmID:      pmID.String(),
	}
}

func (f *fixture) input() Input {
	return Input{
		UserID:          f.userID,
		Email:           "cliente@example.com",
		AddressID:       f.addressID,
		PaymentMethodID: f.pmID,
		CarrierID:       f.carrierID,
	}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.mem.GetProduct(context.Background(), f.productID)
	require.NoError(t, err)
	v, ok := p.VariantByID(f.variantID)
	require.True(t, ok)
	return v.Stock
}

func TestCreateOrderFlujoCompleto(t *testing.T) {
	f := newFixture(t)

	order, details, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPendiente, order.Status)
	assert.Equal(t, 2000.0, order.Subtotal)
	assert.Equal(t, 500.0, order.ShippingCost)
	assert.Equal(t, 125.0, order.PaymentCommission)
	assert.Equal(t, 2625.0, order.Total)
	assert.Equal(t, order.Subtotal+order.ShippingCost+order.PaymentCommission, order.Total)
	assert.Equal(t, fixedNow.AddDate(0, 0, 3), order.EstimatedDelivery)
	assert.Equal(t, "Av. Las Condes", order.ShippingAddress.Street)
	assert.Equal(t, "Chilexpress", order.CarrierName)
	assert.Equal(t, "Normal", order.ShippingMethodName)
	assert.Equal(t, models.PaymentStatusPendiente, order.Payment.Status)
	assert.Equal(t, "webpay", order.Payment.Provider)
	assert.Nil(t, order.QuotationID)

	// Detalle congelado de la única línea.
	require.Len(t, details, 1)
	d := details[0]
	assert.Equal(t, order.ID, d.OrderID)
	assert.Equal(t, 2, d.Quantity)
	assert.Equal(t, 1000.0, d.BasePrice)
	assert.Equal(t, 1000.0, d.FinalPrice)
	assert.Equal(t, 2000.0, d.Subtotal)
	assert.Equal(t, "Lomo Vetado", d.ProductName)
	assert.Equal(t, "LOMO-500", d.VariantSKU)

	// Stock descontado y carrito borrado.
	assert.Equal(t, 8, f.stock(t))
	_, err = f.workflow.Carts.Get(context.Background(), f.userID)
	assert.Equal(t, store.ErrNotFound, err)

	// Pedido persistido.
	saved, savedDetails, err := f.workflow.Orders.Get(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.Total, saved.Total)
	assert.Len(t, savedDetails, 1)

	// Movimiento de venta registrado contra el pedido.
	require.Len(t, f.mem.Movements, 1)
	mov := f.mem.Movements[0]
	assert.Equal(t, models.MovementVenta, mov.Type)
	assert.Equal(t, 10, mov.PrevStock)
	assert.Equal(t, 8, mov.NewStock)
	require.NotNil(t, mov.OrderID)
	assert.Equal(t, order.ID, *mov.OrderID)
}

func TestCreateOrderSubtotalEsSumaDeDetalles(t *testing.T) {
	f := newFixture(t)

	// Segunda línea con descuento para que la suma no sea trivial.
	v2 := gocql.TimeUUID()
	p2 := gocql.TimeUUID()
	f.mem.Products[p2.String()] = &models.Product{
		ID: p2, Name: "Aceite Oliva Extra Virgen", Type: models.ProductTypeAceite,
		DiscountPct: 10, Active: true,
		Variants: map[string]models.Variant{
			v2.String(): {ID: v2, SKU: "ACE-500", Weight: 500, Unit: "ml", Price: 8500, Stock: 4},
		},
	}
	f.mem.CartItems[f.userID] = append(f.mem.CartItems[f.userID], models.CartItem{
		ProductID: p2.String(), VariantID: v2.String(), Quantity: 3,
	})

	order, details, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.NoError(t, err)
	require.Len(t, details, 2)

	suma := 0.0
	for _, d := range details {
		assert.Equal(t, d.FinalPrice*float64(d.Quantity), d.Subtotal)
		suma += d.Subtotal
	}
	assert.Equal(t, suma, order.Subtotal)
	assert.Equal(t, 2000.0+8500*0.9*3, order.Subtotal)
}

func TestCreateOrderValidaEnOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Dirección inexistente gana aunque el medio de pago también sea
	// inválido.
	in := f.input()
	in.AddressID = gocql.TimeUUID().String()
	in.PaymentMethodID = gocql.TimeUUID().String()
	_, _, err := f.workflow.CreateOrder(ctx, in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "Dirección")

	// Dirección ajena.
	otherAddr := gocql.TimeUUID()
	f.mem.AddressBook[otherAddr.String()] = &models.Address{ID: otherAddr, UserID: "otro"}
	in = f.input()
	in.AddressID = otherAddr.String()
	_, _, err = f.workflow.CreateOrder(ctx, in)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Medio de pago inactivo.
	f.mem.PaymentMethods[f.pmID].Active = false
	_, _, err = f.workflow.CreateOrder(ctx, f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	f.mem.PaymentMethods[f.pmID].Active = true

	// Transportista inactivo.
	f.mem.Carriers[f.carrierID].Active = false
	_, _, err = f.workflow.CreateOrder(ctx, f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	f.mem.Carriers[f.carrierID].Active = true

	// Transportista sin métodos.
	metodos := f.mem.Carriers[f.carrierID].Methods
	f.mem.Carriers[f.carrierID].Methods = nil
	_, _, err = f.workflow.CreateOrder(ctx, f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	f.mem.Carriers[f.carrierID].Methods = metodos

	// Carrito inexistente.
	delete(f.mem.CartItems, f.userID)
	_, _, err = f.workflow.CreateOrder(ctx, f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Carrito vacío.
	f.mem.CartItems[f.userID] = []models.CartItem{}
	_, _, err = f.workflow.CreateOrder(ctx, f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// Nada quedó escrito en ninguno de los intentos.
	assert.Empty(t, f.mem.OrdersByID)
	assert.Equal(t, 10, f.stock(t))
}

func TestCreateOrderStockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.mem.CartItems[f.userID][0].Quantity = 15 // stock es 10

	_, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	require.NotNil(t, e.Available)
	assert.Equal(t, 10, *e.Available)

	// Sin efectos: ni pedido, ni descuento, ni carrito borrado.
	assert.Empty(t, f.mem.OrdersByID)
	assert.Empty(t, f.mem.Movements)
	assert.Equal(t, 10, f.stock(t))
	_, err = f.workflow.Carts.Get(context.Background(), f.userID)
	assert.NoError(t, err)
}

func TestCreateOrderProductoInactivo(t *testing.T) {
	f := newFixture(t)
	f.mem.Products[f.productID].Active = false

	_, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Empty(t, f.mem.OrdersByID)
}

func TestCreateOrderVarianteInexistente(t *testing.T) {
	f := newFixture(t)
	f.mem.CartItems[f.userID][0].VariantID = gocql.TimeUUID().String()

	_, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateOrderNuncaDejaStockNegativo(t *testing.T) {
	f := newFixture(t)
	f.mem.Products[f.productID].Variants[f.variantID] = models.Variant{
		ID: mustParse(t, f.variantID), SKU: "LOMO-500", Weight: 500, Unit: "g", Price: 1000, Stock: 5,
	}

	exitos := 0
	for i := 0; i < 3; i++ {
		f.mem.CartItems[f.userID] = []models.CartItem{{
			ProductID: f.productID, VariantID: f.variantID, Quantity: 2,
		}}
		if _, _, err := f.workflow.CreateOrder(context.Background(), f.input()); err == nil {
			exitos++
		}
	}

	assert.Equal(t, 2, exitos)
	assert.Equal(t, 1, f.stock(t))
}

func TestCreateOrderCarreraPorLaUltimaUnidad(t *testing.T) {
	f := newFixture(t)
	f.mem.Products[f.productID].Variants[f.variantID] = models.Variant{
		ID: mustParse(t, f.variantID), SKU: "LOMO-500", Weight: 500, Unit: "g", Price: 1000, Stock: 1,
	}

	// Dos usuarios con la última unidad en el carrito.
	otherAddr := gocql.TimeUUID()
	f.mem.AddressBook[otherAddr.String()] = &models.Address{ID: otherAddr, UserID: "user-2"}
	for _, uid := range []string{"user-1", "user-2"} {
		f.mem.CartItems[uid] = []models.CartItem{{
			ProductID: f.productID, VariantID: f.variantID, Quantity: 1,
		}}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	inputs := []Input{f.input(), {
		UserID: "user-2", AddressID: otherAddr.String(),
		PaymentMethodID: f.pmID, CarrierID: f.carrierID,
	}}
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.workflow.CreateOrder(context.Background(), inputs[i])
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.True(t, apperr.IsKind(err, apperr.KindConflict), "el perdedor recibe conflicto: %v", err)
		}
	}
	assert.Equal(t, 1, exitos, "exactamente un checkout gana la última unidad")
	assert.Equal(t, 0, f.stock(t))
	assert.Len(t, f.mem.OrdersByID, 1)
}

func TestCreateOrderCompensaDescuentosParciales(t *testing.T) {
	f := newFixture(t)

	// Dos líneas sobre la misma variante: cada una pasa la validación
	// contra la foto (6 <= 10) pero la segunda falla al descontar.
	f.mem.CartItems[f.userID] = []models.CartItem{
		{ProductID: f.productID, VariantID: f.variantID, Quantity: 6},
		{ProductID: f.productID, VariantID: f.variantID, Quantity: 6},
	}

	in := f.input()
	in.TransactionID = "tbk-compensado"
	_, _, err := f.workflow.CreateOrder(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// El primer descuento fue revertido y el pedido eliminado.
	assert.Equal(t, 10, f.stock(t))
	assert.Empty(t, f.mem.OrdersByID)
	assert.Empty(t, f.mem.OrderDetails)

	// La compensación no deja el pedido visible por ninguna vía de
	// consulta: ni el historial del usuario ni el índice de transacción.
	orders, err := f.workflow.Orders.ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	_, err = f.workflow.Orders.GetByTransaction(context.Background(), "webpay", "tbk-compensado")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Queda la traza: venta + devolución.
	require.Len(t, f.mem.Movements, 2)
	assert.Equal(t, models.MovementVenta, f.mem.Movements[0].Type)
	assert.Equal(t, models.MovementDevolucion, f.mem.Movements[1].Type)
}

func TestCreateOrderFallaElInsertNoDescuenta(t *testing.T) {
	f := newFixture(t)
	f.mem.FailOrderInsert = true

	_, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.Equal(t, 10, f.stock(t))
	assert.Empty(t, f.mem.Movements)
}

// catalogoContencioso pierde todos los CAS del descuento aunque el stock
// alcance, como bajo carga alta sobre la misma variante.
type catalogoContencioso struct {
	store.CatalogStore
}

func (c catalogoContencioso) DecrementStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) (bool, int, error) {
	return false, 10, store.ErrStockContention
}

func TestCreateOrderContencionNoEsConflictoDeStock(t *testing.T) {
	f := newFixture(t)
	f.workflow.Catalog = catalogoContencioso{f.mem}

	_, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.Error(t, err)

	// Con stock suficiente el reintento agotado es un error interno
	// reintentable, no un conflicto que sugiera falta de stock.
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.False(t, apperr.IsKind(err, apperr.KindConflict))

	// El pedido a medias fue eliminado y el stock real no se tocó.
	assert.Empty(t, f.mem.OrdersByID)
	assert.Equal(t, 10, f.stock(t))
}

type notifierFallido struct{ llamadas int }

func (n *notifierFallido) OrderCreated(email string, order *models.Order, details []models.OrderDetail) error {
	n.llamadas++
	return errors.New("smtp caído")
}

func (n *notifierFallido) OrderStatusChanged(email string, order *models.Order, newStatus string) error {
	n.llamadas++
	return errors.New("smtp caído")
}

func TestCreateOrderNotificacionFallidaNoAbortaElCheckout(t *testing.T) {
	f := newFixture(t)
	n := &notifierFallido{}
	f.workflow.Notifier = n

	order, _, err := f.workflow.CreateOrder(context.Background(), f.input())
	require.NoError(t, err)
	assert.Equal(t, 1, n.llamadas)

	_, _, err = f.workflow.Orders.Get(context.Background(), order.ID.String())
	assert.NoError(t, err)
}

func TestCreateQuotationNoDescuentaStockYConsumeElCarrito(t *testing.T) {
	f := newFixture(t)

	quotation, details, err := f.workflow.CreateQuotation(context.Background(), f.input(), 0)
	require.NoError(t, err)

	assert.Equal(t, models.QuotationStatusPendiente, quotation.Status)
	assert.Equal(t, 2625.0, quotation.Total)
	assert.Equal(t, fixedNow.AddDate(0, 0, 7), quotation.ValidUntil)
	require.Len(t, details, 1)
	assert.Equal(t, 2000.0, details[0].Subtotal)

	// El stock queda intacto hasta la conversión, pero el carrito se
	// consume igual que en un pedido.
	assert.Equal(t, 10, f.stock(t))
	_, err = f.workflow.Carts.Get(context.Background(), f.userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.mem.Movements)
}

func TestSetQuotationStatusSoloDesdePendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quotation, _, err := f.workflow.CreateQuotation(ctx, f.input(), 0)
	require.NoError(t, err)
	qid := quotation.ID.String()

	// finalizada no es una decisión administrativa válida.
	_, err = f.workflow.SetQuotationStatus(ctx, qid, models.QuotationStatusFinalizada)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	aprobada, err := f.workflow.SetQuotationStatus(ctx, qid, models.QuotationStatusAprobada)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusAprobada, aprobada.Status)

	// Una vez decidida no se vuelve a decidir.
	_, err = f.workflow.SetQuotationStatus(ctx, qid, models.QuotationStatusRechazada)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func (f *fixture) cotizacionAprobada(t *testing.T) *models.Quotation {
	t.Helper()
	ctx := context.Background()

	quotation, _, err := f.workflow.CreateQuotation(ctx, f.input(), 0)
	require.NoError(t, err)
	_, err = f.workflow.SetQuotationStatus(ctx, quotation.ID.String(), models.QuotationStatusAprobada)
	require.NoError(t, err)
	return quotation
}

func TestConvertQuotationCreaPedidoYDescuenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := f.cotizacionAprobada(t)

	order, details, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(),
		Input{UserID: f.userID, Email: "cliente@example.com"}, false)
	require.NoError(t, err)

	assert.Equal(t, 2625.0, order.Total)
	require.NotNil(t, order.QuotationID)
	assert.Equal(t, quotation.ID, *order.QuotationID)
	require.Len(t, details, 1)

	assert.Equal(t, 8, f.stock(t))

	// La cotización quedó finalizada y enlazada.
	saved, _, err := f.workflow.Quotes.Get(ctx, quotation.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusFinalizada, saved.Status)
	require.NotNil(t, saved.OrderID)
	assert.Equal(t, order.ID, *saved.OrderID)
}

func TestConvertQuotationEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := f.cotizacionAprobada(t)

	_, _, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: f.userID}, false)
	require.NoError(t, err)

	// La segunda conversión no crea pedido ni vuelve a descontar.
	_, _, err = f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: f.userID}, false)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 8, f.stock(t))
	assert.Len(t, f.mem.OrdersByID, 1)
}

func TestConvertQuotationVencidaNoConvierte(t *testing.T) {
	f := newFixture(t)
	quotation := f.cotizacionAprobada(t)

	f.workflow.Now = func() time.Time { return fixedNow.AddDate(0, 0, 8) }

	_, _, err := f.workflow.ConvertQuotation(context.Background(), quotation.ID.String(),
		Input{UserID: f.userID}, false)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 10, f.stock(t))
}

func TestConvertQuotationSoloAprobadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quotation, _, err := f.workflow.CreateQuotation(ctx, f.input(), 0)
	require.NoError(t, err)

	_, _, err = f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: f.userID}, false)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestConvertQuotationAjenaRequiereAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := f.cotizacionAprobada(t)

	_, _, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: "intruso"}, false)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Un admin sí puede convertir cotizaciones ajenas.
	order, _, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: "admin-1"}, true)
	require.NoError(t, err)
	assert.Equal(t, f.userID, order.UserID, "el pedido queda a nombre del dueño de la cotización")
}

func TestConvertQuotationRecotizaConElCatalogoVigente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := f.cotizacionAprobada(t)
	assert.Equal(t, 2625.0, quotation.Total)

	// El precio sube después de cotizar.
	v := f.mem.Products[f.productID].Variants[f.variantID]
	v.Price = 2000
	f.mem.Products[f.productID].Variants[f.variantID] = v

	order, _, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: f.userID}, false)
	require.NoError(t, err)

	// subtotal 4000, envío 500, comisión 225.
	assert.Equal(t, 4725.0, order.Total)
}

func TestConvertQuotationRevalidaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := f.cotizacionAprobada(t)

	// El stock se agotó entre la cotización y la conversión.
	v := f.mem.Products[f.productID].Variants[f.variantID]
	v.Stock = 1
	f.mem.Products[f.productID].Variants[f.variantID] = v

	_, _, err := f.workflow.ConvertQuotation(ctx, quotation.ID.String(), Input{UserID: f.userID}, false)
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	require.NotNil(t, e.Available)
	assert.Equal(t, 1, *e.Available)
}

func mustParse(t *testing.T, s string) gocql.UUID {
	t.Helper()
	id, err := gocql.ParseUUID(s)
	require.NoError(t, err)
	return id
}
