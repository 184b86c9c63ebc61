package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/checkout"
	"hacienda_backend/internal/config"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/notify"
	"hacienda_backend/internal/payments"
	"hacienda_backend/internal/store"
)

// OrderHandler maneja pedidos: creación desde carrito o cotización,
// consulta, cambio administrativo de estado y los webhooks de pago.
type OrderHandler struct {
	Workflow *checkout.Workflow
	Orders   store.OrderStore
	Methods  store.MethodStore
	Notifier notify.Notifier
	Cfg      *config.Config
}

func NewOrderHandler(w *checkout.Workflow, orders store.OrderStore, methods store.MethodStore, n notify.Notifier, cfg *config.Config) *OrderHandler {
	return &OrderHandler{Workflow: w, Orders: orders, Methods: methods, Notifier: n, Cfg: cfg}
}

type checkoutInput struct {
	AddressID       string `json:"direccionId"`
	PaymentMethodID string `json:"metodoPagoId"`
	CarrierID       string `json:"transportistaId"`
}

// provider espía el proveedor del medio de pago para pre-generar el token
// WebPay. Los errores se ignoran: el workflow revalida en su orden.
func (h *OrderHandler) provider(c *gin.Context, paymentMethodID string) string {
	pm, err := h.Methods.GetPaymentMethod(c.Request.Context(), paymentMethodID)
	if err != nil {
		return ""
	}
	return pm.Provider
}

func (h *OrderHandler) paymentInit(order *models.Order) interface{} {
	switch order.Payment.Provider {
	case payments.ProviderWebpay:
		return payments.InitWebpay(h.Cfg, order)
	case payments.ProviderMercadoPago:
		return payments.InitMercadoPago(h.Cfg, order)
	}
	return nil
}

// Create convierte el carrito del usuario autenticado en un pedido y retorna
// la iniciación de pago del proveedor configurado.
func (h *OrderHandler) Create(c *gin.Context) {
	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}

	in := checkout.Input{
		UserID:          c.GetString("user_id"),
		Email:           c.GetString("email"),
		AddressID:       input.AddressID,
		PaymentMethodID: input.PaymentMethodID,
		CarrierID:       input.CarrierID,
	}
	if h.provider(c, input.PaymentMethodID) == payments.ProviderWebpay {
		in.TransactionID = payments.NewWebpayToken()
	}

	order, details, err := h.Workflow.CreateOrder(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"pedido":   order,
		"detalles": details,
		"pago":     h.paymentInit(order),
	})
}

// CreateFromQuotation convierte una cotización aprobada en pedido.
func (h *OrderHandler) CreateFromQuotation(c *gin.Context) {
	var input struct {
		QuotationID string `json:"cotizacionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.QuotationID == "" {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}

	in := checkout.Input{
		UserID: c.GetString("user_id"),
		Email:  c.GetString("email"),
	}
	isAdmin := c.GetString("role") == "admin"

	// El token WebPay se pre-genera si el medio de pago de la cotización
	// usa ese proveedor.
	if q, _, err := h.Workflow.Quotes.Get(c.Request.Context(), input.QuotationID); err == nil {
		if h.provider(c, q.PaymentMethodID.String()) == payments.ProviderWebpay {
			in.TransactionID = payments.NewWebpayToken()
		}
	}

	order, details, err := h.Workflow.ConvertQuotation(c.Request.Context(), input.QuotationID, in, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"pedido":   order,
		"detalles": details,
		"pago":     h.paymentInit(order),
	})
}

// List retorna los pedidos del usuario autenticado, del más nuevo al más
// viejo.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.Orders.ListByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		fail(c, apperr.Internal("Error listando pedidos", err))
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pedidos": orders})
}

// GetByID retorna un pedido con sus detalles; sólo el dueño o un admin.
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, details, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Pedido no encontrado"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando el pedido", err))
		return
	}

	if order.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
		fail(c, apperr.Authorization("El pedido no pertenece al usuario"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pedido": order, "detalles": details})
}

// UpdateStatus fija el estado de un pedido (sólo admin). Si el body trae el
// email del cliente se le avisa por correo, best-effort.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"estado"`
		Email  string `json:"emailCliente"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		fail(c, apperr.Validation("Estado de pedido inválido: "+input.Status))
		return
	}

	orderID := c.Param("id")
	ctx := c.Request.Context()

	order, _, err := h.Orders.Get(ctx, orderID)
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Pedido no encontrado"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando el pedido", err))
		return
	}

	if err := h.Orders.UpdateStatus(ctx, orderID, input.Status); err != nil {
		fail(c, apperr.Internal("Error actualizando el pedido", err))
		return
	}

	if h.Notifier != nil && input.Email != "" {
		if err := h.Notifier.OrderStatusChanged(input.Email, order, input.Status); err != nil {
			log.Printf("⚠️ Error enviando aviso de estado del pedido %s: %v", orderID, err)
		}
	}

	log.Printf("📦 Pedido %s pasó a %s", orderID, input.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "estado": input.Status})
}

// WebpayReturn procesa el retorno de WebPay. Idempotente: un pago ya
// terminal no se reprocesa.
func (h *OrderHandler) WebpayReturn(c *gin.Context) {
	var result payments.WebpayResult
	if err := c.ShouldBindJSON(&result); err != nil || result.Token == "" {
		fail(c, apperr.Validation("Retorno WebPay inválido"))
		return
	}

	ctx := c.Request.Context()

	order, err := h.Orders.GetByTransaction(ctx, payments.ProviderWebpay, result.Token)
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Transacción desconocida"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error buscando la transacción", err))
		return
	}

	if payments.Terminal(order.Payment.Status) {
		log.Printf("💳 Retorno WebPay repetido para pedido %s, se ignora", order.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "estado": order.Status, "mensaje": "Pago ya procesado"})
		return
	}

	paymentStatus, orderStatus := payments.MapWebpayResult(result)

	now := time.Now()
	payment := order.Payment
	payment.Status = paymentStatus
	payment.Amount = result.Amount
	payment.ProcessedAt = &now

	if err := h.Orders.UpdatePayment(ctx, order.ID.String(), payment, orderStatus); err != nil {
		fail(c, apperr.Internal("Error registrando el pago", err))
		return
	}

	log.Printf("💳 WebPay %s para pedido %s (código %d)", paymentStatus, order.ID, result.ResponseCode)
	c.JSON(http.StatusOK, gin.H{"success": true, "estado": orderStatus, "pago": paymentStatus})
}

// MercadoPagoIPN procesa la notificación de MercadoPago. Los estados
// intermedios (pending, in_process) responden 200 sin tocar el pedido; los
// terminales se aplican una sola vez.
func (h *OrderHandler) MercadoPagoIPN(c *gin.Context) {
	var ipn payments.MercadoPagoIPN
	if err := c.ShouldBindJSON(&ipn); err != nil || ipn.ExternalReference == "" {
		fail(c, apperr.Validation("Notificación MercadoPago inválida"))
		return
	}

	ctx := c.Request.Context()

	order, _, err := h.Orders.Get(ctx, ipn.ExternalReference)
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Pedido no encontrado para la notificación"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando el pedido", err))
		return
	}

	if payments.Terminal(order.Payment.Status) {
		log.Printf("💳 IPN repetido para pedido %s, se ignora", order.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "estado": order.Status, "mensaje": "Pago ya procesado"})
		return
	}

	paymentStatus, orderStatus, terminal := payments.MapMercadoPagoStatus(ipn.Status)
	if !terminal {
		log.Printf("💳 IPN intermedio (%s) para pedido %s", ipn.Status, order.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "estado": order.Status, "mensaje": "Notificación intermedia"})
		return
	}

	now := time.Now()
	payment := order.Payment
	payment.Status = paymentStatus
	payment.TransactionID = ipn.PaymentID
	payment.ProcessedAt = &now

	if err := h.Orders.UpdatePayment(ctx, order.ID.String(), payment, orderStatus); err != nil {
		fail(c, apperr.Internal("Error registrando el pago", err))
		return
	}

	log.Printf("💳 MercadoPago %s para pedido %s", paymentStatus, order.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "estado": orderStatus, "pago": paymentStatus})
}
