package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/checkout"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/store"
)

// QuotationHandler maneja cotizaciones: creación desde carrito, consulta y
// decisión administrativa.
type QuotationHandler struct {
	Workflow *checkout.Workflow
	Quotes   store.QuotationStore
}

func NewQuotationHandler(w *checkout.Workflow, quotes store.QuotationStore) *QuotationHandler {
	return &QuotationHandler{Workflow: w, Quotes: quotes}
}

// Create arma una cotización a partir del carrito del usuario. No descuenta
// stock ni borra el carrito.
func (h *QuotationHandler) Create(c *gin.Context) {
	var input struct {
		checkoutInput
		ValidDays int `json:"diasValidez"`
	}
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

	quotation, details, err := h.Workflow.CreateQuotation(c.Request.Context(), in, input.ValidDays)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"cotizacion": quotation,
		"detalles":   details,
	})
}

// List retorna las cotizaciones del usuario autenticado.
func (h *QuotationHandler) List(c *gin.Context) {
	quotations, err := h.Quotes.ListByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		fail(c, apperr.Internal("Error listando cotizaciones", err))
		return
	}
	if quotations == nil {
		quotations = []models.Quotation{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cotizaciones": quotations})
}

// GetByID retorna una cotización con sus detalles; sólo el dueño o un admin.
func (h *QuotationHandler) GetByID(c *gin.Context) {
	quotation, details, err := h.Quotes.Get(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Cotización no encontrada"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando la cotización", err))
		return
	}

	if quotation.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
		fail(c, apperr.Authorization("La cotización no pertenece al usuario"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cotizacion": quotation, "detalles": details})
}

// SetStatus aprueba o rechaza una cotización pendiente (sólo admin).
func (h *QuotationHandler) SetStatus(c *gin.Context) {
	var input struct {
		Status string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}

	quotation, err := h.Workflow.SetQuotationStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cotizacion": quotation})
}
