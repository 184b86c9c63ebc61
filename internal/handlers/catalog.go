package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/store"
)

// CatalogHandler expone el catálogo público y las operaciones
// administrativas de inventario.
type CatalogHandler struct {
	Catalog   store.CatalogStore
	Inventory store.InventoryStore
}

func NewCatalogHandler(catalog store.CatalogStore, inventory store.InventoryStore) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Inventory: inventory}
}

// GetProduct retorna un producto con sus variantes. Endpoint público.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Producto no encontrado"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando el catálogo", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "producto": product})
}

// AdjustStock aplica una reposición (delta) o un ajuste (valor absoluto)
// sobre una variante (sólo admin). El movimiento queda registrado con su
// motivo.
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var input struct {
		Type     string `json:"tipo"`
		Quantity int    `json:"cantidad"`
		Reason   string `json:"motivo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}

	switch input.Type {
	case models.MovementReposicion:
		if input.Quantity <= 0 {
			fail(c, apperr.Validation("Cantidad inválida"))
			return
		}
	case models.MovementAjuste:
		if input.Quantity < 0 {
			fail(c, apperr.Validation("El stock no puede quedar negativo"))
			return
		}
	default:
		fail(c, apperr.Validation("Tipo de movimiento inválido: "+input.Type))
		return
	}

	movement, err := h.Inventory.AdjustStock(c.Request.Context(),
		c.Param("id"), c.Param("variantId"), input.Type, input.Quantity,
		input.Reason, c.GetString("user_id"))
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Producto o variante no encontrado"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "movimiento": movement})
}

// ListMovements retorna los movimientos de stock de un producto, del más
// reciente al más antiguo.
func (h *CatalogHandler) ListMovements(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		fail(c, apperr.Validation("Falta productId"))
		return
	}

	limit := 50
	if raw := c.Query("limite"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, apperr.Validation("Límite inválido"))
			return
		}
		limit = n
	}

	movements, err := h.Inventory.ListMovements(c.Request.Context(), productID, limit)
	if err != nil {
		fail(c, apperr.Internal("Error listando movimientos", err))
		return
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movimientos": movements})
}

// ListAlerts retorna las alertas de stock sin resolver.
func (h *CatalogHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.Inventory.ListAlerts(c.Request.Context())
	if err != nil {
		fail(c, apperr.Internal("Error listando alertas", err))
		return
	}
	if alerts == nil {
		alerts = []models.StockAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alertas": alerts})
}

// ResolveAlert marca una alerta como resuelta.
func (h *CatalogHandler) ResolveAlert(c *gin.Context) {
	err := h.Inventory.ResolveAlert(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Alerta no encontrada"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error resolviendo la alerta", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
