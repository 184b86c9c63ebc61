package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hacienda_backend/internal/apperr"
	"hacienda_backend/internal/models"
	"hacienda_backend/internal/pricing"
	"hacienda_backend/internal/store"
)

// CartHandler maneja el carrito del usuario. Redis queda en nil en tests;
// sólo el websocket lo usa directo para pub/sub.
type CartHandler struct {
	Carts   store.CartStore
	Catalog store.CatalogStore
	Redis   *redis.Client
}

func NewCartHandler(carts store.CartStore, catalog store.CatalogStore, rdb *redis.Client) *CartHandler {
	return &CartHandler{Carts: carts, Catalog: catalog, Redis: rdb}
}

func cartTotal(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (h *CartHandler) respondCart(c *gin.Context, items []models.CartItem) {
	if items == nil {
		items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
		"total":   cartTotal(items),
		"count":   len(items),
	})
}

// Get retorna el carrito actual; un carrito inexistente es un carrito vacío.
func (h *CartHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")

	cart, err := h.Carts.Get(c.Request.Context(), userID)
	if err == store.ErrNotFound {
		h.respondCart(c, nil)
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error leyendo el carrito", err))
		return
	}

	h.respondCart(c, cart.Items)
}

// Add agrega una variante al carrito con el precio vigente como foto. Si la
// línea ya existe se suman las cantidades.
func (h *CartHandler) Add(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"productId"`
		VariantID string `json:"varianteId"`
		Quantity  int    `json:"cantidad"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}
	if input.Quantity <= 0 {
		fail(c, apperr.Validation("Cantidad inválida"))
		return
	}

	ctx := c.Request.Context()

	product, err := h.Catalog.GetProduct(ctx, input.ProductID)
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Producto no encontrado"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error consultando el catálogo", err))
		return
	}
	if !product.Active {
		fail(c, apperr.Conflict("Producto inactivo: "+product.Name))
		return
	}

	variant, ok := product.VariantByID(input.VariantID)
	if !ok {
		fail(c, apperr.NotFound("Variante no encontrada para "+product.Name))
		return
	}

	var items []models.CartItem
	if cart, err := h.Carts.Get(ctx, userID); err == nil {
		items = cart.Items
	} else if err != store.ErrNotFound {
		fail(c, apperr.Internal("Error leyendo el carrito", err))
		return
	}

	quantity := input.Quantity
	idx := -1
	for i, it := range items {
		if it.ProductID == input.ProductID && it.VariantID == input.VariantID {
			idx = i
			quantity += it.Quantity
			break
		}
	}

	// Chequeo blando: el descuento real ocurre en el checkout.
	if variant.Stock < quantity {
		fail(c, apperr.StockConflict(product.Name, variant.Stock, quantity))
		return
	}

	item := models.CartItem{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Name:      product.Name,
		Price:     pricing.FinalPrice(variant.Price, product.DiscountPct),
		Quantity:  quantity,
		ImageURL:  product.ImageURL,
	}

	if idx >= 0 {
		items[idx] = item
	} else {
		items = append(items, item)
	}

	if err := h.Carts.Save(ctx, userID, items); err != nil {
		fail(c, apperr.Internal("Error guardando el carrito", err))
		return
	}

	h.respondCart(c, items)
}

// UpdateItem fija la cantidad de una línea existente.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"productId"`
		VariantID string `json:"varianteId"`
		Quantity  int    `json:"cantidad"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperr.Validation("Datos inválidos"))
		return
	}
	if input.Quantity <= 0 {
		fail(c, apperr.Validation("Cantidad inválida"))
		return
	}

	ctx := c.Request.Context()

	cart, err := h.Carts.Get(ctx, userID)
	if err == store.ErrNotFound {
		fail(c, apperr.NotFound("Carrito inexistente"))
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error leyendo el carrito", err))
		return
	}

	found := false
	for i, it := range cart.Items {
		if it.ProductID == input.ProductID && it.VariantID == input.VariantID {
			cart.Items[i].Quantity = input.Quantity
			found = true
			break
		}
	}
	if !found {
		fail(c, apperr.NotFound("La línea no está en el carrito"))
		return
	}

	if err := h.Carts.Save(ctx, userID, cart.Items); err != nil {
		fail(c, apperr.Internal("Error guardando el carrito", err))
		return
	}

	h.respondCart(c, cart.Items)
}

// Remove saca una línea del carrito.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")
	variantID := c.Param("variantId")

	ctx := c.Request.Context()

	cart, err := h.Carts.Get(ctx, userID)
	if err == store.ErrNotFound {
		h.respondCart(c, nil)
		return
	}
	if err != nil {
		fail(c, apperr.Internal("Error leyendo el carrito", err))
		return
	}

	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID == productID && it.VariantID == variantID {
			continue
		}
		items = append(items, it)
	}

	if len(items) == 0 {
		if err := h.Carts.Delete(ctx, userID); err != nil {
			fail(c, apperr.Internal("Error borrando el carrito", err))
			return
		}
		h.respondCart(c, nil)
		return
	}

	if err := h.Carts.Save(ctx, userID, items); err != nil {
		fail(c, apperr.Internal("Error guardando el carrito", err))
		return
	}

	h.respondCart(c, items)
}

// Clear vacía el carrito completo.
func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.Carts.Delete(c.Request.Context(), userID); err != nil {
		fail(c, apperr.Internal("Error borrando el carrito", err))
		return
	}

	h.respondCart(c, nil)
}
