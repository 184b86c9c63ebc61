// Package routes registra la superficie HTTP completa sobre gin.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/handlers"
	"hacienda_backend/internal/middleware"
)

// Handlers agrupa los handlers ya armados con sus dependencias.
type Handlers struct {
	Cart      *handlers.CartHandler
	Catalog   *handlers.CatalogHandler
	Orders    *handlers.OrderHandler
	Quotation *handlers.QuotationHandler
}

// Register monta CORS y todas las rutas de la API.
func Register(r *gin.Engine, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Público: catálogo y webhooks de pago.
	api.GET("/products/:id", h.Catalog.GetProduct)
	api.POST("/payments/webpay/return", h.Orders.WebpayReturn)
	api.POST("/payments/mercadopago/ipn", h.Orders.MercadoPagoIPN)

	// Autenticado.
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/cart", h.Cart.Get)
		auth.POST("/cart/add", h.Cart.Add)
		auth.PUT("/cart/item", h.Cart.UpdateItem)
		auth.DELETE("/cart/:productId/:variantId", h.Cart.Remove)
		auth.DELETE("/cart", h.Cart.Clear)
		auth.GET("/cart/ws", h.Cart.WebSocket)

		auth.POST("/orders", h.Orders.Create)
		auth.POST("/orders/from-quotation", h.Orders.CreateFromQuotation)
		auth.GET("/orders", h.Orders.List)
		auth.GET("/orders/:id", h.Orders.GetByID)

		auth.POST("/quotations", h.Quotation.Create)
		auth.GET("/quotations", h.Quotation.List)
		auth.GET("/quotations/:id", h.Quotation.GetByID)
	}

	// Sólo administradores.
	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.PUT("/orders/:id/status", h.Orders.UpdateStatus)
		admin.PUT("/quotations/:id/status", h.Quotation.SetStatus)

		admin.PUT("/admin/products/:id/variants/:variantId/stock", h.Catalog.AdjustStock)
		admin.GET("/admin/stock/movements", h.Catalog.ListMovements)
		admin.GET("/admin/stock/alerts", h.Catalog.ListAlerts)
		admin.PUT("/admin/stock/alerts/:id/resolve", h.Catalog.ResolveAlert)
	}
}
