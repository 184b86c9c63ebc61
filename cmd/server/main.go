package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"hacienda_backend/internal/checkout"
	"hacienda_backend/internal/config"
	"hacienda_backend/internal/database"
	"hacienda_backend/internal/handlers"
	"hacienda_backend/internal/notify"
	"hacienda_backend/internal/routes"
	"hacienda_backend/internal/store"
)

func main() {
	cfg := config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	catalog := store.NewScyllaCatalog()
	carts := store.NewRedisCart(database.Redis)
	methods := store.NewScyllaMethods()
	orders := store.NewScyllaOrders()
	quotations := store.NewScyllaQuotations()

	mailer := notify.NewMailer(cfg)

	workflow := &checkout.Workflow{
		Catalog:   catalog,
		Carts:     carts,
		Addresses: methods,
		Methods:   methods,
		Orders:    orders,
		Quotes:    quotations,
		Notifier:  mailer,
	}

	r := gin.Default()
	routes.Register(r, routes.Handlers{
		Cart:      handlers.NewCartHandler(carts, catalog, database.Redis),
		Catalog:   handlers.NewCatalogHandler(catalog, catalog),
		Orders:    handlers.NewOrderHandler(workflow, orders, methods, mailer, cfg),
		Quotation: handlers.NewQuotationHandler(workflow, quotations),
	})

	log.Println("🚀 Servidor Hacienda Cantabria escuchando en el puerto", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ El servidor terminó con error: %v", err)
	}
}
