package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hacienda_backend/internal/models"
	"hacienda_backend/internal/store"
)

var upgrader = websocket.Upgrader{
	// TODO: restringir orígenes cuando el dominio del front quede fijo.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn es lo que el loop de sincronización necesita de una conexión
// websocket.
type wsConn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
}

// WebSocket mantiene sincronizado el carrito entre pestañas: se suscribe al
// canal Redis del usuario y reenvía el carrito completo ante cada cambio.
func (h *CartHandler) WebSocket(c *gin.Context) {
	userID := c.GetString("user_id")

	if h.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Sincronización no disponible"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Error en upgrade de websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	pubsub := h.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()

	events := make(chan string)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			select {
			case events <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	conn.WriteJSON(gin.H{"type": "connected", "mensaje": "Sincronización de carrito activada"})
	h.syncLoop(ctx, userID, events, conn)
}

// syncLoop reenvía el carrito completo por cada evento updated/cleared y
// termina cuando se cierra el canal, falla la escritura o se cancela el
// contexto.
func (h *CartHandler) syncLoop(ctx context.Context, userID string, events <-chan string, conn wsConn) {
	for {
		select {
		case payload, open := <-events:
			if !open {
				return
			}
			if payload != "updated" && payload != "cleared" {
				continue
			}

			var items []models.CartItem
			if cart, err := h.Carts.Get(ctx, userID); err == nil {
				items = cart.Items
			} else if err != store.ErrNotFound {
				log.Printf("⚠️ Error leyendo carrito para websocket: %v", err)
			}
			if items == nil {
				items = []models.CartItem{}
			}

			if err := conn.WriteJSON(gin.H{
				"type":  "cart_updated",
				"items": items,
				"total": cartTotal(items),
				"count": len(items),
			}); err != nil {
				log.Printf("🔌 Websocket de carrito cerrado para %s: %v", userID, err)
				return
			}

		case <-time.After(30 * time.Second):
			// Ping para mantener viva la conexión.
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
