package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conexionRegistrada captura lo que el loop de sincronización escribe, sin
// levantar un websocket real.
type conexionRegistrada struct {
	wrote chan gin.H
	fail  bool
}

func (c *conexionRegistrada) WriteJSON(v interface{}) error {
	if c.fail {
		return errors.New("conexión cerrada")
	}
	c.wrote <- v.(gin.H)
	return nil
}

func (c *conexionRegistrada) WriteMessage(messageType int, data []byte) error { return nil }

func esperaMensaje(t *testing.T, ch chan gin.H) gin.H {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no llegó ningún mensaje por el websocket")
		return nil
	}
}

func TestCartWebSocketSincronizaCambios(t *testing.T) {
	e := newEnv(t)
	e.fillCart("user-1", 2)

	events := make(chan string)
	conn := &conexionRegistrada{wrote: make(chan gin.H, 4)}

	done := make(chan struct{})
	go func() {
		e.cart.syncLoop(context.Background(), "user-1", events, conn)
		close(done)
	}()

	// Cada cambio empuja el carrito completo.
	events <- "updated"
	msg := esperaMensaje(t, conn.wrote)
	assert.Equal(t, "cart_updated", msg["type"])
	assert.Equal(t, 2000.0, msg["total"])
	assert.Equal(t, 1, msg["count"])

	// Un payload desconocido no genera tráfico.
	events <- "otra-cosa"

	// Tras vaciarse el carrito se empuja el carrito vacío.
	require.NoError(t, e.workflow.Carts.Delete(context.Background(), "user-1"))
	events <- "cleared"
	msg = esperaMensaje(t, conn.wrote)
	assert.Equal(t, "cart_updated", msg["type"])
	assert.Equal(t, 0, msg["count"])
	assert.Equal(t, 0.0, msg["total"])

	// Cerrar el canal de eventos termina el loop.
	close(events)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el loop no terminó al cerrarse el canal")
	}
}

func TestCartWebSocketEscrituraFallidaCierraElLoop(t *testing.T) {
	e := newEnv(t)
	e.fillCart("user-1", 1)

	events := make(chan string, 1)
	conn := &conexionRegistrada{wrote: make(chan gin.H, 1), fail: true}

	done := make(chan struct{})
	go func() {
		e.cart.syncLoop(context.Background(), "user-1", events, conn)
		close(done)
	}()

	events <- "updated"
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el loop no terminó tras fallar la escritura")
	}
}

func TestCartWebSocketCancelacionDeContexto(t *testing.T) {
	e := newEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan string)
	conn := &conexionRegistrada{wrote: make(chan gin.H, 1)}

	done := make(chan struct{})
	go func() {
		e.cart.syncLoop(ctx, "user-1", events, conn)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el loop no terminó al cancelarse el contexto")
	}
}

func TestCartWebSocketSinRedisNoDisponible(t *testing.T) {
	e := newEnv(t)
	r := e.router("user-1", "cliente")

	w := do(r, http.MethodGet, "/api/cart/ws", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, parse(t, w)["success"])
}

func TestCartWebSocketConexionYSaludo(t *testing.T) {
	e := newEnv(t)
	// Dirección inalcanzable: la suscripción queda muda pero el upgrade y
	// el saludo inicial no dependen de ella.
	e.cart.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	srv := httptest.NewServer(e.router("user-1", "cliente"))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/cart/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var saludo map[string]interface{}
	require.NoError(t, conn.ReadJSON(&saludo))
	assert.Equal(t, "connected", saludo["type"])
}
