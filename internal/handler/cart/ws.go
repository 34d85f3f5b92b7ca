package cart

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	cartservice "github.com/sojo06/smartcart/internal/service/cart"
)

// WebSocketHandler relays a cart session's change feed to connected
// participants.
type WebSocketHandler struct {
	cartSvc  *cartservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the cart feed handler.
func NewWebSocketHandler(cartSvc *cartservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		cartSvc: cartSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the feed route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/cart/ws/{code}", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string             `json:"type"`
	Code      string             `json:"code"`
	Event     *cartservice.Event `json:"event,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	events, cancel, err := h.cartSvc.Subscribe(code)
	if err != nil {
		http.Error(w, "cart session not found", http.StatusNotFound)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[cart-ws] upgrade failed for code=%s: %v", code, err)
		return
	}
	defer conn.Close()

	log.Printf("[cart-ws] feed opened for code=%s", code)
	defer log.Printf("[cart-ws] feed closed for code=%s", code)

	// Drain reads so client close frames are processed; the feed is
	// one-directional.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, outgoingMessage{Type: "subscribed", Code: code}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				_ = h.write(conn, outgoingMessage{Type: "closed", Code: code})
				return
			}
			if err := h.write(conn, outgoingMessage{Type: "event", Code: code, Event: &event}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg outgoingMessage) error {
	msg.Timestamp = time.Now().UnixMilli()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[cart-ws] write failed: %v", err)
		return err
	}
	return nil
}
