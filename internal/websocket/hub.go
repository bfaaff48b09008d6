// A websocket hub that pushes library change events to connected clients.
// Screens refetch through the API when an event arrives instead of keeping
// their own mirror of the collection in sync.

package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The app is same-origin only; the mobile client connects directly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is the payload broadcast after a successful mutation.
type Event struct {
	Event string `json:"event"`
	Title string `json:"title"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an idle hub; call Run in a goroutine to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister/broadcast events until the process
// exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Notify broadcasts a library change event to all connected clients.
func (h *Hub) Notify(event, title string) {
	data, err := json.Marshal(Event{Event: event, Title: title})
	if err != nil {
		return
	}
	h.broadcast <- data
}

// ServeWs upgrades an HTTP request to a websocket connection and registers
// the client with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
