package notify

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// RecordCreated is the event broadcast to listeners when a maintenance
// record is successfully committed.
type RecordCreated struct {
	RecordID             uint   `json:"record_id"`
	UnitNumber           string `json:"unitNumber"`
	DriverName           string `json:"driverName"`
	EstimatedTimeMinutes int    `json:"estimatedTimeMinutes"`
}

type wsMessage struct {
	Event string        `json:"event"`
	Data  RecordCreated `json:"data"`
}

// RecordHub manages active WebSocket connections and broadcasts newRecord
// events to every connected listener. Delivery is at-most-once: there is no
// persistence or replay, and a listener connecting after an event is emitted
// never sees it.
type RecordHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan RecordCreated
	mu        sync.Mutex
}

// NewRecordHub creates a hub and starts its broadcast goroutine.
func NewRecordHub() *RecordHub {
	hub := &RecordHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan RecordCreated, 100),
	}
	go hub.run()
	return hub
}

// run drains the broadcast channel and fans each event out to all clients.
// Writes happen synchronously in this loop so every connection has exactly
// one writer; gorilla/websocket panics on concurrent writes to one conn.
func (h *RecordHub) run() {
	for ev := range h.broadcast {
		msg := wsMessage{Event: "newRecord", Data: ev}
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(msg); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Listener closed during broadcast, unregistering.")
				} else {
					logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).Warn("Failed to send newRecord event to listener, unregistering.")
				}
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Register adds a listener connection to the hub.
func (h *RecordHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Listener registered with RecordHub.")
}

// Unregister removes a listener connection from the hub.
func (h *RecordHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Listener unregistered from RecordHub.")
}

// Publish queues an event for broadcast. Never blocks: when the buffer is
// full the event is dropped with a warning, keeping the write path isolated
// from slow listeners.
func (h *RecordHub) Publish(ev RecordCreated) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("record_id", ev.RecordID).Warn("Record broadcast channel full, dropping event.")
	}
}
