package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastBurstDeliversEveryEventInOrder(t *testing.T) {
	h := NewRecordHub()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 10*time.Millisecond, "listener never registered")

	// A rapid burst: with one writer per connection every event arrives,
	// intact and in publish order.
	const burst = 25
	for i := 1; i <= burst; i++ {
		h.Publish(RecordCreated{RecordID: uint(i), UnitNumber: "T-100"})
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for i := 1; i <= burst; i++ {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "newRecord", msg.Event)
		assert.Equal(t, uint(i), msg.Data.RecordID)
	}
}

func TestBroadcastUnregistersClosedListener(t *testing.T) {
	h := NewRecordHub()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	// Broadcasting to the dead connection eventually fails a write and
	// drops it from the client set without disturbing the hub.
	require.Eventually(t, func() bool {
		h.Publish(RecordCreated{RecordID: 1})
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 0
	}, 3*time.Second, 50*time.Millisecond, "closed listener never unregistered")
}
