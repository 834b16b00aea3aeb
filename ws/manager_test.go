package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newFeedConn registers a server-side connection with the manager and
// returns the client end.
func newFeedConn(t *testing.T, mgr *Manager, ownerID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mgr.Register(ownerID, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// Readings can be posted concurrently, so Broadcast must tolerate many
// request goroutines publishing to the same connection at once and leave
// the connection usable afterwards.
func TestBroadcastConcurrentPublishers(t *testing.T) {
	mgr := NewManager()
	client := newFeedConn(t, mgr, "owner-1")

	received := make(chan string, 256)
	go func() {
		client.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			_, msg, err := client.ReadMessage()
			if err != nil {
				close(received)
				return
			}
			received <- string(msg)
		}
	}()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				mgr.Broadcast("owner-1", []byte("event"))
			}
		}()
	}
	wg.Wait()

	// The connection must still deliver after the concurrent burst. The
	// sentinel is re-sent because a full queue is allowed to drop events.
	deadline := time.After(5 * time.Second)
	for {
		mgr.Broadcast("owner-1", []byte("done"))
		select {
		case msg, ok := <-received:
			if !ok {
				t.Fatal("Connection died during concurrent broadcasts")
			}
			if msg == "done" {
				return
			}
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("Sentinel never delivered after concurrent broadcasts")
		}
	}
}

// A feed client that stops reading must not stall the request goroutines
// that publish readings.
func TestBroadcastDoesNotBlockOnStalledConsumer(t *testing.T) {
	mgr := NewManager()
	newFeedConn(t, mgr, "owner-1") // client never reads

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			mgr.Broadcast("owner-1", []byte("event"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a consumer that stopped draining")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	mgr := NewManager()
	upgrader := websocket.Upgrader{}

	registered := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mgr.Register("owner-1", conn)
		registered <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer client.Close()

	conn := <-registered
	if mgr.Count("owner-1") != 1 {
		t.Fatalf("Count is %d after register, want 1", mgr.Count("owner-1"))
	}

	mgr.Unregister("owner-1", conn)
	mgr.Unregister("owner-1", conn) // writer error path may race the handler's deferred cleanup
	if mgr.Count("owner-1") != 0 {
		t.Errorf("Count is %d after unregister, want 0", mgr.Count("owner-1"))
	}

	// Broadcasting to a gone owner is a no-op
	mgr.Broadcast("owner-1", []byte("event"))
}
