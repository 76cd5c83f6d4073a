package realtime

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsHarness upgrades incoming requests and hands the server-side sockets to
// the test, so Router can be exercised over real websocket pairs.
type wsHarness struct {
	srv      *httptest.Server
	accepted chan *websocket.Conn
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	h := &wsHarness{accepted: make(chan *websocket.Conn, 8)}
	upgrader := websocket.Upgrader{}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		h.accepted <- ws
	}))
	t.Cleanup(h.srv.Close)
	return h
}

// dial opens a client socket and returns it with the matching server side.
func (h *wsHarness) dial(t *testing.T) (client, server *websocket.Conn) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	select {
	case server = <-h.accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
	}
	return client, server
}

func readText(t *testing.T, ws *websocket.Conn) string {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(payload)
}

func expectClose(t *testing.T, ws *websocket.Conn, code int) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, code) {
		t.Fatalf("read error = %v, want close code %d", err, code)
	}
}

func TestRouterBroadcastReachesRoomIncludingSender(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	clientA, serverA := h.dial(t)
	clientB, serverB := h.dial(t)

	connA := NewConnection("op-a", serverA)
	connB := NewConnection("op-b", serverB)
	router.Attach(connA)
	router.Attach(connB)
	router.Join("AB-CD-EF", connA)
	router.Join("AB-CD-EF", connB)

	const n = 10
	for i := 0; i < n; i++ {
		payload := fmt.Sprintf("message %02d", i)
		if delivered := router.Broadcast("AB-CD-EF", []byte(payload)); delivered != 2 {
			t.Fatalf("broadcast %d delivered to %d sessions, want 2", i, delivered)
		}
	}

	// Both members, the sender's session included, read every payload in
	// publish order.
	for _, client := range []*websocket.Conn{clientA, clientB} {
		for i := 0; i < n; i++ {
			want := fmt.Sprintf("message %02d", i)
			if got := readText(t, client); got != want {
				t.Fatalf("position %d: got %q, want %q", i, got, want)
			}
		}
	}
}

func TestRouterOneRoomPerSession(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	client, server := h.dial(t)
	conn := NewConnection("op-a", server)
	router.Attach(conn)

	router.Join("AA-AA-AA", conn)
	router.Join("BB-BB-BB", conn)

	// Joining the second room must have torn down the first subscription.
	if delivered := router.Broadcast("AA-AA-AA", []byte("stale")); delivered != 0 {
		t.Fatalf("broadcast to the vacated room delivered to %d sessions, want 0", delivered)
	}
	if delivered := router.Broadcast("BB-BB-BB", []byte("fresh")); delivered != 1 {
		t.Fatalf("broadcast to the active room delivered to %d sessions, want 1", delivered)
	}
	if got := readText(t, client); got != "fresh" {
		t.Fatalf("got %q, want %q", got, "fresh")
	}
}

func TestRouterAttachReplacesOperatorSession(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	clientOld, serverOld := h.dial(t)
	clientNew, serverNew := h.dial(t)

	old := NewConnection("op-a", serverOld)
	router.Attach(old)
	router.Join("AB-CD-EF", old)

	replacement := NewConnection("op-a", serverNew)
	router.Attach(replacement)
	router.Join("AB-CD-EF", replacement)

	expectClose(t, clientOld, 4001)

	if delivered := router.Broadcast("AB-CD-EF", []byte("hello")); delivered != 1 {
		t.Fatalf("broadcast delivered to %d sessions, want only the replacement", delivered)
	}
	if got := readText(t, clientNew); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestRouterCloseRoom(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	client, server := h.dial(t)
	conn := NewConnection("op-a", server)
	router.Attach(conn)
	router.Join("AB-CD-EF", conn)

	router.CloseRoom("AB-CD-EF", "pulse wiped")

	expectClose(t, client, 4002)
	if delivered := router.Broadcast("AB-CD-EF", []byte("after")); delivered != 0 {
		t.Fatalf("broadcast after CloseRoom delivered to %d sessions, want 0", delivered)
	}
}

func TestRouterNotifyAll(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	clientA, serverA := h.dial(t)
	clientB, serverB := h.dial(t)

	connA := NewConnection("op-a", serverA)
	connB := NewConnection("op-b", serverB)
	router.Attach(connA)
	router.Attach(connB)
	// Only one session is in a room; the feed ping reaches both anyway.
	router.Join("AB-CD-EF", connA)

	if delivered := router.NotifyAll([]byte("ping")); delivered != 2 {
		t.Fatalf("NotifyAll delivered to %d sessions, want 2", delivered)
	}
	for _, client := range []*websocket.Conn{clientA, clientB} {
		if got := readText(t, client); got != "ping" {
			t.Fatalf("got %q, want %q", got, "ping")
		}
	}
}

func TestRouterDetachIdempotent(t *testing.T) {
	h := newWSHarness(t)
	router := NewRouter()
	defer router.Close()

	_, server := h.dial(t)
	conn := NewConnection("op-a", server)
	router.Attach(conn)
	router.Join("AB-CD-EF", conn)

	router.Detach(conn)
	router.Detach(conn)

	if delivered := router.Broadcast("AB-CD-EF", []byte("gone")); delivered != 0 {
		t.Fatalf("broadcast after detach delivered to %d sessions, want 0", delivered)
	}
	if delivered := router.NotifyAll([]byte("gone")); delivered != 0 {
		t.Fatalf("NotifyAll after detach delivered to %d sessions, want 0", delivered)
	}
}
