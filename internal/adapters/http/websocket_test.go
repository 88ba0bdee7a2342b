package http_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/samirrijal/evoteli/internal/adapters/memory"
	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

func TestWebSocket_StreamsAndClosesOnEviction(t *testing.T) {
	sessions, err := usecases.NewSessionService(memory.NewPreferences(), nil, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	deps := makeDeps(t, nil, nil)
	deps.Sessions = sessions
	app := setupApp(deps)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	header := http.Header{}
	header.Set("X-Session-ID", "ws-a")
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first struct {
		Type  string          `json:"type"`
		State domain.MapState `json:"state"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if first.Type != "state" {
		t.Fatalf("first event type = %q, want state", first.Type)
	}

	sess, ok := sessions.Peek("ws-a")
	if !ok {
		t.Fatal("session not registered")
	}
	sess.Store.Toggle3DBuildings(context.Background())
	var update struct {
		Type  string          `json:"type"`
		State domain.MapState `json:"state"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.State.Version <= first.State.Version {
		t.Errorf("update version %d not after %d", update.State.Version, first.State.Version)
	}

	// A second session pushes the first out of the registry.
	sessions.Get(context.Background(), "ws-b")

	for {
		_, _, err = conn.ReadMessage()
		if err != nil {
			break
		}
	}
	var ce *websocket.CloseError
	if !errors.As(err, &ce) || ce.Code != websocket.CloseGoingAway {
		t.Fatalf("expected going-away close after eviction, got %v", err)
	}
}
