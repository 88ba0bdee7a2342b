package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/usecases"
	"github.com/samirrijal/evoteli/internal/pkg/metrics"
)

// wsMessage is sent by the client to request data outside the change stream.
type wsMessage struct {
	Action string `json:"action"` // "snapshot" | "preferences"
}

// wsEvent is pushed to the client.
type wsEvent struct {
	Type        string              `json:"type"` // "state" | "preferences"
	State       *domain.MapState    `json:"state,omitempty"`
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

const (
	wsBuffer     = 16
	wsCloseGrace = time.Second
)

// WebSocketHandler streams the session's map state. The current state is sent
// on connect, then every transition. A slow client skips intermediate states;
// the version field orders what it receives. When the session is evicted the
// stream ends with a going-away close frame.
func WebSocketHandler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sess, _ := c.Locals(sessionLocal).(*usecases.Session)
		if sess == nil {
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		logger := slog.Default().With("session", sess.ID, "remote", c.RemoteAddr().String())
		logger.Info("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		updates := make(chan domain.MapState, wsBuffer)
		unsubscribe := sess.Store.Subscribe(func(st domain.MapState) {
			select {
			case updates <- st:
				return
			default:
			}
			// Full: drop the oldest queued state.
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- st:
			default:
			}
		})
		defer unsubscribe()

		initial := sess.Store.State()
		if err := writeJSON(wsEvent{Type: "state", State: &initial}); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case st := <-updates:
					if err := writeJSON(wsEvent{Type: "state", State: &st}); err != nil {
						return
					}
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-sess.Done():
					logger.Info("ws session expired")
					mu.Lock()
					_ = c.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "session expired"),
						time.Now().Add(wsCloseGrace))
					mu.Unlock()
					// Unblock the reader if the client never answers the close.
					_ = c.SetReadDeadline(time.Now().Add(wsCloseGrace))
					return
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "snapshot":
				st := sess.Store.State()
				_ = writeJSON(wsEvent{Type: "state", State: &st})
			case "preferences":
				p := sess.Store.Preferences()
				_ = writeJSON(wsEvent{Type: "preferences", Preferences: &p})
			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		logger.Info("ws client disconnected")
	}
}
