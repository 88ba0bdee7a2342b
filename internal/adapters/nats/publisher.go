package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// Subjects and stream for map-state change events.
const (
	StreamMapState  = "MAP_STATE"
	SubjectMapState = "evoteli.mapstate"
)

// MapStateEvent is the payload published after every store transition.
type MapStateEvent struct {
	ClientID    string          `json:"client_id"`
	Version     uint64          `json:"version"`
	State       domain.MapState `json:"state"`
	PublishedAt time.Time       `json:"published_at"`
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the map-state stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("evoteli-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:              StreamMapState,
		Subjects:          []string{SubjectMapState + ".>"},
		Retention:         nats.LimitsPolicy,
		MaxAge:            24 * time.Hour,
		MaxMsgsPerSubject: 1,
		Storage:           nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// Subject returns the subject a client's events are published on.
func Subject(clientID string) string {
	return SubjectMapState + "." + subjectToken(clientID)
}

// subjectToken replaces characters NATS reserves in subject tokens.
func subjectToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}

// PublishMapState publishes a snapshot. The stream keeps only the newest per client.
func (p *Publisher) PublishMapState(ctx context.Context, clientID string, state domain.MapState) error {
	data, err := json.Marshal(MapStateEvent{
		ClientID:    clientID,
		Version:     state.Version,
		State:       state,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject(clientID), data, nats.Context(ctx))
	return err
}

// IsConnected reports the connection state for readiness checks.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
