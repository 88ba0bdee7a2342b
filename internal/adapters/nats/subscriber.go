package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subscriber consumes map-state events from JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS.
func NewSubscriber(url, name string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
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
	return &Subscriber{conn: conn, js: js}, nil
}

// WatchSubject returns the subject carrying clientID's events, or every
// client's when clientID is empty.
func WatchSubject(clientID string) string {
	if clientID == "" {
		return SubjectMapState + ".>"
	}
	return Subject(clientID)
}

// DecodeEvent parses one published event.
func DecodeEvent(data []byte) (*MapStateEvent, error) {
	var ev MapStateEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode map state event: %w", err)
	}
	if ev.ClientID == "" {
		return nil, fmt.Errorf("decode map state event: missing client_id")
	}
	return &ev, nil
}

// SubscribeMapState delivers the newest event per client first, then every
// event as it is published. Undecodable messages go to onError when set.
func (s *Subscriber) SubscribeMapState(ctx context.Context, clientID string, handler func(ctx context.Context, ev *MapStateEvent), onError func(subject string, err error)) error {
	sub, err := s.js.Subscribe(WatchSubject(clientID), func(msg *nats.Msg) {
		ev, err := DecodeEvent(msg.Data)
		if err != nil {
			if onError != nil {
				onError(msg.Subject, err)
			}
			return
		}
		handler(ctx, ev)
	},
		nats.DeliverLastPerSubject(),
		nats.OrderedConsumer(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", WatchSubject(clientID), err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
