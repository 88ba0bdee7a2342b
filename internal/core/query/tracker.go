package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/evoteli/internal/pkg/metrics"
)

// fetchTimeout bounds a shared fetch once it no longer follows any one
// caller's context.
const fetchTimeout = 30 * time.Second

// ErrStale is returned when a result arrives after newer parameters were issued.
var ErrStale = errors.New("query result superseded by newer parameters")

// Ticket identifies one issued request.
type Ticket struct {
	Fingerprint string
	Seq         uint64
}

// Result is a value tagged with the request that produced it.
type Result[T any] struct {
	Ticket
	Value T
}

// Tracker orders results by issuance, not arrival. Only the newest issued
// fingerprint may resolve, and an accepted result is never replaced by one
// from an older request.
type Tracker[T any] struct {
	name  string
	group singleflight.Group

	mu       sync.Mutex
	seq      uint64
	current  Ticket
	accepted uint64
	latest   *Result[T]
}

// NewTracker creates a tracker. name labels the stale-result metric.
func NewTracker[T any](name string) *Tracker[T] {
	return &Tracker[T]{name: name}
}

// Issue records fp as the current parameters and returns its ticket.
func (t *Tracker[T]) Issue(fp string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.current = Ticket{Fingerprint: fp, Seq: t.seq}
	return t.current
}

// Current returns the ticket of the newest issued request.
func (t *Tracker[T]) Current() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Resolve offers a value for tk. It is accepted only when tk's fingerprint is
// still current. An older ticket for the current fingerprint that arrives
// after a newer one resolved gets the already accepted result instead of
// replacing it.
func (t *Tracker[T]) Resolve(tk Ticket, v T) (Result[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk.Fingerprint != t.current.Fingerprint {
		metrics.StaleResultsDiscarded.WithLabelValues(t.name).Inc()
		return Result[T]{}, false
	}
	if tk.Seq < t.accepted && t.latest != nil {
		return *t.latest, true
	}
	t.accepted = tk.Seq
	r := Result[T]{Ticket: tk, Value: v}
	t.latest = &r
	return r, true
}

// Latest returns the most recently accepted result.
func (t *Tracker[T]) Latest() (Result[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return Result[T]{}, false
	}
	return *t.latest, true
}

// Do issues a request for params and runs fetch. Concurrent calls with the
// same fingerprint share one fetch, which runs detached from any single
// caller so one caller giving up does not fail the others. A result
// overtaken by newer parameters is discarded and ErrStale returned.
func (t *Tracker[T]) Do(ctx context.Context, params any, fetch func(context.Context) (T, error)) (Result[T], error) {
	fp, err := Fingerprint(params)
	if err != nil {
		return Result[T]{}, err
	}
	tk := t.Issue(fp)

	ch := t.group.DoChan(fp, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return fetch(fctx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return Result[T]{}, res.Err
	}

	v, _ := res.Val.(T)
	r, ok := t.Resolve(tk, v)
	if !ok {
		return Result[T]{}, ErrStale
	}
	return r, nil
}
