package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Publisher accepts events from domain code and fans them out to the store
// and any configured sinks. Synchronous by default; WithAsyncBuffer switches
// to a buffered channel drained by a background goroutine so hot paths never
// block on audit persistence.
type Publisher struct {
	store  Store
	sinks  []Sink
	logger *slog.Logger

	inbox chan Event
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous publishing with the given buffer
// size. When the buffer is full events are dropped with a warning; audit
// must never stall the pipeline.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

// WithSink adds a forwarding sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sinks = append(p.sinks, sink)
	}
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one event. The event ID and timestamp are assigned here when
// unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if p.inbox == nil {
		p.deliver(ctx, event)
		return nil
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"action", event.Action,
			"application_id", event.ApplicationID,
		)
	}
	return nil
}

// ListByApplication reads back persisted events.
func (p *Publisher) ListByApplication(ctx context.Context, applicationID string) ([]Event, error) {
	return p.store.ListByApplication(ctx, applicationID)
}

// Close drains buffered events and stops the background worker.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event Event) {
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("audit store append failed",
			"action", event.Action,
			"application_id", event.ApplicationID,
			"error", err,
		)
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			p.logger.Error("audit sink publish failed",
				"action", event.Action,
				"application_id", event.ApplicationID,
				"error", err,
			)
		}
	}
}
