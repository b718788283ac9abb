package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"rentals/pkg/logger"
)

const (
	DefaultQueueSize      = 1024
	DefaultPublishTimeout = 5 * time.Second
)

var (
	ErrQueueFull       = errors.New("event queue is full")
	ErrPublisherClosed = errors.New("event publisher is closed")
)

// AsyncPublisher hands events to a single background worker so a slow broker
// never holds up the caller. Events keep their enqueue order. Each publish
// runs on a context detached from the caller's cancellation and bounded by
// timeout.
type AsyncPublisher struct {
	next    Publisher
	log     *logger.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
}

type queued struct {
	ctx   context.Context
	event Event
}

func NewAsyncPublisher(next Publisher, log *logger.Logger, queueSize int, timeout time.Duration) *AsyncPublisher {
	if log == nil {
		log = logger.Discard()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	p := &AsyncPublisher{
		next:    next,
		log:     log,
		timeout: timeout,
		queue:   make(chan queued, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues the event and returns immediately. A full queue drops the
// event and returns ErrQueueFull.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- queued{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events, waits for the queue to drain and closes the
// wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for item := range p.queue {
		ctx, cancel := context.WithTimeout(item.ctx, p.timeout)
		err := p.next.Publish(ctx, item.event)
		cancel()

		if err != nil {
			p.log.Warn("Failed to publish reservation event",
				"type", item.event.Type,
				"id", item.event.ReservationID,
				"category", item.event.Category,
				"error", err,
			)
		}
	}
}
