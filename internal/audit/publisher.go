// Package audit emits login telemetry to a message channel on a best-effort
// basis. Nothing in here may fail the caller: events are handed off to a
// background worker through a buffered channel, and a full buffer, a failed
// send or a closed publisher drops the event with a log line.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/distrischool/identity/internal/domain"
	"github.com/distrischool/identity/internal/logger"
)

// Channel is the message-channel boundary the publisher delivers to.
// Implemented by the Kafka producer adapter in this package and by mocks in
// tests.
type Channel interface {
	Send(ctx context.Context, topic, payload string) error
}

const sendTimeout = 5 * time.Second

type Publisher struct {
	channel Channel
	events  chan domain.LoginEvent

	// mu guards closed so a Publish racing with Close drops the event
	// instead of sending on a closed channel.
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewPublisher(channel Channel, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 128
	}
	p := &Publisher{
		channel: channel,
		events:  make(chan domain.LoginEvent, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish hands the event to the background worker and returns immediately.
// It never blocks beyond the buffered-channel handoff and never reports
// failure to the caller; a request that outlives shutdown just loses its
// event.
func (p *Publisher) Publish(event domain.LoginEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		logger.Log.Warn("audit publisher closed, dropping event",
			"topic", event.Topic,
			"payload", event.Payload)
		return
	}

	select {
	case p.events <- event:
	default:
		logger.Log.Warn("audit queue full, dropping event",
			"topic", event.Topic,
			"payload", event.Payload)
	}
}

// Close stops accepting events and flushes whatever is already queued.
// Safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()
	<-p.done
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.events {
		p.deliver(event)
	}
}

func (p *Publisher) deliver(event domain.LoginEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := p.channel.Send(ctx, event.Topic, event.Payload); err != nil {
		// Telemetry only. Log and move on, no retry.
		logger.Log.Error("failed to publish audit event",
			"topic", event.Topic,
			"payload", event.Payload,
			"error", err)
		return
	}
	logger.Log.Info("audit event published",
		"topic", event.Topic,
		"payload", event.Payload)
}
