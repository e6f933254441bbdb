package mailqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const publishTimeout = 5 * time.Second

// Dispatcher hands messages to a Publisher in the background. Callers never
// wait on the broker; each message gets up to Attempts tries with the delay
// doubling from Backoff.
type Dispatcher struct {
	pub      Publisher
	attempts int
	backoff  time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	quit   chan struct{}
	wg     sync.WaitGroup
}

func NewDispatcher(pub Publisher, attempts int, backoff time.Duration, l *slog.Logger) *Dispatcher {
	if attempts < 1 {
		attempts = 1
	}
	if l == nil {
		l = slog.Default()
	}
	return &Dispatcher{
		pub:      pub,
		attempts: attempts,
		backoff:  backoff,
		log:      l.With("component", "mail_dispatcher"),
		quit:     make(chan struct{}),
	}
}

// Dispatch returns immediately. Messages dispatched after Close are dropped.
func (d *Dispatcher) Dispatch(msg EmailMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("email_dropped", "to", msg.To, "reason", "dispatcher closed")
		return
	}
	d.wg.Add(1)
	go d.deliver(msg)
}

func (d *Dispatcher) deliver(msg EmailMessage) {
	defer d.wg.Done()

	delay := d.backoff
	for attempt := 1; attempt <= d.attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := d.pub.Publish(ctx, msg)
		cancel()
		if err == nil {
			d.log.Info("email_enqueued", "to", msg.To, "attempt", attempt)
			return
		}
		d.log.Warn("email_enqueue_failed", "to", msg.To, "attempt", attempt, "error", err)

		if attempt == d.attempts {
			break
		}
		select {
		case <-d.quit:
			d.log.Warn("email_dropped", "to", msg.To, "reason", "shutdown during backoff")
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
	d.log.Error("email_enqueue_gave_up", "to", msg.To, "attempts", d.attempts)
}

// Close stops pending retries, waits for in-flight publishes and closes the
// publisher.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.quit)
	d.mu.Unlock()

	d.wg.Wait()
	return d.pub.Close()
}
