// Package notify implements the notification sink (N): it coalesces
// actionable events (ambiguous matches, new enum variants, unknown-variant
// use) and emits batched notifications asynchronously. Mirrors the
// channel-plus-ticker shape of internal/eventbus/bus.go in the teacher: a
// read/write lock guards an append-only buffer, a single background
// goroutine drains it on a ticker and is shut down via context cancellation.
package notify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ltzf/ltzfd/internal/types"
)

// DefaultTickInterval is how often the background worker wakes to drain the
// buffer, per spec.md section 4.6 ("wakes every ~20s").
const DefaultTickInterval = 20 * time.Second

// Mailer sends one rendered batch notification. internal/notify/mail.go
// provides the SMTP-backed implementation; a nil Mailer degrades to
// logging-only, matching the "SMTP unconfigured" degradation spec.md
// requires.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// Sink buffers events in memory and emits one batched message per class per
// tick. It is fire-and-forget from the perspective of callers: Notify*
// methods only append and return.
type Sink struct {
	mu     sync.RWMutex
	buffer []Event

	mailer Mailer
	logger *slog.Logger
	tick   time.Duration

	stop chan struct{}
	done chan struct{}
}

// New constructs a Sink. mailer may be nil, in which case the sink logs
// batches instead of emailing them.
func New(mailer Mailer, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		mailer: mailer,
		logger: logger,
		tick:   DefaultTickInterval,
	}
}

// enqueue appends an event under the write lock. Writers never hold the lock
// for anything beyond the append itself.
func (s *Sink) enqueue(ev Event) {
	s.mu.Lock()
	s.buffer = append(s.buffer, ev)
	s.mu.Unlock()
}

// NotifyAmbiguousMatch records an ambiguous-match event. Implements the
// notification hook the candidate resolver and merge executor call on a
// rolled-back ambiguous outcome.
func (s *Sink) NotifyAmbiguousMatch(entity string, apiIDs []types.ApiID) {
	s.enqueue(AmbiguousMatchEvent(entity, apiIDs, time.Now().UTC()))
}

// NotifyEnumAdded records that an enum replacement introduced a genuinely
// new vocabulary value.
func (s *Sink) NotifyEnumAdded(vocabulary, value string) {
	s.enqueue(EnumAddedEvent(vocabulary, value, time.Now().UTC()))
}

// NotifySonstigUnwrapped implements guard.Sink.
func (s *Sink) NotifySonstigUnwrapped(apiID types.ApiID, objectKind, rawValue string) {
	s.enqueue(SonstigUnwrappedEvent(apiID, objectKind, rawValue, time.Now().UTC()))
}

// Start launches the background worker. It returns immediately; the worker
// runs until ctx is cancelled or Stop is called.
func (s *Sink) Start(ctx context.Context) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.drainAndEmit(ctx)
			}
		}
	}()
}

// Stop shuts the background worker down and waits for it to exit.
func (s *Sink) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
}

// drainAndEmit swaps the buffer out under the write lock (the only other
// operation that takes the lock beyond append), then partitions and emits
// outside the lock so a slow mail send never blocks writers.
func (s *Sink) drainAndEmit(ctx context.Context) {
	s.mu.Lock()
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	byClass := make(map[Class][]Event)
	for _, ev := range batch {
		byClass[ev.Class] = append(byClass[ev.Class], ev)
	}

	classes := make([]Class, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	for _, c := range classes {
		s.emitBatch(ctx, c, byClass[c])
	}
}

func (s *Sink) emitBatch(ctx context.Context, class Class, events []Event) {
	subject, body := renderBatch(class, events)

	if s.mailer == nil {
		s.logger.Info("notification batch (logging-only, no SMTP configured)",
			"class", class.String(), "count", len(events), "subject", subject)
		return
	}

	if err := s.mailer.Send(ctx, subject, body); err != nil {
		// Sending failures are logged and the buffer drains; events are not
		// retried across ticks.
		s.logger.Error("failed to send notification batch", "class", class.String(), "err", err)
	}
}
