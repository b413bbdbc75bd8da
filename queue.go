// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// A Queue collects node change events and delivers them in batches.
//
// Posting a node that is already pending is a no-op: listeners read the node
// value when the event is delivered, so they always see the latest value.
// Delivering a batch may post new events; these go to the next batch.
// Devices whose inputs changed during a batch are recomputed once, after all
// the events of the batch have been delivered.
//
// A queue is not safe for concurrent use, with the exception of Do, Drain,
// Flush and Run which serialize access to all the circuits bound to the
// queue. Goroutines other than the one calling Drain or Flush must use Do to
// touch any node or device.
//
type Queue struct {
	mu      sync.Mutex
	pending []*Node
	dirty   []*Device
	changed []*Node

	clock      clock.Clock
	log        *zap.Logger
	metrics    *Metrics
	interval   time.Duration
	budget     time.Duration
	maxBatches int
}

// NewQueue returns a new event queue.
//
func NewQueue(opts ...Option) *Queue {
	return newQueue(newConfig(opts))
}

func newQueue(c *config) *Queue {
	return &Queue{
		clock:      c.clock,
		log:        c.log,
		metrics:    c.metrics,
		interval:   c.interval,
		budget:     c.budget,
		maxBatches: c.maxBatches,
	}
}

// Clock returns the queue's clock.
//
func (q *Queue) Clock() clock.Clock { return q.clock }

// Post adds a change event for n to the pending batch.
//
func (q *Queue) Post(n *Node) {
	if !n.queued {
		n.queued = true
		q.pending = append(q.pending, n)
	}
	if len(n.observers) > 0 && !n.changed {
		n.changed = true
		q.changed = append(q.changed, n)
	}
}

// Pending returns the number of pending events.
//
func (q *Queue) Pending() int { return len(q.pending) }

func (q *Queue) markDirty(d *Device) {
	if !d.dirty {
		d.dirty = true
		q.dirty = append(q.dirty, d)
	}
}

// deliver delivers one batch and returns the number of events delivered.
//
func (q *Queue) deliver() int {
	batch := q.pending
	q.pending = nil
	for _, n := range batch {
		n.queued = false
	}
	for _, n := range batch {
		for _, l := range n.listeners {
			l()
		}
	}
	dirty := q.dirty
	q.dirty = nil
	for _, d := range dirty {
		d.dirty = false
		d.recompute()
	}
	return len(batch)
}

type notification struct {
	n *Node
	v Value
}

// drain delivers batches until the queue is empty, the time budget is
// exhausted or maxBatches batches have been delivered. A budget or maxBatches
// <= 0 means no limit.
//
func (q *Queue) drain(budget time.Duration, maxBatches int) []notification {
	start := q.clock.Now()
	events, batches := 0, 0
	for len(q.pending) > 0 {
		if budget > 0 && q.clock.Since(start) >= budget {
			q.log.Warn("drain budget exhausted", zap.Int("pending", len(q.pending)), zap.Int("batches", batches))
			if q.metrics != nil {
				q.metrics.BudgetExhausted.Inc()
			}
			break
		}
		if maxBatches > 0 && batches >= maxBatches {
			break
		}
		events += q.deliver()
		batches++
	}
	if q.metrics != nil {
		q.metrics.Drains.Inc()
		q.metrics.Batches.Add(float64(batches))
		q.metrics.EventsDelivered.Add(float64(events))
		q.metrics.DrainDuration.Observe(q.clock.Since(start).Seconds())
		q.metrics.Pending.Set(float64(len(q.pending)))
	}

	if len(q.changed) == 0 {
		return nil
	}
	ns := make([]notification, len(q.changed))
	for i, n := range q.changed {
		n.changed = false
		ns[i] = notification{n, n.value}
	}
	q.changed = nil
	return ns
}

func notify(ns []notification) {
	for _, x := range ns {
		for _, fn := range x.n.observers {
			fn(x.v)
		}
	}
}

// Drain runs one drain tick: it delivers batches of events until the queue is
// empty or the drain budget is exhausted, then notifies observers of every
// node that changed since the previous drain. It returns the number of events
// left pending.
//
// Drain must not be called from within Do or from a listener.
//
func (q *Queue) Drain() int {
	q.mu.Lock()
	ns := q.drain(q.budget, 0)
	left := len(q.pending)
	q.mu.Unlock()
	notify(ns)
	return left
}

// Flush delivers events until the queue is empty, regardless of the drain
// budget. It returns ErrUnsettled if the queue is still not empty after the
// configured maximum number of batches.
//
func (q *Queue) Flush() error {
	q.mu.Lock()
	ns := q.drain(0, q.maxBatches)
	left := len(q.pending)
	q.mu.Unlock()
	notify(ns)
	if left > 0 {
		if q.metrics != nil {
			q.metrics.Unsettled.Inc()
		}
		return ErrUnsettled
	}
	return nil
}

// Do runs fn with exclusive access to the queue and its circuits.
//
func (q *Queue) Do(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn()
}

// Run drains the queue at the configured cadence until ctx is done. The next
// drain is scheduled max(interval-budget, interval-elapsed) after the end of
// the current one.
//
func (q *Queue) Run(ctx context.Context) error {
	q.log.Debug("queue running", zap.Duration("interval", q.interval), zap.Duration("budget", q.budget))
	for {
		start := q.clock.Now()
		q.Drain()
		wait := max(q.interval-q.budget, q.interval-q.clock.Since(start))
		select {
		case <-ctx.Done():
			q.log.Debug("queue stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-q.clock.After(wait):
		}
	}
}
