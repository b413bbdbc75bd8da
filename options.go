// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Default queue settings.
const (
	DefaultDrainInterval = 50 * time.Millisecond
	DefaultDrainBudget   = 40 * time.Millisecond
	DefaultMaxBatches    = 10000
)

type config struct {
	log        *zap.Logger
	clock      clock.Clock
	metrics    *Metrics
	interval   time.Duration
	budget     time.Duration
	maxBatches int
	queue      *Queue
	headless   bool
}

func newConfig(opts []Option) *config {
	c := &config{
		interval:   DefaultDrainInterval,
		budget:     DefaultDrainBudget,
		maxBatches: DefaultMaxBatches,
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	return c
}

// An Option configures a Queue or a Circuit.
//
type Option func(*config)

// WithLogger sets the logger. The default is a no-op logger.
//
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithClock sets the clock used for the drain cadence, the drain budget and
// device timers. Tests use clock.NewMock().
//
func WithClock(clk clock.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithMetrics enables metrics collection.
//
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithDrainInterval sets the reference cadence of Queue.Run.
//
func WithDrainInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithDrainBudget sets the maximum time spent delivering events per drain.
// A budget <= 0 disables the limit.
//
func WithDrainBudget(d time.Duration) Option {
	return func(c *config) { c.budget = d }
}

// WithMaxBatches sets the number of batches after which Flush gives up with
// ErrUnsettled.
//
func WithMaxBatches(n int) Option {
	return func(c *config) { c.maxBatches = n }
}

// WithQueue makes a circuit post its events to q instead of creating its own
// queue. Queue related options are then ignored.
//
func WithQueue(q *Queue) Option {
	return func(c *config) { c.queue = q }
}

// Headless builds a circuit without attaching its devices. Sources like DC or
// OSC stay inactive until Attach is called.
//
func Headless() Option {
	return func(c *config) { c.headless = true }
}
