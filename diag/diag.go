// Package diag carries warnings about malformed wire input away from the
// codec. The codec never fails because of a sink, and a sink may drop
// everything it is given.
package diag

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Sink consumes warnings about malformed input.
type Sink interface {
	Warnf(format string, args ...interface{})
}

// SinkFunc is a function adapter for the Sink interface.
type SinkFunc func(format string, args ...interface{})

// Warnf implements the Sink interface.
func (fn SinkFunc) Warnf(format string, args ...interface{}) {
	fn(format, args...)
}

// Discard returns a sink that drops every warning.
func Discard() Sink {
	return SinkFunc(func(string, ...interface{}) {})
}

// RateLimited wraps a sink with a token bucket, so a stream of malformed
// messages cannot flood the log. Tokens refill at rate per second up to
// burst; a warning that finds no token is dropped.
type RateLimited struct {
	sink  Sink
	rate  float64
	burst float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
	now    func() time.Time
}

// NewRateLimited returns a rate-limited view of sink.
func NewRateLimited(sink Sink, rate float64, burst int) *RateLimited {
	return &RateLimited{
		sink:   sink,
		rate:   rate,
		burst:  float64(burst),
		tokens: float64(burst),
		now:    time.Now,
	}
}

// Warnf implements the Sink interface.
func (rl *RateLimited) Warnf(format string, args ...interface{}) {
	if rl.take() {
		rl.sink.Warnf(format, args...)
	}
}

func (rl *RateLimited) take() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if !rl.last.IsZero() {
		rl.tokens += now.Sub(rl.last).Seconds() * rl.rate
		if rl.tokens > rl.burst {
			rl.tokens = rl.burst
		}
	}
	rl.last = now

	if rl.tokens < 1 {
		return false
	}

	rl.tokens--
	return true
}

// Default returns the sink used when a caller does not supply one: a
// charmbracelet logger limited to one warning per second with a burst
// of five.
func Default() Sink {
	defaultOnce.Do(func() {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "ofpact",
		})
		defaultSink = NewRateLimited(SinkFunc(func(format string, args ...interface{}) {
			logger.Warn(fmt.Sprintf(format, args...))
		}), 1, 5)
	})
	return defaultSink
}

var (
	defaultOnce sync.Once
	defaultSink Sink
)

// Capture is a sink that records warnings for inspection in tests.
type Capture struct {
	mu       sync.Mutex
	messages []string
}

// Warnf implements the Sink interface.
func (c *Capture) Warnf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// Messages returns a copy of the captured warnings.
func (c *Capture) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}
