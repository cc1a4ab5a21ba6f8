package redis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/coroutines/pkg/domain"
)

// Clock reads time from a Redis server so that timelines in several
// processes measure waits and animations against one shared clock.
//
// Readings are seconds since the configured epoch (the Unix epoch by
// default). They never go backwards: a server reading older than the last one
// returned is replaced by the last one. When the server cannot be reached the
// last reading is returned and the error is kept for Err.
type Clock struct {
	client  *backend.Client
	epoch   time.Time
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	last float64
	err  error
}

type Option func(*Clock)

// WithEpoch sets the instant that reads as zero.
func WithEpoch(epoch time.Time) Option {
	return func(c *Clock) {
		c.epoch = epoch
	}
}

// WithTimeout bounds each TIME round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Clock) {
		c.timeout = d
	}
}

// WithLogger sets the logger used to report read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		c.logger = logger
	}
}

// NewClock creates a clock connected to address.
func NewClock(address, password string, db int, opts ...Option) *Clock {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewClockFromClient(rdb, opts...)
}

// NewClockFromClient creates a clock from an existing client.
func NewClockFromClient(client *backend.Client, opts ...Option) *Clock {
	c := &Clock{
		client:  client,
		epoch:   time.Unix(0, 0),
		timeout: 50 * time.Millisecond,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read asks the server for the time. It returns the reading clamped to be
// non-decreasing, or the last reading together with the error.
func (c *Clock) Read(ctx context.Context) (float64, error) {
	now, err := c.client.Time(ctx).Result()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.err = fmt.Errorf("failed to read redis time: %w", err)
		return c.last, c.err
	}
	c.err = nil

	seconds := now.Sub(c.epoch).Seconds()
	if seconds > c.last {
		c.last = seconds
	}
	return c.last, nil
}

// Now reads the clock with the configured timeout. It satisfies
// domain.Clock.
func (c *Clock) Now() float64 {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	seconds, err := c.Read(ctx)
	if err != nil {
		c.logger.Warn("redis clock unavailable, holding last reading", "err", err, "seconds", seconds)
	}
	return seconds
}

// Source exposes the clock as a domain.Clock.
func (c *Clock) Source() domain.Clock {
	return c.Now
}

// Err returns the error of the most recent read, if it failed.
func (c *Clock) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close closes the underlying client.
func (c *Clock) Close() error {
	return c.client.Close()
}
