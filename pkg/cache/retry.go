package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// retryPolicy bounds how a Redis call is repeated after a dropped
// connection. The delay doubles after every failed attempt.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var defaultRetry = retryPolicy{attempts: 3, delay: 200 * time.Millisecond}

// do runs fn until it succeeds, fails with a non-transient error, or runs
// out of attempts. A cache miss (redis.Nil) is returned at once.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	delay := p.delay
	var err error
	for i := 0; i < p.attempts; i++ {
		if err = fn(); err == nil || !transient(err) {
			return err
		}
		if i == p.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}

// transient reports whether err is a connection-level failure worth
// another attempt. Server replies such as WRONGTYPE are not.
func transient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.EOF)
}
