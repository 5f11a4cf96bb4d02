package pool

import (
	"context"
	"sync/atomic"

	"github.com/gomodule/redigo/redis"
)

// Handle is an exclusively leased connection bound to one logical database.
// A Handle must not be shared between goroutines.
type Handle struct {
	conn     redis.Conn
	pool     *Pool
	db       int
	released atomic.Bool
}

// Do sends one command and waits for the reply.
func (h *Handle) Do(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	return redis.DoContext(h.conn, ctx, cmd, args...)
}

// DB returns the logical database the handle is bound to.
func (h *Handle) DB() int {
	return h.db
}

// Conn exposes the underlying connection. It is valid until Release.
func (h *Handle) Conn() redis.Conn {
	return h.conn
}

// Release returns the handle to its pool. Safe to call more than once.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.pool.Release(h)
}
