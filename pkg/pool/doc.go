// Package pool owns the lifecycle of pooled Redis connections. It hands out
// exclusive handles, bounds how many exist at once, and guarantees that every
// handle goes back to the pool on every path.
//
// Architecture
//
// A Pool wraps a redigo pool configured from a validated config.Config:
//
//   - MaxTotal bounds open connections (leased + idle)
//   - MaxIdle bounds the idle list; MinIdle is maintained by the evictor
//   - MaxWait bounds how long Acquire blocks once MaxTotal is reached
//   - TestOnBorrow / TestOnReturn PING connections at the pool boundary
//
// The Manager performs one-time construction. The first Initialize call wins
// an atomic compare-and-set and builds the pool; concurrent and later callers
// wait for that result and share it.
//
// Usage Patterns
//
// Scoped acquisition:
//
//	err := p.With(ctx, nil, func(h *pool.Handle) error {
//		_, err := h.Do(ctx, "SET", "greeting", "hello")
//		return err
//	})
//
// Explicit acquisition on another logical database:
//
//	h, err := p.AcquireDB(ctx, 3)
//	if err != nil {
//		return err
//	}
//	defer h.Release()
//
// A handle bound to a non-default database is switched back to the configured
// database before its connection returns to the idle list.
//
// Errors
//
// Acquire fails with errors.ErrorTypePoolExhausted after MaxWait,
// errors.ErrorTypeConnection when a new connection cannot be dialed and
// errors.ErrorTypeClosed once the pool is closed. Release never fails.
package pool
