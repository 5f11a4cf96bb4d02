// Package testutil holds the helpers shared by the redisutil test suites:
// an in-memory Redis server, configurations pointing at it, and a logger and
// context bound to the running test.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// CallTimeout bounds a test context. It is far above any pool wait the
// tests configure.
const CallTimeout = 30 * time.Second

// Logger returns a debug-level logger that writes through t.Log.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}

// Context returns a context canceled when t finishes or after CallTimeout.
func Context(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
	t.Cleanup(cancel)
	return ctx
}

// WaitFor fails t unless cond holds within timeout. Background work such as
// the pool evictor is observed this way.
func WaitFor(t testing.TB, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, timeout, 10*time.Millisecond, msg)
}
