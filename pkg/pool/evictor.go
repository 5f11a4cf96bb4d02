package pool

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/metrics"
)

// evictLoop periodically checks idle connections and tops up MinIdle.
func (p *Pool) evictLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.evict()
		case <-p.stopCh:
			return
		}
	}
}

// evict borrows idle connections straight from the redigo pool, so they are
// never counted as leased. Borrowing also lets redigo drop connections idle
// for longer than MinEvictableIdleTime.
func (p *Pool) evict() {
	if p.closed.Load() {
		return
	}

	idle := p.rp.IdleCount()
	tests := testsPerRun(p.cfg.Pool.NumTestsPerEvictionRun, idle)
	want := tests
	if p.cfg.Pool.MinIdle > want {
		want = p.cfg.Pool.MinIdle
	}
	if p.cfg.Pool.MaxTotal > 0 {
		// Never push a concurrent Acquire into waiting.
		if free := p.cfg.Pool.MaxTotal - p.rp.ActiveCount() + idle; want > free {
			want = free
		}
	}
	if want <= 0 {
		return
	}

	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	borrowed := make([]redis.Conn, 0, want)
	defer func() {
		for _, c := range borrowed {
			c.Close()
		}
	}()

	var kept, discarded, created int
	for i := 0; i < want; i++ {
		conn, err := p.rp.GetContext(ctx)
		if err != nil {
			p.logger.Debug("evictor stopped borrowing", zap.Int("borrowed", i), zap.Error(err))
			break
		}
		borrowed = append(borrowed, conn)

		// The first borrows come off the idle list; the rest were just dialed.
		if i >= idle {
			created++
			continue
		}
		if i < tests {
			if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
				discarded++
				continue
			}
		}
		kept++
	}

	metrics.EvictorRuns.WithLabelValues("kept").Add(float64(kept))
	metrics.EvictorRuns.WithLabelValues("discarded").Add(float64(discarded))
	metrics.EvictorRuns.WithLabelValues("created").Add(float64(created))

	if discarded > 0 || created > 0 {
		p.logger.Info("evictor run",
			zap.Int("tested", tests),
			zap.Int("discarded", discarded),
			zap.Int("created", created))
	}
}

// testsPerRun mirrors the numTestsPerEvictionRun convention: n >= 0 tests at
// most n idle connections, n < 0 tests ceil(idle / -n).
func testsPerRun(n, idle int) int {
	if idle <= 0 {
		return 0
	}
	if n >= 0 {
		if n < idle {
			return n
		}
		return idle
	}
	m := -n
	return (idle + m - 1) / m
}
