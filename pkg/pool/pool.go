package pool

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/config"
	"github.com/ajitpratap0/redisutil/pkg/errors"
	"github.com/ajitpratap0/redisutil/pkg/logger"
	"github.com/ajitpratap0/redisutil/pkg/metrics"
)

// DialFunc opens a new connection to the store.
type DialFunc func(ctx context.Context) (redis.Conn, error)

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used by the pool and its evictor.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithDialer replaces the TCP dialer built from the configuration.
func WithDialer(dial DialFunc) Option {
	return func(p *Pool) {
		if dial != nil {
			p.dial = dial
		}
	}
}

// Pool is a bounded set of reusable connections to one Redis server.
// It is safe for concurrent use.
type Pool struct {
	cfg    config.Config
	rp     *redis.Pool
	dial   DialFunc
	logger *zap.Logger

	leased atomic.Int64
	closed atomic.Bool
	// reselect is set once a connection may have gone back to the idle list
	// on a non-default database; every later acquire then selects explicitly.
	reselect atomic.Bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Active       int           `json:"active" yaml:"active"`
	Idle         int           `json:"idle" yaml:"idle"`
	Leased       int64         `json:"leased" yaml:"leased"`
	MaxTotal     int           `json:"max_total" yaml:"max_total"`
	WaitCount    int64         `json:"wait_count" yaml:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration" yaml:"wait_duration"`
}

// New builds a pool from cfg and verifies the server is reachable by
// dialing one connection and sending PING. The connection is kept idle.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Pool, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "pool configuration is nil")
	}

	p := &Pool{
		cfg:    *cfg,
		stopCh: make(chan struct{}),
	}
	p.dial = p.dialTCP
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}
	p.logger = p.logger.With(
		zap.String("component", "redis_pool"),
		zap.String("addr", cfg.Addr()),
	)

	p.rp = &redis.Pool{
		DialContext: p.dial,
		MaxIdle:     cfg.Pool.MaxIdle,
		MaxActive:   cfg.Pool.MaxTotal,
		IdleTimeout: cfg.Pool.MinEvictableIdleTime,
		Wait:        cfg.Pool.MaxWait != 0,
	}
	if cfg.Pool.TestOnBorrow {
		p.rp.TestOnBorrow = func(c redis.Conn, _ time.Time) error {
			_, err := c.Do("PING")
			return err
		}
	}

	if err := p.ping(ctx); err != nil {
		p.rp.Close()
		return nil, err
	}

	if interval := cfg.Pool.TimeBetweenEvictionRuns; interval > 0 {
		p.wg.Add(1)
		go p.evictLoop(interval)
	}

	p.logger.Info("redis pool created",
		zap.Int("max_total", cfg.Pool.MaxTotal),
		zap.Int("max_idle", cfg.Pool.MaxIdle),
		zap.Int("min_idle", cfg.Pool.MinIdle),
		zap.Duration("max_wait", cfg.Pool.MaxWait),
		zap.Int("database", cfg.Database))

	return p, nil
}

func (p *Pool) dialTCP(ctx context.Context) (redis.Conn, error) {
	return redis.DialContext(ctx, "tcp", p.cfg.Addr(),
		redis.DialPassword(p.cfg.Password),
		redis.DialDatabase(p.cfg.Database),
		redis.DialConnectTimeout(p.cfg.Timeout),
		redis.DialReadTimeout(p.cfg.Timeout),
		redis.DialWriteTimeout(p.cfg.Timeout),
	)
}

func (p *Pool) ping(ctx context.Context) error {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	conn, err := p.rp.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "cannot connect to redis").
			WithDetail("addr", p.cfg.Addr())
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "redis did not answer PING").
			WithDetail("addr", p.cfg.Addr())
	}
	return nil
}

// Config returns the configuration the pool was built from.
func (p *Pool) Config() config.Config {
	return p.cfg
}

// Acquire leases a handle on the configured database.
func (p *Pool) Acquire(ctx context.Context) (*Handle, error) {
	return p.acquire(ctx, p.cfg.Database)
}

// AcquireDB leases a handle and selects logical database db on it.
func (p *Pool) AcquireDB(ctx context.Context, db int) (*Handle, error) {
	if db < 0 {
		return nil, errors.Newf(errors.ErrorTypeCommand, "invalid database index %d", db)
	}
	return p.acquire(ctx, db)
}

func (p *Pool) acquire(ctx context.Context, db int) (*Handle, error) {
	if p.closed.Load() {
		return nil, errors.New(errors.ErrorTypeClosed, "pool is closed")
	}

	waitCtx, cancel := p.waitContext(ctx)
	defer cancel()

	start := time.Now()
	conn, err := p.rp.GetContext(waitCtx)
	metrics.AcquireWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, p.acquireError(ctx, err)
	}

	if db != p.cfg.Database || p.reselect.Load() {
		if _, err := redis.DoContext(conn, ctx, "SELECT", db); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeCommand, "cannot select database").
				WithDetail("db", db)
		}
	}

	p.leased.Add(1)
	return &Handle{conn: conn, pool: p, db: db}, nil
}

// waitContext bounds the pool wait by MaxWait. MaxWait == 0 never blocks
// because the redigo pool is built with Wait disabled.
func (p *Pool) waitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Pool.MaxWait > 0 {
		return context.WithTimeout(ctx, p.cfg.Pool.MaxWait)
	}
	return context.WithCancel(ctx)
}

func (p *Pool) acquireError(ctx context.Context, err error) error {
	waited := stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
	switch {
	case stderrors.Is(err, redis.ErrPoolExhausted), waited && p.atCapacity():
		metrics.PoolExhausted.Inc()
		p.logger.Warn("redis pool exhausted",
			zap.Int("max_total", p.cfg.Pool.MaxTotal),
			zap.Duration("max_wait", p.cfg.Pool.MaxWait))
		return errors.Wrap(err, errors.ErrorTypePoolExhausted, "no connection available").
			WithDetail("max_total", p.cfg.Pool.MaxTotal).
			WithDetail("max_wait", p.cfg.Pool.MaxWait.String())
	case ctx.Err() != nil:
		return errors.Wrap(ctx.Err(), errors.ErrorTypeInternal, "acquire canceled")
	case p.closed.Load():
		return errors.Wrap(err, errors.ErrorTypeClosed, "pool is closed")
	case waited:
		return errors.Wrap(err, errors.ErrorTypeConnection, "dial timed out").
			WithDetail("addr", p.cfg.Addr()).
			WithDetail("max_wait", p.cfg.Pool.MaxWait.String())
	default:
		return errors.Wrap(err, errors.ErrorTypeConnection, "cannot connect to redis").
			WithDetail("addr", p.cfg.Addr())
	}
}

// atCapacity reports whether every permitted connection is live or being
// dialed. A wait that times out below capacity was spent dialing.
func (p *Pool) atCapacity() bool {
	return p.cfg.Pool.MaxTotal > 0 && p.rp.ActiveCount() >= p.cfg.Pool.MaxTotal
}

// Release returns h to the pool. It never fails; releasing twice or
// releasing nil is a no-op.
func (p *Pool) Release(h *Handle) {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	defer p.leased.Add(-1)

	if h.db != p.cfg.Database && h.conn.Err() == nil {
		if err := p.restoreDB(h.conn); err != nil {
			p.reselect.Store(true)
			p.logger.Error("cannot restore default database",
				zap.Int("db", h.db),
				zap.Int("default_db", p.cfg.Database),
				zap.Error(err))
		}
	}
	if p.cfg.Pool.TestOnReturn && h.conn.Err() == nil {
		if _, err := h.conn.Do("PING"); err != nil {
			p.logger.Debug("connection failed return check", zap.Error(err))
		}
	}

	// redigo discards connections whose Err is set instead of pooling them.
	if err := h.conn.Close(); err != nil {
		p.logger.Debug("error closing pooled connection", zap.Error(err))
	}
}

// restoreDB switches conn back to the configured database. A SELECT queued
// inside an open MULTI is dropped with the transaction and sent again.
func (p *Pool) restoreDB(conn redis.Conn) error {
	reply, err := redis.String(conn.Do("SELECT", p.cfg.Database))
	if err == nil && reply == "QUEUED" {
		if _, err = conn.Do("DISCARD"); err != nil {
			return err
		}
		reply, err = redis.String(conn.Do("SELECT", p.cfg.Database))
	}
	if err != nil {
		return err
	}
	if reply != "OK" {
		return errors.Newf(errors.ErrorTypeCommand, "unexpected SELECT reply %q", reply)
	}
	return nil
}

// With runs fn with a leased handle and releases it afterwards, whatever fn
// returns. A nil db uses the configured database.
func (p *Pool) With(ctx context.Context, db *int, fn func(h *Handle) error) error {
	var (
		h   *Handle
		err error
	)
	if db == nil {
		h, err = p.Acquire(ctx)
	} else {
		h, err = p.AcquireDB(ctx, *db)
	}
	if err != nil {
		return err
	}
	defer p.Release(h)

	return fn(h)
}

// Stats returns the current pool statistics and publishes them as gauges.
func (p *Pool) Stats() Stats {
	rs := p.rp.Stats()
	s := Stats{
		Active:       rs.ActiveCount,
		Idle:         rs.IdleCount,
		Leased:       p.leased.Load(),
		MaxTotal:     p.cfg.Pool.MaxTotal,
		WaitCount:    rs.WaitCount,
		WaitDuration: rs.WaitDuration,
	}
	metrics.SetPoolConnections(s.Active, s.Idle, int(s.Leased))
	return s
}

// Leased returns the number of handles currently out of the pool.
func (p *Pool) Leased() int64 {
	return p.leased.Load()
}

// Close stops the evictor and closes idle connections. Handles still leased
// are closed when released. Close is idempotent.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.stopCh)
	p.wg.Wait()

	if err := p.rp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "error closing redis pool")
	}
	p.logger.Info("redis pool closed", zap.Int64("leased", p.leased.Load()))
	return nil
}
