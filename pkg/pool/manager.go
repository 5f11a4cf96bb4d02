package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/config"
	"github.com/ajitpratap0/redisutil/pkg/errors"
	"github.com/ajitpratap0/redisutil/pkg/logger"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSource sets where the manager reads its properties from.
// Defaults to config.FileSource(config.DefaultResourceName).
func WithSource(src config.Source) ManagerOption {
	return func(m *Manager) {
		if src != nil {
			m.source = src
		}
	}
}

// WithPoolOptions passes options through to the pool constructor.
func WithPoolOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.poolOpts = append(m.poolOpts, opts...)
	}
}

// WithManagerLogger sets the manager's logger.
func WithManagerLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager constructs a single Pool exactly once, however many goroutines
// call Initialize.
type Manager struct {
	source   config.Source
	poolOpts []Option
	logger   *zap.Logger

	initialized   atomic.Bool
	ready         chan struct{}
	constructions atomic.Int64

	// written by the Initialize winner before ready is closed
	pool *Pool
	err  error
}

var (
	stdOnce sync.Once
	std     *Manager
)

// Default returns the process-wide manager, which reads
// config.DefaultResourceName from config.DefaultSearchPaths.
func Default() *Manager {
	stdOnce.Do(func() {
		std = NewManager()
	})
	return std
}

// NewManager returns an uninitialized manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		source: config.FileSource(config.DefaultResourceName),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Get()
	}
	m.logger = m.logger.With(zap.String("component", "pool_manager"))
	return m
}

// Initialize loads and validates the configuration and builds the pool.
// Only the first call does the work; every other call waits for it and
// returns the same result. A failed initialization is not retried.
func (m *Manager) Initialize(ctx context.Context) error {
	if !m.initialized.CompareAndSwap(false, true) {
		m.logger.Info("pool already initialized")
		select {
		case <-m.ready:
			return m.err
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeInternal, "initialize canceled")
		}
	}
	defer close(m.ready)

	m.constructions.Add(1)
	m.pool, m.err = m.build(ctx)
	if m.err != nil {
		m.logger.Error("pool initialization failed", zap.Error(m.err))
	}
	return m.err
}

func (m *Manager) build(ctx context.Context) (*Pool, error) {
	props, err := m.source()
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeConfig) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot load redis properties")
	}

	cfg, err := config.Build(props)
	if err != nil {
		return nil, err
	}

	opts := append([]Option{WithLogger(m.logger)}, m.poolOpts...)
	return New(ctx, cfg, opts...)
}

// Pool returns the managed pool. Before Initialize completes it fails with
// errors.ErrorTypeNotInitialized; after a failed Initialize it returns that
// failure.
func (m *Manager) Pool() (*Pool, error) {
	select {
	case <-m.ready:
		if m.err != nil {
			return nil, m.err
		}
		return m.pool, nil
	default:
		return nil, errors.New(errors.ErrorTypeNotInitialized, "pool not initialized")
	}
}

// Close closes the managed pool if one was built.
func (m *Manager) Close() error {
	p, err := m.Pool()
	if err != nil {
		return nil
	}
	return p.Close()
}
