// Package loadgen drives a configurable read/write workload through the
// command facade and reports throughput and latency.
//
// Workers share one pool, so the report also shows how the pool behaves
// under contention: exhausted acquisitions are counted separately from
// command failures.
//
// # Basic Usage
//
//	gen := loadgen.New(commands.New(p), &loadgen.Config{
//	    Workers:   16,
//	    Duration:  10 * time.Second,
//	    ReadRatio: 0.8,
//	}, logger)
//	report, err := gen.Run(ctx)
package loadgen

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/errors"
	"github.com/ajitpratap0/redisutil/pkg/logger"
)

// Config controls the shape of the workload.
type Config struct {
	Workers   int           // Concurrent callers
	Duration  time.Duration // Stop after this long (0: no limit)
	Requests  int64         // Stop after this many operations (0: no limit)
	KeySpace  int           // Number of distinct keys
	ValueSize int           // Bytes per written value
	ReadRatio float64       // Share of operations that are GETs, 0..1
	KeyPrefix string
}

// DefaultConfig returns a mixed workload suited to a quick smoke run.
func DefaultConfig() *Config {
	return &Config{
		Workers:   8,
		Duration:  10 * time.Second,
		KeySpace:  1000,
		ValueSize: 128,
		ReadRatio: 0.8,
		KeyPrefix: "loadgen:",
	}
}

// Validate rejects configurations that would never stop or never issue a
// command.
func (c *Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return errors.Newf(errors.ErrorTypeConfig, "workers must be positive, got %d", c.Workers)
	case c.Duration <= 0 && c.Requests <= 0:
		return errors.New(errors.ErrorTypeConfig, "either a duration or a request count is required")
	case c.KeySpace <= 0:
		return errors.Newf(errors.ErrorTypeConfig, "key space must be positive, got %d", c.KeySpace)
	case c.ValueSize < 0:
		return errors.Newf(errors.ErrorTypeConfig, "value size must not be negative, got %d", c.ValueSize)
	case c.ReadRatio < 0 || c.ReadRatio > 1:
		return errors.Newf(errors.ErrorTypeConfig, "read ratio must be within [0, 1], got %g", c.ReadRatio)
	}
	return nil
}

// Report summarizes one run.
type Report struct {
	Ops       int64         `json:"ops"`
	Reads     int64         `json:"reads"`
	Writes    int64         `json:"writes"`
	Misses    int64         `json:"misses"`
	Failed    int64         `json:"failed"`
	Exhausted int64         `json:"exhausted"`
	Elapsed   time.Duration `json:"elapsed"`
	OpsPerSec float64       `json:"ops_per_sec"`
	P50       time.Duration `json:"p50"`
	P99       time.Duration `json:"p99"`
	Max       time.Duration `json:"max"`
}

// Generator runs a workload against one client.
type Generator struct {
	client *commands.Client
	cfg    Config
	logger *zap.Logger
	value  []byte

	issued    atomic.Int64
	reads     atomic.Int64
	writes    atomic.Int64
	misses    atomic.Int64
	failed    atomic.Int64
	exhausted atomic.Int64
}

// New creates a generator. A nil cfg uses DefaultConfig and a nil log the
// global logger.
func New(client *commands.Client, cfg *Config, log *zap.Logger) *Generator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Get()
	}
	value := make([]byte, cfg.ValueSize)
	for i := range value {
		value[i] = 'a' + byte(i%26)
	}
	return &Generator{
		client: client,
		cfg:    *cfg,
		logger: log,
		value:  value,
	}
}

// Run blocks until the duration elapses, the request budget is spent or ctx
// is done. Individual command failures are counted, not returned.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if g.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Duration)
		defer cancel()
	}

	g.logger.Info("starting workload",
		zap.Int("workers", g.cfg.Workers),
		zap.Duration("duration", g.cfg.Duration),
		zap.Int64("requests", g.cfg.Requests),
		zap.Float64("read_ratio", g.cfg.ReadRatio))

	start := time.Now()
	samples := make([][]time.Duration, g.cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < g.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			samples[id] = g.worker(ctx, id)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var all []time.Duration
	for _, s := range samples {
		all = append(all, s...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	r := &Report{
		Ops:       int64(len(all)),
		Reads:     g.reads.Load(),
		Writes:    g.writes.Load(),
		Misses:    g.misses.Load(),
		Failed:    g.failed.Load(),
		Exhausted: g.exhausted.Load(),
		Elapsed:   elapsed,
		P50:       percentile(all, 0.50),
		P99:       percentile(all, 0.99),
	}
	if len(all) > 0 {
		r.Max = all[len(all)-1]
	}
	if elapsed > 0 {
		r.OpsPerSec = float64(r.Ops) / elapsed.Seconds()
	}

	g.logger.Info("workload completed",
		zap.Int64("ops", r.Ops),
		zap.Int64("failed", r.Failed),
		zap.Int64("exhausted", r.Exhausted),
		zap.Float64("ops_per_sec", r.OpsPerSec),
		zap.Duration("p99", r.P99))
	return r, nil
}

func (g *Generator) worker(ctx context.Context, id int) []time.Duration {
	rng := rand.New(rand.NewSource(int64(id) + 1)) //nolint:gosec // key selection only
	var latencies []time.Duration

	for ctx.Err() == nil {
		if g.cfg.Requests > 0 && g.issued.Add(1) > g.cfg.Requests {
			break
		}
		key := fmt.Sprintf("%s%d", g.cfg.KeyPrefix, rng.Intn(g.cfg.KeySpace))
		read := rng.Float64() < g.cfg.ReadRatio

		start := time.Now()
		var err error
		if read {
			_, err = g.client.Strings.GetBytes(ctx, key)
		} else {
			err = g.client.Strings.SetBytes(ctx, key, g.value)
		}
		took := time.Since(start)

		if cutShort(ctx, err) {
			break
		}
		latencies = append(latencies, took)
		if read {
			g.reads.Add(1)
		} else {
			g.writes.Add(1)
		}
		g.record(key, err)
	}
	return latencies
}

// cutShort reports whether err came from the run ending rather than from the
// pool or server. The pool's read deadline can fire a moment before ctx
// reports it, so a passed deadline counts too.
func cutShort(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx.Err() != nil {
		return true
	}
	deadline, ok := ctx.Deadline()
	return ok && !time.Now().Before(deadline)
}

func (g *Generator) record(key string, err error) {
	switch {
	case err == nil:
	case err == commands.ErrNil:
		g.misses.Add(1)
	case errors.IsPoolExhausted(err):
		g.exhausted.Add(1)
	default:
		g.failed.Add(1)
		g.logger.Debug("workload command failed", zap.String("key", key), zap.Error(err))
	}
}

// percentile returns the nearest-rank q-quantile of sorted.
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
