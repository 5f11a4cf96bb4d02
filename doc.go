// Package redisutil provides a pooled facade over a single Redis server: a
// bounded connection pool configured from a properties resource, and typed
// command groups that lease a connection, run one command and give the
// connection back on every path.
//
// # Architecture
//
// The module is layered bottom-up:
//
// 1. Configuration: the properties resource is located and read once,
// validated and normalized into a config.Config.
//
// 2. Pool: pool.Pool bounds the number of live connections, waits up to the
// configured time for a free one and keeps an idle floor through a background
// evictor. pool.Manager builds the process-wide pool exactly once, however
// many goroutines race to initialize it.
//
// 3. Commands: commands.Client groups the operations by data type (Keys,
// Strings, Lists, Sets, SortedSets, Hashes). Every operation may target a
// logical database other than the configured one.
//
// 4. Codec: JSON and a legacy binary encoding for storing structured values.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/redisutil/pkg/commands"
//	    "github.com/ajitpratap0/redisutil/pkg/pool"
//	)
//
//	// Reads redis.properties from the working directory
//	m := pool.Default()
//	if err := m.Initialize(ctx); err != nil {
//	    return err
//	}
//	p, _ := m.Pool()
//
//	client := commands.New(p)
//	_ = client.Strings.Set(ctx, "greeting", "hello")
//	v, err := client.WithDB(2).Hashes.HGet(ctx, "user:1", "name")
//
// # Key Packages
//
//	pkg/config        - Properties loading, validation and defaults
//	pkg/pool          - Connection pool, evictor and one-time manager
//	pkg/commands      - Typed command groups over the pool
//	pkg/codec         - JSON and binary value encoding
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus metrics for the pool and commands
//	pkg/observability - Command tracing
//
// # Configuration
//
// The resource is a Java-style properties file. Host, port and password are
// required; everything else has a default:
//
//	redis.pool.host=127.0.0.1
//	redis.pool.port=6379
//	redis.pool.password=secret
//	redis.pool.maxTotal=300
//	redis.pool.maxWaitMillis=10000
//	redis.pool.database=0
//
// Environment variables named after the key (REDIS_POOL_HOST, ...) override
// file values.
//
// # Tools
//
//	cmd/redisutil  - Command line for single commands and pool stats
//	cmd/benchmark  - Workload generator with reports and profiles
package redisutil
