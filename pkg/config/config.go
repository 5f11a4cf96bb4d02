// Package config loads and validates the connection and pool settings for
// redisutil.
//
// Settings come from a Java-style properties resource (redis.properties by
// default). Only host, port and password are required; every other key falls
// back to a documented default. A key that is present but malformed is a
// configuration error, never silently defaulted.
//
// Example usage:
//
//	props, err := config.Load(config.DefaultResourceName)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.Build(props)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Addr(), cfg.Pool.MaxTotal)
package config

import (
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// Property keys. Lookups are case-insensitive.
const (
	KeyHost                   = "redis.pool.host"
	KeyPort                   = "redis.pool.port"
	KeyPassword               = "redis.pool.password"
	KeyMaxTotal               = "redis.pool.maxTotal"
	KeyMaxIdle                = "redis.pool.maxIdle"
	KeyMinIdle                = "redis.pool.minIdle"
	KeyMaxWaitMillis          = "redis.pool.maxWaitMillis"
	KeyMinEvictableIdleMillis = "redis.pool.minEvictableIdleTimeMillis"
	KeyNumTestsPerEvictionRun = "redis.pool.numTestsPerEvictionRun"
	KeyEvictionIntervalMillis = "redis.pool.timeBetweenEvictionRunsMillis"
	KeyTestOnBorrow           = "redis.pool.testOnBorrow"
	KeyTestOnReturn           = "redis.pool.testOnReturn"
	KeyTimeoutMillis          = "redis.pool.timeout"
	KeyDatabase               = "redis.pool.database"
)

// Defaults applied when an optional key is absent.
const (
	DefaultMaxTotal               = 300
	DefaultMaxIdle                = 200
	DefaultMinIdle                = 200
	DefaultMaxWait                = 10 * time.Second
	DefaultMinEvictableIdleTime   = time.Minute
	DefaultNumTestsPerEvictionRun = -1
	DefaultEvictionInterval       = 30 * time.Second
	DefaultTimeout                = 2 * time.Second
	DefaultDatabase               = 0
)

// Keys lists every key of the schema, required ones first.
var Keys = []string{
	KeyHost, KeyPort, KeyPassword,
	KeyMaxTotal, KeyMaxIdle, KeyMinIdle, KeyMaxWaitMillis,
	KeyMinEvictableIdleMillis, KeyNumTestsPerEvictionRun, KeyEvictionIntervalMillis,
	KeyTestOnBorrow, KeyTestOnReturn, KeyTimeoutMillis, KeyDatabase,
}

// Config is the validated, typed form of the properties.
type Config struct {
	// Host of the Redis server
	Host string `json:"host" yaml:"host"`
	// Port of the Redis server
	Port int `json:"port" yaml:"port"`
	// Password sent with AUTH on every new connection
	Password string `json:"-" yaml:"-"`
	// Timeout bounds connect, read and write on each connection
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Database selected on every new connection
	Database int `json:"database" yaml:"database"`

	Pool PoolConfig `json:"pool" yaml:"pool"`
}

// PoolConfig holds the pool tuning parameters.
type PoolConfig struct {
	// MaxTotal caps leased plus idle connections. Zero means unbounded.
	MaxTotal int `json:"max_total" yaml:"max_total"`
	// MaxIdle caps the idle list
	MaxIdle int `json:"max_idle" yaml:"max_idle"`
	// MinIdle is the idle floor the evictor refills to
	MinIdle int `json:"min_idle" yaml:"min_idle"`
	// MaxWait bounds how long Acquire blocks on an exhausted pool.
	// Negative waits until the caller's context is done; zero fails at once.
	MaxWait time.Duration `json:"max_wait" yaml:"max_wait"`
	// MinEvictableIdleTime closes connections idle for longer. Zero disables.
	MinEvictableIdleTime time.Duration `json:"min_evictable_idle_time" yaml:"min_evictable_idle_time"`
	// NumTestsPerEvictionRun is how many idle connections one evictor run checks.
	// A negative value -n checks ceil(idle/n).
	NumTestsPerEvictionRun int `json:"num_tests_per_eviction_run" yaml:"num_tests_per_eviction_run"`
	// TimeBetweenEvictionRuns is the evictor period. Zero or negative disables it.
	TimeBetweenEvictionRuns time.Duration `json:"time_between_eviction_runs" yaml:"time_between_eviction_runs"`
	// TestOnBorrow pings an idle connection before it is handed out
	TestOnBorrow bool `json:"test_on_borrow" yaml:"test_on_borrow"`
	// TestOnReturn pings a connection before it goes back to the idle list
	TestOnReturn bool `json:"test_on_return" yaml:"test_on_return"`
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Properties is an immutable string to string mapping read once at startup.
// Keys are stored lower-cased.
type Properties map[string]string

// FromMap copies m into a Properties value.
func FromMap(m map[string]string) Properties {
	p := make(Properties, len(m))
	for k, v := range m {
		p[strings.ToLower(k)] = v
	}
	return p
}

// Lookup returns the trimmed value for key. Empty values count as absent.
func (p Properties) Lookup(key string) (string, bool) {
	v, ok := p[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Build validates props and resolves defaults.
func Build(props Properties) (*Config, error) {
	if props == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "redis properties not found")
	}

	host, ok := props.Lookup(KeyHost)
	if !ok {
		return nil, missing(KeyHost)
	}
	rawPort, ok := props.Lookup(KeyPort)
	if !ok {
		return nil, missing(KeyPort)
	}
	password, ok := props.Lookup(KeyPassword)
	if !ok {
		return nil, missing(KeyPassword)
	}

	port, err := parseInt(rawPort)
	if err != nil {
		return nil, malformed(KeyPort, rawPort, err)
	}
	if port <= 0 || port > 65535 {
		return nil, errors.New(errors.ErrorTypeConfig, "port out of range").
			WithDetail("key", KeyPort).
			WithDetail("value", rawPort)
	}

	cfg := &Config{Host: host, Port: port, Password: password}
	r := reader{props: props}

	cfg.Timeout = r.millisValue(KeyTimeoutMillis, DefaultTimeout)
	cfg.Database = r.intValue(KeyDatabase, DefaultDatabase)
	cfg.Pool = PoolConfig{
		MaxTotal:                r.intValue(KeyMaxTotal, DefaultMaxTotal),
		MaxIdle:                 r.intValue(KeyMaxIdle, DefaultMaxIdle),
		MinIdle:                 r.intValue(KeyMinIdle, DefaultMinIdle),
		MaxWait:                 r.millisValue(KeyMaxWaitMillis, DefaultMaxWait),
		MinEvictableIdleTime:    r.millisValue(KeyMinEvictableIdleMillis, DefaultMinEvictableIdleTime),
		NumTestsPerEvictionRun:  r.intValue(KeyNumTestsPerEvictionRun, DefaultNumTestsPerEvictionRun),
		TimeBetweenEvictionRuns: r.millisValue(KeyEvictionIntervalMillis, DefaultEvictionInterval),
		TestOnBorrow:            r.boolValue(KeyTestOnBorrow, false),
		TestOnReturn:            r.boolValue(KeyTestOnReturn, false),
	}
	if r.err != nil {
		return nil, r.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Validate checks ranges that Build cannot express through defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		return missing(KeyHost)
	}
	if c.Password == "" {
		return missing(KeyPassword)
	}
	if c.Database < 0 {
		return errors.New(errors.ErrorTypeConfig, "database index cannot be negative").
			WithDetail("key", KeyDatabase)
	}
	if c.Timeout < 0 {
		return errors.New(errors.ErrorTypeConfig, "timeout cannot be negative").
			WithDetail("key", KeyTimeoutMillis)
	}
	if c.Pool.NumTestsPerEvictionRun == 0 {
		return errors.New(errors.ErrorTypeConfig, "numTestsPerEvictionRun cannot be zero").
			WithDetail("key", KeyNumTestsPerEvictionRun)
	}
	return nil
}

// normalize maps the negative "unbounded" conventions onto the values the
// pool understands.
func (c *Config) normalize() {
	if c.Pool.MaxTotal < 0 {
		c.Pool.MaxTotal = 0
	}
	if c.Pool.MaxIdle < 0 {
		c.Pool.MaxIdle = c.Pool.MaxTotal
		if c.Pool.MaxIdle == 0 {
			c.Pool.MaxIdle = math.MaxInt32
		}
	}
	if c.Pool.MinIdle < 0 {
		c.Pool.MinIdle = 0
	}
	if c.Pool.MinIdle > c.Pool.MaxIdle {
		c.Pool.MinIdle = c.Pool.MaxIdle
	}
	if c.Pool.MinEvictableIdleTime < 0 {
		c.Pool.MinEvictableIdleTime = 0
	}
}

// reader accumulates the first conversion error so Build can read every
// optional key in one pass.
type reader struct {
	props Properties
	err   error
}

func (r *reader) intValue(key string, def int) int {
	raw, ok := r.props.Lookup(key)
	if !ok || r.err != nil {
		return def
	}
	v, err := parseInt(raw)
	if err != nil {
		r.err = malformed(key, raw, err)
		return def
	}
	return v
}

func (r *reader) millisValue(key string, def time.Duration) time.Duration {
	raw, ok := r.props.Lookup(key)
	if !ok || r.err != nil {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.err = malformed(key, raw, err)
		return def
	}
	return time.Duration(v) * time.Millisecond
}

func (r *reader) boolValue(key string, def bool) bool {
	raw, ok := r.props.Lookup(key)
	if !ok || r.err != nil {
		return def
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		r.err = malformed(key, raw, err)
		return def
	}
	return v
}

func missing(key string) error {
	return errors.Newf(errors.ErrorTypeConfig, "%s is required", key).WithDetail("key", key)
}

// parseInt reads a base-10 int32. Leading zeros are decimal, not octal, and
// hex or exponent forms are rejected.
func parseInt(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	return int(v), err
}

func malformed(key, raw string, cause error) error {
	return errors.Wrap(cause, errors.ErrorTypeConfig, "malformed value for "+key).
		WithDetail("key", key).
		WithDetail("value", raw)
}
