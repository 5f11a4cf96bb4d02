package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/redisutil/pkg/config"
)

// Password is the password every test server requires.
const Password = "secret"

// NewRedis starts an in-process Redis server that requires Password.
// The server is stopped when the test completes.
func NewRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	s := miniredis.RunT(t)
	s.RequireAuth(Password)
	return s
}

// Properties returns the required keys pointing at s plus any key/value
// overrides given as pairs.
func Properties(s *miniredis.Miniredis, overrides ...string) config.Properties {
	m := map[string]string{
		config.KeyHost:     s.Host(),
		config.KeyPort:     s.Port(),
		config.KeyPassword: Password,

		// Keep test pools small and quiet unless a test asks otherwise.
		config.KeyMaxTotal:               "8",
		config.KeyMaxIdle:                "8",
		config.KeyMinIdle:                "0",
		config.KeyMaxWaitMillis:          "200",
		config.KeyEvictionIntervalMillis: "-1",
		config.KeyMinEvictableIdleMillis: "-1",
		config.KeyTimeoutMillis:          "1000",
	}
	for i := 0; i+1 < len(overrides); i += 2 {
		m[overrides[i]] = overrides[i+1]
	}
	return config.FromMap(m)
}

// Config builds a validated configuration for s.
func Config(t *testing.T, s *miniredis.Miniredis, overrides ...string) *config.Config {
	t.Helper()

	cfg, err := config.Build(Properties(s, overrides...))
	require.NoError(t, err)
	return cfg
}

// RedisSuite provides a fresh in-process server for every test.
type RedisSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	server    *miniredis.Miniredis
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *RedisSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.startTime = time.Now()
}

// TearDownSuite runs after all tests in the suite
func (s *RedisSuite) TearDownSuite() {
	s.cancel()
	s.T().Logf("suite completed in %v", time.Since(s.startTime))
}

// SetupTest starts the server for the next test.
func (s *RedisSuite) SetupTest() {
	s.server = NewRedis(s.T())
}

// Context returns the suite context
func (s *RedisSuite) Context() context.Context {
	return s.ctx
}

// Server returns the server of the running test.
func (s *RedisSuite) Server() *miniredis.Miniredis {
	return s.server
}

// Config returns a configuration for the running test's server.
func (s *RedisSuite) Config(overrides ...string) *config.Config {
	return Config(s.T(), s.server, overrides...)
}
