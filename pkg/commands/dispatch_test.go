package commands_test

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/config"
	"github.com/ajitpratap0/redisutil/pkg/errors"
	"github.com/ajitpratap0/redisutil/pkg/metrics"
	"github.com/ajitpratap0/redisutil/pkg/pool"
)

type dispatchSuite struct {
	commandSuite
}

func (s *dispatchSuite) TestWithDB() {
	ctx := s.Context()

	s.Require().NoError(s.client.WithDB(3).Strings.Set(ctx, "k", "three"))
	s.Require().NoError(s.client.Strings.Set(ctx, "k", "zero"))

	v, err := s.Server().DB(3).Get("k")
	s.Require().NoError(err)
	s.Equal("three", v)

	v, err = s.client.Strings.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal("zero", v, "default database untouched")

	n, err := s.client.WithDB(3).Hashes.HSet(ctx, "h", "f", "v")
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.False(s.Server().Exists("h"))
}

func (s *dispatchSuite) TestExhaustedPool() {
	ctx := s.Context()
	p, err := pool.New(ctx, s.Config(
		config.KeyMaxTotal, "1",
		config.KeyMaxWaitMillis, "50",
	))
	s.Require().NoError(err)
	defer p.Close()

	h, err := p.Acquire(ctx)
	s.Require().NoError(err)

	_, err = commands.New(p).Strings.Get(ctx, "k")
	s.Require().Error(err)
	s.True(errors.IsPoolExhausted(err), "got %v", err)

	p.Release(h)
	s.Equal(int64(0), p.Leased())

	_, err = commands.New(p).Strings.Get(ctx, "k")
	s.ErrorIs(err, commands.ErrNil)
}

func (s *dispatchSuite) TestWrongTypeIsCommandError() {
	ctx := s.Context()
	s.Require().NoError(s.client.Strings.Set(ctx, "s", "v"))

	_, err := s.client.Lists.LPush(ctx, "s", "x")
	s.Require().Error(err)
	s.True(errors.IsCommand(err))
	s.Contains(err.Error(), "WRONGTYPE")
	s.Equal(int64(0), s.pool.Leased())

	var e *errors.Error
	s.Require().True(errors.As(err, &e))
	s.Equal("LPUSH", e.Details["command"])
	s.Equal("lists", e.Details["group"])
}

func (s *dispatchSuite) TestMetrics() {
	ctx := s.Context()
	ok := metrics.CommandsTotal.WithLabelValues("strings", "SET", metrics.StatusOK)
	miss := metrics.CommandsTotal.WithLabelValues("strings", "GET", metrics.StatusNil)
	failed := metrics.CommandsTotal.WithLabelValues("lists", "LPUSH", metrics.StatusError)
	okBefore := testutil.ToFloat64(ok)
	missBefore := testutil.ToFloat64(miss)
	failedBefore := testutil.ToFloat64(failed)

	s.Require().NoError(s.client.Strings.Set(ctx, "k", "v"))
	_, err := s.client.Strings.Get(ctx, "missing")
	s.ErrorIs(err, commands.ErrNil)
	_, err = s.client.Lists.LPush(ctx, "k", "x")
	s.Error(err)

	s.Equal(okBefore+1, testutil.ToFloat64(ok))
	s.Equal(missBefore+1, testutil.ToFloat64(miss))
	s.Equal(failedBefore+1, testutil.ToFloat64(failed))
}
