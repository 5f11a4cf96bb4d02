package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/errors"
	"github.com/ajitpratap0/redisutil/pkg/logger"
	"github.com/ajitpratap0/redisutil/pkg/metrics"
	"github.com/ajitpratap0/redisutil/pkg/observability"
	"github.com/ajitpratap0/redisutil/pkg/pool"
)

// ErrNil is returned when the store has no value for the request.
var ErrNil = redis.ErrNil

// Client bundles one instance of every command group over the same pool.
type Client struct {
	Keys       Keys
	Strings    Strings
	Lists      Lists
	Sets       Sets
	SortedSets SortedSets
	Hashes     Hashes
}

// New returns the command groups for p.
func New(p *pool.Pool) *Client {
	return &Client{
		Keys:       Keys{g: group{name: "keys", pool: p}},
		Strings:    Strings{g: group{name: "strings", pool: p}},
		Lists:      Lists{g: group{name: "lists", pool: p}},
		Sets:       Sets{g: group{name: "sets", pool: p}},
		SortedSets: SortedSets{g: group{name: "sortedsets", pool: p}},
		Hashes:     Hashes{g: group{name: "hashes", pool: p}},
	}
}

// WithDB returns a client whose groups all run on logical database db.
func (c *Client) WithDB(db int) *Client {
	return &Client{
		Keys:       c.Keys.WithDB(db),
		Strings:    c.Strings.WithDB(db),
		Lists:      c.Lists.WithDB(db),
		Sets:       c.Sets.WithDB(db),
		SortedSets: c.SortedSets.WithDB(db),
		Hashes:     c.Hashes.WithDB(db),
	}
}

type group struct {
	name string
	pool *pool.Pool
	db   *int
}

func (g group) withDB(db int) group {
	g.db = &db
	return g
}

// exec leases a handle, sends one command and releases the handle before
// returning.
func (g group) exec(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	var reply interface{}
	err := g.pool.With(ctx, g.db, func(h *pool.Handle) error {
		var err error
		reply, err = h.Do(ctx, cmd, args...)
		return err
	})
	if err == nil {
		return reply, nil
	}
	if _, ok := err.(*errors.Error); ok {
		return nil, err
	}
	return nil, errors.Wrap(err, errors.ErrorTypeCommand, "redis command failed").
		WithDetail("command", cmd).
		WithDetail("group", g.name)
}

// do is the dispatch template shared by every operation: exec, then convert
// the reply. Conversion failures other than ErrNil are command errors.
func do[T any](ctx context.Context, g group, convert func(interface{}, error) (T, error), cmd string, args ...interface{}) (T, error) {
	timer := metrics.NewTimer(cmd)
	ctx = context.WithValue(ctx, logger.GroupKey, g.name)
	if g.db != nil {
		ctx = context.WithValue(ctx, logger.DatabaseKey, *g.db)
	}
	ctx, span := observability.StartSpan(ctx, cmd)
	span.SetAttribute("db.system", "redis")
	span.SetAttribute("db.operation", cmd)
	span.SetAttribute("redisutil.group", g.name)
	if g.db != nil {
		span.SetAttribute("db.redis.database_index", *g.db)
	}

	out, err := convert(g.exec(ctx, cmd, args...))
	if err != nil && err != ErrNil {
		if _, ok := err.(*errors.Error); !ok {
			err = errors.Wrap(err, errors.ErrorTypeCommand, "unexpected reply").
				WithDetail("command", cmd).
				WithDetail("group", g.name)
		}
	}

	status := metrics.StatusOK
	switch {
	case err == ErrNil:
		status = metrics.StatusNil
	case err != nil:
		status = metrics.StatusError
		span.RecordError(err)
		logger.WithContext(ctx).Debug("redis command failed",
			zap.String("command", cmd),
			zap.Error(err))
	}
	span.End()
	metrics.ObserveCommand(g.name, cmd, status, timer.Stop())

	return out, err
}

func okReply(reply interface{}, err error) (struct{}, error) {
	_, err = redis.String(reply, err)
	return struct{}{}, err
}

func strs(keys []string) []interface{} {
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
