package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"

	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// Keys groups commands that act on keys regardless of their type.
type Keys struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (k Keys) WithDB(db int) Keys {
	return Keys{g: k.g.withDB(db)}
}

// FlushAll removes every key of every database.
func (k Keys) FlushAll(ctx context.Context) error {
	_, err := do(ctx, k.g, okReply, "FLUSHALL")
	return err
}

// Rename renames oldKey to newKey, overwriting newKey.
func (k Keys) Rename(ctx context.Context, oldKey, newKey string) error {
	_, err := do(ctx, k.g, okReply, "RENAME", oldKey, newKey)
	return err
}

// RenameNX renames oldKey only if newKey does not exist.
func (k Keys) RenameNX(ctx context.Context, oldKey, newKey string) (bool, error) {
	return do(ctx, k.g, redis.Bool, "RENAMENX", oldKey, newKey)
}

// Expire sets a time to live in seconds. A non-positive seconds value is a
// no-op: no connection is leased and the current expiry is kept.
func (k Keys) Expire(ctx context.Context, key string, seconds int) (bool, error) {
	if seconds <= 0 {
		return false, nil
	}
	return do(ctx, k.g, redis.Bool, "EXPIRE", key, seconds)
}

// ExpireAt expires key at the given unix time in seconds.
func (k Keys) ExpireAt(ctx context.Context, key string, unixSeconds int64) (bool, error) {
	return do(ctx, k.g, redis.Bool, "EXPIREAT", key, unixSeconds)
}

// TTL returns the remaining time to live in seconds, -1 for a key without
// expiry and -2 for a missing key.
func (k Keys) TTL(ctx context.Context, key string) (int64, error) {
	return do(ctx, k.g, redis.Int64, "TTL", key)
}

// Persist removes the expiry of key.
func (k Keys) Persist(ctx context.Context, key string) (bool, error) {
	return do(ctx, k.g, redis.Bool, "PERSIST", key)
}

// Del removes keys and returns how many existed. Calling it without keys
// is a no-op.
func (k Keys) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return do(ctx, k.g, redis.Int64, "DEL", strs(keys)...)
}

// Exists reports whether key exists.
func (k Keys) Exists(ctx context.Context, key string) (bool, error) {
	return do(ctx, k.g, redis.Bool, "EXISTS", key)
}

// SortOptions maps onto the SORT modifiers. The zero value sorts numerically
// in ascending order.
type SortOptions struct {
	By     string   // BY pattern
	Offset int64    // LIMIT offset, used when Count > 0
	Count  int64    // LIMIT count
	Get    []string // GET patterns
	Desc   bool
	Alpha  bool
}

func (o *SortOptions) args(key string) redis.Args {
	args := redis.Args{}.Add(key)
	if o == nil {
		return args
	}
	if o.By != "" {
		args = args.Add("BY", o.By)
	}
	if o.Count > 0 {
		args = args.Add("LIMIT", o.Offset, o.Count)
	}
	for _, pattern := range o.Get {
		args = args.Add("GET", pattern)
	}
	if o.Desc {
		args = args.Add("DESC")
	}
	if o.Alpha {
		args = args.Add("ALPHA")
	}
	return args
}

// Sort returns the sorted elements of a list, set or sorted set.
// A nil opts sorts numerically in ascending order.
func (k Keys) Sort(ctx context.Context, key string, opts *SortOptions) ([]string, error) {
	return do(ctx, k.g, redis.Strings, "SORT", opts.args(key)...)
}

// Type returns the type name stored at key, "none" when missing.
func (k Keys) Type(ctx context.Context, key string) (string, error) {
	return do(ctx, k.g, redis.String, "TYPE", key)
}

// Keys returns every key matching pattern. Prefer Scan on large databases.
func (k Keys) Keys(ctx context.Context, pattern string) ([]string, error) {
	return do(ctx, k.g, redis.Strings, "KEYS", pattern)
}

// ScanOptions narrows a SCAN iteration.
type ScanOptions struct {
	Match string
	Count int64
}

// ScanResult is one page of a SCAN iteration. Cursor is zero once the
// iteration is complete.
type ScanResult struct {
	Cursor uint64
	Keys   []string
}

func scanReply(reply interface{}, err error) (ScanResult, error) {
	values, err := redis.Values(reply, err)
	if err != nil {
		return ScanResult{}, err
	}
	if len(values) != 2 {
		return ScanResult{}, errors.Newf(errors.ErrorTypeCommand, "unexpected SCAN reply with %d elements", len(values))
	}
	cursor, err := redis.Uint64(values[0], nil)
	if err != nil {
		return ScanResult{}, err
	}
	keys, err := redis.Strings(values[1], nil)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Cursor: cursor, Keys: keys}, nil
}

// Scan returns one page of keys starting at cursor. Start with cursor 0 and
// continue with the returned cursor until it is 0 again.
func (k Keys) Scan(ctx context.Context, cursor uint64, opts *ScanOptions) (ScanResult, error) {
	args := redis.Args{}.Add(cursor)
	if opts != nil {
		if opts.Match != "" {
			args = args.Add("MATCH", opts.Match)
		}
		if opts.Count > 0 {
			args = args.Add("COUNT", opts.Count)
		}
	}
	return do(ctx, k.g, scanReply, "SCAN", args...)
}
