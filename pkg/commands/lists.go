package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"
)

// Position selects where LInsert puts the new element relative to the pivot.
type Position string

// Insert positions.
const (
	Before Position = "BEFORE"
	After  Position = "AFTER"
)

// Lists groups commands on list values.
type Lists struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (l Lists) WithDB(db int) Lists {
	return Lists{g: l.g.withDB(db)}
}

// LLen returns the length of the list, 0 when missing.
func (l Lists) LLen(ctx context.Context, key string) (int64, error) {
	return do(ctx, l.g, redis.Int64, "LLEN", key)
}

// LSet replaces the element at index.
func (l Lists) LSet(ctx context.Context, key string, index int64, value string) error {
	_, err := do(ctx, l.g, okReply, "LSET", key, index, value)
	return err
}

// LInsert inserts value before or after pivot. It returns the new length,
// or -1 when pivot was not found.
func (l Lists) LInsert(ctx context.Context, key string, where Position, pivot, value string) (int64, error) {
	return do(ctx, l.g, redis.Int64, "LINSERT", key, string(where), pivot, value)
}

// LIndex returns the element at index, or ErrNil when out of range.
func (l Lists) LIndex(ctx context.Context, key string, index int64) (string, error) {
	return do(ctx, l.g, redis.String, "LINDEX", key, index)
}

// LIndexBytes is LIndex for binary values.
func (l Lists) LIndexBytes(ctx context.Context, key string, index int64) ([]byte, error) {
	return do(ctx, l.g, redis.Bytes, "LINDEX", key, index)
}

// LPop removes and returns the head, or ErrNil when the list is empty.
func (l Lists) LPop(ctx context.Context, key string) (string, error) {
	return do(ctx, l.g, redis.String, "LPOP", key)
}

// LPopBytes is LPop for binary values.
func (l Lists) LPopBytes(ctx context.Context, key string) ([]byte, error) {
	return do(ctx, l.g, redis.Bytes, "LPOP", key)
}

// RPop removes and returns the tail, or ErrNil when the list is empty.
func (l Lists) RPop(ctx context.Context, key string) (string, error) {
	return do(ctx, l.g, redis.String, "RPOP", key)
}

// LPush prepends values and returns the new length.
func (l Lists) LPush(ctx context.Context, key string, values ...string) (int64, error) {
	return do(ctx, l.g, redis.Int64, "LPUSH", redis.Args{}.Add(key).AddFlat(values)...)
}

// RPush appends values and returns the new length.
func (l Lists) RPush(ctx context.Context, key string, values ...string) (int64, error) {
	return do(ctx, l.g, redis.Int64, "RPUSH", redis.Args{}.Add(key).AddFlat(values)...)
}

// LPushBytes is LPush for binary values.
func (l Lists) LPushBytes(ctx context.Context, key string, values ...[]byte) (int64, error) {
	return do(ctx, l.g, redis.Int64, "LPUSH", bytesArgs(key, values)...)
}

// RPushBytes is RPush for binary values.
func (l Lists) RPushBytes(ctx context.Context, key string, values ...[]byte) (int64, error) {
	return do(ctx, l.g, redis.Int64, "RPUSH", bytesArgs(key, values)...)
}

// LRange returns the elements between start and stop, both inclusive.
func (l Lists) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return do(ctx, l.g, redis.Strings, "LRANGE", key, start, stop)
}

// LRangeBytes is LRange for binary values.
func (l Lists) LRangeBytes(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	return do(ctx, l.g, redis.ByteSlices, "LRANGE", key, start, stop)
}

// LRem removes count occurrences of value: from the head when count > 0,
// from the tail when count < 0 and all of them when count == 0.
func (l Lists) LRem(ctx context.Context, key string, count int64, value string) (int64, error) {
	return do(ctx, l.g, redis.Int64, "LREM", key, count, value)
}

// LTrim keeps only the elements between start and stop.
func (l Lists) LTrim(ctx context.Context, key string, start, stop int64) error {
	_, err := do(ctx, l.g, okReply, "LTRIM", key, start, stop)
	return err
}

// bytesArgs returns key followed by each value as its own argument.
func bytesArgs(key string, values [][]byte) redis.Args {
	args := make(redis.Args, 0, len(values)+1)
	args = append(args, key)
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
