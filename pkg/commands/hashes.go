package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"
)

// Hashes groups commands on hash values.
type Hashes struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (h Hashes) WithDB(db int) Hashes {
	return Hashes{g: h.g.withDB(db)}
}

// HDel removes fields and returns how many existed.
func (h Hashes) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return do(ctx, h.g, redis.Int64, "HDEL", redis.Args{}.Add(key).AddFlat(fields)...)
}

// HExists reports whether field is set.
func (h Hashes) HExists(ctx context.Context, key, field string) (bool, error) {
	return do(ctx, h.g, redis.Bool, "HEXISTS", key, field)
}

// HGet returns the value of field, or ErrNil when it is not set.
func (h Hashes) HGet(ctx context.Context, key, field string) (string, error) {
	return do(ctx, h.g, redis.String, "HGET", key, field)
}

// HGetBytes is HGet for binary values.
func (h Hashes) HGetBytes(ctx context.Context, key, field string) ([]byte, error) {
	return do(ctx, h.g, redis.Bytes, "HGET", key, field)
}

// HGetAll returns every field and value. A missing key yields an empty map.
func (h Hashes) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return do(ctx, h.g, redis.StringMap, "HGETALL", key)
}

// HSet sets field and returns 1 when it is new, 0 when it was updated.
func (h Hashes) HSet(ctx context.Context, key, field, value string) (int64, error) {
	return do(ctx, h.g, redis.Int64, "HSET", key, field, value)
}

// HSetBytes is HSet for binary values.
func (h Hashes) HSetBytes(ctx context.Context, key, field string, value []byte) (int64, error) {
	return do(ctx, h.g, redis.Int64, "HSET", key, field, value)
}

// HSetNX sets field only if it is not set and reports whether it did.
func (h Hashes) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	return do(ctx, h.g, redis.Bool, "HSETNX", key, field, value)
}

// HVals returns every value.
func (h Hashes) HVals(ctx context.Context, key string) ([]string, error) {
	return do(ctx, h.g, redis.Strings, "HVALS", key)
}

// HIncrBy increments the integer in field and returns the result.
func (h Hashes) HIncrBy(ctx context.Context, key, field string, n int64) (int64, error) {
	return do(ctx, h.g, redis.Int64, "HINCRBY", key, field, n)
}

// HKeys returns every field name.
func (h Hashes) HKeys(ctx context.Context, key string) ([]string, error) {
	return do(ctx, h.g, redis.Strings, "HKEYS", key)
}

// HLen returns the number of fields.
func (h Hashes) HLen(ctx context.Context, key string) (int64, error) {
	return do(ctx, h.g, redis.Int64, "HLEN", key)
}

// HMGet returns the values of fields in order. Unset fields yield "".
func (h Hashes) HMGet(ctx context.Context, key string, fields ...string) ([]string, error) {
	return do(ctx, h.g, redis.Strings, "HMGET", redis.Args{}.Add(key).AddFlat(fields)...)
}

// HMGetBytes is HMGet for binary values. Unset fields yield nil.
func (h Hashes) HMGetBytes(ctx context.Context, key string, fields ...string) ([][]byte, error) {
	return do(ctx, h.g, redis.ByteSlices, "HMGET", redis.Args{}.Add(key).AddFlat(fields)...)
}

// HMSet sets every field of values. An empty map is a no-op.
func (h Hashes) HMSet(ctx context.Context, key string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	_, err := do(ctx, h.g, okReply, "HMSET", redis.Args{}.Add(key).AddFlat(values)...)
	return err
}

// HMSetBytes is HMSet for binary values.
func (h Hashes) HMSetBytes(ctx context.Context, key string, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	args := make(redis.Args, 0, 1+2*len(values))
	args = append(args, key)
	for field, value := range values {
		args = append(args, field, value)
	}
	_, err := do(ctx, h.g, okReply, "HMSET", args...)
	return err
}

// Clear deletes the whole hash.
func (h Hashes) Clear(ctx context.Context, key string) (int64, error) {
	return do(ctx, h.g, redis.Int64, "DEL", key)
}
