package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"

	"github.com/ajitpratap0/redisutil/pkg/codec"
	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// Strings groups commands on string values.
type Strings struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (s Strings) WithDB(db int) Strings {
	return Strings{g: s.g.withDB(db)}
}

// Get returns the value of key, or ErrNil when it does not exist.
func (s Strings) Get(ctx context.Context, key string) (string, error) {
	return do(ctx, s.g, redis.String, "GET", key)
}

// GetBytes is Get for binary values.
func (s Strings) GetBytes(ctx context.Context, key string) ([]byte, error) {
	return do(ctx, s.g, redis.Bytes, "GET", key)
}

// GetObject reads a value written by SetObject into out. It returns ErrNil
// for a missing key and false when the stored bytes cannot be decoded into
// out; decode failures are logged, not returned.
func (s Strings) GetObject(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.GetBytes(ctx, key)
	if err != nil {
		return false, err
	}
	return codec.DecodeBinary(data, out), nil
}

// GetJSON reads a value written by SetJSON into out.
func (s Strings) GetJSON(ctx context.Context, key string, out interface{}) error {
	data, err := s.GetBytes(ctx, key)
	if err != nil {
		return err
	}
	return codec.DecodeJSON(data, out)
}

// Set stores value at key, replacing any previous value and expiry.
func (s Strings) Set(ctx context.Context, key, value string) error {
	_, err := do(ctx, s.g, okReply, "SET", key, value)
	return err
}

// SetBytes is Set for binary values.
func (s Strings) SetBytes(ctx context.Context, key string, value []byte) error {
	_, err := do(ctx, s.g, okReply, "SET", key, value)
	return err
}

// SetObject stores v with the binary codec.
func (s Strings) SetObject(ctx context.Context, key string, v interface{}) error {
	data := codec.EncodeBinary(v)
	if data == nil {
		return errors.New(errors.ErrorTypeSerialization, "value cannot be binary encoded").
			WithDetail("key", key)
	}
	return s.SetBytes(ctx, key, data)
}

// SetJSON stores v encoded as JSON.
func (s Strings) SetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := codec.EncodeJSON(v)
	if err != nil {
		return err
	}
	return s.SetBytes(ctx, key, data)
}

// SetEx stores value with a time to live. A non-positive seconds value is a
// no-op: nothing is written and no connection is leased.
func (s Strings) SetEx(ctx context.Context, key string, seconds int, value string) error {
	if seconds <= 0 {
		return nil
	}
	_, err := do(ctx, s.g, okReply, "SETEX", key, seconds, value)
	return err
}

// SetExBytes is SetEx for binary values.
func (s Strings) SetExBytes(ctx context.Context, key string, seconds int, value []byte) error {
	if seconds <= 0 {
		return nil
	}
	_, err := do(ctx, s.g, okReply, "SETEX", key, seconds, value)
	return err
}

// SetNX stores value only if key does not exist and reports whether it did.
func (s Strings) SetNX(ctx context.Context, key, value string) (bool, error) {
	return do(ctx, s.g, redis.Bool, "SETNX", key, value)
}

// SetRange overwrites part of the value starting at offset and returns the
// new length.
func (s Strings) SetRange(ctx context.Context, key string, offset int64, value string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SETRANGE", key, offset, value)
}

// Append appends value and returns the new length.
func (s Strings) Append(ctx context.Context, key, value string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "APPEND", key, value)
}

// DecrBy decrements the integer at key and returns the result.
func (s Strings) DecrBy(ctx context.Context, key string, n int64) (int64, error) {
	return do(ctx, s.g, redis.Int64, "DECRBY", key, n)
}

// IncrBy increments the integer at key and returns the result.
func (s Strings) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return do(ctx, s.g, redis.Int64, "INCRBY", key, n)
}

// GetRange returns the substring between start and end, both inclusive.
// Negative offsets count from the end.
func (s Strings) GetRange(ctx context.Context, key string, start, end int64) (string, error) {
	return do(ctx, s.g, redis.String, "GETRANGE", key, start, end)
}

// GetSet stores value and returns the previous value, or ErrNil when there
// was none.
func (s Strings) GetSet(ctx context.Context, key, value string) (string, error) {
	return do(ctx, s.g, redis.String, "GETSET", key, value)
}

// MGet returns the values of keys in order. Missing keys yield "".
func (s Strings) MGet(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return do(ctx, s.g, redis.Strings, "MGET", strs(keys)...)
}

// MSet stores key/value pairs given as alternating arguments.
func (s Strings) MSet(ctx context.Context, keysAndValues ...string) error {
	if len(keysAndValues) == 0 {
		return nil
	}
	if len(keysAndValues)%2 != 0 {
		return errors.Newf(errors.ErrorTypeCommand, "MSET needs key/value pairs, got %d arguments", len(keysAndValues))
	}
	_, err := do(ctx, s.g, okReply, "MSET", strs(keysAndValues)...)
	return err
}

// StrLen returns the length of the value at key, 0 when missing.
func (s Strings) StrLen(ctx context.Context, key string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "STRLEN", key)
}
