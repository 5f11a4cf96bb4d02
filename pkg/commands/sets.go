package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"
)

// Sets groups commands on unordered sets.
type Sets struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (s Sets) WithDB(db int) Sets {
	return Sets{g: s.g.withDB(db)}
}

// SAdd adds members and returns how many were new.
func (s Sets) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SADD", redis.Args{}.Add(key).AddFlat(members)...)
}

// SAddBytes is SAdd for binary members.
func (s Sets) SAddBytes(ctx context.Context, key string, members ...[]byte) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SADD", bytesArgs(key, members)...)
}

// SCard returns the number of members.
func (s Sets) SCard(ctx context.Context, key string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SCARD", key)
}

// SDiff returns the members of the first set missing from all the others.
func (s Sets) SDiff(ctx context.Context, keys ...string) ([]string, error) {
	return do(ctx, s.g, redis.Strings, "SDIFF", strs(keys)...)
}

// SDiffStore stores SDiff of keys at dst and returns its size.
func (s Sets) SDiffStore(ctx context.Context, dst string, keys ...string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SDIFFSTORE", redis.Args{}.Add(dst).AddFlat(keys)...)
}

// SInter returns the members present in every set.
func (s Sets) SInter(ctx context.Context, keys ...string) ([]string, error) {
	return do(ctx, s.g, redis.Strings, "SINTER", strs(keys)...)
}

// SInterStore stores SInter of keys at dst and returns its size.
func (s Sets) SInterStore(ctx context.Context, dst string, keys ...string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SINTERSTORE", redis.Args{}.Add(dst).AddFlat(keys)...)
}

// SIsMember reports whether member belongs to the set.
func (s Sets) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return do(ctx, s.g, redis.Bool, "SISMEMBER", key, member)
}

// SMembers returns every member.
func (s Sets) SMembers(ctx context.Context, key string) ([]string, error) {
	return do(ctx, s.g, redis.Strings, "SMEMBERS", key)
}

// SMembersBytes is SMembers for binary members.
func (s Sets) SMembersBytes(ctx context.Context, key string) ([][]byte, error) {
	return do(ctx, s.g, redis.ByteSlices, "SMEMBERS", key)
}

// SMove atomically moves member from src to dst. It returns 1 when the
// member was moved and 0, leaving both sets unchanged, when src did not
// contain it.
func (s Sets) SMove(ctx context.Context, src, dst, member string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SMOVE", src, dst, member)
}

// SPop removes and returns a random member, or ErrNil for an empty set.
func (s Sets) SPop(ctx context.Context, key string) (string, error) {
	return do(ctx, s.g, redis.String, "SPOP", key)
}

// SRem removes members and returns how many were present.
func (s Sets) SRem(ctx context.Context, key string, members ...string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SREM", redis.Args{}.Add(key).AddFlat(members)...)
}

// SUnion returns the members of all sets.
func (s Sets) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	return do(ctx, s.g, redis.Strings, "SUNION", strs(keys)...)
}

// SUnionStore stores SUnion of keys at dst and returns its size.
func (s Sets) SUnionStore(ctx context.Context, dst string, keys ...string) (int64, error) {
	return do(ctx, s.g, redis.Int64, "SUNIONSTORE", redis.Args{}.Add(dst).AddFlat(keys)...)
}
