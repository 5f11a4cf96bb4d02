package commands

import (
	"context"

	"github.com/gomodule/redigo/redis"

	"github.com/ajitpratap0/redisutil/pkg/errors"
)

// Member is a sorted set member with its score.
type Member struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// SortedSets groups commands on sorted sets. Score bounds given as strings
// accept the store's syntax: "-inf", "+inf" and "(" for exclusive bounds.
type SortedSets struct {
	g group
}

// WithDB returns a copy of the group bound to logical database db.
func (z SortedSets) WithDB(db int) SortedSets {
	return SortedSets{g: z.g.withDB(db)}
}

// ZAdd adds member with score, or updates its score, and returns how many
// members were new.
func (z SortedSets) ZAdd(ctx context.Context, key string, score float64, member string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZADD", key, score, member)
}

// ZAddMembers adds every member of scores in one command.
func (z SortedSets) ZAddMembers(ctx context.Context, key string, scores map[string]float64) (int64, error) {
	if len(scores) == 0 {
		return 0, nil
	}
	args := make(redis.Args, 0, 1+2*len(scores))
	args = append(args, key)
	for member, score := range scores {
		args = append(args, score, member)
	}
	return do(ctx, z.g, redis.Int64, "ZADD", args...)
}

// ZCard returns the number of members.
func (z SortedSets) ZCard(ctx context.Context, key string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZCARD", key)
}

// ZCount returns how many members score between min and max inclusive.
func (z SortedSets) ZCount(ctx context.Context, key string, min, max float64) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZCOUNT", key, min, max)
}

// ZLength counts the members by reading the whole range.
func (z SortedSets) ZLength(ctx context.Context, key string) (int64, error) {
	members, err := z.ZRange(ctx, key, 0, -1)
	return int64(len(members)), err
}

// ZIncrBy adds incr to the score of member and returns the new score.
func (z SortedSets) ZIncrBy(ctx context.Context, key string, incr float64, member string) (float64, error) {
	return do(ctx, z.g, redis.Float64, "ZINCRBY", key, incr, member)
}

// ZRange returns members by rank, lowest score first.
func (z SortedSets) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return do(ctx, z.g, redis.Strings, "ZRANGE", key, start, stop)
}

// ZRangeByScore returns members scoring between min and max, lowest first.
func (z SortedSets) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	return do(ctx, z.g, redis.Strings, "ZRANGEBYSCORE", key, min, max)
}

// ZRangeByScoreLimit is ZRangeByScore with string bounds and a LIMIT.
func (z SortedSets) ZRangeByScoreLimit(ctx context.Context, key, min, max string, offset, count int64) ([]string, error) {
	return do(ctx, z.g, redis.Strings, "ZRANGEBYSCORE", key, min, max, "LIMIT", offset, count)
}

// ZRevRangeByScore returns members scoring between max and min, highest
// first, with a LIMIT.
func (z SortedSets) ZRevRangeByScore(ctx context.Context, key, max, min string, offset, count int64) ([]string, error) {
	return do(ctx, z.g, redis.Strings, "ZREVRANGEBYSCORE", key, max, min, "LIMIT", offset, count)
}

func membersReply(reply interface{}, err error) ([]Member, error) {
	values, err := redis.Values(reply, err)
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		return nil, errors.Newf(errors.ErrorTypeCommand, "unexpected WITHSCORES reply with %d elements", len(values))
	}
	members := make([]Member, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		member, err := redis.String(values[i], nil)
		if err != nil {
			return nil, err
		}
		score, err := redis.Float64(values[i+1], nil)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Member: member, Score: score})
	}
	return members, nil
}

// ZRevRangeByScoreWithScores is ZRevRangeByScore returning scores too.
func (z SortedSets) ZRevRangeByScoreWithScores(ctx context.Context, key, max, min string, offset, count int64) ([]Member, error) {
	return do(ctx, z.g, membersReply, "ZREVRANGEBYSCORE", key, max, min, "WITHSCORES", "LIMIT", offset, count)
}

// ZRank returns the rank of member, lowest score first, or ErrNil when it
// is not a member.
func (z SortedSets) ZRank(ctx context.Context, key, member string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZRANK", key, member)
}

// ZRevRank returns the rank of member, highest score first, or ErrNil when
// it is not a member.
func (z SortedSets) ZRevRank(ctx context.Context, key, member string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZREVRANK", key, member)
}

// ZRem removes members and returns how many were present.
func (z SortedSets) ZRem(ctx context.Context, key string, members ...string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZREM", redis.Args{}.Add(key).AddFlat(members)...)
}

// ZRemRangeByRank removes members ranked between start and stop.
func (z SortedSets) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZREMRANGEBYRANK", key, start, stop)
}

// ZRemRangeByScore removes members scoring between min and max inclusive.
func (z SortedSets) ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	return do(ctx, z.g, redis.Int64, "ZREMRANGEBYSCORE", key, min, max)
}

// ZRevRange returns members by rank, highest score first.
func (z SortedSets) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return do(ctx, z.g, redis.Strings, "ZREVRANGE", key, start, stop)
}

// ZScore returns the score of member. A missing member or key scores 0.
func (z SortedSets) ZScore(ctx context.Context, key, member string) (float64, error) {
	score, err := do(ctx, z.g, redis.Float64, "ZSCORE", key, member)
	if err == ErrNil {
		return 0, nil
	}
	return score, err
}

// Clear deletes the whole sorted set.
func (z SortedSets) Clear(ctx context.Context, key string) (int64, error) {
	return do(ctx, z.g, redis.Int64, "DEL", key)
}
