package commands_test

import (
	"github.com/ajitpratap0/redisutil/pkg/commands"
)

type sortedSetsSuite struct {
	commandSuite
}

func (s *sortedSetsSuite) seed() {
	n, err := s.client.SortedSets.ZAddMembers(s.Context(), "board", map[string]float64{
		"ann":  10,
		"bob":  20,
		"cid":  30,
		"dave": 40,
	})
	s.Require().NoError(err)
	s.Require().Equal(int64(4), n)
}

func (s *sortedSetsSuite) TestZScoreMissingIsZero() {
	ctx := s.Context()
	s.seed()

	score, err := s.client.SortedSets.ZScore(ctx, "board", "nobody")
	s.Require().NoError(err)
	s.Equal(0.0, score)

	score, err = s.client.SortedSets.ZScore(ctx, "no-such-key", "ann")
	s.Require().NoError(err)
	s.Equal(0.0, score)

	score, err = s.client.SortedSets.ZScore(ctx, "board", "bob")
	s.Require().NoError(err)
	s.Equal(20.0, score)
}

func (s *sortedSetsSuite) TestAddAndCount() {
	ctx := s.Context()
	z := s.client.SortedSets

	n, err := z.ZAdd(ctx, "solo", 1.5, "ann")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = z.ZAdd(ctx, "solo", 2.5, "ann")
	s.Require().NoError(err)
	s.Equal(int64(0), n, "score update is not a new member")

	s.assertNoCommand(func() {
		n, err := z.ZAddMembers(ctx, "board", nil)
		s.NoError(err)
		s.Equal(int64(0), n)
	})

	s.seed()

	n, err = z.ZCard(ctx, "board")
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = z.ZLength(ctx, "board")
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = z.ZCount(ctx, "board", 15, 35)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	score, err := z.ZIncrBy(ctx, "board", 5, "ann")
	s.Require().NoError(err)
	s.Equal(15.0, score)
}

func (s *sortedSetsSuite) TestRanges() {
	ctx := s.Context()
	z := s.client.SortedSets
	s.seed()

	members, err := z.ZRange(ctx, "board", 0, 1)
	s.Require().NoError(err)
	s.Equal([]string{"ann", "bob"}, members)

	members, err = z.ZRevRange(ctx, "board", 0, 1)
	s.Require().NoError(err)
	s.Equal([]string{"dave", "cid"}, members)

	members, err = z.ZRangeByScore(ctx, "board", 15, 40)
	s.Require().NoError(err)
	s.Equal([]string{"bob", "cid", "dave"}, members)

	members, err = z.ZRangeByScoreLimit(ctx, "board", "(10", "+inf", 1, 2)
	s.Require().NoError(err)
	s.Equal([]string{"cid", "dave"}, members)

	members, err = z.ZRevRangeByScore(ctx, "board", "+inf", "-inf", 0, 2)
	s.Require().NoError(err)
	s.Equal([]string{"dave", "cid"}, members)

	scored, err := z.ZRevRangeByScoreWithScores(ctx, "board", "35", "0", 0, 10)
	s.Require().NoError(err)
	s.Equal([]commands.Member{
		{Member: "cid", Score: 30},
		{Member: "bob", Score: 20},
		{Member: "ann", Score: 10},
	}, scored)
}

func (s *sortedSetsSuite) TestRanks() {
	ctx := s.Context()
	z := s.client.SortedSets
	s.seed()

	rank, err := z.ZRank(ctx, "board", "cid")
	s.Require().NoError(err)
	s.Equal(int64(2), rank)

	rank, err = z.ZRevRank(ctx, "board", "cid")
	s.Require().NoError(err)
	s.Equal(int64(1), rank)

	_, err = z.ZRank(ctx, "board", "nobody")
	s.ErrorIs(err, commands.ErrNil)
}

func (s *sortedSetsSuite) TestRemove() {
	ctx := s.Context()
	z := s.client.SortedSets
	s.seed()

	n, err := z.ZRem(ctx, "board", "ann", "nobody")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = z.ZRemRangeByScore(ctx, "board", 35, 100)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = z.ZRemRangeByRank(ctx, "board", 0, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	members, err := z.ZRange(ctx, "board", 0, -1)
	s.Require().NoError(err)
	s.Equal([]string{"cid"}, members)

	n, err = z.Clear(ctx, "board")
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.False(s.Server().Exists("board"))
}
