package commands_test

import (
	"github.com/ajitpratap0/redisutil/pkg/commands"
)

type setsSuite struct {
	commandSuite
}

func (s *setsSuite) TestMembership() {
	ctx := s.Context()
	sets := s.client.Sets

	n, err := sets.SAdd(ctx, "tags", "go", "redis", "go")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = sets.SCard(ctx, "tags")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	ok, err := sets.SIsMember(ctx, "tags", "redis")
	s.Require().NoError(err)
	s.True(ok)

	members, err := sets.SMembers(ctx, "tags")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"go", "redis"}, members)

	n, err = sets.SRem(ctx, "tags", "go", "absent")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	popped, err := sets.SPop(ctx, "tags")
	s.Require().NoError(err)
	s.Equal("redis", popped)

	_, err = sets.SPop(ctx, "tags")
	s.ErrorIs(err, commands.ErrNil)
}

func (s *setsSuite) TestBytes() {
	ctx := s.Context()

	_, err := s.client.Sets.SAddBytes(ctx, "bin", []byte{1}, []byte{2})
	s.Require().NoError(err)

	members, err := s.client.Sets.SMembersBytes(ctx, "bin")
	s.Require().NoError(err)
	s.ElementsMatch([][]byte{{1}, {2}}, members)
}

func (s *setsSuite) TestSMoveAbsentMember() {
	ctx := s.Context()
	_, err := s.Server().SAdd("src", "a", "b")
	s.Require().NoError(err)
	_, err = s.Server().SAdd("dst", "c")
	s.Require().NoError(err)

	n, err := s.client.Sets.SMove(ctx, "src", "dst", "zzz")
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	src, err := s.Server().Members("src")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"a", "b"}, src)
	dst, err := s.Server().Members("dst")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"c"}, dst)
}

func (s *setsSuite) TestSMove() {
	ctx := s.Context()
	_, err := s.Server().SAdd("src", "a", "b")
	s.Require().NoError(err)

	n, err := s.client.Sets.SMove(ctx, "src", "dst", "a")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	ok, err := s.Server().IsMember("dst", "a")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.Server().IsMember("src", "a")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *setsSuite) TestAlgebra() {
	ctx := s.Context()
	sets := s.client.Sets
	_, err := s.Server().SAdd("x", "1", "2", "3")
	s.Require().NoError(err)
	_, err = s.Server().SAdd("y", "2", "3", "4")
	s.Require().NoError(err)

	diff, err := sets.SDiff(ctx, "x", "y")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"1"}, diff)

	inter, err := sets.SInter(ctx, "x", "y")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"2", "3"}, inter)

	union, err := sets.SUnion(ctx, "x", "y")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"1", "2", "3", "4"}, union)

	n, err := sets.SDiffStore(ctx, "d", "x", "y")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = sets.SInterStore(ctx, "i", "x", "y")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = sets.SUnionStore(ctx, "u", "x", "y")
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	stored, err := s.Server().Members("i")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"2", "3"}, stored)
}
