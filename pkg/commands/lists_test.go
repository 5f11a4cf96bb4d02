package commands_test

import (
	"github.com/ajitpratap0/redisutil/pkg/commands"
)

type listsSuite struct {
	commandSuite
}

func (s *listsSuite) TestPushPop() {
	ctx := s.Context()
	l := s.client.Lists

	n, err := l.RPush(ctx, "q", "b", "c")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = l.LPush(ctx, "q", "a")
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	n, err = l.LLen(ctx, "q")
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	head, err := l.LPop(ctx, "q")
	s.Require().NoError(err)
	s.Equal("a", head)

	tail, err := l.RPop(ctx, "q")
	s.Require().NoError(err)
	s.Equal("c", tail)

	_, err = l.LPop(ctx, "empty")
	s.ErrorIs(err, commands.ErrNil)
	_, err = l.RPop(ctx, "empty")
	s.ErrorIs(err, commands.ErrNil)
}

func (s *listsSuite) TestBytes() {
	ctx := s.Context()
	l := s.client.Lists

	_, err := l.RPushBytes(ctx, "bin", []byte{1}, []byte{2, 2})
	s.Require().NoError(err)
	_, err = l.LPushBytes(ctx, "bin", []byte{0})
	s.Require().NoError(err)

	all, err := l.LRangeBytes(ctx, "bin", 0, -1)
	s.Require().NoError(err)
	s.Equal([][]byte{{0}, {1}, {2, 2}}, all)

	b, err := l.LIndexBytes(ctx, "bin", 2)
	s.Require().NoError(err)
	s.Equal([]byte{2, 2}, b)

	b, err = l.LPopBytes(ctx, "bin")
	s.Require().NoError(err)
	s.Equal([]byte{0}, b)
}

func (s *listsSuite) TestIndexAndSet() {
	ctx := s.Context()
	l := s.client.Lists
	_, err := l.RPush(ctx, "q", "a", "b", "c")
	s.Require().NoError(err)

	v, err := l.LIndex(ctx, "q", -1)
	s.Require().NoError(err)
	s.Equal("c", v)

	_, err = l.LIndex(ctx, "q", 10)
	s.ErrorIs(err, commands.ErrNil)

	s.Require().NoError(l.LSet(ctx, "q", 1, "B"))
	all, err := l.LRange(ctx, "q", 0, -1)
	s.Require().NoError(err)
	s.Equal([]string{"a", "B", "c"}, all)

	s.Error(l.LSet(ctx, "q", 10, "x"))
}

func (s *listsSuite) TestInsert() {
	ctx := s.Context()
	l := s.client.Lists
	_, err := l.RPush(ctx, "q", "a", "c")
	s.Require().NoError(err)

	n, err := l.LInsert(ctx, "q", commands.Before, "c", "b")
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	n, err = l.LInsert(ctx, "q", commands.After, "c", "d")
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = l.LInsert(ctx, "q", commands.After, "zzz", "e")
	s.Require().NoError(err)
	s.Equal(int64(-1), n)

	all, err := l.LRange(ctx, "q", 0, -1)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c", "d"}, all)
}

func (s *listsSuite) TestRemAndTrim() {
	ctx := s.Context()
	l := s.client.Lists
	_, err := l.RPush(ctx, "q", "x", "a", "x", "b", "x")
	s.Require().NoError(err)

	n, err := l.LRem(ctx, "q", 2, "x")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	all, err := l.LRange(ctx, "q", 0, -1)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "x"}, all)

	s.Require().NoError(l.LTrim(ctx, "q", 0, 1))
	all, err = l.LRange(ctx, "q", 0, -1)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, all)
}
