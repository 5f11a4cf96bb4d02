package commands_test

import (
	"time"

	"github.com/ajitpratap0/redisutil/pkg/codec"
	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/errors"
)

type stringsSuite struct {
	commandSuite
}

type profile struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Langs []string `json:"langs"`
}

func (s *stringsSuite) TestGetSet() {
	ctx := s.Context()

	_, err := s.client.Strings.Get(ctx, "missing")
	s.ErrorIs(err, commands.ErrNil)

	s.Require().NoError(s.client.Strings.Set(ctx, "greeting", "hello"))
	v, err := s.client.Strings.Get(ctx, "greeting")
	s.Require().NoError(err)
	s.Equal("hello", v)

	s.Require().NoError(s.client.Strings.SetBytes(ctx, "raw", []byte{0, 1, 2}))
	b, err := s.client.Strings.GetBytes(ctx, "raw")
	s.Require().NoError(err)
	s.Equal([]byte{0, 1, 2}, b)

	old, err := s.client.Strings.GetSet(ctx, "greeting", "bye")
	s.Require().NoError(err)
	s.Equal("hello", old)

	_, err = s.client.Strings.GetSet(ctx, "fresh", "v")
	s.ErrorIs(err, commands.ErrNil)
}

func (s *stringsSuite) TestSetExNonPositiveIsNoop() {
	ctx := s.Context()

	s.assertNoCommand(func() {
		s.NoError(s.client.Strings.SetEx(ctx, "k", 0, "v"))
		s.NoError(s.client.Strings.SetEx(ctx, "k", -1, "v"))
		s.NoError(s.client.Strings.SetExBytes(ctx, "k", 0, []byte("v")))
	})
	s.False(s.Server().Exists("k"))
}

func (s *stringsSuite) TestSetEx() {
	ctx := s.Context()

	s.Require().NoError(s.client.Strings.SetEx(ctx, "k", 30, "v"))
	s.Equal(30*time.Second, s.Server().TTL("k"))

	s.Require().NoError(s.client.Strings.SetExBytes(ctx, "b", 5, []byte("v")))
	s.Equal(5*time.Second, s.Server().TTL("b"))
}

func (s *stringsSuite) TestSetNX() {
	ctx := s.Context()

	ok, err := s.client.Strings.SetNX(ctx, "lock", "a")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.client.Strings.SetNX(ctx, "lock", "b")
	s.Require().NoError(err)
	s.False(ok)

	s.Server().CheckGet(s.T(), "lock", "a")
}

func (s *stringsSuite) TestRangesAndAppend() {
	ctx := s.Context()
	s.Require().NoError(s.client.Strings.Set(ctx, "k", "Hello World"))

	n, err := s.client.Strings.SetRange(ctx, "k", 6, "Redis")
	s.Require().NoError(err)
	s.Equal(int64(11), n)

	sub, err := s.client.Strings.GetRange(ctx, "k", 0, 4)
	s.Require().NoError(err)
	s.Equal("Hello", sub)

	sub, err = s.client.Strings.GetRange(ctx, "k", -5, -1)
	s.Require().NoError(err)
	s.Equal("Redis", sub)

	n, err = s.client.Strings.Append(ctx, "k", "!")
	s.Require().NoError(err)
	s.Equal(int64(12), n)

	n, err = s.client.Strings.StrLen(ctx, "k")
	s.Require().NoError(err)
	s.Equal(int64(12), n)

	n, err = s.client.Strings.StrLen(ctx, "missing")
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *stringsSuite) TestCounters() {
	ctx := s.Context()

	n, err := s.client.Strings.IncrBy(ctx, "c", 5)
	s.Require().NoError(err)
	s.Equal(int64(5), n)

	n, err = s.client.Strings.DecrBy(ctx, "c", 7)
	s.Require().NoError(err)
	s.Equal(int64(-2), n)

	s.Require().NoError(s.client.Strings.Set(ctx, "text", "abc"))
	_, err = s.client.Strings.IncrBy(ctx, "text", 1)
	s.Require().Error(err)
	s.True(errors.IsCommand(err))
}

func (s *stringsSuite) TestMGetMSet() {
	ctx := s.Context()

	s.Require().NoError(s.client.Strings.MSet(ctx, "a", "1", "b", "2"))
	values, err := s.client.Strings.MGet(ctx, "a", "missing", "b")
	s.Require().NoError(err)
	s.Equal([]string{"1", "", "2"}, values)

	err = s.client.Strings.MSet(ctx, "a", "1", "b")
	s.True(errors.IsCommand(err))

	s.assertNoCommand(func() {
		s.NoError(s.client.Strings.MSet(ctx))
		values, err := s.client.Strings.MGet(ctx)
		s.NoError(err)
		s.Nil(values)
	})
}

func (s *stringsSuite) TestJSONValues() {
	ctx := s.Context()
	in := profile{Name: "ada", Age: 36, Langs: []string{"go", "ml"}}

	s.Require().NoError(s.client.Strings.SetJSON(ctx, "profile", in))
	raw, err := s.Server().Get("profile")
	s.Require().NoError(err)
	s.JSONEq(`{"name":"ada","age":36,"langs":["go","ml"]}`, raw)

	var out profile
	s.Require().NoError(s.client.Strings.GetJSON(ctx, "profile", &out))
	s.Equal(in, out)

	s.Require().NoError(s.client.Strings.Set(ctx, "broken", "{"))
	err = s.client.Strings.GetJSON(ctx, "broken", &out)
	s.True(errors.IsSerialization(err))

	err = s.client.Strings.GetJSON(ctx, "missing", &out)
	s.ErrorIs(err, commands.ErrNil)

	err = s.client.Strings.SetJSON(ctx, "bad", make(chan int))
	s.True(errors.IsSerialization(err))
}

func (s *stringsSuite) TestBinaryObjects() {
	ctx := s.Context()
	in := profile{Name: "grace", Age: 85}

	s.Require().NoError(s.client.Strings.SetObject(ctx, "obj", in))
	stored, err := s.client.Strings.GetBytes(ctx, "obj")
	s.Require().NoError(err)
	s.Equal(codec.EncodeBinary(in), stored)

	var out profile
	ok, err := s.client.Strings.GetObject(ctx, "obj", &out)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(in, out)

	s.Require().NoError(s.client.Strings.Set(ctx, "text", "not gob"))
	ok, err = s.client.Strings.GetObject(ctx, "text", &out)
	s.NoError(err)
	s.False(ok)

	_, err = s.client.Strings.GetObject(ctx, "missing", &out)
	s.ErrorIs(err, commands.ErrNil)

	err = s.client.Strings.SetObject(ctx, "bad", make(chan int))
	s.True(errors.IsSerialization(err))
	s.False(s.Server().Exists("bad"))
}
