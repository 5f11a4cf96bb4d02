package commands_test

import (
	"github.com/ajitpratap0/redisutil/pkg/commands"
)

type hashesSuite struct {
	commandSuite
}

func (s *hashesSuite) TestFields() {
	ctx := s.Context()
	h := s.client.Hashes

	n, err := h.HSet(ctx, "user:1", "name", "ada")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = h.HSet(ctx, "user:1", "name", "ada l.")
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	v, err := h.HGet(ctx, "user:1", "name")
	s.Require().NoError(err)
	s.Equal("ada l.", v)

	_, err = h.HGet(ctx, "user:1", "missing")
	s.ErrorIs(err, commands.ErrNil)

	ok, err := h.HExists(ctx, "user:1", "name")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = h.HSetNX(ctx, "user:1", "name", "other")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = h.HSetNX(ctx, "user:1", "lang", "go")
	s.Require().NoError(err)
	s.True(ok)

	n, err = h.HIncrBy(ctx, "user:1", "visits", 3)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	n, err = h.HLen(ctx, "user:1")
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	keys, err := h.HKeys(ctx, "user:1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"name", "lang", "visits"}, keys)

	vals, err := h.HVals(ctx, "user:1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"ada l.", "go", "3"}, vals)

	all, err := h.HGetAll(ctx, "user:1")
	s.Require().NoError(err)
	s.Equal(map[string]string{"name": "ada l.", "lang": "go", "visits": "3"}, all)

	all, err = h.HGetAll(ctx, "missing")
	s.Require().NoError(err)
	s.Empty(all)

	n, err = h.HDel(ctx, "user:1", "lang", "nope")
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *hashesSuite) TestMulti() {
	ctx := s.Context()
	h := s.client.Hashes

	s.Require().NoError(h.HMSet(ctx, "cfg", map[string]string{"a": "1", "b": "2"}))
	values, err := h.HMGet(ctx, "cfg", "b", "missing", "a")
	s.Require().NoError(err)
	s.Equal([]string{"2", "", "1"}, values)

	s.Require().NoError(h.HMSetBytes(ctx, "bin", map[string][]byte{"x": {1, 2}}))
	raw, err := h.HMGetBytes(ctx, "bin", "x", "missing")
	s.Require().NoError(err)
	s.Equal([][]byte{{1, 2}, nil}, raw)

	s.assertNoCommand(func() {
		s.NoError(h.HMSet(ctx, "cfg", nil))
		s.NoError(h.HMSetBytes(ctx, "bin", map[string][]byte{}))
	})
}

func (s *hashesSuite) TestBytesAndClear() {
	ctx := s.Context()
	h := s.client.Hashes

	_, err := h.HSetBytes(ctx, "bin", "f", []byte{9, 9})
	s.Require().NoError(err)

	b, err := h.HGetBytes(ctx, "bin", "f")
	s.Require().NoError(err)
	s.Equal([]byte{9, 9}, b)

	n, err := h.Clear(ctx, "bin")
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.False(s.Server().Exists("bin"))
}
