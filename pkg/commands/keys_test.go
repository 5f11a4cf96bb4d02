package commands_test

import (
	"sort"
	"time"

	"github.com/ajitpratap0/redisutil/pkg/commands"
)

type keysSuite struct {
	commandSuite
}

func (s *keysSuite) TestExpireNonPositiveIsNoop() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("session", "v"))
	s.Server().SetTTL("session", 100*time.Second)

	s.assertNoCommand(func() {
		ok, err := s.client.Keys.Expire(ctx, "session", 0)
		s.NoError(err)
		s.False(ok)

		ok, err = s.client.Keys.Expire(ctx, "session", -5)
		s.NoError(err)
		s.False(ok)
	})

	s.Equal(100*time.Second, s.Server().TTL("session"))
}

func (s *keysSuite) TestExpireAndTTL() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("k", "v"))

	ok, err := s.client.Keys.Expire(ctx, "k", 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(10*time.Second, s.Server().TTL("k"))

	ttl, err := s.client.Keys.TTL(ctx, "k")
	s.Require().NoError(err)
	s.Equal(int64(10), ttl)

	ok, err = s.client.Keys.Persist(ctx, "k")
	s.Require().NoError(err)
	s.True(ok)

	ttl, err = s.client.Keys.TTL(ctx, "k")
	s.Require().NoError(err)
	s.Equal(int64(-1), ttl)

	ttl, err = s.client.Keys.TTL(ctx, "missing")
	s.Require().NoError(err)
	s.Equal(int64(-2), ttl)

	ok, err = s.client.Keys.Expire(ctx, "missing", 10)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *keysSuite) TestExpireAt() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("k", "v"))
	s.Server().SetTime(time.Unix(1_700_000_000, 0))

	ok, err := s.client.Keys.ExpireAt(ctx, "k", 1_700_000_060)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(time.Minute, s.Server().TTL("k"))
}

func (s *keysSuite) TestDel() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("a", "1"))
	s.Require().NoError(s.Server().Set("b", "2"))

	s.assertNoCommand(func() {
		n, err := s.client.Keys.Del(ctx)
		s.NoError(err)
		s.Equal(int64(0), n)
	})

	n, err := s.client.Keys.Del(ctx, "a", "b", "missing")
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	s.False(s.Server().Exists("a"))
}

func (s *keysSuite) TestRename() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("old", "v"))
	s.Require().NoError(s.Server().Set("taken", "x"))

	s.Require().NoError(s.client.Keys.Rename(ctx, "old", "new"))
	s.True(s.Server().Exists("new"))

	ok, err := s.client.Keys.RenameNX(ctx, "new", "taken")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.client.Keys.RenameNX(ctx, "new", "fresh")
	s.Require().NoError(err)
	s.True(ok)

	err = s.client.Keys.Rename(ctx, "missing", "other")
	s.Error(err)
}

func (s *keysSuite) TestExistsTypeKeys() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("user:1", "a"))
	s.Require().NoError(s.Server().Set("user:2", "b"))
	_, err := s.Server().SAdd("tags", "x")
	s.Require().NoError(err)

	ok, err := s.client.Keys.Exists(ctx, "user:1")
	s.Require().NoError(err)
	s.True(ok)

	typ, err := s.client.Keys.Type(ctx, "tags")
	s.Require().NoError(err)
	s.Equal("set", typ)

	typ, err = s.client.Keys.Type(ctx, "missing")
	s.Require().NoError(err)
	s.Equal("none", typ)

	keys, err := s.client.Keys.Keys(ctx, "user:*")
	s.Require().NoError(err)
	sort.Strings(keys)
	s.Equal([]string{"user:1", "user:2"}, keys)
}

func (s *keysSuite) TestScan() {
	ctx := s.Context()
	for _, k := range []string{"a:1", "a:2", "a:3", "b:1"} {
		s.Require().NoError(s.Server().Set(k, "v"))
	}

	var (
		cursor uint64
		seen   []string
	)
	for {
		page, err := s.client.Keys.Scan(ctx, cursor, &commands.ScanOptions{Match: "a:*", Count: 2})
		s.Require().NoError(err)
		seen = append(seen, page.Keys...)
		cursor = page.Cursor
		if cursor == 0 {
			break
		}
	}
	s.ElementsMatch([]string{"a:1", "a:2", "a:3"}, seen)
}

func (s *keysSuite) TestFlushAll() {
	ctx := s.Context()
	s.Require().NoError(s.Server().Set("a", "1"))
	s.Require().NoError(s.Server().DB(4).Set("b", "2"))

	s.Require().NoError(s.client.Keys.FlushAll(ctx))
	s.Empty(s.Server().Keys())
	s.Empty(s.Server().DB(4).Keys())
}

func (s *keysSuite) TestWithDB() {
	ctx := s.Context()
	s.Require().NoError(s.Server().DB(5).Set("only-in-five", "v"))

	ok, err := s.client.Keys.Exists(ctx, "only-in-five")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.client.Keys.WithDB(5).Exists(ctx, "only-in-five")
	s.Require().NoError(err)
	s.True(ok)
}
