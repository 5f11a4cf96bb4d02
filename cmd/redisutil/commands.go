package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/redisutil/pkg/codec"
	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/pool"
)

const nilReply = "(nil)"

func newPingCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			start := time.Now()
			return s.pool.With(cmd.Context(), dbFlag(flags), func(h *pool.Handle) error {
				reply, err := redis.String(h.Do(cmd.Context(), "PING"))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (db %d, %s)\n", reply, h.DB(), time.Since(start).Round(time.Microsecond))
				return nil
			})
		}),
	}
}

func newGetCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the string value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			v, err := s.client.Strings.Get(cmd.Context(), args[0])
			return printValue(cmd.OutOrStdout(), v, err)
		}),
	}
}

func newSetCmd(flags *GlobalFlags) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set the string value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			var err error
			if ttl > 0 {
				err = s.client.Strings.SetEx(cmd.Context(), args[0], int(ttl.Seconds()), args[1])
			} else {
				err = s.client.Strings.Set(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		}),
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Expire the key after this long (whole seconds)")
	return cmd
}

func newDelCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "del KEY [KEY...]",
		Short: "Delete keys and print how many existed",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			n, err := s.client.Keys.Del(cmd.Context(), args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		}),
	}
}

func newKeysCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [PATTERN]",
		Short: "List keys matching a pattern (default *)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			keys, err := s.client.Keys.Keys(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		}),
	}
}

func newTypeCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "type KEY",
		Short: "Print the type of the value stored at a key",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.client.Keys.Type(cmd.Context(), args[0])
			return printValue(cmd.OutOrStdout(), t, err)
		}),
	}
}

func newTTLCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ttl KEY",
		Short: "Print the remaining time to live in seconds (-1 none, -2 missing)",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			ttl, err := s.client.Keys.TTL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ttl)
			return nil
		}),
	}
}

func newHGetAllCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hgetall KEY",
		Short: "Print every field and value of a hash",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			fields, err := s.client.Hashes.HGetAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(fields))
			for f := range fields {
				names = append(names, f)
			}
			sort.Strings(names)
			for _, f := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f, fields[f])
			}
			return nil
		}),
	}
}

func newStatsCmd(flags *GlobalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print pool statistics",
		Args:  cobra.NoArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			// Lease once so the numbers reflect a live connection.
			if err := s.pool.With(cmd.Context(), dbFlag(flags), func(*pool.Handle) error { return nil }); err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), s.pool.Stats(), output)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func writeStats(w io.Writer, stats pool.Stats, format string) error {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case "json":
		out, err = codec.EncodeJSONIndent(stats)
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = yaml.Marshal(stats)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func printValue(w io.Writer, v string, err error) error {
	if err == commands.ErrNil {
		fmt.Fprintln(w, nilReply)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, v)
	return nil
}

func dbFlag(flags *GlobalFlags) *int {
	if flags.DB < 0 {
		return nil
	}
	return &flags.DB
}
