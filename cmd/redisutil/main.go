package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/config"
	"github.com/ajitpratap0/redisutil/pkg/logger"
	"github.com/ajitpratap0/redisutil/pkg/observability"
	"github.com/ajitpratap0/redisutil/pkg/pool"
)

var version = "0.1.0"

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	ConfigName  string
	ConfigPaths []string
	DB          int
	LogLevel    string
	Trace       bool
	MetricsAddr string
}

// session holds what a subcommand needs while it runs.
type session struct {
	flags   *GlobalFlags
	log     *zap.Logger
	manager *pool.Manager
	pool    *pool.Pool
	client  *commands.Client
	closers []func(context.Context) error
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "redisutil",
		Short: "redisutil - pooled Redis command line",
		Long: `redisutil runs single Redis commands through a bounded connection pool.
The pool is configured from a properties resource (redis.properties by default)
whose keys can be overridden by environment variables such as REDIS_POOL_HOST.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigName, "config", config.DefaultResourceName, "Properties resource name or path")
	pf.StringSliceVar(&flags.ConfigPaths, "config-path", nil, "Directories searched for the resource (default: working directory)")
	pf.IntVar(&flags.DB, "db", -1, "Logical database index (default: the configured database)")
	pf.StringVar(&flags.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flags.Trace, "trace", false, "Print command spans to stderr")
	pf.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redisutil v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(
		newPingCmd(flags),
		newGetCmd(flags),
		newSetCmd(flags),
		newDelCmd(flags),
		newKeysCmd(flags),
		newTypeCmd(flags),
		newTTLCmd(flags),
		newHGetAllCmd(flags),
		newStatsCmd(flags),
	)
	return root
}

// withSession wraps a subcommand body with pool setup and teardown.
func withSession(flags *GlobalFlags, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := openSession(cmd.Context(), flags)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, s, args)
	}
}

func openSession(ctx context.Context, flags *GlobalFlags) (*session, error) {
	if err := logger.Init(logger.Config{Level: flags.LogLevel, Encoding: "console"}); err != nil {
		return nil, err
	}
	s := &session{
		flags: flags,
		log:   logger.With(zap.String("component", "redisutil-cli")),
	}

	if flags.Trace {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "redisutil",
			ServiceVersion: version,
			SamplingRate:   1,
			Writer:         os.Stderr,
			PrettyPrint:    true,
			Sync:           true,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, shutdown)
	}

	if flags.MetricsAddr != "" {
		s.serveMetrics(flags.MetricsAddr)
	}

	s.manager = pool.NewManager(
		pool.WithSource(config.FileSource(flags.ConfigName, flags.ConfigPaths...)),
		pool.WithManagerLogger(s.log),
	)
	s.closers = append(s.closers, func(context.Context) error { return s.manager.Close() })

	if err := s.manager.Initialize(ctx); err != nil {
		_ = s.close()
		return nil, fmt.Errorf("failed to initialize pool: %w", err)
	}
	p, err := s.manager.Pool()
	if err != nil {
		_ = s.close()
		return nil, err
	}
	s.pool = p
	s.client = commands.New(p)
	if flags.DB >= 0 {
		s.client = s.client.WithDB(flags.DB)
	}
	return s, nil
}

func (s *session) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	s.closers = append(s.closers, srv.Shutdown)
}

// close runs closers in reverse order and returns the first error.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	_ = logger.Sync()
	return first
}
