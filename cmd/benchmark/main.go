// Command benchmark drives a read/write workload through the pooled facade
// and writes a throughput and latency report, optionally with profiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/internal/loadgen"
	"github.com/ajitpratap0/redisutil/pkg/codec"
	"github.com/ajitpratap0/redisutil/pkg/commands"
	"github.com/ajitpratap0/redisutil/pkg/config"
	"github.com/ajitpratap0/redisutil/pkg/logger"
	"github.com/ajitpratap0/redisutil/pkg/pool"
)

var (
	configName   = flag.String("config", config.DefaultResourceName, "Properties resource name or path")
	workers      = flag.Int("workers", 8, "Concurrent callers")
	duration     = flag.Duration("duration", 10*time.Second, "Benchmark duration")
	requests     = flag.Int64("requests", 0, "Stop after this many operations (0: run for -duration)")
	keySpace     = flag.Int("keys", 1000, "Number of distinct keys")
	valueSize    = flag.Int("value-size", 128, "Bytes per written value")
	readRatio    = flag.Float64("read-ratio", 0.8, "Share of operations that are reads")
	db           = flag.Int("db", -1, "Logical database index (default: the configured database)")
	outputDir    = flag.String("output", "benchmark-results", "Output directory for reports and profiles")
	profileTypes = flag.String("profile", "", "Profiles to capture (cpu,memory,block,mutex,goroutine,all)")
	logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := logger.Init(logger.Config{Level: *logLevel, Encoding: "console"}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.With(zap.String("component", "benchmark"))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102-150405")
	types := parseProfileTypes(*profileTypes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	manager := pool.NewManager(
		pool.WithSource(config.FileSource(*configName)),
		pool.WithManagerLogger(log),
	)
	defer func() { _ = manager.Close() }()
	if err := manager.Initialize(ctx); err != nil {
		return err
	}
	p, err := manager.Pool()
	if err != nil {
		return err
	}

	client := commands.New(p)
	if *db >= 0 {
		client = client.WithDB(*db)
	}

	if contains(types, "block") {
		runtime.SetBlockProfileRate(1)
	}
	if contains(types, "mutex") {
		runtime.SetMutexProfileFraction(1)
	}
	if contains(types, "cpu") {
		f, err := os.Create(filepath.Join(*outputDir, fmt.Sprintf("cpu_%s.prof", timestamp)))
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := loadgen.DefaultConfig()
	cfg.Workers = *workers
	cfg.Duration = *duration
	cfg.Requests = *requests
	cfg.KeySpace = *keySpace
	cfg.ValueSize = *valueSize
	cfg.ReadRatio = *readRatio
	if cfg.Requests > 0 {
		cfg.Duration = 0
	}

	report, err := loadgen.New(client, cfg, log).Run(ctx)
	if err != nil {
		return err
	}
	stats := p.Stats()

	for _, t := range types {
		if t == "cpu" {
			continue
		}
		writeProfile(log, t, filepath.Join(*outputDir, fmt.Sprintf("%s_%s.prof", t, timestamp)))
	}

	printSummary(report, stats)

	data, err := codec.EncodeJSONIndent(struct {
		Timestamp string          `json:"timestamp"`
		Config    *loadgen.Config `json:"config"`
		Report    *loadgen.Report `json:"report"`
		Pool      pool.Stats      `json:"pool"`
	}{timestamp, cfg, report, stats})
	if err != nil {
		return err
	}
	reportFile := filepath.Join(*outputDir, fmt.Sprintf("report_%s.json", timestamp))
	if err := os.WriteFile(reportFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("\nReport saved to: %s\n", reportFile)
	return nil
}

func printSummary(r *loadgen.Report, stats pool.Stats) {
	fmt.Println("=== Pool Benchmark ===")
	fmt.Printf("  ops:        %d (%d reads, %d writes, %d misses)\n", r.Ops, r.Reads, r.Writes, r.Misses)
	fmt.Printf("  failed:     %d\n", r.Failed)
	fmt.Printf("  exhausted:  %d\n", r.Exhausted)
	fmt.Printf("  elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Printf("  throughput: %.0f ops/sec\n", r.OpsPerSec)
	fmt.Printf("  latency:    p50 %s, p99 %s, max %s\n", r.P50, r.P99, r.Max)
	fmt.Printf("  pool:       %d active, %d idle, max %d, %d waits\n",
		stats.Active, stats.Idle, stats.MaxTotal, stats.WaitCount)
}

// writeProfile writes a named runtime profile to filename.
func writeProfile(log *zap.Logger, name, filename string) {
	if name == "memory" {
		runtime.GC()
		name = "heap"
	}
	profile := pprof.Lookup(name)
	if profile == nil {
		log.Warn("profile not found", zap.String("profile", name))
		return
	}

	f, err := os.Create(filename)
	if err != nil {
		log.Warn("failed to create profile", zap.String("profile", name), zap.Error(err))
		return
	}
	defer f.Close()

	if err := profile.WriteTo(f, 0); err != nil {
		log.Warn("failed to write profile", zap.String("profile", name), zap.Error(err))
		return
	}
	fmt.Printf("%s profile written to: %s\n", name, filename)
}

// parseProfileTypes parses the profile types string
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "cpu", "memory", "mem", "block", "mutex", "goroutine":
			if part == "mem" {
				part = "memory"
			}
			if !contains(types, part) {
				types = append(types, part)
			}
		}
	}
	return types
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
