// Command mapred is a multithreaded word-frequency counter: it maps an
// input file's bytes into token counts across a pool of tasks, reduces
// their per-chunk results down to one, and prints it.
//
// Usage:
//
//	mapred --input path/to/file [flags]
//
// Flags:
//
//	--input          Path to the file to tokenize (required)
//	--task-count     Number of worker tasks (default: 4; <=1 runs single-threaded)
//	--perf-counters  Print comparison counts alongside the token counts
//	--verbosity      Log level: debug, info, warn, error (default: info)
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eth2030/mrheap/internal/perf"
	"github.com/eth2030/mrheap/log"
	"github.com/eth2030/mrheap/mapred/schedule"
	"github.com/eth2030/mrheap/mapred/token"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning a process exit code. It takes
// CLI arguments without the program name so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	log.SetDefault(log.New(parseLevel(cfg.Verbosity)))
	logger := log.Default().Module("cmd/mapred")

	data, closeFile, err := mapFile(cfg.Input)
	if err != nil {
		logger.Error("failed to open input", "path", cfg.Input, "error", err)
		return 1
	}
	defer closeFile()

	var counters *perf.Counters
	if cfg.PerfCounters {
		counters = perf.New()
	}

	result, err := runPipeline(cfg, data, counters)
	if err != nil {
		logger.Error("failed to run pipeline", "error", err)
		return 1
	}

	unique, total := token.Dump(os.Stdout, result)
	logger.Info("tokenize complete", "unique", unique, "total", total)

	if counters != nil {
		snap := counters.Snapshot()
		fmt.Fprintf(os.Stderr, "comparisons: %d\n", snap.Compares)
	}

	return 0
}

// runPipeline runs the single-threaded path directly when TaskCount<=1
// (mirroring the reference's direct call path when task_count is 1, with
// no scheduler or task queue involved at all), or spins up a Scheduler
// otherwise.
func runPipeline(cfg Config, data []byte, counters *perf.Counters) (*token.Result, error) {
	if cfg.TaskCount <= 1 {
		store := token.NewWithCounters(counters)
		token.Tokenize(store, data)
		return store.Flatten(), nil
	}

	s, err := schedule.New(schedule.Config{TaskCount: cfg.TaskCount, Counters: counters})
	if err != nil {
		return nil, err
	}
	return s.Run(data)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
