package main

import (
	"flag"
	"fmt"
	"os"
)

// Config holds the parsed CLI configuration.
type Config struct {
	Input        string
	TaskCount    int
	PerfCounters bool
	Verbosity    string
}

// DefaultConfig returns a Config matching the flag defaults.
func DefaultConfig() Config {
	return Config{
		TaskCount: 4,
		Verbosity: "info",
	}
}

// parseFlags parses CLI arguments into a Config. It returns the config,
// whether the caller should exit immediately, and the exit code to use if
// so.
func parseFlags(args []string) (Config, bool, int) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("mapred", flag.ContinueOnError)
	fs.StringVar(&cfg.Input, "input", cfg.Input, "path to the file to tokenize")
	fs.IntVar(&cfg.TaskCount, "task-count", cfg.TaskCount, "number of worker tasks (<=1 runs single-threaded)")
	fs.BoolVar(&cfg.PerfCounters, "perf-counters", cfg.PerfCounters, "print comparison counts alongside the token counts")
	fs.StringVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return cfg, true, 2
	}

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "mapred: --input is required")
		return cfg, true, 2
	}

	return cfg, false, 0
}
