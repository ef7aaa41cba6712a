// Command navplan reads a ReplayInput JSON from a file argument (or stdin), decides
// an action for every recorded tick, and writes the ReplayLog JSON to stdout.
//
// Usage:
//
//	navplan [-config planner.yaml] [-log decisions.jsonl.zst] [-v] [input.json]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/config"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/decisionlog"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/engine"
)

func main() {
	configPath := flag.String("config", "", "YAML planner config; overrides the config in the input")
	logPath := flag.String("log", "", "write a zstd-compressed JSONL decision log to this path")
	verbose := flag.Bool("v", false, "log planner decisions to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(flag.Args(), *configPath, *logPath, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "replay error: %v\n", err)
		os.Exit(1)
	}
}

// run replays the input named by args (stdin when empty) and prints the log to out.
// A failure to flush the decision log is reported even when the replay succeeded.
func run(args []string, configPath, logPath string, logger *slog.Logger, out io.Writer) (err error) {
	var data []byte
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		opts = append(opts, engine.WithConfig(cfg))
	}
	if logPath != "" {
		w, werr := decisionlog.Create(logPath)
		if werr != nil {
			return fmt.Errorf("opening decision log: %w", werr)
		}
		defer func() {
			if cerr := w.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("closing decision log: %w", cerr)
			}
		}()
		opts = append(opts, engine.WithSink(w))
	}

	result, err := engine.RunJSON(string(data), opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, result)
	return err
}
