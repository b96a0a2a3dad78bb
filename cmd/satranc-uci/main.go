// Command satranc-uci runs the computer player as a UCI engine on
// standard input and output. Logs go to standard error.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/logging"
	"github.com/hailam/satranc/internal/uci"
)

var (
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel     = flag.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
	logJSON      = flag.Bool("log-json", false, "log JSON lines instead of console output")
	seed         = flag.Uint64("seed", 0, "random seed for Easy moves (0 seeds from the clock)")
	randomChance = flag.Float64("random-chance", engine.EasyRandomMoveChance, "probability that Easy plays a random move")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "satranc-uci:", err)
		os.Exit(1)
	}
}

func run() error {
	newLogger := logging.New
	if *logJSON {
		newLogger = logging.NewJSON
	}
	logger, err := newLogger(os.Stderr, *logLevel)
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		stop, err := startProfile(profilePath, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithRandomMoveChance(*randomChance),
	}
	if *seed != 0 {
		opts = append(opts, engine.WithSeed(*seed))
	}

	protocol := uci.New(engine.NewEngine(opts...), os.Stdout, logger)
	return protocol.Run(os.Stdin)
}

func startProfile(path string, logger zerolog.Logger) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start CPU profile: %w", err)
	}
	logger.Info().Str("path", path).Msg("CPU profiling enabled")

	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}
