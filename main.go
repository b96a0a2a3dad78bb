// Satranc - a chess game against a friend or a minimax computer player,
// built with Ebitengine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/logging"
	"github.com/hailam/satranc/internal/storage"
	"github.com/hailam/satranc/internal/ui"
)

var (
	logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	dataDir  = flag.String("datadir", "", "directory for saved games and settings (default: platform data directory)")
	inMemory = flag.Bool("no-save", false, "keep settings and games in memory only")
	seed     = flag.Uint64("seed", 0, "random seed for Easy moves (0 seeds from the clock)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "satranc:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := logging.New(os.Stderr, *logLevel)
	if err != nil {
		return err
	}

	store, dir, err := openStorage(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := []engine.Option{engine.WithLogger(logger)}
	if *seed != 0 {
		opts = append(opts, engine.WithSeed(*seed))
	}

	game, err := ui.NewGame(ui.Options{
		Engine:  engine.NewEngine(opts...),
		Storage: store,
		DataDir: dir,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Satranc")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(game)
}

// openStorage opens the settings database and returns it together with
// the data directory exported games are written to.
func openStorage(logger zerolog.Logger) (*storage.Storage, string, error) {
	if *inMemory {
		store, err := storage.OpenInMemory(logger)
		if err != nil {
			return nil, "", err
		}
		wd, err := os.Getwd()
		if err != nil {
			store.Close()
			return nil, "", err
		}
		return store, wd, nil
	}

	dir := *dataDir
	if dir == "" {
		var err error
		if dir, err = storage.GetDataDir(); err != nil {
			return nil, "", err
		}
	}

	dbDir, err := storage.DatabaseDirIn(dir)
	if err != nil {
		return nil, "", err
	}
	store, err := storage.Open(dbDir, logger)
	if err != nil {
		return nil, "", err
	}
	logger.Debug().Str("dir", dir).Msg("Using data directory")
	return store, dir, nil
}
