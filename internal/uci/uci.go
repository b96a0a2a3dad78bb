// Package uci drives the engine over the Universal Chess Interface
// protocol, so the computer player can be used from chess GUIs.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	logger   zerolog.Logger

	// Computer strength used when "go" carries no depth
	difficulty   engine.Difficulty
	randomChance float64
	seed         uint64
	seeded       bool // seed was set through setoption

	out   io.Writer
	outMu sync.Mutex

	// Search state
	searching  bool
	searchDone chan struct{}
}

// New creates a protocol handler writing its replies to out.
func New(eng *engine.Engine, out io.Writer, logger zerolog.Logger) *UCI {
	return &UCI{
		engine:       eng,
		position:     board.NewPosition(),
		logger:       logger,
		difficulty:   engine.Medium,
		randomChance: engine.EasyRandomMoveChance,
		out:          out,
	}
}

// Run reads commands from in until "quit" or end of input. A search still
// running at that point is waited for, so its bestmove is always written.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	defer u.handleStop()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		u.logger.Debug().Str("cmd", line).Msg("UCI command")

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleStop()
			u.position = board.NewPosition()
		case "position":
			u.handleStop()
			u.handlePosition(args)
		case "go":
			u.handleStop()
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.printf("%s\nFen: %s\n", u.position.Board, u.position.FEN())
		case "perft":
			u.handleStop()
			u.handlePerft(args)
		default:
			u.printf("info string unknown command: %s\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func (u *UCI) println(s string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Satranc")
	u.println("id author Satranc Team")
	u.println("")
	u.printf("option name Difficulty type combo default %s var easy var medium var hard\n", engine.Medium)
	u.printf("option name RandomMoveChance type spin default %d min 0 max 100\n", int(engine.EasyRandomMoveChance*100))
	u.println("option name Seed type string default <empty>")
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	setupEnd := len(args)
	var moves []string
	for i, arg := range args {
		if arg == "moves" {
			setupEnd = i
			moves = args[i+1:]
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:setupEnd], " "))
		if err != nil {
			u.printf("info string invalid position: %v\n", err)
			return
		}
		pos = p
	default:
		u.printf("info string invalid position: %s\n", args[0])
		return
	}

	for _, s := range moves {
		m, promo, err := board.ParseMove(s, pos.Board, pos.EnPassant)
		if err == nil && pos.Board.At(m.From).Color != pos.SideToMove {
			err = board.ErrIllegalMove
		}
		if err != nil {
			// Keep the position up to the last good move.
			u.printf("info string invalid move %s: %v\n", s, err)
			break
		}
		pos = pos.Play(m, promo)
	}

	u.position = pos
}

// GoOptions holds parsed "go" command options. Clock fields are accepted
// and ignored: the search is bounded by depth alone.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes", "mate":
			i++
		}
	}

	return opts
}

// handleGo starts a search of the current position in the background.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	d := u.difficulty
	if opts.Depth > 0 {
		d = engine.DifficultyForDepth(opts.Depth)
	}

	pos := u.position
	eng := u.engine
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		info, ok := eng.Analyze(pos.Board, pos.SideToMove, pos.EnPassant, d)
		if !ok {
			// Checkmate or stalemate
			u.println("bestmove 0000")
			return
		}
		u.sendInfo(info)

		promo := board.NoPieceType
		if pos.Board.IsPromotion(info.Move) {
			promo = board.Queen
		}
		u.printf("bestmove %s\n", info.Move.UCI(promo))
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	if info.Random {
		u.println("info string random move")
		return
	}

	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	if info.Mate != 0 {
		parts = append(parts, fmt.Sprintf("score mate %d", info.Mate))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	parts = append(parts, "pv "+info.Move.String())

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop waits for the current search. Searches are short and
// cannot be interrupted, so stop only makes the wait explicit.
func (u *UCI) handleStop() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "difficulty":
		d, err := engine.ParseDifficulty(value)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.difficulty = d
	case "randommovechance":
		pct, err := strconv.Atoi(value)
		if err != nil || pct < 0 || pct > 100 {
			u.printf("info string invalid RandomMoveChance: %s\n", value)
			return
		}
		u.handleStop()
		u.randomChance = float64(pct) / 100
		u.engine = engine.NewEngine(u.engineOptions()...)
	case "seed":
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			u.printf("info string invalid Seed: %s\n", value)
			return
		}
		u.handleStop()
		u.seed, u.seeded = seed, true
		u.engine = engine.NewEngine(u.engineOptions()...)
	default:
		u.printf("info string unknown option: %s\n", name)
	}
}

func (u *UCI) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(u.logger),
		engine.WithRandomMoveChance(u.randomChance),
	}
	if u.seeded {
		opts = append(opts, engine.WithSeed(u.seed))
	}
	return opts
}

// handlePerft runs a perft test and prints the count below each move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	divide := board.Divide(u.position, depth)
	elapsed := time.Since(start)

	keys := maps.Keys(divide)
	slices.Sort(keys)

	var nodes uint64
	for _, k := range keys {
		u.printf("%s: %d\n", k, divide[k])
		nodes += divide[k]
	}

	u.println("")
	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
