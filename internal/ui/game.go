package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/game"
	"github.com/hailam/satranc/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / board.Size
	PanelWidth   = ScreenWidth - BoardSize
)

const noticeDuration = 4 * time.Second

// Options configures the window.
type Options struct {
	Engine  *engine.Engine
	Storage *storage.Storage // nil disables persistence
	DataDir string           // Where exported PGN files go
	Logger  zerolog.Logger
}

// aiReply carries a finished search back to the update loop. session
// identifies the game it was computed for.
type aiReply struct {
	session *game.Game
	info    engine.SearchInfo
	err     error
}

// Game implements ebiten.Game.
type Game struct {
	session *game.Game
	engine  *engine.Engine
	logger  zerolog.Logger

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences
	dataDir string

	// UI state
	selected  board.Square
	targets   []board.Move
	dragging  bool
	dragFrom  board.Square
	dragPiece board.Piece

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel

	// Computer opponent
	aiThinking bool
	aiCancel   context.CancelFunc
	aiReplies  chan aiReply
	lastSearch *engine.SearchInfo

	// Bookkeeping for the current game
	started     time.Time
	recorded    bool
	notice      string
	noticeUntil time.Time
}

// NewGame creates the window state, resuming the saved game if there is one.
func NewGame(opts Options) (*Game, error) {
	fonts, err := LoadFonts()
	if err != nil {
		return nil, err
	}
	sprites, err := NewSpriteManager(SquareSize)
	if err != nil {
		return nil, err
	}
	small, err := NewSpriteManager(CapturedSize)
	if err != nil {
		return nil, err
	}

	eng := opts.Engine
	if eng == nil {
		eng = engine.NewEngine(engine.WithLogger(opts.Logger))
	}

	g := &Game{
		engine:    eng,
		logger:    opts.Logger,
		storage:   opts.Storage,
		dataDir:   opts.DataDir,
		selected:  board.NoSquare,
		dragFrom:  board.NoSquare,
		renderer:  NewRenderer(sprites, fonts, BoardSize),
		input:     NewInputHandler(),
		aiReplies: make(chan aiReply, 4),
	}
	g.panel = NewPanel(g, fonts, small)

	g.loadPreferences()
	if !g.resumeGame() {
		g.startSession()
	}
	return g, nil
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage != nil {
		prefs, err := g.storage.LoadPreferences()
		if err != nil {
			g.logger.Warn().Err(err).Msg("Failed to load preferences")
		} else {
			g.prefs = prefs
		}
	}
	g.renderer.SetFlipped(g.prefs.PlayerColor == board.Black)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to save preferences")
	}
}

// resumeGame restores the game saved by an earlier run.
func (g *Game) resumeGame() bool {
	if g.storage == nil {
		return false
	}

	sg, err := g.storage.LoadGame()
	if errors.Is(err, storage.ErrNoSavedGame) {
		return false
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to load saved game")
		return false
	}

	session, err := sg.Restore(g.engine, game.WithLogger(g.logger))
	if err != nil {
		g.logger.Warn().Err(err).Msg("Discarding unreadable saved game")
		if err := g.storage.ClearGame(); err != nil {
			g.logger.Warn().Err(err).Msg("Failed to clear saved game")
		}
		return false
	}

	g.logger.Info().Int("plies", len(sg.Moves)).Msg("Resumed saved game")
	g.setSession(session)
	g.started = sg.SavedAt
	return true
}

// startSession begins a new game with the current preferences.
func (g *Game) startSession() {
	g.setSession(game.New(g.prefs.GameConfig(), g.engine, game.WithLogger(g.logger)))
	g.started = time.Now()

	if g.storage != nil {
		if err := g.storage.ClearGame(); err != nil {
			g.logger.Warn().Err(err).Msg("Failed to clear saved game")
		}
	}
}

func (g *Game) setSession(session *game.Game) {
	g.cancelAI()
	g.session = session
	g.lastSearch = nil
	g.recorded = false
	g.clearSelection()

	if session.IsOver() {
		g.finishGame()
		return
	}
	g.maybeStartAI()
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()

	g.checkAIMove()

	if _, ok := g.session.PendingPromotion(); ok {
		g.handlePromotionInput()
		return nil
	}

	if g.input.KeyJustPressed(ebiten.KeyEscape) {
		g.clearSelection()
	}

	if g.panel.HandleInput(g.input) {
		g.updateCursor()
		return nil
	}

	g.handleBoardInput()
	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)

	pos := g.session.Position()
	b := pos.Board

	g.renderer.DrawBoard(screen)

	if st := g.session.Status(); st == board.Check || st == board.Checkmate {
		if ksq, ok := b.FindKing(pos.SideToMove); ok {
			g.renderer.DrawCheck(screen, ksq)
		}
	}

	last := board.NoMove
	if rec, ok := g.session.LastMove(); ok {
		last = rec.Move
	}
	g.renderer.DrawHighlights(screen, b, g.selected, g.targets, last)

	dragFrom := board.NoSquare
	if g.dragging {
		dragFrom = g.dragFrom
	}
	g.renderer.DrawPieces(screen, b, dragFrom)

	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.dragPiece, mx, my)
	}

	if m, ok := g.session.PendingPromotion(); ok {
		g.renderer.DrawPromotionPicker(screen, m.To, pos.SideToMove)
	} else if g.session.IsOver() {
		g.renderer.DrawBanner(screen, g.StatusText())
	}

	g.panel.Draw(screen)
}

// Layout returns the logical screen size; Ebitengine scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// humanToMove reports whether board input is accepted now.
func (g *Game) humanToMove() bool {
	return !g.aiThinking && !g.session.IsOver() && !g.session.IsAITurn()
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if !g.humanToMove() {
		return
	}

	mx, my := g.input.MousePosition()

	if g.input.IsLeftJustPressed() {
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq == board.NoSquare {
			return
		}

		// Clicking one of our own pieces selects it.
		if moves := g.session.LegalMovesFrom(sq); moves != nil {
			g.selected = sq
			g.targets = moves
			g.dragging = true
			g.dragFrom = sq
			g.dragPiece = g.session.Board().At(sq)
			return
		}

		if g.selected != board.NoSquare {
			g.tryMove(g.selected, sq)
			return
		}
		g.clearSelection()
		return
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.dragging = false
		target := g.renderer.ScreenToSquare(mx, my)
		// Releasing on the origin keeps the piece selected for a second click.
		if target != board.NoSquare && target != g.dragFrom {
			g.tryMove(g.dragFrom, target)
		}
	}
}

// tryMove plays from-to if it matches a legal move of the selected piece.
func (g *Game) tryMove(from, to board.Square) {
	m := g.findMove(from, to)
	g.clearSelection()
	if m == board.NoMove {
		return
	}

	err := g.session.Play(m)
	switch {
	case errors.Is(err, game.ErrPromotionRequired):
		// The picker takes over until a piece is chosen.
	case err != nil:
		g.logger.Warn().Err(err).Str("move", m.String()).Msg("Move rejected")
	default:
		g.afterMove()
	}
}

// findMove finds a legal move from src to dst among the current targets.
// Dropping the king on its own rook castles.
func (g *Game) findMove(src, dst board.Square) board.Move {
	for _, m := range g.session.LegalMovesFrom(src) {
		if m.To == dst {
			return m
		}
		if !m.IsCastling() {
			continue
		}
		rookCol := 7
		if m.Castling == board.QueenSide {
			rookCol = 0
		}
		if dst == (board.Square{Row: src.Row, Col: rookCol}) {
			return m
		}
	}
	return board.NoMove
}

// handlePromotionInput resolves the promotion picker.
func (g *Game) handlePromotionInput() {
	m, _ := g.session.PendingPromotion()

	pt, chosen := g.input.PromotionKey()
	if !chosen && g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		pt, chosen = g.renderer.PromotionChoiceAt(mx, my, m.To)
		if !chosen {
			g.session.CancelPromotion()
			return
		}
	}
	if g.input.KeyJustPressed(ebiten.KeyEscape) {
		g.session.CancelPromotion()
		return
	}
	if !chosen {
		return
	}

	if err := g.session.Promote(pt); err != nil {
		g.logger.Warn().Err(err).Msg("Promotion rejected")
		return
	}
	g.afterMove()
}

// afterMove runs after every move, human or computer.
func (g *Game) afterMove() {
	g.clearSelection()

	if g.session.IsOver() {
		g.finishGame()
		return
	}

	g.autosave()
	g.maybeStartAI()
}

// autosave stores the game in progress so it survives a restart.
func (g *Game) autosave() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SaveGame(storage.NewSavedGame(g.session)); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to save game")
	}
}

// maybeStartAI starts the computer's search in a goroutine when it is to move.
func (g *Game) maybeStartAI() {
	if g.aiThinking || !g.session.IsAITurn() || g.session.IsOver() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.aiCancel = cancel
	g.aiThinking = true

	session := g.session
	go func() {
		info, err := session.AIMove(ctx)
		g.aiReplies <- aiReply{session: session, info: info, err: err}
	}()
}

// cancelAI abandons a running search.
func (g *Game) cancelAI() {
	if g.aiCancel != nil {
		g.aiCancel()
		g.aiCancel = nil
	}
	g.aiThinking = false
}

// checkAIMove plays the computer's move once its search has finished.
func (g *Game) checkAIMove() {
	select {
	case r := <-g.aiReplies:
		if r.session != g.session {
			// Reply for an abandoned game.
			return
		}
		g.aiThinking = false
		g.aiCancel = nil

		if r.err != nil {
			if !errors.Is(r.err, context.Canceled) {
				g.logger.Warn().Err(r.err).Msg("Computer move failed")
			}
			return
		}

		if _, err := g.session.PlayAIMove(r.info.Move); err != nil {
			g.logger.Warn().Err(err).Msg("Computer move rejected")
			return
		}
		info := r.info
		g.lastSearch = &info
		g.afterMove()
	default:
	}
}

// finishGame records a finished game once.
func (g *Game) finishGame() {
	if g.recorded {
		return
	}
	g.recorded = true

	result := g.session.Result()
	g.logger.Info().Str("result", result.String()).Int("plies", len(g.session.History())).Msg("Game finished")

	if g.storage == nil {
		return
	}

	if err := g.storage.ClearGame(); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to clear saved game")
	}

	cfg := g.session.Config()
	pgn, err := g.session.PGN(g.pgnTags())
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to export finished game")
	} else {
		err = g.storage.ArchiveGame(&storage.ArchivedGame{
			PGN:        pgn,
			Result:     result.String(),
			Mode:       cfg.Mode,
			Difficulty: cfg.Difficulty,
			Plies:      len(g.session.History()),
		})
		if err != nil {
			g.logger.Warn().Err(err).Msg("Failed to archive game")
		}
	}

	// Statistics are kept for games against the computer.
	if cfg.Mode != game.HumanVsComputer {
		return
	}
	winner, won := g.session.Winner()
	err = g.storage.RecordGame(storage.GameResult{
		Won:        won && winner != cfg.AIColor,
		Draw:       result == game.Draw,
		Mode:       cfg.Mode,
		Difficulty: cfg.Difficulty,
		Duration:   time.Since(g.started),
	})
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to record game")
	}
}

// pgnTags returns the header tags for exported games.
func (g *Game) pgnTags() map[string]string {
	cfg := g.session.Config()
	white, black := g.prefs.Username, g.prefs.Username
	if cfg.Mode == game.HumanVsComputer {
		computer := fmt.Sprintf("Computer (%s)", cfg.Difficulty)
		if cfg.AIColor == board.White {
			white = computer
		} else {
			black = computer
		}
	}
	return map[string]string{
		"Event": "Casual game",
		"Site":  "satranc",
		"Date":  g.started.Format("2006.01.02"),
		"White": white,
		"Black": black,
	}
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selected = board.NoSquare
	g.targets = nil
	g.dragging = false
	g.dragFrom = board.NoSquare
	g.dragPiece = board.NoPiece
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeUntil = time.Now().Add(noticeDuration)
}

// NewGameAction abandons the current game and starts another.
func (g *Game) NewGameAction() {
	g.logger.Debug().Msg("New game")
	g.startSession()
}

// SetModeAction switches between playing a person and the computer.
// A different mode starts a new game.
func (g *Game) SetModeAction(mode game.Mode) {
	if g.prefs.GameMode == mode {
		return
	}
	g.prefs.GameMode = mode
	g.savePreferences()
	g.startSession()
}

// SetDifficultyAction changes the computer's strength from the next move on.
func (g *Game) SetDifficultyAction(d engine.Difficulty) {
	g.prefs.Difficulty = d
	g.session.SetDifficulty(d)
	g.savePreferences()
	if !g.session.IsOver() {
		g.autosave()
	}
}

// TogglePlayerColor swaps sides and turns the board. Against the computer
// this starts a new game.
func (g *Game) TogglePlayerColor() {
	g.prefs.PlayerColor = g.prefs.PlayerColor.Other()
	g.renderer.SetFlipped(g.prefs.PlayerColor == board.Black)
	g.savePreferences()

	if g.session.Config().Mode == game.HumanVsComputer {
		g.startSession()
	}
}

// ExportPGNAction writes the current game to a PGN file in the data directory.
func (g *Game) ExportPGNAction() {
	pgn, err := g.session.PGN(g.pgnTags())
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to export PGN")
		g.setNotice("Export failed")
		return
	}

	dir := filepath.Join(g.dataDir, "games")
	path := filepath.Join(dir, "satranc-"+time.Now().Format("20060102-150405")+".pgn")
	if err := os.MkdirAll(dir, 0o755); err == nil {
		err = os.WriteFile(path, []byte(pgn), 0o644)
	}
	if err != nil {
		g.logger.Warn().Err(err).Str("path", path).Msg("Failed to write PGN")
		g.setNotice("Export failed")
		return
	}

	g.logger.Info().Str("path", path).Msg("Exported PGN")
	g.setNotice("Saved " + filepath.Base(path))
}

// Mode returns the mode of the current game.
func (g *Game) Mode() game.Mode {
	return g.session.Config().Mode
}

// Difficulty returns the computer's strength.
func (g *Game) Difficulty() engine.Difficulty {
	return g.session.Config().Difficulty
}

// PlayerColor returns the color shown at the bottom of the board.
func (g *Game) PlayerColor() board.Color {
	return g.prefs.PlayerColor
}

// Captured returns the pieces of color c taken so far.
func (g *Game) Captured(c board.Color) []board.PieceType {
	return g.session.Captured(c)
}

// SANHistory returns the move list in Standard Algebraic Notation.
func (g *Game) SANHistory() []string {
	return g.session.SANMoves()
}

// IsOver returns true if the game is over.
func (g *Game) IsOver() bool {
	return g.session.IsOver()
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.session.Status() == board.Check
}

// IsAIThinking returns true if the computer is searching.
func (g *Game) IsAIThinking() bool {
	return g.aiThinking
}

// LastSearch returns the computer's most recent search.
func (g *Game) LastSearch() (engine.SearchInfo, bool) {
	if g.lastSearch == nil {
		return engine.SearchInfo{}, false
	}
	return *g.lastSearch, true
}

// Notice returns a short-lived message for the status bar.
func (g *Game) Notice() string {
	if time.Now().After(g.noticeUntil) {
		return ""
	}
	return g.notice
}

// StatusText describes the state of the game in one line.
func (g *Game) StatusText() string {
	switch g.session.Result() {
	case game.WhiteWins:
		return "Checkmate. White wins"
	case game.BlackWins:
		return "Checkmate. Black wins"
	case game.Draw:
		return "Stalemate. Draw"
	}

	if g.aiThinking {
		return "Computer is thinking..."
	}
	if _, ok := g.session.PendingPromotion(); ok {
		return "Choose a piece (Q, R, B, N)"
	}

	turn := g.session.Turn()
	if g.session.Status() == board.Check {
		return turn.String() + " is in check"
	}
	return turn.String() + " to move"
}

// Close abandons a running search. The game in progress is already saved.
func (g *Game) Close() {
	g.cancelAI()
}
