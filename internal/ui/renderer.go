package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/satranc/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	Overlay        color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		Background:     color.RGBA{40, 44, 52, 255},
		Overlay:        color.RGBA{0, 0, 0, 150},
	}
}

// Renderer draws the board, its highlights and the pieces.
type Renderer struct {
	sprites    *SpriteManager
	fonts      *Fonts
	theme      *Theme
	boardSize  int
	squareSize int
	flipped    bool // Black at the bottom
}

// NewRenderer creates a new renderer.
func NewRenderer(sprites *SpriteManager, fonts *Fonts, boardSize int) *Renderer {
	return &Renderer{
		sprites:    sprites,
		fonts:      fonts,
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: boardSize / board.Size,
	}
}

// SetFlipped puts Black at the bottom of the board when true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// DrawBoard draws the squares and the file and rank labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			sq := board.Square{Row: row, Col: col}
			x, y := r.SquareToScreen(sq)

			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(r.squareSize), float32(r.squareSize), c, false)
		}
	}

	r.drawCoordinates(screen)
}

// drawCoordinates labels the bottom row with files and the left column
// with ranks, in the color of the opposite square.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := r.fonts.Small
	for i := 0; i < board.Size; i++ {
		// Files along the bottom edge
		fileSq := r.ScreenToSquare(i*r.squareSize, r.boardSize-1)
		x, y := r.SquareToScreen(fileSq)
		r.drawLabel(screen, string(fileSq.File()), x+r.squareSize-10, y+r.squareSize-14, fileSq, face)

		// Ranks along the left edge
		rankSq := r.ScreenToSquare(0, i*r.squareSize)
		x, y = r.SquareToScreen(rankSq)
		r.drawLabel(screen, string(rankSq.Rank()), x+3, y+2, rankSq, face)
	}
}

func (r *Renderer) drawLabel(screen *ebiten.Image, s string, x, y int, sq board.Square, face *text.GoTextFace) {
	c := r.theme.DarkSquare
	if (sq.Row+sq.Col)%2 == 1 {
		c = r.theme.LightSquare
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// DrawHighlights draws the last move, the selection and the targets of the
// selected piece. Capture targets get a ring, quiet moves a dot.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, b *board.Board, selected board.Square, targets []board.Move, last board.Move) {
	if last != board.NoMove {
		r.highlightSquare(screen, last.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, last.To, r.theme.LastMoveColor)
	}

	if selected != board.NoSquare {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}

	for _, m := range targets {
		r.drawLegalMoveIndicator(screen, m.To, b.IsCapture(m))
	}
}

// DrawCheck highlights the king's square if in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	r.highlightSquare(screen, kingSq, r.theme.CheckColor)
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.Valid() {
		return
	}
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(r.squareSize), float32(r.squareSize), c, false)
}

func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square, capture bool) {
	x, y := r.SquareToScreen(sq)
	half := float32(r.squareSize) / 2
	cx := float32(x) + half
	cy := float32(y) + half

	if capture {
		vector.StrokeCircle(screen, cx, cy, half-4, 5, r.theme.LegalMoveColor, true)
		return
	}
	vector.DrawFilledCircle(screen, cx, cy, float32(r.squareSize)*0.15, r.theme.LegalMoveColor, true)
}

// DrawPieces draws every piece. The piece on dragFrom, if any, is drawn
// faded since it follows the cursor.
func (r *Renderer) DrawPieces(screen *ebiten.Image, b *board.Board, dragFrom board.Square) {
	b.ForEach(func(sq board.Square, p board.Piece) {
		x, y := r.SquareToScreen(sq)
		if sq == dragFrom {
			r.sprites.DrawFadedPieceAt(screen, p, x, y)
			return
		}
		r.sprites.DrawPieceAt(screen, p, x, y)
	})
}

// DrawDraggedPiece draws the piece being dragged centred on the cursor.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, piece board.Piece, mouseX, mouseY int) {
	half := r.squareSize / 2
	r.sprites.DrawPieceAt(screen, piece, mouseX-half, mouseY-half)
}

// promotionChoices is the order of the promotion picker, nearest the edge first.
var promotionChoices = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// promotionCell returns the screen origin of the i-th picker cell for a
// pawn promoting on to. The picker grows from the board edge inwards.
func (r *Renderer) promotionCell(to board.Square, i int) (int, int) {
	x, y := r.SquareToScreen(to)
	if y == 0 {
		return x, y + i*r.squareSize
	}
	return x, y - i*r.squareSize
}

// DrawPromotionPicker dims the board and shows the four promotion pieces
// of color c over the destination file.
func (r *Renderer) DrawPromotionPicker(screen *ebiten.Image, to board.Square, c board.Color) {
	vector.DrawFilledRect(screen, 0, 0, float32(r.boardSize), float32(r.boardSize), r.theme.Overlay, false)

	for i, pt := range promotionChoices {
		x, y := r.promotionCell(to, i)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(r.squareSize), float32(r.squareSize), r.theme.LightSquare, false)
		vector.StrokeRect(screen, float32(x), float32(y), float32(r.squareSize), float32(r.squareSize), 2, r.theme.DarkSquare, false)
		r.sprites.DrawPieceAt(screen, board.NewPiece(pt, c), x, y)
	}
}

// PromotionChoiceAt returns the picker piece under the given point.
func (r *Renderer) PromotionChoiceAt(mx, my int, to board.Square) (board.PieceType, bool) {
	for i, pt := range promotionChoices {
		x, y := r.promotionCell(to, i)
		if mx >= x && mx < x+r.squareSize && my >= y && my < y+r.squareSize {
			return pt, true
		}
	}
	return board.NoPieceType, false
}

// DrawBanner writes msg across the middle of the board.
func (r *Renderer) DrawBanner(screen *ebiten.Image, msg string) {
	face := r.fonts.Bold
	w, h := MeasureText(msg, face)
	bw, bh := float32(w)+48, float32(h)+28
	bx := (float32(r.boardSize) - bw) / 2
	by := (float32(r.boardSize) - bh) / 2

	vector.DrawFilledRect(screen, bx, by, bw, bh, r.theme.Overlay, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(bx)+24, float64(by)+14)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, msg, face, op)
}

// SquareToScreen converts a board square to the screen position of its
// top-left corner.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	row, col := sq.Row, sq.Col
	if r.flipped {
		row, col = board.Size-1-row, board.Size-1-col
	}
	return col * r.squareSize, row * r.squareSize
}

// ScreenToSquare converts screen coordinates to a board square.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.NoSquare
	}
	row, col := y/r.squareSize, x/r.squareSize
	if r.flipped {
		row, col = board.Size-1-row, board.Size-1-col
	}
	return board.Square{Row: row, Col: col}
}

// SquareSize returns the size of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
