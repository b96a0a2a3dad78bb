// Package ui implements the chess board window using Ebitengine.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/satranc/internal/board"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// pieceKey identifies a sprite; board.Piece also carries HasMoved.
type pieceKey struct {
	Type  board.PieceType
	Color board.Color
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[pieceKey]*ebiten.Image
	size        int     // Display size
	renderScale float64 // Render at higher resolution for quality
}

// NewSpriteManager rasterises every piece at the given display size.
func NewSpriteManager(size int) (*SpriteManager, error) {
	sm := &SpriteManager{
		pieces:      make(map[pieceKey]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	if err := sm.loadPieces(); err != nil {
		return nil, err
	}
	return sm, nil
}

// pieceFile returns the embedded asset path of a piece, e.g. "wN.svg".
func pieceFile(k pieceKey) string {
	c := "w"
	if k.Color == board.Black {
		c = "b"
	}
	return fmt.Sprintf("assets/pieces/%s%c.svg", c, k.Type.Char()-('a'-'A'))
}

// loadPieces renders all piece sprites from the embedded SVG files.
func (sm *SpriteManager) loadPieces() error {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, c := range []board.Color{board.White, board.Black} {
		for _, pt := range []board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
			k := pieceKey{Type: pt, Color: c}
			path := pieceFile(k)

			data, err := pieceAssets.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read piece asset %s: %w", path, err)
			}
			icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("parse SVG %s: %w", path, err)
			}

			icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

			rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
			scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
			raster := rasterx.NewDasher(renderSize, renderSize, scanner)
			icon.Draw(raster, 1.0)

			sm.pieces[k] = ebiten.NewImageFromImage(rgba)
		}
	}
	return nil
}

// DrawPieceAt draws a piece with its top-left corner at x, y.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sm.drawPiece(screen, p, x, y, 1)
}

// DrawFadedPieceAt draws a translucent piece, used for the drag origin.
func (sm *SpriteManager) DrawFadedPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sm.drawPiece(screen, p, x, y, 0.35)
}

func (sm *SpriteManager) drawPiece(screen *ebiten.Image, p board.Piece, x, y int, alpha float32) {
	if p.IsEmpty() {
		return
	}
	sprite := sm.pieces[pieceKey{Type: p.Type, Color: p.Color}]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
