package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/game"
)

// Panel dimensions
const (
	PanelPadding    = 20
	SectionSpacing  = 24
	ButtonHeight    = 36
	TabHeight       = 30
	SectionLabelH   = 20
	CapturedSize    = 22
	MoveRowHeight   = 22
	StatusBarHeight = 78
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
	statusCheck     = color.RGBA{255, 120, 120, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

func (b *Button) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

// Panel is the side panel with controls, captured pieces and the move list.
type Panel struct {
	game     *Game
	fonts    *Fonts
	captured *SpriteManager

	newGameBtn *Button
	colorBtn   *Button
	exportBtn  *Button
	modeTabs   []*Button // [0] = vs Human, [1] = vs Computer
	diffTabs   []*Button // Indexed by engine.Difficulty

	// Move history scroll
	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game, fonts *Fonts, captured *SpriteManager) *Panel {
	p := &Panel{game: g, fonts: fonts, captured: captured}
	p.createButtons()
	return p
}

// createButtons lays out all panel buttons.
func (p *Panel) createButtons() {
	contentX := BoardSize + PanelPadding
	contentW := PanelWidth - PanelPadding*2
	halfW := contentW / 2

	y := PanelPadding
	p.newGameBtn = &Button{
		X: contentX, Y: y, W: contentW, H: ButtonHeight,
		Label:   "New Game",
		OnClick: p.game.NewGameAction,
	}

	y += ButtonHeight + 8
	p.colorBtn = &Button{
		X: contentX, Y: y, W: halfW - 4, H: ButtonHeight - 6,
		OnClick: p.game.TogglePlayerColor,
	}
	p.exportBtn = &Button{
		X: contentX + halfW + 4, Y: y, W: halfW - 4, H: ButtonHeight - 6,
		Label:   "Export PGN",
		OnClick: p.game.ExportPGNAction,
	}

	y += ButtonHeight - 6 + SectionSpacing + SectionLabelH
	p.modeTabs = []*Button{
		{X: contentX, Y: y, W: halfW, H: TabHeight, Label: "vs Human",
			OnClick: func() { p.game.SetModeAction(game.HumanVsHuman) }},
		{X: contentX + halfW, Y: y, W: halfW, H: TabHeight, Label: "vs Computer",
			OnClick: func() { p.game.SetModeAction(game.HumanVsComputer) }},
	}

	y += TabHeight + SectionSpacing + SectionLabelH
	thirdW := contentW / 3
	p.diffTabs = nil
	for i, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard} {
		d := d
		p.diffTabs = append(p.diffTabs, &Button{
			X: contentX + thirdW*i, Y: y, W: thirdW, H: TabHeight,
			Label:   difficultyLabel(d),
			OnClick: func() { p.game.SetDifficultyAction(d) },
		})
	}
}

func difficultyLabel(d engine.Difficulty) string {
	switch d {
	case engine.Easy:
		return "Easy"
	case engine.Hard:
		return "Hard"
	default:
		return "Medium"
	}
}

// buttons returns the buttons that currently accept clicks.
func (p *Panel) buttons() []*Button {
	btns := []*Button{p.newGameBtn, p.colorBtn, p.exportBtn}
	btns = append(btns, p.modeTabs...)
	if p.game.Mode() == game.HumanVsComputer {
		btns = append(btns, p.diffTabs...)
	}
	return btns
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if wheel := input.Wheel(); wheel != 0 && mx >= BoardSize && my >= p.historyStartY() {
		p.scrollY -= int(wheel * 30)
		p.scrollY = max(0, min(p.scrollY, p.maxScrollY))
	}

	var clicked *Button
	for _, btn := range p.buttons() {
		btn.hovered = btn.contains(mx, my)
		btn.pressed = input.IsLeftPressed() && btn.hovered
		if input.IsLeftJustPressed() && btn.hovered {
			clicked = btn
		}
	}

	if clicked != nil {
		clicked.OnClick()
		return true
	}
	return false
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons() {
		if btn.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, float32(BoardSize), 0, float32(PanelWidth), float32(ScreenHeight), panelBg, false)

	p.drawPrimaryButton(screen, p.newGameBtn)

	p.colorBtn.Label = "Play " + p.game.PlayerColor().Other().String()
	p.drawSecondaryButton(screen, p.colorBtn)
	p.drawSecondaryButton(screen, p.exportBtn)

	p.drawSectionLabel(screen, "Game Mode", p.modeTabs[0].Y-SectionLabelH)
	for i, btn := range p.modeTabs {
		p.drawTab(screen, btn, game.Mode(i) == p.game.Mode())
	}

	if p.game.Mode() == game.HumanVsComputer {
		p.drawSectionLabel(screen, "Difficulty", p.diffTabs[0].Y-SectionLabelH)
		for i, btn := range p.diffTabs {
			p.drawTab(screen, btn, engine.Difficulty(i) == p.game.Difficulty())
		}
	}

	capturedY := p.capturedStartY()
	p.drawSectionLabel(screen, "Captured", capturedY)
	p.drawCaptured(screen, capturedY+SectionLabelH)

	historyY := p.historyStartY()
	p.drawSectionLabel(screen, "Moves", historyY-SectionLabelH)
	p.drawMoveHistory(screen, historyY)

	p.drawStatusBar(screen)
}

func (p *Panel) capturedStartY() int {
	last := p.modeTabs[0]
	if p.game.Mode() == game.HumanVsComputer {
		last = p.diffTabs[0]
	}
	return last.Y + last.H + SectionSpacing - 4
}

func (p *Panel) historyStartY() int {
	return p.capturedStartY() + SectionLabelH + 2*(CapturedSize+4) + SectionSpacing + SectionLabelH
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	bgColor := accentColor
	if btn.pressed {
		bgColor = accentPressed
	} else if btn.hovered {
		bgColor = accentHover
	}

	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, false)
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1, accentPressed, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textPrimary)
}

func (p *Panel) drawSecondaryButton(screen *ebiten.Image, btn *Button) {
	bgColor := buttonBg
	if btn.pressed {
		bgColor = buttonPressedBg
	} else if btn.hovered {
		bgColor = buttonHoverBg
	}

	borderC := buttonBorder
	if btn.hovered {
		borderC = accentColor
	}

	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, false)
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1, borderC, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textSecondary)
}

func (p *Panel) drawTab(screen *ebiten.Image, btn *Button, active bool) {
	bgColor := tabInactiveBg
	borderC := buttonBorder
	textColor := textSecondary

	switch {
	case active:
		bgColor, borderC, textColor = tabActiveBg, tabActiveBg, textPrimary
	case btn.pressed:
		bgColor = buttonPressedBg
	case btn.hovered:
		bgColor, borderC = tabHoverBg, accentColor
	}

	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, false)
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1, borderC, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textColor)
}

func (p *Panel) drawSectionLabel(screen *ebiten.Image, label string, y int) {
	p.drawText(screen, label, BoardSize+PanelPadding, y, textMuted)
}

// drawCaptured shows the pieces each side has taken, one row per side.
func (p *Panel) drawCaptured(screen *ebiten.Image, y int) {
	x0 := BoardSize + PanelPadding
	for _, c := range []board.Color{board.White, board.Black} {
		x := x0
		// Pieces of color c.Other() taken by c.
		for _, pt := range p.game.Captured(c.Other()) {
			p.captured.DrawPieceAt(screen, board.NewPiece(pt, c.Other()), x, y)
			x += CapturedSize - 6
		}
		y += CapturedSize + 4
	}
}

func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	moves := p.game.SANHistory()
	if len(moves) == 0 {
		p.drawText(screen, "No moves yet", BoardSize+PanelPadding, startY+5, textMuted)
		return
	}

	x := BoardSize + PanelPadding
	maxY := ScreenHeight - StatusBarHeight
	visibleHeight := maxY - startY

	totalRows := (len(moves) + 1) / 2
	contentHeight := totalRows * MoveRowHeight
	p.maxScrollY = max(0, contentHeight-visibleHeight)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	startRow := p.scrollY / MoveRowHeight
	y := startY - (p.scrollY % MoveRowHeight)

	for i := startRow * 2; i < len(moves); i += 2 {
		if y > maxY-MoveRowHeight {
			break
		}
		if y >= startY {
			if (i/2)%2 == 1 {
				vector.DrawFilledRect(screen, float32(x-4), float32(y-2),
					float32(PanelWidth-PanelPadding*2+8), float32(MoveRowHeight), moveRowAlt, false)
			}
			p.drawText(screen, fmt.Sprintf("%d.", i/2+1), x, y, textMuted)
			p.drawText(screen, moves[i], x+36, y, textPrimary)
			if i+1 < len(moves) {
				p.drawText(screen, moves[i+1], x+130, y, textPrimary)
			}
		}
		y += MoveRowHeight
	}

	if p.maxScrollY > 0 {
		scrollPct := float32(p.scrollY) / float32(p.maxScrollY)
		indicatorH := max(20, float32(visibleHeight)*float32(visibleHeight)/float32(contentHeight))
		indicatorY := float32(startY) + scrollPct*(float32(visibleHeight)-indicatorH)
		vector.DrawFilledRect(screen, float32(BoardSize+PanelWidth-8), indicatorY, 4, indicatorH, textMuted, false)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := ScreenHeight - StatusBarHeight + 10
	x := BoardSize + PanelPadding

	vector.DrawFilledRect(screen, float32(x), float32(statusY-10),
		float32(PanelWidth-PanelPadding*2), 1, dividerColor, false)

	statusText, statusColor := p.game.StatusText(), textPrimary
	switch {
	case p.game.IsOver():
		statusColor = statusGameOver
	case p.game.IsAIThinking():
		statusColor = statusThinking
	case p.game.InCheck():
		statusColor = statusCheck
	}
	p.drawText(screen, statusText, x, statusY, statusColor)

	if info, ok := p.game.LastSearch(); ok {
		eval := "Computer: " + engine.ScoreToString(info)
		if !info.Random {
			eval += fmt.Sprintf("  (%d nodes)", info.Nodes)
		}
		p.drawText(screen, eval, x, statusY+22, textSecondary)
	}

	if msg := p.game.Notice(); msg != "" {
		p.drawText(screen, msg, x, statusY+44, textMuted)
	}
}

// Text drawing helpers
func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, p.fonts.Regular, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, centerX, centerY int, c color.Color) {
	w, h := MeasureText(s, p.fonts.Regular)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(centerX)-w/2, float64(centerY)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, p.fonts.Regular, op)
}
