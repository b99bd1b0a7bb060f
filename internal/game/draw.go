package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// basicfont glyph metrics.
const (
	charW  = 7
	lineH  = 15
	ascent = 11
)

var (
	colBackground = color.RGBA{R: 14, G: 14, B: 18, A: 255}
	colGround     = color.RGBA{R: 24, G: 26, B: 24, A: 255}
	colGrid       = color.RGBA{R: 32, G: 36, B: 32, A: 255}
	colBrick      = color.RGBA{R: 168, G: 72, B: 40, A: 255}
	colMortar     = color.RGBA{R: 110, G: 48, B: 30, A: 255}
	colSteel      = color.RGBA{R: 150, G: 156, B: 164, A: 255}
	colSteelHi    = color.RGBA{R: 205, G: 210, B: 216, A: 255}
	colObjective  = color.RGBA{R: 232, G: 196, B: 64, A: 255}
	colRubble     = color.RGBA{R: 70, G: 60, B: 52, A: 255}
	colShell      = color.RGBA{R: 250, G: 250, B: 230, A: 255}
	colShield     = color.RGBA{R: 120, G: 200, B: 255, A: 200}
	colPanel      = color.RGBA{R: 6, G: 8, B: 12, A: 220}
	colPanelEdge  = color.RGBA{R: 80, G: 90, B: 120, A: 200}
	colText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colDim        = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colFreeze     = color.RGBA{R: 140, G: 190, B: 255, A: 255}
)

// variantColors are hull colours by variant name.
var variantColors = map[string]color.RGBA{
	"player1": {R: 220, G: 190, B: 60, A: 255},
	"player2": {R: 80, G: 190, B: 90, A: 255},
	"normal":  {R: 170, G: 170, B: 180, A: 255},
	"fast":    {R: 120, G: 160, B: 230, A: 255},
	"armored": {R: 200, G: 70, B: 70, A: 255},
}

var pickupColors = map[string]color.RGBA{
	"shield": {R: 90, G: 170, B: 255, A: 255},
	"life":   {R: 240, G: 90, B: 120, A: 255},
	"rapid":  {R: 250, G: 170, B: 40, A: 255},
	"freeze": {R: 170, G: 230, B: 255, A: 255},
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	var snap *sim.Snapshot
	if s := g.director.Session(); s != nil {
		v := s.Snapshot()
		snap = &v
	}

	vector.DrawFilledRect(screen, float32(g.offX), float32(g.offY), float32(g.arenaW), float32(g.arenaH), colGround, false)
	if snap != nil && g.director.Phase() != sim.PhaseMenu && g.director.Phase() != sim.PhaseModeSelect {
		g.drawArena(screen, snap)
		g.drawHUD(screen, snap)
	}
	vector.StrokeRect(screen, float32(g.offX)-1, float32(g.offY)-1, float32(g.arenaW)+2, float32(g.arenaH)+2, 2.0, colPanelEdge, false)

	g.feed.Draw(screen, g.offX+g.arenaW+borderWidth, g.height)

	switch g.director.Phase() {
	case sim.PhaseMenu:
		g.drawPanel(screen, []string{
			"BRICK BASTION",
			"",
			"Defend the base. Clear the waves.",
			"",
			"Enter  start",
			"Esc    quit",
		})
	case sim.PhaseModeSelect:
		g.drawPanel(screen, []string{
			"SELECT MODE",
			"",
			"1  single player",
			"2  cooperative (shared lives)",
			"3  versus",
			"",
			"P1: WASD + Space   P2: arrows + Enter",
		})
	case sim.PhasePaused:
		g.drawPanel(screen, []string{
			"PAUSED",
			"",
			"P / Esc  resume",
			"R        mode select",
			"M        main menu",
		})
	case sim.PhaseGameOver:
		lines := []string{"GAME OVER", ""}
		if snap != nil {
			lines = append(lines, snap.Summary.Headline, snap.Outcome.Description(),
				fmt.Sprintf("reached wave %d", snap.Summary.Wave))
		}
		lines = append(lines, "", "Enter  play again", "M      main menu", "C      copy summary")
		g.drawPanel(screen, lines)
	}

	if g.statusTTL > 0 {
		drawText(screen, g.status, g.offX+8, g.offY+g.arenaH-8, colFreeze)
	}
}

// --- Arena ---

func (g *Game) drawArena(screen *ebiten.Image, snap *sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)
	ts := float32(snap.TileSize)

	for c := 0; c <= snap.Cols; c++ {
		x := ox + float32(c)*ts
		vector.StrokeLine(screen, x, oy, x, oy+float32(g.arenaH), 1.0, colGrid, false)
	}
	for r := 0; r <= snap.Rows; r++ {
		y := oy + float32(r)*ts
		vector.StrokeLine(screen, ox, y, ox+float32(g.arenaW), y, 1.0, colGrid, false)
	}

	for r := 0; r < snap.Rows; r++ {
		for c := 0; c < snap.Cols; c++ {
			x, y := ox+float32(c)*ts, oy+float32(r)*ts
			switch snap.TileAt(r, c) {
			case sim.TileBrick:
				drawBrick(screen, x, y, ts)
			case sim.TileSteel:
				vector.DrawFilledRect(screen, x, y, ts, ts, colSteel, false)
				vector.StrokeRect(screen, x+3, y+3, ts-6, ts-6, 2.0, colSteelHi, false)
			}
		}
	}

	g.drawObjective(screen, snap)

	for _, p := range snap.Pickups {
		if p.TTL < 3 && int(p.TTL*6)%2 == 0 {
			continue // blink before expiry
		}
		x, y := ox+float32(p.X), oy+float32(p.Y)
		vector.DrawFilledRect(screen, x, y, float32(p.W), float32(p.H), pickupColors[p.Kind], false)
		vector.StrokeRect(screen, x, y, float32(p.W), float32(p.H), 1.5, colText, false)
		drawText(screen, strings.ToUpper(p.Kind[:1]), int(x+float32(p.W)/2)-charW/2, int(y+float32(p.H)/2)+ascent/2-1, color.Black)
	}

	frozen := snap.Summary.Frozen > 0
	for _, t := range snap.Tanks {
		if t.Alive {
			g.drawTank(screen, t, frozen && t.Faction == "enemy")
		}
	}

	for _, p := range snap.Projectiles {
		vector.DrawFilledRect(screen, ox+float32(p.X), oy+float32(p.Y), float32(p.Size), float32(p.Size), colShell, false)
	}
}

func drawBrick(screen *ebiten.Image, x, y, ts float32) {
	vector.DrawFilledRect(screen, x, y, ts, ts, colBrick, false)
	course := ts / 4
	for i := float32(1); i < 4; i++ {
		vector.StrokeLine(screen, x, y+i*course, x+ts, y+i*course, 1.0, colMortar, false)
	}
	for i := float32(0); i < 4; i++ {
		off := ts / 2
		if int(i)%2 == 1 {
			off = ts / 4
		}
		vector.StrokeLine(screen, x+off, y+i*course, x+off, y+(i+1)*course, 1.0, colMortar, false)
	}
}

func (g *Game) drawObjective(screen *ebiten.Image, snap *sim.Snapshot) {
	b := snap.Objective
	x, y := float32(g.offX)+float32(b.X), float32(g.offY)+float32(b.Y)
	w, h := float32(b.W), float32(b.H)
	if !snap.ObjectiveUp {
		vector.DrawFilledRect(screen, x, y, w, h, colRubble, false)
		vector.StrokeLine(screen, x, y, x+w, y+h, 2.0, color.Black, false)
		vector.StrokeLine(screen, x+w, y, x, y+h, 2.0, color.Black, false)
		return
	}
	vector.DrawFilledRect(screen, x+4, y+4, w-8, h-8, colObjective, false)
	cx, cy := x+w/2, y+h/2
	vector.DrawFilledCircle(screen, cx, cy, w/5, colBackground, false)
	vector.StrokeRect(screen, x+2, y+2, w-4, h-4, 2.0, colObjective, false)
}

func (g *Game) drawTank(screen *ebiten.Image, t sim.TankView, frozen bool) {
	x, y := float32(g.offX)+float32(t.X), float32(g.offY)+float32(t.Y)
	w, h := float32(t.W), float32(t.H)
	hull := variantColors[t.Variant]
	if frozen {
		hull = colFreeze
	}
	tread := color.RGBA{R: hull.R / 2, G: hull.G / 2, B: hull.B / 2, A: 255}

	heading := sim.Heading(t.Heading)
	if heading.Vertical() {
		vector.DrawFilledRect(screen, x, y, w/4, h, tread, false)
		vector.DrawFilledRect(screen, x+w*3/4, y, w/4, h, tread, false)
	} else {
		vector.DrawFilledRect(screen, x, y, w, h/4, tread, false)
		vector.DrawFilledRect(screen, x, y+h*3/4, w, h/4, tread, false)
	}
	vector.DrawFilledRect(screen, x+w/5, y+h/5, w*3/5, h*3/5, hull, false)

	cx, cy := x+w/2, y+h/2
	dx, dy := heading.Vector()
	vector.StrokeLine(screen, cx, cy, cx+float32(dx)*w*0.6, cy+float32(dy)*h*0.6, 4.0, tread, false)
	vector.DrawFilledCircle(screen, cx, cy, w/6, tread, false)

	if t.Faction == "enemy" && t.Health > 1 {
		for i := 0; i < t.Health; i++ {
			vector.DrawFilledRect(screen, x+float32(i)*6, y-5, 4, 3, hull, false)
		}
	}
	if t.Shield > 0 {
		vector.StrokeCircle(screen, cx, cy, w*0.75, 2.0, colShield, false)
	}
	if t.Faction == "ally" {
		drawText(screen, t.Label, int(x), int(y)-3, hull)
	}
}

// --- HUD ---

func (g *Game) drawHUD(screen *ebiten.Image, snap *sim.Snapshot) {
	drawText(screen, hudLine(snap.Summary), g.offX, hudBarHeight/2+ascent/2, colText)
	if snap.Summary.Frozen > 0 {
		msg := fmt.Sprintf("FREEZE %.1fs", snap.Summary.Frozen.Seconds())
		drawText(screen, msg, g.offX+g.arenaW-len(msg)*charW, hudBarHeight/2+ascent/2, colFreeze)
	}
}

// hudLine is the one-line status shown above the arena.
func hudLine(sum sim.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "WAVE %d  enemies %d", sum.Wave, sum.EnemiesAlive)
	if sum.ToSpawn > 0 {
		fmt.Fprintf(&sb, " (+%d)", sum.ToSpawn)
	}
	if sum.Shared {
		fmt.Fprintf(&sb, "  |  TEAM lives %d  score %d", sum.SharedLives, sum.SharedScore)
		return sb.String()
	}
	for _, p := range sum.Players {
		fmt.Fprintf(&sb, "  |  P%d lives %d  score %d", p.ID, p.Lives, p.Score)
		if !p.Alive {
			sb.WriteString(" OUT")
		}
	}
	return sb.String()
}

// drawPanel draws a centred box of text lines over the arena.
func (g *Game) drawPanel(screen *ebiten.Image, lines []string) {
	const padX, padY = 16, 12
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX) + (float32(g.arenaW)-boxW)/2
	by := float32(g.offY) + (float32(g.arenaH)-boxH)/2

	vector.DrawFilledRect(screen, bx, by, boxW, boxH, colPanel, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.5, colPanelEdge, false)
	for i, l := range lines {
		c := colText
		if i > 0 {
			c = colDim
		}
		drawText(screen, l, int(bx)+padX, int(by)+padY+i*lineH+ascent, c)
	}
}

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	text.Draw(screen, s, basicfont.Face7x13, x, y, c)
}
