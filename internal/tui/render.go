package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// Each tile is drawn two cells wide and one cell tall so the arena keeps
// roughly its aspect ratio in a terminal.
const (
	cellsPerTileX = 2
	cellsPerTileY = 1
	arenaTop      = 1 // HUD line sits above the arena
	feedLines     = 5
)

var (
	styleDefault = tcell.StyleDefault
	styleBrick   = tcell.StyleDefault.Foreground(tcell.ColorMaroon).Background(tcell.ColorDarkRed)
	styleSteel   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorGray)
	styleBase    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleRubble  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleShell   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFreeze  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorSlateGray)
)

var variantStyles = map[string]tcell.Style{
	"player1": tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	"player2": tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true),
	"normal":  tcell.StyleDefault.Foreground(tcell.ColorSilver),
	"fast":    tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue),
	"armored": tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
}

var pickupGlyphs = map[string]rune{"shield": 'S', "life": 'L', "rapid": 'R', "freeze": 'F'}

// headingGlyph maps compass degrees to an arrow.
func headingGlyph(h int) rune {
	switch sim.Heading(h) {
	case sim.HeadingRight:
		return '>'
	case sim.HeadingDown:
		return 'v'
	case sim.HeadingLeft:
		return '<'
	default:
		return '^'
	}
}

// cellOf converts an arena point to a screen cell inside the border.
func cellOf(snap *sim.Snapshot, x, y float64) (int, int) {
	cw := snap.TileSize / cellsPerTileX
	ch := snap.TileSize / cellsPerTileY
	return 1 + int(x/cw), arenaTop + 1 + int(y/ch)
}

// ArenaSize is the number of cells the arena and its border take.
func ArenaSize(cols, rows int) (int, int) {
	return cols*cellsPerTileX + 2, rows*cellsPerTileY + 2
}

func putString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// Render draws the snapshot, the HUD line and the recent event lines.
func Render(s tcell.Screen, snap *sim.Snapshot, feed []string) {
	w, h := ArenaSize(snap.Cols, snap.Rows)
	putString(s, 0, 0, hudLine(snap.Summary), styleHUD)
	if snap.Summary.Frozen > 0 {
		msg := fmt.Sprintf("FREEZE %.1fs", snap.Summary.Frozen.Seconds())
		putString(s, w-len(msg), 0, msg, styleFreeze)
	}

	for x := 0; x < w; x++ {
		s.SetContent(x, arenaTop, '-', nil, styleBorder)
		s.SetContent(x, arenaTop+h-1, '-', nil, styleBorder)
	}
	for y := arenaTop + 1; y < arenaTop+h-1; y++ {
		s.SetContent(0, y, '|', nil, styleBorder)
		s.SetContent(w-1, y, '|', nil, styleBorder)
	}

	for r := 0; r < snap.Rows; r++ {
		for c := 0; c < snap.Cols; c++ {
			var glyph rune
			style := styleDefault
			switch snap.TileAt(r, c) {
			case sim.TileBrick:
				glyph, style = '#', styleBrick
			case sim.TileSteel:
				glyph, style = '=', styleSteel
			default:
				continue
			}
			x0, y0 := 1+c*cellsPerTileX, arenaTop+1+r*cellsPerTileY
			for dx := 0; dx < cellsPerTileX; dx++ {
				for dy := 0; dy < cellsPerTileY; dy++ {
					s.SetContent(x0+dx, y0+dy, glyph, nil, style)
				}
			}
		}
	}

	ob := snap.Objective
	bx, by := cellOf(snap, ob.X+ob.W/2, ob.Y+ob.H/2)
	if snap.ObjectiveUp {
		s.SetContent(bx, by, '@', nil, styleBase)
	} else {
		s.SetContent(bx, by, 'x', nil, styleRubble)
	}

	for _, p := range snap.Pickups {
		x, y := cellOf(snap, p.X+p.W/2, p.Y+p.H/2)
		s.SetContent(x, y, pickupGlyphs[p.Kind], nil, styleFreeze.Reverse(true))
	}

	frozen := snap.Summary.Frozen > 0
	for _, t := range snap.Tanks {
		if !t.Alive {
			continue
		}
		x, y := cellOf(snap, t.X+t.W/2, t.Y+t.H/2)
		style := variantStyles[t.Variant]
		if frozen && t.Faction == "enemy" {
			style = styleFreeze
		}
		if t.Shield > 0 {
			style = style.Reverse(true)
		}
		s.SetContent(x, y, headingGlyph(t.Heading), nil, style)
	}

	for _, p := range snap.Projectiles {
		x, y := cellOf(snap, p.X+p.Size/2, p.Y+p.Size/2)
		s.SetContent(x, y, '*', nil, styleShell)
	}

	for i, line := range feed {
		putString(s, 0, arenaTop+h+i, line, styleDim)
	}
}

// RenderPanel draws centred text lines, used for menus and game over.
func RenderPanel(s tcell.Screen, lines []string) {
	w, h := s.Size()
	top := (h - len(lines)) / 2
	for i, l := range lines {
		x := (w - len(l)) / 2
		if x < 0 {
			x = 0
		}
		style := styleDim
		if i == 0 {
			style = styleHUD
		}
		putString(s, x, top+i, l, style)
	}
}

func hudLine(sum sim.Summary) string {
	line := fmt.Sprintf("WAVE %d  enemies %d", sum.Wave, sum.EnemiesAlive)
	if sum.ToSpawn > 0 {
		line += fmt.Sprintf(" (+%d)", sum.ToSpawn)
	}
	if sum.Shared {
		return line + fmt.Sprintf(" | TEAM lives %d score %d", sum.SharedLives, sum.SharedScore)
	}
	for _, p := range sum.Players {
		line += fmt.Sprintf(" | P%d lives %d score %d", p.ID, p.Lives, p.Score)
	}
	return line
}
