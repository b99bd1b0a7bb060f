package sim

import "math"

// Tile identifies the terrain occupying one grid cell.
type Tile uint8

const (
	TileEmpty Tile = iota // open ground
	TileBrick             // destructible wall
	TileSteel             // indestructible wall
)

func (t Tile) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileBrick:
		return "brick"
	case TileSteel:
		return "steel"
	default:
		return "unknown"
	}
}

// TileRef is the result of a point query: the tile kind plus the cell holding it.
type TileRef struct {
	Kind Tile
	Row  int
	Col  int
}

// Grid is the authoritative terrain of one round.
type Grid struct {
	Cols    int
	Rows    int
	Size    float64 // units per tile edge
	Epsilon float64 // inward shrink applied by Collides
	tiles   []Tile  // row-major: index = row*Cols + col
}

// NewGrid creates an all-empty grid.
func NewGrid(cols, rows int, size float64) *Grid {
	return &Grid{
		Cols:    cols,
		Rows:    rows,
		Size:    size,
		Epsilon: 0.5,
		tiles:   make([]Tile, cols*rows),
	}
}

// inBounds returns true if (row, col) is within the grid.
func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// Bounds returns the arena rectangle covered by the grid.
func (g *Grid) Bounds() Rect {
	return Rect{W: float64(g.Cols) * g.Size, H: float64(g.Rows) * g.Size}
}

// Kind returns the tile at (row, col); out-of-bounds cells read as empty.
func (g *Grid) Kind(row, col int) Tile {
	if !g.inBounds(row, col) {
		return TileEmpty
	}
	return g.tiles[row*g.Cols+col]
}

// TileAt returns the tile under world point (x, y). ok is false outside the grid.
func (g *Grid) TileAt(x, y float64) (ref TileRef, ok bool) {
	col := int(math.Floor(x / g.Size))
	row := int(math.Floor(y / g.Size))
	if !g.inBounds(row, col) {
		return TileRef{}, false
	}
	return TileRef{Kind: g.tiles[row*g.Cols+col], Row: row, Col: col}, true
}

// SetTile overwrites one cell. Out-of-bounds writes are ignored.
func (g *Grid) SetTile(row, col int, kind Tile) {
	if !g.inBounds(row, col) {
		return
	}
	g.tiles[row*g.Cols+col] = kind
}

// Collides reports whether the box (x, y, w, h) covers any non-empty cell.
// Every edge is pulled inward by Epsilon so a box lying exactly on a tile
// seam does not touch the neighbouring cell through rounding.
func (g *Grid) Collides(x, y, w, h float64) bool {
	eps := g.Epsilon
	c1 := int(math.Floor((x + eps) / g.Size))
	c2 := int(math.Floor((x + w - eps) / g.Size))
	r1 := int(math.Floor((y + eps) / g.Size))
	r2 := int(math.Floor((y + h - eps) / g.Size))
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if g.inBounds(r, c) && g.tiles[r*g.Cols+c] != TileEmpty {
				return true
			}
		}
	}
	return false
}

// Count returns how many cells hold the given tile kind.
func (g *Grid) Count(kind Tile) int {
	n := 0
	for _, t := range g.tiles {
		if t == kind {
			n++
		}
	}
	return n
}

// Tiles returns a copy of the row-major tile array.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Generate fills the interior with random brick and steel and carves the
// brick cover around the objective at (objRow, objCol). The border margins
// stay empty so spawn rows are always open.
func (g *Grid) Generate(rng Rand, tu Tuning, objRow, objCol int) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if r < tu.MarginTop || r > g.Rows-1-tu.MarginBot || c < tu.MarginSide || c > g.Cols-1-tu.MarginSide {
				g.tiles[r*g.Cols+c] = TileEmpty
				continue
			}
			roll := rng.Float64()
			switch {
			case roll < tu.BrickChance:
				g.tiles[r*g.Cols+c] = TileBrick
			case roll < tu.BrickChance+tu.SteelChance:
				g.tiles[r*g.Cols+c] = TileSteel
			default:
				g.tiles[r*g.Cols+c] = TileEmpty
			}
		}
	}
	g.fortify(objRow, objCol)
}

// fortify lays the horseshoe of bricks beside and above the objective cell.
func (g *Grid) fortify(objRow, objCol int) {
	g.SetTile(objRow, objCol-1, TileBrick)
	g.SetTile(objRow-1, objCol-1, TileBrick)
	g.SetTile(objRow-1, objCol, TileBrick)
	g.SetTile(objRow-1, objCol+1, TileBrick)
	g.SetTile(objRow, objCol+1, TileBrick)
}
