package sim

// TankView is the render-facing state of one tank.
type TankView struct {
	ID      int     `json:"id"`
	Label   string  `json:"label"`
	Faction string  `json:"faction"`
	Variant string  `json:"variant"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Heading int     `json:"heading"`
	Health  int     `json:"health"`
	Alive   bool    `json:"alive"`
	Shield  float64 `json:"shield,omitempty"` // seconds remaining
	Rapid   float64 `json:"rapid,omitempty"`  // seconds remaining
}

// ProjectileView is the render-facing state of one shell.
type ProjectileView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Heading int     `json:"heading"`
	Faction string  `json:"faction"`
}

// PickupView is the render-facing state of one pickup.
type PickupView struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	TTL  float64 `json:"ttl"` // seconds remaining
}

// Snapshot is a self-contained copy of everything a renderer or a remote
// spectator needs for one frame.
type Snapshot struct {
	Tick        int              `json:"tick"`
	Mode        string           `json:"mode"`
	Cols        int              `json:"cols"`
	Rows        int              `json:"rows"`
	TileSize    float64          `json:"tileSize"`
	Tiles       []string         `json:"tiles"` // one string per row, see TileGlyph
	Objective   Rect             `json:"objective"`
	ObjectiveUp bool             `json:"objectiveAlive"`
	Tanks       []TankView       `json:"tanks"`
	Projectiles []ProjectileView `json:"projectiles"`
	Pickups     []PickupView     `json:"pickups"`
	Summary     Summary          `json:"summary"`
	Outcome     Outcome          `json:"outcome"`
}

// Snapshot copies the current state. The result shares nothing with the
// session and may be handed to another goroutine.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Mode:        s.mode.String(),
		Cols:        s.Grid.Cols,
		Rows:        s.Grid.Rows,
		TileSize:    s.Grid.Size,
		Tiles:       tileRows(s.Grid),
		Objective:   s.Objective.Box,
		ObjectiveUp: s.Objective.Alive(),
		Summary:     s.Summary(),
		Outcome:     s.outcome,
	}
	for _, list := range [2][]*Tank{s.Players, s.Enemies} {
		for _, t := range list {
			snap.Tanks = append(snap.Tanks, viewTank(t))
		}
	}
	for _, p := range s.Projectiles {
		if !p.Active {
			continue
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			X: p.X, Y: p.Y, Size: p.Size, Heading: int(p.Heading), Faction: p.Faction.String(),
		})
	}
	for _, p := range s.Pickups {
		if !p.Active {
			continue
		}
		snap.Pickups = append(snap.Pickups, PickupView{
			Kind: p.Kind.String(), X: p.Box.X, Y: p.Box.Y, W: p.Box.W, H: p.Box.H, TTL: p.TTL.Seconds(),
		})
	}
	return snap
}

// tileGlyphs encodes terrain compactly for the wire and for terminals.
var tileGlyphs = [...]byte{TileEmpty: '.', TileBrick: 'b', TileSteel: 's'}

// TileGlyph returns the snapshot character for a tile kind.
func TileGlyph(t Tile) byte {
	if int(t) >= len(tileGlyphs) {
		return '?'
	}
	return tileGlyphs[t]
}

func tileRows(g *Grid) []string {
	rows := make([]string, g.Rows)
	line := make([]byte, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			line[c] = TileGlyph(g.Kind(r, c))
		}
		rows[r] = string(line)
	}
	return rows
}

// TileAt decodes the tile at (row, col). Out-of-range cells read as empty.
func (snap Snapshot) TileAt(row, col int) Tile {
	if row < 0 || row >= len(snap.Tiles) || col < 0 || col >= len(snap.Tiles[row]) {
		return TileEmpty
	}
	switch snap.Tiles[row][col] {
	case 'b':
		return TileBrick
	case 's':
		return TileSteel
	default:
		return TileEmpty
	}
}

func viewTank(t *Tank) TankView {
	return TankView{
		ID:      t.ID,
		Label:   t.Label,
		Faction: t.Faction.String(),
		Variant: t.Variant.String(),
		X:       t.X,
		Y:       t.Y,
		W:       t.W,
		H:       t.H,
		Heading: int(t.Heading),
		Health:  t.Health,
		Alive:   t.Alive,
		Shield:  t.shield.Seconds(),
		Rapid:   t.rapid.Seconds(),
	}
}
