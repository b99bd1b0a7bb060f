package sim

import (
	"math"
	"time"
)

// World is the shared state every subsystem reads during a tick: terrain,
// objective and the live entity lists. The Session owns exactly one.
type World struct {
	Tuning      Tuning
	Grid        *Grid
	Objective   *Objective
	Players     []*Tank
	Enemies     []*Tank
	Projectiles []*Projectile
	Pickups     []*Pickup
}

// Arena returns the playable rectangle.
func (w *World) Arena() Rect { return w.Grid.Bounds() }

// --- Occupancy ---

// CanOccupy reports whether tank t may stand with its top-left corner at
// (nx, ny). Checks, in order: arena bounds, terrain (shrunk by WallMargin so
// one-tile corridors are passable), the objective, then opposing tanks. The
// objective is tested against the same WallMargin-shrunk body as terrain, so
// tanks may brush its edge the way they brush walls; keep the two in step. AI
// tanks also block each other; player tanks never block each other here
// because multi-player overlap is resolved by separatePlayers.
func (w *World) CanOccupy(t *Tank, nx, ny float64) bool {
	tu := w.Tuning
	arena := w.Arena()
	if nx < 0 || ny < 0 || nx+t.W > arena.W || ny+t.H > arena.H {
		return false
	}

	body := Rect{X: nx, Y: ny, W: t.W, H: t.H}.Inset(tu.WallMargin)
	if w.Grid.Collides(body.X, body.Y, body.W, body.H) {
		return false
	}
	if w.Objective != nil && body.Intersects(w.Objective.Box) {
		return false
	}

	hull := Rect{X: nx, Y: ny, W: t.W, H: t.H}.Inset(tu.TankMargin)
	if t.Faction == FactionAlly {
		return !w.hullBlocked(t, hull, w.Enemies)
	}
	return !w.hullBlocked(t, hull, w.Players) && !w.hullBlocked(t, hull, w.Enemies)
}

// hullBlocked tests a shrunk hull against every live tank in list except t.
func (w *World) hullBlocked(t *Tank, hull Rect, list []*Tank) bool {
	for _, o := range list {
		if o == t || !o.Alive {
			continue
		}
		if hull.Intersects(o.Box().Inset(w.Tuning.TankMargin)) {
			return true
		}
	}
	return false
}

// --- Resolution ---

// AttemptMove moves t toward (tx, ty) as far as collisions allow. It tries
// the full displacement, then X-only and Y-only creeping in AxisStep
// increments, and finally the Unstick ring search around the current
// position. It returns false when t did not move.
func (w *World) AttemptMove(t *Tank, tx, ty float64) bool {
	if w.CanOccupy(t, tx, ty) {
		t.X, t.Y = tx, ty
		return true
	}

	ox, oy := t.X, t.Y
	if x, ok := w.creep(ox, tx, func(v float64) bool { return w.CanOccupy(t, v, oy) }); ok {
		t.X = x
		return true
	}
	if y, ok := w.creep(oy, ty, func(v float64) bool { return w.CanOccupy(t, ox, v) }); ok {
		t.Y = y
		return true
	}

	return w.Unstick(t)
}

// creep probes positions from 'from' toward 'to' in AxisStep increments,
// never past the target, and returns the first one fits accepts.
func (w *World) creep(from, to float64, fits func(float64) bool) (float64, bool) {
	dist := math.Abs(to - from)
	if dist <= 0.1 {
		return from, false
	}
	dir := 1.0
	if to < from {
		dir = -1
	}
	tu := w.Tuning
	for i := 1; i <= tu.AxisAttempts; i++ {
		step := tu.AxisStep * float64(i)
		if step >= dist {
			break
		}
		v := from + dir*step
		if fits(v) {
			return v, true
		}
	}
	return from, false
}

// unstickOffsets are the eight compass probes, scaled by the ring radius.
var unstickOffsets = [8][2]float64{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0}, // up, right, down, left
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1}, // diagonals
}

// Unstick searches rings of growing radius around t for the first legal
// position. On failure t stays where it is.
func (w *World) Unstick(t *Tank) bool {
	x, y, ok := w.ringSearch(t, t.X, t.Y, w.Tuning.UnstickStep, w.Tuning.UnstickRadius)
	if ok {
		t.X, t.Y = x, y
	}
	return ok
}

func (w *World) ringSearch(t *Tank, ox, oy, step, maxRadius float64) (float64, float64, bool) {
	for radius := step; radius <= maxRadius; radius += step {
		for _, d := range unstickOffsets {
			nx, ny := ox+d[0]*radius, oy+d[1]*radius
			if w.CanOccupy(t, nx, ny) {
				return nx, ny, true
			}
		}
	}
	return ox, oy, false
}

// --- Corridor centring ---

// snapCoord returns the nearest half-tile line for a coordinate, corrected so
// a tank smaller than a tile sits centred in the corridor.
func (w *World) snapCoord(t *Tank, v float64) float64 {
	half := w.Tuning.TileSize / 2
	offset := (w.Tuning.TileSize - t.W) / 2
	return math.Round((v-offset)/half)*half + offset
}

// SnapAxis aligns the off-axis coordinate of t to the corridor grid for a
// turn onto heading h. Moving vertically snaps X; moving horizontally snaps Y.
func (w *World) SnapAxis(t *Tank, h Heading) {
	if h.Vertical() {
		w.AttemptMove(t, w.snapCoord(t, t.X), t.Y)
		return
	}
	w.AttemptMove(t, t.X, w.snapCoord(t, t.Y))
}

// AlignToCorridor nudges a blocked tank toward the nearest corridor
// centreline on the off-axis. The step is proportional to dt at
// AlignSpeedMul times the tank speed and is skipped when the tank is already
// aligned or too far off for a nudge to make sense.
func (w *World) AlignToCorridor(t *Tank, h Heading, dt time.Duration) bool {
	tu := w.Tuning
	limit := t.Speed * dt.Seconds() * tu.AlignSpeedMul
	var diff float64
	if h.Vertical() {
		diff = w.snapCoord(t, t.X) - t.X
	} else {
		diff = w.snapCoord(t, t.Y) - t.Y
	}
	if math.Abs(diff) <= 0.5 || math.Abs(diff) >= tu.AlignMaxOffset {
		return false
	}
	step := math.Max(-limit, math.Min(limit, diff))
	if h.Vertical() {
		return w.AttemptMove(t, t.X+step, t.Y)
	}
	return w.AttemptMove(t, t.X, t.Y+step)
}

// --- Spawn placement ---

// PlaceAtSpawn puts t at (x, y) or the nearest legal spot around it. Lateral
// and upward shifts of RespawnStep are tried first, then a ring search of up
// to one tile. When nothing fits, t is placed on the canonical cell anyway;
// the generator keeps spawn rows free of terrain so only tanks can be in the
// way there. It returns false in that fallback case.
func (w *World) PlaceAtSpawn(t *Tank, x, y float64) bool {
	tu := w.Tuning
	if w.CanOccupy(t, x, y) {
		t.X, t.Y = x, y
		return true
	}
	for off := tu.RespawnStep; off <= tu.RespawnMaxShift; off += tu.RespawnStep {
		for _, c := range [3][2]float64{{x - off, y}, {x + off, y}, {x, y - off}} {
			if w.CanOccupy(t, c[0], c[1]) {
				t.X, t.Y = c[0], c[1]
				return true
			}
		}
	}
	if nx, ny, ok := w.ringSearch(t, x, y, tu.UnstickStep, tu.TileSize); ok {
		t.X, t.Y = nx, ny
		return true
	}
	t.X, t.Y = x, y
	return false
}

// separatePlayers pushes overlapping player tanks apart, half the push each,
// along the line between them. Pushes go through AttemptMove so terrain
// still wins.
func (w *World) separatePlayers() {
	m := w.Tuning.TankMargin
	for i := 0; i < len(w.Players); i++ {
		for j := i + 1; j < len(w.Players); j++ {
			a, b := w.Players[i], w.Players[j]
			if !a.Alive || !b.Alive {
				continue
			}
			if !a.Box().Inset(m).Intersects(b.Box().Inset(m)) {
				continue
			}
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				dx, dist = 1, 1
			}
			push := (a.W + m) / 2
			px, py := dx/dist*push/2, dy/dist*push/2
			w.AttemptMove(a, a.X-px, a.Y-py)
			w.AttemptMove(b, b.X+px, b.Y+py)
		}
	}
}
