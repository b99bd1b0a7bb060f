package sim

import (
	"math"
	"time"
)

// ImpactKind says what ended (or did not end) a projectile's flight this tick.
type ImpactKind int

const (
	ImpactNone       ImpactKind = iota // still flying
	ImpactOutOfArena                   // left the arena
	ImpactBrick                        // cleared a destructible tile
	ImpactSteel                        // stopped by an indestructible tile
	ImpactObjective                    // struck the objective
)

func (k ImpactKind) String() string {
	switch k {
	case ImpactNone:
		return "none"
	case ImpactOutOfArena:
		return "out_of_arena"
	case ImpactBrick:
		return "brick"
	case ImpactSteel:
		return "steel"
	case ImpactObjective:
		return "objective"
	default:
		return "unknown"
	}
}

// Impact describes a terrain or objective hit.
type Impact struct {
	Kind ImpactKind
	Row  int
	Col  int
	X, Y float64
	// ObjectiveDestroyed is true only for the hit that knocked the objective down.
	ObjectiveDestroyed bool
}

// Projectile is a shell in straight-line flight. X, Y is its centre.
type Projectile struct {
	X, Y    float64
	Heading Heading
	Speed   float64 // units per second
	Size    float64
	Faction Faction
	Shooter PlayerID // NoPlayer for AI shots
	Active  bool
}

// Box returns the square hit box centred on the projectile.
func (p *Projectile) Box() Rect {
	return Rect{X: p.X - p.Size/2, Y: p.Y - p.Size/2, W: p.Size, H: p.Size}
}

// Advance flies the projectile for dt and resolves terrain and objective
// contact. Travel is split into substeps of at most maxStep units so fast
// shells cannot skip a tile on a long tick. Tank hits are not handled here;
// the session resolves them after every projectile has moved.
func (p *Projectile) Advance(dt time.Duration, maxStep float64, g *Grid, obj *Objective) Impact {
	if !p.Active {
		return Impact{}
	}
	dist := p.Speed * dt.Seconds()
	if dist <= 0 {
		return Impact{}
	}
	steps := int(math.Ceil(dist / maxStep))
	stride := dist / float64(steps)
	dx, dy := p.Heading.Vector()
	arena := g.Bounds()

	for i := 0; i < steps; i++ {
		p.X += dx * stride
		p.Y += dy * stride

		if p.X < 0 || p.X > arena.W || p.Y < 0 || p.Y > arena.H {
			p.Active = false
			return Impact{Kind: ImpactOutOfArena, X: p.X, Y: p.Y}
		}

		if ref, ok := g.TileAt(p.X, p.Y); ok && ref.Kind != TileEmpty {
			p.Active = false
			hit := Impact{Kind: ImpactSteel, Row: ref.Row, Col: ref.Col, X: p.X, Y: p.Y}
			if ref.Kind == TileBrick {
				g.SetTile(ref.Row, ref.Col, TileEmpty)
				hit.Kind = ImpactBrick
			}
			return hit
		}

		if obj != nil && p.Box().Intersects(obj.Box) {
			p.Active = false
			return Impact{Kind: ImpactObjective, X: p.X, Y: p.Y, ObjectiveDestroyed: obj.Destroy()}
		}
	}
	return Impact{}
}
