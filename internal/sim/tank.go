package sim

import (
	"fmt"
	"time"
)

// Faction separates player-aligned tanks from AI-aligned ones for collision
// and damage eligibility.
type Faction int

const (
	FactionAlly  Faction = iota // player-aligned
	FactionEnemy                // AI-aligned
)

func (f Faction) String() string {
	if f == FactionAlly {
		return "ally"
	}
	return "enemy"
}

// Variant is the visual and statistical flavour of a tank.
type Variant int

const (
	VariantPlayer1 Variant = iota
	VariantPlayer2
	VariantEnemyNormal
	VariantEnemyFast
	VariantEnemyArmored
)

// enemyPool is ordered by the wave in which each variant unlocks.
var enemyPool = [3]Variant{VariantEnemyNormal, VariantEnemyFast, VariantEnemyArmored}

func (v Variant) String() string {
	switch v {
	case VariantPlayer1:
		return "player1"
	case VariantPlayer2:
		return "player2"
	case VariantEnemyNormal:
		return "normal"
	case VariantEnemyFast:
		return "fast"
	case VariantEnemyArmored:
		return "armored"
	default:
		return "unknown"
	}
}

// PlayerID identifies a human-controlled tank. NoPlayer marks AI shots and
// "no winner".
type PlayerID int

const NoPlayer PlayerID = 0

// Pilot is the identity and scoring attachment carried by player tanks.
// In cooperative play Lives and Score stay unused; the session pool applies.
type Pilot struct {
	ID    PlayerID
	Lives int
	Score int
}

// Tank is any moving combat entity. Behaviour differences between player and
// AI tanks live entirely in the Controller.
type Tank struct {
	ID      int
	Label   string // short tag for logs, e.g. "P1", "E7"
	Faction Faction
	Variant Variant

	X, Y    float64 // top-left corner
	W, H    float64 // fixed after construction
	Heading Heading
	Speed   float64 // units per second
	Health  int
	Alive   bool

	Pilot      *Pilot     // nil for AI tanks
	Controller Controller // decides movement and firing each tick

	cooldown     time.Duration // time until the next shot is allowed
	cooldownDur  time.Duration // current reload time (pickups may shorten it)
	baseCooldown time.Duration // reload time restored when rapid fire ends
	rapid        time.Duration // remaining rapid-fire effect
	shield       time.Duration // remaining invulnerability
}

// newTank builds a live tank of the tuning's standard footprint.
func newTank(id int, faction Faction, variant Variant, x, y float64, tu Tuning) *Tank {
	t := &Tank{
		ID:           id,
		Faction:      faction,
		Variant:      variant,
		X:            x,
		Y:            y,
		W:            tu.TankSize,
		H:            tu.TankSize,
		Heading:      HeadingUp,
		Speed:        tu.TankSpeed,
		Health:       1,
		Alive:        true,
		cooldownDur:  tu.FireCooldown,
		baseCooldown: tu.FireCooldown,
	}
	switch variant {
	case VariantEnemyFast:
		t.Speed = tu.FastTankSpeed
	case VariantEnemyArmored:
		t.Health = tu.ArmoredHealth
	}
	if faction == FactionAlly {
		t.Label = fmt.Sprintf("P%d", int(variant-VariantPlayer1)+1)
	} else {
		t.Label = fmt.Sprintf("E%d", id)
	}
	return t
}

// Box returns the full footprint.
func (t *Tank) Box() Rect { return Rect{X: t.X, Y: t.Y, W: t.W, H: t.H} }

// Center returns the midpoint of the footprint.
func (t *Tank) Center() (x, y float64) { return t.X + t.W/2, t.Y + t.H/2 }

// Shielded reports whether hits are currently ignored.
func (t *Tank) Shielded() bool { return t.shield > 0 }

// ShieldRemaining returns the remaining invulnerability.
func (t *Tank) ShieldRemaining() time.Duration { return t.shield }

// CooldownDuration returns the reload time applied after each shot.
func (t *Tank) CooldownDuration() time.Duration { return t.cooldownDur }

// RapidRemaining returns the remaining rapid-fire effect.
func (t *Tank) RapidRemaining() time.Duration { return t.rapid }

// CanFire reports whether the reload timer has elapsed.
func (t *Tank) CanFire() bool { return t.cooldown <= 0 }

// Fire spawns a projectile from the tank's centre along its heading. It
// returns nil while the reload timer is running.
func (t *Tank) Fire(tu Tuning) *Projectile {
	if !t.Alive || t.cooldown > 0 {
		return nil
	}
	cx, cy := t.Center()
	p := &Projectile{
		X:       cx,
		Y:       cy,
		Heading: t.Heading,
		Speed:   tu.BulletSpeed,
		Size:    tu.BulletSize,
		Faction: t.Faction,
		Active:  true,
	}
	if t.Pilot != nil {
		p.Shooter = t.Pilot.ID
	}
	t.cooldown = t.cooldownDur
	return p
}

// TickTimers counts down reload, shield and rapid-fire timers. Rapid fire
// restores the base reload time the moment it runs out.
func (t *Tank) TickTimers(dt time.Duration) {
	if t.cooldown > 0 {
		t.cooldown -= dt
	}
	if t.shield > 0 {
		t.shield -= dt
		if t.shield < 0 {
			t.shield = 0
		}
	}
	if t.rapid > 0 {
		t.rapid -= dt
		if t.rapid <= 0 {
			t.rapid = 0
			t.cooldownDur = t.baseCooldown
		}
	}
}

// ApplyRapidFire shortens the reload time for the given duration.
func (t *Tank) ApplyRapidFire(cooldown, d time.Duration) {
	t.cooldownDur = cooldown
	t.rapid = d
}

// GrantShield sets the invulnerability timer, never shortening an active one.
func (t *Tank) GrantShield(d time.Duration) {
	if d > t.shield {
		t.shield = d
	}
}

// Objective is the fixed structure the players defend.
type Objective struct {
	Box   Rect
	alive bool
}

// NewObjective places a live objective covering one tile at (row, col).
func NewObjective(row, col int, size float64) *Objective {
	return &Objective{
		Box:   Rect{X: float64(col) * size, Y: float64(row) * size, W: size, H: size},
		alive: true,
	}
}

// Alive reports whether the objective still stands.
func (o *Objective) Alive() bool { return o.alive }

// Destroy knocks the objective down. It returns true only for the call that
// actually destroyed it.
func (o *Objective) Destroy() bool {
	if !o.alive {
		return false
	}
	o.alive = false
	return true
}
