package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Session is one round: terrain, objective, every live entity, the wave
// spawner, the mode policy and the outcome. It is advanced by Tick in a single
// fixed-order pass and is not safe for concurrent use.
type Session struct {
	World
	Waves WaveSpawner

	mode    Mode
	policy  ModePolicy
	rng     Rand
	input   InputSource
	logger  *log.Logger
	log     *EventLog
	events  []Event
	homes   map[PlayerID][2]float64
	freeze  time.Duration
	tick    int
	nextID  int
	outcome Outcome
	stats   Stats

	emptyArena bool
}

// --- Options ---

// optionKind controls the construction pass in which an option is applied.
type optionKind int

const (
	optInfra   optionKind = iota // tuning, randomness, logging: applied first
	optTerrain                   // tile edits: applied after the grid is generated
	optEntity                    // tank placement: applied after the players exist
	optHarness                   // harness-only settings, ignored by NewSession
)

// Option configures a Session (and, for a few, a Harness) at construction.
type Option struct {
	kind optionKind
	fn   func(*Session)
	hfn  func(*Harness)
}

// WithTuning replaces the default tuning.
func WithTuning(tu Tuning) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.Tuning = tu }}
}

// WithRand injects the randomness source.
func WithRand(r Rand) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.rng = r }}
}

// WithSeed seeds a math/rand source for deterministic runs.
func WithSeed(seed int64) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.rng = NewRand(seed) }}
}

// WithLogger routes process-level messages (waves, round end) to l.
func WithLogger(l *log.Logger) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.logger = l }}
}

// WithEventLog records every event of the session into el.
func WithEventLog(el *EventLog) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.log = el }}
}

// WithVerbose keeps high-frequency events (shots, AI goal changes) in the
// session's event log.
func WithVerbose(v bool) Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.log = NewEventLog(v) }}
}

// WithEmptyArena skips terrain generation, leaving every tile empty and the
// objective without its brick cover.
func WithEmptyArena() Option {
	return Option{kind: optInfra, fn: func(s *Session) { s.emptyArena = true }}
}

// WithTile sets one tile after generation.
func WithTile(row, col int, kind Tile) Option {
	return Option{kind: optTerrain, fn: func(s *Session) { s.Grid.SetTile(row, col, kind) }}
}

// WithTerrain runs fn over the grid after generation.
func WithTerrain(fn func(g *Grid)) Option {
	return Option{kind: optTerrain, fn: func(s *Session) { fn(s.Grid) }}
}

// WithEnemy places an AI tank of variant v at (x, y) before the first tick.
func WithEnemy(v Variant, x, y float64) Option {
	return Option{kind: optEntity, fn: func(s *Session) { s.addEnemy(v, x, y) }}
}

// WithPlayerAt moves player id to (x, y) before the first tick.
func WithPlayerAt(id PlayerID, x, y float64) Option {
	return Option{kind: optEntity, fn: func(s *Session) {
		if t := s.PlayerTank(id); t != nil {
			t.X, t.Y = x, y
		}
	}}
}

// NewSession builds a round for mode in ordered passes:
//  1. Infrastructure options (tuning, randomness, logging)
//  2. Grid, objective and terrain generation, then terrain options
//  3. Player tanks from the mode policy
//  4. Entity options
func NewSession(mode Mode, opts ...Option) *Session {
	s := &Session{
		World:  World{Tuning: DefaultTuning()},
		mode:   mode,
		policy: NewModePolicy(mode),
		rng:    NewRand(1),
		logger: log.New(io.Discard),
		log:    NewEventLog(false),
		homes:  make(map[PlayerID][2]float64),
	}
	apply := func(kind optionKind) {
		for _, o := range opts {
			if o.kind == kind && o.fn != nil {
				o.fn(s)
			}
		}
	}

	apply(optInfra)
	tu := s.Tuning
	s.Grid = NewGrid(tu.Cols, tu.Rows, tu.TileSize)
	s.Grid.Epsilon = tu.GridEpsilon
	objRow, objCol := tu.Rows-2, tu.Cols/2
	s.Objective = NewObjective(objRow, objCol, tu.TileSize)
	if !s.emptyArena {
		s.Grid.Generate(s.rng, tu, objRow, objCol)
	}
	apply(optTerrain)

	s.policy.Setup(s)
	apply(optEntity)

	s.logger.Info("round ready",
		"mode", mode,
		"arena", fmt.Sprintf("%dx%d", tu.Cols, tu.Rows),
		"bricks", s.Grid.Count(TileBrick),
		"steel", s.Grid.Count(TileSteel))
	return s
}

// --- Accessors ---

// Mode returns the player arrangement of the round.
func (s *Session) Mode() Mode { return s.mode }

// Policy returns the mode policy in force.
func (s *Session) Policy() ModePolicy { return s.policy }

// Ticks returns the number of ticks processed.
func (s *Session) Ticks() int { return s.tick }

// Outcome returns the round result; Over is false while play continues.
func (s *Session) Outcome() Outcome { return s.outcome }

// Events returns the events of the most recent tick (or of construction,
// before the first tick). The slice is replaced on every Tick.
func (s *Session) Events() []Event { return s.events }

// EventLog returns the session's cumulative event log.
func (s *Session) EventLog() *EventLog { return s.log }

// Stats returns the running counters.
func (s *Session) Stats() Stats { return s.stats }

// Frozen reports whether a freeze pickup is holding every enemy still.
func (s *Session) Frozen() bool { return s.freeze > 0 }

// FreezeRemaining returns the remaining freeze effect.
func (s *Session) FreezeRemaining() time.Duration { return s.freeze }

// PlayerTank returns the tank of player id, or nil.
func (s *Session) PlayerTank(id PlayerID) *Tank {
	for _, t := range s.Players {
		if t.Pilot != nil && t.Pilot.ID == id {
			return t
		}
	}
	return nil
}

func (s *Session) liveEnemies() int {
	n := 0
	for _, t := range s.Enemies {
		if t.Alive {
			n++
		}
	}
	return n
}

// Summary collects the HUD fields for the current state.
func (s *Session) Summary() Summary {
	sum := Summary{
		Mode:         s.mode,
		Wave:         s.Waves.Wave,
		ToSpawn:      s.Waves.ToSpawn,
		EnemiesAlive: s.liveEnemies(),
		Frozen:       s.freeze,
	}
	for _, t := range s.Players {
		sum.Players = append(sum.Players, PilotSummary{
			ID:     t.Pilot.ID,
			Alive:  t.Alive,
			Lives:  t.Pilot.Lives,
			Score:  t.Pilot.Score,
			Health: t.Health,
			Shield: t.shield,
		})
	}
	s.policy.Summary(s, &sum)
	return sum
}

// --- Tick ---

// Tick advances the round by dt. Non-positive dt and ticks after the round
// has ended are no-ops; dt above MaxTick is clamped. Order: player tanks,
// player separation, enemy tanks, freeze timer, wave spawner, projectiles,
// projectile-vs-tank hits, pickups, then the termination check.
func (s *Session) Tick(dt time.Duration, in InputSource) {
	if dt <= 0 || s.outcome.Over {
		return
	}
	if dt > s.Tuning.MaxTick {
		dt = s.Tuning.MaxTick
	}
	s.events = nil
	s.tick++
	s.stats.Ticks++
	s.stats.Elapsed += dt
	s.input = in

	for _, t := range s.Players {
		s.control(t, dt)
	}
	if len(s.Players) > 1 {
		s.separatePlayers()
	}
	for _, t := range s.Enemies {
		s.control(t, dt)
	}
	if s.freeze > 0 {
		s.freeze -= dt
		if s.freeze < 0 {
			s.freeze = 0
		}
	}

	s.Waves.Update(s, dt)
	s.advanceProjectiles(dt)
	s.resolveHits()
	s.updatePickups(dt)
	s.compact()

	if !s.outcome.Over {
		if o := s.policy.Check(s); o.Over {
			s.finish(o)
		}
	}
}

func (s *Session) control(t *Tank, dt time.Duration) {
	if !t.Alive {
		return
	}
	t.TickTimers(dt)
	if t.Controller != nil {
		t.Controller.Control(s, t, dt)
	}
}

// record stamps e with the current tick and publishes it.
func (s *Session) record(e Event) {
	e.Tick = s.tick
	s.events = append(s.events, e)
	if s.log != nil {
		s.log.Add(e)
	}
}

// finish sets the outcome once; later calls are ignored.
func (s *Session) finish(o Outcome) {
	if s.outcome.Over {
		return
	}
	s.outcome = o
	s.record(o.event())
	s.logger.Info("round over",
		"mode", s.mode,
		"reason", o.Reason,
		"winner", o.Winner,
		"wave", s.Waves.Wave,
		"ticks", s.tick)
}

// --- Fire and projectiles ---

// fire asks t to shoot and tracks the projectile if one was produced.
func (s *Session) fire(t *Tank) {
	p := t.Fire(s.Tuning)
	if p == nil {
		return
	}
	s.Projectiles = append(s.Projectiles, p)
	s.stats.ShotsFired++
	s.record(tankEvent(EventShotFired, t, "heading="+t.Heading.String()))
}

func (s *Session) advanceProjectiles(dt time.Duration) {
	for _, p := range s.Projectiles {
		hit := p.Advance(dt, s.Tuning.BulletStep, s.Grid, s.Objective)
		switch hit.Kind {
		case ImpactBrick:
			s.stats.TilesDestroyed++
			s.record(Event{
				Kind:    EventTileDestroyed,
				Faction: p.Faction,
				Player:  p.Shooter,
				X:       hit.X,
				Y:       hit.Y,
				Detail:  fmt.Sprintf("row=%d col=%d", hit.Row, hit.Col),
			})
		case ImpactSteel:
			s.stats.SteelHits++
		case ImpactObjective:
			if !hit.ObjectiveDestroyed {
				continue
			}
			cx, cy := s.Objective.Box.X+s.Objective.Box.W/2, s.Objective.Box.Y+s.Objective.Box.H/2
			s.record(Event{Kind: EventObjectiveDestroyed, Faction: p.Faction, Player: p.Shooter, X: cx, Y: cy})
			s.record(Event{Kind: EventExplosion, X: cx, Y: cy, Detail: "objective"})
			s.finish(Outcome{Over: true, Reason: EndObjectiveDestroyed})
		}
	}
}

// resolveHits matches every active projectile against eligible tanks. A
// projectile is consumed by the first tank it touches; tanks killed earlier
// in the pass are no longer targets. Shielded players are not targets at
// all, so shells fly on through them.
func (s *Session) resolveHits() {
	for _, p := range s.Projectiles {
		if !p.Active {
			continue
		}
		box := p.Box()

		if p.Faction == FactionEnemy {
			if t := firstTouched(box, s.Players, NoPlayer); t != nil {
				p.Active = false
				s.hitPlayer(t, NoPlayer)
			}
			continue
		}

		if e := firstTouched(box, s.Enemies, NoPlayer); e != nil {
			p.Active = false
			s.damageEnemy(e, p.Shooter)
			continue
		}
		if s.policy.FriendlyFire() {
			if t := firstTouched(box, s.Players, p.Shooter); t != nil {
				p.Active = false
				s.hitPlayer(t, p.Shooter)
			}
		}
	}
}

// firstTouched returns the first live, unshielded tank in list whose
// footprint overlaps box, skipping the tank piloted by exclude.
func firstTouched(box Rect, list []*Tank, exclude PlayerID) *Tank {
	for _, t := range list {
		if !t.Alive || t.Shielded() {
			continue
		}
		if exclude != NoPlayer && t.Pilot != nil && t.Pilot.ID == exclude {
			continue
		}
		if box.Intersects(t.Box()) {
			return t
		}
	}
	return nil
}

func (s *Session) damageEnemy(e *Tank, shooter PlayerID) {
	e.Health--
	if e.Health > 0 {
		s.record(tankEvent(EventTankHit, e, fmt.Sprintf("health=%d", e.Health)))
		return
	}
	e.Alive = false
	s.stats.EnemiesDestroyed++
	ev := tankEvent(EventExplosion, e, e.Variant.String())
	ev.Player = shooter
	s.record(ev)
	s.policy.CreditKill(s, shooter)
	if s.rng.Float64() < s.Tuning.PickupDropChance {
		s.dropPickup(e)
	}
}

func (s *Session) hitPlayer(t *Tank, shooter PlayerID) {
	s.stats.PlayerHits++
	by := "enemy"
	if shooter != NoPlayer {
		by = fmt.Sprintf("P%d", shooter)
	}
	s.record(tankEvent(EventPlayerHit, t, "by="+by))
	s.record(tankEvent(EventExplosion, t, t.Variant.String()))
	s.policy.PlayerHit(s, t, shooter)
}

// --- Players ---

// cellOrigin is the top-left corner that centres a tank in cell (row, col).
func (s *Session) cellOrigin(row, col int) (float64, float64) {
	tu := s.Tuning
	off := (tu.TileSize - tu.TankSize) / 2
	return float64(col)*tu.TileSize + off, float64(row)*tu.TileSize + off
}

// addPlayer creates player id at its home cell on the spawn row.
func (s *Session) addPlayer(id PlayerID, v Variant, col, lives int) *Tank {
	s.nextID++
	t := newTank(s.nextID, FactionAlly, v, 0, 0, s.Tuning)
	t.Pilot = &Pilot{ID: id, Lives: lives}
	t.Controller = &InputController{Player: id}
	x, y := s.cellOrigin(s.Tuning.Rows-4, col)
	s.homes[id] = [2]float64{x, y}
	s.Players = append(s.Players, t)
	s.place(t, x, y)
	return t
}

// place puts t at its spawn with a fresh shield, facing up.
func (s *Session) place(t *Tank, x, y float64) {
	t.Heading = HeadingUp
	t.GrantShield(s.Tuning.SpawnShield)
	if s.PlaceAtSpawn(t, x, y) {
		return
	}
	s.stats.SpawnFallbacks++
	s.record(tankEvent(EventSpawnFallback, t, fmt.Sprintf("x=%.0f y=%.0f", x, y)))
	s.logger.Warn("spawn cell blocked, placing on canonical cell", "tank", t.Label)
}

// respawn returns a hit player to its home cell.
func (s *Session) respawn(t *Tank) {
	home := s.homes[t.Pilot.ID]
	s.stats.Respawns++
	s.place(t, home[0], home[1])
	s.record(tankEvent(EventPlayerRespawned, t, fmt.Sprintf("lives=%d", t.Pilot.Lives)))
}

// eliminate removes a player from play for the rest of the round.
func (s *Session) eliminate(t *Tank) {
	t.Alive = false
	s.record(tankEvent(EventPlayerEliminated, t, ""))
	s.logger.Info("player eliminated", "player", t.Label, "score", t.Pilot.Score)
}

// --- Enemies ---

// addEnemy places an AI tank directly, bypassing the spawn points.
func (s *Session) addEnemy(v Variant, x, y float64) *Tank {
	s.nextID++
	t := newTank(s.nextID, FactionEnemy, v, x, y, s.Tuning)
	t.Heading = HeadingDown
	t.Controller = NewAIController()
	s.Enemies = append(s.Enemies, t)
	s.stats.EnemiesSpawned++
	s.record(tankEvent(EventEnemySpawned, t, v.String()))
	return t
}

// spawnEnemy releases one enemy of wave w at a random spawn point, trying the
// others in turn when it is occupied. It returns false if all are blocked.
func (s *Session) spawnEnemy(w int) bool {
	pts := spawnPoints(s.Tuning)
	start := s.rng.Intn(len(pts))
	v := enemyVariant(s.rng, w)
	probe := newTank(0, FactionEnemy, v, 0, 0, s.Tuning)
	for i := range pts {
		p := pts[(start+i)%len(pts)]
		if s.CanOccupy(probe, p[0], p[1]) {
			s.addEnemy(v, p[0], p[1])
			return true
		}
	}
	return false
}

// --- Pickups ---

func (s *Session) dropPickup(e *Tank) {
	tu := s.Tuning
	p := &Pickup{
		Kind:   PickupKind(s.rng.Intn(int(pickupKindCount))),
		Box:    Rect{X: e.X, Y: e.Y, W: tu.PickupSize, H: tu.PickupSize},
		TTL:    tu.PickupTTL,
		Active: true,
	}
	s.Pickups = append(s.Pickups, p)
	s.stats.PickupsDropped++
	s.record(Event{Kind: EventPickupSpawned, X: p.Box.X, Y: p.Box.Y, Detail: p.Kind.String()})
}

// updatePickups ages every pickup and hands live ones to the first player
// tank touching them.
func (s *Session) updatePickups(dt time.Duration) {
	for _, p := range s.Pickups {
		if !p.Active {
			continue
		}
		p.Tick(dt)
		if !p.Active {
			s.stats.PickupsExpired++
			s.record(Event{Kind: EventPickupExpired, X: p.Box.X, Y: p.Box.Y, Detail: p.Kind.String()})
			continue
		}
		if t := firstTouched(p.Box, s.Players, NoPlayer); t != nil {
			p.Active = false
			s.applyPickup(p.Kind, t)
		}
	}
}

// applyPickup grants the effect of kind to t.
func (s *Session) applyPickup(kind PickupKind, t *Tank) {
	tu := s.Tuning
	switch kind {
	case PickupShield:
		t.GrantShield(tu.PickupShield)
	case PickupExtraLife:
		s.policy.ExtraLife(s, t)
	case PickupRapidFire:
		t.ApplyRapidFire(tu.RapidCooldown, tu.RapidDuration)
	case PickupFreeze:
		s.freeze = tu.FreezeDuration
	}
	s.stats.PickupsCollected++
	s.record(tankEvent(EventPickupCollected, t, kind.String()))
}

// --- Housekeeping ---

// compact drops spent projectiles, dead enemies and retired pickups. Player
// tanks stay listed after elimination so the HUD can still report them.
func (s *Session) compact() {
	s.Projectiles = keep(s.Projectiles, func(p *Projectile) bool { return p.Active })
	s.Enemies = keep(s.Enemies, func(t *Tank) bool { return t.Alive })
	s.Pickups = keep(s.Pickups, func(p *Pickup) bool { return p.Active })
}

// keep filters list in place.
func keep[T any](list []T, ok func(T) bool) []T {
	out := list[:0]
	for _, v := range list {
		if ok(v) {
			out = append(out, v)
		}
	}
	var zero T
	for i := len(out); i < len(list); i++ {
		list[i] = zero
	}
	return out
}
