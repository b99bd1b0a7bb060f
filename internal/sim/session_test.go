package sim

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// quietTuning never releases an enemy, so tests control every tank.
func quietTuning() Tuning {
	tu := DefaultTuning()
	tu.WaveStartDelay = time.Hour
	return tu
}

// shellOn parks a motionless projectile on t's centre; the next tick's hit
// resolution consumes it.
func shellOn(s *Session, t *Tank, f Faction, shooter PlayerID) {
	cx, cy := t.Center()
	s.Projectiles = append(s.Projectiles, &Projectile{
		X: cx, Y: cy, Heading: HeadingUp, Size: s.Tuning.BulletSize,
		Faction: f, Shooter: shooter, Active: true,
	})
}

func TestWaveQuota(t *testing.T) {
	want := []int{5, 7, 9, 11, 13}
	prev := 0
	for i, w := range want {
		got := WaveQuota(i + 1)
		if got != w {
			t.Fatalf("WaveQuota(%d) = %d, want %d", i+1, got, w)
		}
		if got <= prev {
			t.Fatalf("quota not strictly increasing at wave %d", i+1)
		}
		prev = got
	}
}

func TestWaveSpawnTiming(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithSeed(5))
	h.RunTicks(1)
	if h.Session.Waves.Wave != 1 || h.Session.Waves.ToSpawn != 5 {
		t.Fatalf("after first tick wave=%d toSpawn=%d, want 1/5", h.Session.Waves.Wave, h.Session.Waves.ToSpawn)
	}
	if !h.Log.HasEntry("wave", "wave_started", "wave=1") {
		t.Fatal("wave start not logged")
	}

	h.RunFor(2900 * time.Millisecond)
	if n := h.Session.Stats().EnemiesSpawned; n != 0 {
		t.Fatalf("%d enemies before the wave start delay elapsed", n)
	}
	h.RunFor(200 * time.Millisecond)
	if n := h.Session.Stats().EnemiesSpawned; n != 1 {
		t.Fatalf("enemies after start delay = %d, want 1", n)
	}
	h.RunFor(2 * time.Second)
	if n := h.Session.Stats().EnemiesSpawned; n != 2 {
		t.Fatalf("enemies after one interval = %d, want 2", n)
	}
	for _, e := range h.Session.Enemies {
		if e.Variant != VariantEnemyNormal {
			t.Fatalf("wave 1 released %v, want only normal tanks", e.Variant)
		}
	}
}

func TestWaveAdvancesOnlyWhenCleared(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()), WithStep(100*time.Millisecond))
	s := h.Session
	s.Waves = WaveSpawner{Wave: 2}
	s.addEnemy(VariantEnemyNormal, 40, 40)
	s.freeze = time.Hour

	h.RunTicks(1)
	if s.Waves.Wave != 2 {
		t.Fatalf("wave advanced to %d with an enemy alive", s.Waves.Wave)
	}

	s.Enemies[0].Alive = false
	h.RunTicks(1)
	if s.Waves.Wave != 3 || s.Waves.ToSpawn != WaveQuota(3) {
		t.Fatalf("wave=%d toSpawn=%d, want 3/%d", s.Waves.Wave, s.Waves.ToSpawn, WaveQuota(3))
	}
}

func TestEnemyVariantPoolGrows(t *testing.T) {
	seen := map[Variant]bool{}
	rng := NewRand(9)
	for i := 0; i < 200; i++ {
		seen[enemyVariant(rng, 1)] = true
	}
	if len(seen) != 1 || !seen[VariantEnemyNormal] {
		t.Fatalf("wave 1 pool = %v, want only normal", seen)
	}
	for i := 0; i < 500; i++ {
		seen[enemyVariant(rng, 7)] = true
	}
	if len(seen) != 3 {
		t.Fatalf("late pool = %v, want all three variants", seen)
	}
}

// Arena 20x15 at 40 units per tile, single tank at column 10 row 11, brick
// ahead: the shell must clear it within distance/450 seconds.
func TestFireClearsBrickAhead(t *testing.T) {
	h := NewHarness(
		WithEmptyArena(),
		WithTuning(quietTuning()),
		WithTile(8, 10, TileBrick),
		WithInput(StaticInput{1: {ActionFire: true}}),
	)
	p := h.Player(1)
	if p.X != 404 || p.Y != 444 || p.Pilot.Lives != 3 {
		t.Fatalf("player at (%v,%v) lives=%d, want (404,444) with 3 lives", p.X, p.Y, p.Pilot.Lives)
	}

	_, cy := p.Center()
	dist := cy - 9*40
	budget := dist / h.Session.Tuning.BulletSpeed
	maxTicks := int(math.Ceil(budget/h.Step.Seconds())) + 1

	n, ok := h.RunUntil(func(s *Session) bool { return s.Grid.Kind(8, 10) == TileEmpty }, maxTicks)
	if !ok {
		t.Fatalf("brick still standing after %d ticks (budget %.3fs)", n, budget)
	}
	if h.Log.CountCategory("terrain", "tile_destroyed") != 1 {
		t.Fatalf("want exactly one tile_destroyed entry:\n%s", h.Log.Dump())
	}
}

func TestRapidFireLastsExactlyTenSeconds(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()), WithStep(100*time.Millisecond))
	s := h.Session
	p := h.Player(1)
	if p.CooldownDuration() != 600*time.Millisecond {
		t.Fatalf("base cooldown = %v", p.CooldownDuration())
	}
	s.Pickups = append(s.Pickups, &Pickup{Kind: PickupRapidFire, Box: p.Box(), TTL: s.Tuning.PickupTTL, Active: true})

	h.RunTicks(1)
	if p.CooldownDuration() != 250*time.Millisecond {
		t.Fatalf("cooldown after pickup = %v, want 250ms", p.CooldownDuration())
	}
	h.RunTicks(99)
	if p.CooldownDuration() != 250*time.Millisecond {
		t.Fatalf("rapid fire ended early, rapid left %v", p.RapidRemaining())
	}
	h.RunTicks(1)
	if p.CooldownDuration() != 600*time.Millisecond {
		t.Fatalf("cooldown after 10s = %v, want 600ms", p.CooldownDuration())
	}
}

func TestObjectiveDestroyedOnce(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()))
	s := h.Session
	ob := s.Objective.Box
	for i := 0; i < 2; i++ {
		s.Projectiles = append(s.Projectiles, &Projectile{
			X: ob.X + 10 + float64(i)*20, Y: ob.Y - 4, Heading: HeadingDown,
			Speed: s.Tuning.BulletSpeed, Size: s.Tuning.BulletSize, Faction: FactionEnemy, Active: true,
		})
	}
	h.RunTicks(1)

	o := s.Outcome()
	if !o.Over || o.Reason != EndObjectiveDestroyed {
		t.Fatalf("outcome = %+v, want objective destroyed", o)
	}
	if n := h.Log.CountCategory("round", "objective_destroyed"); n != 1 {
		t.Fatalf("objective_destroyed logged %d times", n)
	}
	if n := h.Log.CountCategory("round", "round_lost"); n != 1 {
		t.Fatalf("round_lost logged %d times", n)
	}
	ticks := s.Ticks()
	h.Session.Tick(time.Second/60, nil)
	if s.Ticks() != ticks {
		t.Fatal("tick after round end was not a no-op")
	}
}

func TestTickIgnoresNonPositiveAndClampsLong(t *testing.T) {
	s := NewSession(ModeSingle, WithEmptyArena())
	s.Tick(0, nil)
	s.Tick(-time.Second, nil)
	if s.Ticks() != 0 {
		t.Fatalf("non-positive ticks advanced the session to %d", s.Ticks())
	}
	s.Tick(5*time.Second, nil)
	if got := s.Stats().Elapsed; got != s.Tuning.MaxTick {
		t.Fatalf("elapsed = %v, want clamp to %v", got, s.Tuning.MaxTick)
	}
}

func TestSingleModeLivesAndScore(t *testing.T) {
	h := NewHarness(
		WithEmptyArena(),
		WithTuning(quietTuning()),
		WithEnemy(VariantEnemyArmored, 100, 100),
	)
	s := h.Session
	s.freeze = time.Hour
	p, e := h.Player(1), s.Enemies[0]

	for i := 0; i < 2; i++ {
		shellOn(s, e, FactionAlly, 1)
		h.RunTicks(1)
	}
	if !e.Alive || e.Health != 1 {
		t.Fatalf("armored tank after two hits: alive=%v health=%d", e.Alive, e.Health)
	}
	shellOn(s, e, FactionAlly, 1)
	h.RunTicks(1)
	if e.Alive || p.Pilot.Score != 100 || len(s.Enemies) != 0 {
		t.Fatalf("kill not credited: alive=%v score=%d enemies=%d", e.Alive, p.Pilot.Score, len(s.Enemies))
	}

	for i := 0; i < 3; i++ {
		p.shield = 0
		shellOn(s, p, FactionEnemy, NoPlayer)
		h.RunTicks(1)
	}
	o := s.Outcome()
	if !o.Over || o.Reason != EndLivesExhausted || p.Pilot.Lives != 0 {
		t.Fatalf("outcome=%+v lives=%d, want lives exhausted", o, p.Pilot.Lives)
	}
}

func TestShellPassesThroughShield(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()))
	s, p := h.Session, h.Player(1)
	if !p.Shielded() {
		t.Fatal("spawned tank should carry a shield")
	}
	shellOn(s, p, FactionEnemy, NoPlayer)
	h.RunTicks(1)
	if p.Pilot.Lives != 3 {
		t.Fatalf("lives=%d, shielded tank must not lose a life", p.Pilot.Lives)
	}
	if len(s.Projectiles) != 1 || !s.Projectiles[0].Active {
		t.Fatalf("shells=%d, want the shell to keep flying", len(s.Projectiles))
	}
	if h.Log.CountCategory("combat", "player_hit") != 0 {
		t.Fatal("player_hit logged for a shielded tank")
	}
}

func TestVersusShellPassesThroughShieldedRival(t *testing.T) {
	h := NewHarness(WithMode(ModeVersus), WithEmptyArena(), WithTuning(quietTuning()))
	s, p1, p2 := h.Session, h.Player(1), h.Player(2)
	shellOn(s, p1, FactionAlly, 2)
	h.RunTicks(1)
	if p1.Pilot.Lives != 3 || p2.Pilot.Score != 0 {
		t.Fatalf("lives=%d score=%d, shielded rival must not be hit", p1.Pilot.Lives, p2.Pilot.Score)
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("shells=%d, want the shell to keep flying", len(s.Projectiles))
	}
}

func TestPlayerHitExplodes(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()))
	s, p := h.Session, h.Player(1)
	p.shield = 0
	shellOn(s, p, FactionEnemy, NoPlayer)
	h.RunTicks(1)
	var boom bool
	for _, e := range h.Log.FilterActor("P1") {
		if e.Category == "combat" && e.Key == "explosion" {
			boom = true
		}
	}
	if !boom {
		t.Fatal("player hit did not log an explosion")
	}
}

func TestRespawnReturnsHomeShielded(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()))
	s, p := h.Session, h.Player(1)
	p.X, p.Y, p.Heading = 100, 100, HeadingLeft
	p.shield = 0
	shellOn(s, p, FactionEnemy, NoPlayer)
	h.RunTicks(1)
	if p.X != 404 || p.Y != 444 || p.Heading != HeadingUp {
		t.Fatalf("respawned at (%v,%v) facing %v", p.X, p.Y, p.Heading)
	}
	if p.ShieldRemaining() != s.Tuning.SpawnShield {
		t.Fatalf("shield after respawn = %v", p.ShieldRemaining())
	}
	if p.Pilot.Lives != 2 {
		t.Fatalf("lives = %d, want 2", p.Pilot.Lives)
	}
}

func TestCooperativeSharedLives(t *testing.T) {
	h := NewHarness(WithMode(ModeCooperative), WithEmptyArena(), WithTuning(quietTuning()))
	s := h.Session
	p1, p2 := h.Player(1), h.Player(2)
	if got := s.Summary().SharedLives; got != 6 {
		t.Fatalf("shared lives = %d, want 6", got)
	}

	for i := 0; i < 5; i++ {
		target := p1
		if i%2 == 1 {
			target = p2
		}
		target.shield = 0
		shellOn(s, target, FactionEnemy, NoPlayer)
		h.RunTicks(1)
		if got := s.Summary().SharedLives; got != 5-i {
			t.Fatalf("after hit %d shared lives = %d, want %d", i+1, got, 5-i)
		}
	}
	if s.Outcome().Over {
		t.Fatal("round ended with one shared life left")
	}

	p2.shield = 0
	shellOn(s, p2, FactionEnemy, NoPlayer)
	h.RunTicks(1)
	o := s.Outcome()
	if !o.Over || o.Reason != EndLivesExhausted {
		t.Fatalf("outcome = %+v, want lives exhausted", o)
	}
}

func TestCooperativeSharedScore(t *testing.T) {
	h := NewHarness(
		WithMode(ModeCooperative),
		WithEmptyArena(),
		WithTuning(quietTuning()),
		WithEnemy(VariantEnemyNormal, 100, 100),
		WithEnemy(VariantEnemyNormal, 600, 100),
	)
	s := h.Session
	s.freeze = time.Hour
	shellOn(s, s.Enemies[0], FactionAlly, 1)
	shellOn(s, s.Enemies[1], FactionAlly, 2)
	h.RunTicks(1)
	if got := s.Summary().SharedScore; got != 200 {
		t.Fatalf("shared score = %d, want 200", got)
	}
}

func TestVersusLastStandingWins(t *testing.T) {
	h := NewHarness(WithMode(ModeVersus), WithEmptyArena(), WithTuning(quietTuning()))
	s := h.Session
	p1, p2 := h.Player(1), h.Player(2)

	for i := 0; i < 3; i++ {
		p1.shield = 0
		shellOn(s, p1, FactionAlly, 2)
		h.RunTicks(1)
	}
	o := s.Outcome()
	if !o.Over || o.Winner != 2 || o.Reason != EndLastStanding {
		t.Fatalf("outcome = %+v, want player 2 last standing", o)
	}
	if p2.Pilot.Score != 3*s.Tuning.PlayerHitScore {
		t.Fatalf("shooter score = %d, want %d", p2.Pilot.Score, 3*s.Tuning.PlayerHitScore)
	}
	if p1.Alive {
		t.Fatal("eliminated player still alive")
	}
	if !h.Log.HasEntry("round", "round_won", "winner=P2") {
		t.Fatal("round_won not logged")
	}
}

func TestVersusSimultaneousEliminationDraws(t *testing.T) {
	h := NewHarness(WithMode(ModeVersus), WithEmptyArena(), WithTuning(quietTuning()))
	s := h.Session
	p1, p2 := h.Player(1), h.Player(2)
	p1.Pilot.Lives, p2.Pilot.Lives = 1, 1
	p1.shield, p2.shield = 0, 0
	shellOn(s, p1, FactionEnemy, NoPlayer)
	shellOn(s, p2, FactionEnemy, NoPlayer)
	h.RunTicks(1)

	o := s.Outcome()
	if !o.Over || !o.Draw() || o.Winner != NoPlayer {
		t.Fatalf("outcome = %+v, want draw", o)
	}
}

func TestVersusNoSelfHitAndNoFriendlyFireInCoop(t *testing.T) {
	h := NewHarness(WithMode(ModeVersus), WithEmptyArena(), WithTuning(quietTuning()))
	p1 := h.Player(1)
	p1.shield = 0
	shellOn(h.Session, p1, FactionAlly, 1)
	h.RunTicks(1)
	if p1.Pilot.Lives != 3 {
		t.Fatalf("own shell cost a life: lives=%d", p1.Pilot.Lives)
	}

	c := NewHarness(WithMode(ModeCooperative), WithEmptyArena(), WithTuning(quietTuning()))
	c1 := c.Player(1)
	c1.shield = 0
	shellOn(c.Session, c1, FactionAlly, 2)
	c.RunTicks(1)
	if got := c.Session.Summary().SharedLives; got != 6 {
		t.Fatalf("co-op friendly fire drained the pool to %d", got)
	}
}

func TestFreezeStopsEnemies(t *testing.T) {
	h := NewHarness(
		WithEmptyArena(),
		WithTuning(quietTuning()),
		WithEnemy(VariantEnemyFast, 200, 100),
	)
	s := h.Session
	e := s.Enemies[0]
	s.applyPickup(PickupFreeze, h.Player(1))
	x, y := e.X, e.Y
	h.RunFor(4 * time.Second)
	if e.X != x || e.Y != y {
		t.Fatalf("frozen enemy moved from (%v,%v) to (%v,%v)", x, y, e.X, e.Y)
	}
	h.RunFor(2 * time.Second)
	if s.Frozen() {
		t.Fatal("freeze outlived its duration")
	}
}

func TestPickupExpires(t *testing.T) {
	h := NewHarness(WithEmptyArena(), WithTuning(quietTuning()), WithStep(100*time.Millisecond))
	s := h.Session
	s.Pickups = append(s.Pickups, &Pickup{Kind: PickupShield, Box: Rect{X: 40, Y: 40, W: 30, H: 30}, TTL: s.Tuning.PickupTTL, Active: true})
	h.RunTicks(99)
	if len(s.Pickups) != 1 {
		t.Fatal("pickup expired early")
	}
	h.RunTicks(1)
	if len(s.Pickups) != 0 || s.Stats().PickupsExpired != 1 {
		t.Fatalf("pickups=%d expired=%d after TTL", len(s.Pickups), s.Stats().PickupsExpired)
	}
}

func TestExtraLifeGoesToPool(t *testing.T) {
	h := NewHarness(WithMode(ModeCooperative), WithEmptyArena(), WithTuning(quietTuning()))
	h.Session.applyPickup(PickupExtraLife, h.Player(2))
	if got := h.Session.Summary().SharedLives; got != 7 {
		t.Fatalf("shared lives = %d, want 7", got)
	}
	s := NewHarness(WithEmptyArena(), WithTuning(quietTuning()))
	s.Session.applyPickup(PickupExtraLife, s.Player(1))
	if got := s.Player(1).Pilot.Lives; got != 4 {
		t.Fatalf("single lives = %d, want 4", got)
	}
}

func TestAutopilotKeepsTanksLegal(t *testing.T) {
	for _, m := range []Mode{ModeSingle, ModeCooperative, ModeVersus} {
		h := NewHarness(WithMode(m), WithSeed(11))
		h.Input = NewAutopilot(h.Session, NewRand(12), h.Step)
		h.RunTicks(60 * 60 * 5)
		st := h.Session.Stats()
		if st.ShotsFired == 0 {
			t.Fatalf("%v: autopilot never fired", m)
		}
		if st.SpawnFallbacks > 0 {
			continue
		}
		for _, p := range h.Session.Players {
			if p.Alive && !h.Session.CanOccupy(p, p.X, p.Y) {
				t.Fatalf("%v: %s ended in an illegal spot", m, p.Label)
			}
		}
	}
}

func TestDirectorTransitions(t *testing.T) {
	d := NewDirector(1, WithEmptyArena())
	if d.Phase() != PhaseMenu {
		t.Fatalf("initial phase = %v", d.Phase())
	}
	if err := d.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Pause from menu: err = %v", err)
	}
	if err := d.Start(ModeSingle); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Start from menu: err = %v", err)
	}
	if err := d.OpenModeSelect(); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(ModeVersus); err != nil {
		t.Fatal(err)
	}
	if d.Phase() != PhasePlaying || d.Session().Mode() != ModeVersus {
		t.Fatalf("phase=%v mode=%v", d.Phase(), d.Session().Mode())
	}

	if err := d.TogglePause(); err != nil || d.Phase() != PhasePaused {
		t.Fatalf("toggle to paused: phase=%v err=%v", d.Phase(), err)
	}
	d.Advance(time.Second/60, nil)
	if d.Session().Ticks() != 0 {
		t.Fatal("paused director delivered a tick")
	}
	if err := d.TogglePause(); err != nil || d.Phase() != PhasePlaying {
		t.Fatalf("toggle to playing: phase=%v err=%v", d.Phase(), err)
	}
	d.Advance(time.Second/60, nil)
	if d.Session().Ticks() != 1 {
		t.Fatalf("ticks = %d, want 1", d.Session().Ticks())
	}
	if err := d.ReturnToMenu(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ReturnToMenu while playing: err = %v", err)
	}

	first := d.Session()
	first.finish(Outcome{Over: true, Reason: EndObjectiveDestroyed})
	d.Advance(time.Second/60, nil)
	if d.Phase() != PhaseGameOver {
		t.Fatalf("phase after round end = %v", d.Phase())
	}
	if err := d.ReturnToModeSelect(); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(ModeCooperative); err != nil {
		t.Fatal(err)
	}
	if d.Session() == first || len(d.Session().Players) != 2 {
		t.Fatal("restart did not build a fresh cooperative round")
	}
}

func TestReportNamesOutcomeAndHeadline(t *testing.T) {
	h := NewHarness(WithMode(ModeVersus), WithEmptyArena(), WithTuning(quietTuning()))
	p1 := h.Player(1)
	p1.Pilot.Lives = 1
	p1.shield = 0
	shellOn(h.Session, p1, FactionAlly, 2)
	h.RunTicks(1)

	r := h.Session.Report()
	for _, want := range []string{"versus mode", "player 2 is the last tank standing", "Player 2 wins", "player hits"} {
		if !strings.Contains(r, want) {
			t.Fatalf("report missing %q:\n%s", want, r)
		}
	}
}
