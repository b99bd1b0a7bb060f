package sim

import (
	"testing"
	"time"
)

// scriptedRand replays fixed values, then falls back to defaults. Intn
// results are reduced modulo n.
type scriptedRand struct {
	floats   []float64
	ints     []int
	fallback float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.fallback
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func TestRollAIStateWeights(t *testing.T) {
	tu := DefaultTuning()
	cases := []struct {
		roll float64
		want AIState
	}{
		{0, AIAttackBase},
		{0.69, AIAttackBase},
		{0.70, AIPatrol},
		{0.89, AIPatrol},
		{0.90, AIAttackPlayer},
		{0.999, AIAttackPlayer},
	}
	for _, c := range cases {
		if got := rollAIState(c.roll, tu); got != c.want {
			t.Errorf("rollAIState(%v) = %v, want %v", c.roll, got, c.want)
		}
	}
}

func TestHeadingTowardTiesVertical(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   Heading
	}{
		{10, 0, HeadingRight},
		{-10, 3, HeadingLeft},
		{2, 9, HeadingDown},
		{0, -1, HeadingUp},
		{5, 5, HeadingDown},
		{-5, -5, HeadingUp},
	}
	for _, c := range cases {
		if got := headingToward(c.dx, c.dy); got != c.want {
			t.Errorf("headingToward(%v,%v) = %v, want %v", c.dx, c.dy, got, c.want)
		}
	}
}

func TestAIRerollLogsStateChange(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.001, 0.95}, fallback: 0.5}
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(rng), WithVerbose(true), WithTuning(quietTuning()))
	e := s.addEnemy(VariantEnemyNormal, 200, 100)
	ai := e.Controller.(*AIController)

	s.Tick(time.Second/60, nil)
	if ai.State != AIAttackPlayer {
		t.Fatalf("state = %v, want attack_player", ai.State)
	}
	if !s.EventLog().HasEntry("ai", "ai_state", "attack_player") {
		t.Fatalf("state change not logged:\n%s", s.EventLog().Dump())
	}
	// The player sits below and to the right; the dominant axis is vertical.
	if e.Heading != HeadingDown {
		t.Fatalf("heading = %v, want down toward the player", e.Heading)
	}
}

func TestAIAttackBaseHeadsForObjective(t *testing.T) {
	rng := &scriptedRand{fallback: 0.5}
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(rng), WithTuning(quietTuning()))
	e := s.addEnemy(VariantEnemyNormal, 40, 480)
	e.Controller = &AIController{State: AIAttackBase}
	s.Tick(time.Second/60, nil)
	if e.Heading != HeadingRight {
		t.Fatalf("heading = %v, want right toward the objective", e.Heading)
	}
}

func TestAIAttackPlayerFallsBackToObjective(t *testing.T) {
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(&scriptedRand{fallback: 0.5}), WithTuning(quietTuning()))
	e := s.addEnemy(VariantEnemyNormal, 400, 40)
	ai := &AIController{State: AIAttackPlayer}
	s.Players[0].Alive = false
	ai.replan(s, e)
	if e.Heading != HeadingDown {
		t.Fatalf("heading = %v, want down toward the objective", e.Heading)
	}
	if ai.retime < s.Tuning.AIRetimeMin || ai.retime > s.Tuning.AIRetimeMin+s.Tuning.AIRetimeSpread {
		t.Fatalf("retime %v outside [%v, %v]", ai.retime, s.Tuning.AIRetimeMin, s.Tuning.AIRetimeMin+s.Tuning.AIRetimeSpread)
	}
}

func TestAIShootsBrickWhenBlocked(t *testing.T) {
	rng := &scriptedRand{fallback: 0.5}
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(rng), WithTuning(quietTuning()), WithTile(4, 5, TileBrick))
	e := s.addEnemy(VariantEnemyNormal, 204, 194)
	e.Heading = HeadingUp
	ai := e.Controller.(*AIController)
	ai.retime = time.Hour

	s.Tick(time.Second/60, nil)
	if s.Stats().ShotsFired != 1 {
		t.Fatalf("shots = %d, want one at the brick", s.Stats().ShotsFired)
	}
	if e.Y != 194 {
		t.Fatalf("blocked tank moved to y=%v", e.Y)
	}
	if ai.retime > s.Tuning.AIRetimeMin+s.Tuning.AIRetimeSpread {
		t.Fatal("blocked move did not force a re-plan")
	}
}

func TestAIIgnoresSteelWhenBlocked(t *testing.T) {
	rng := &scriptedRand{fallback: 0.5}
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(rng), WithTuning(quietTuning()), WithTile(4, 5, TileSteel))
	e := s.addEnemy(VariantEnemyNormal, 204, 194)
	e.Heading = HeadingUp
	e.Controller.(*AIController).retime = time.Hour

	s.Tick(time.Second/60, nil)
	if s.Stats().ShotsFired != 0 {
		t.Fatalf("shots = %d, want none at steel", s.Stats().ShotsFired)
	}
}

func TestAIRandomFire(t *testing.T) {
	// Float64 order: reroll check, retime roll, fire roll.
	rng := &scriptedRand{floats: []float64{0.5, 0.5, 0.001}, fallback: 0.5}
	s := NewSession(ModeSingle, WithEmptyArena(), WithRand(rng), WithTuning(quietTuning()))
	s.addEnemy(VariantEnemyNormal, 400, 200)
	s.Tick(time.Second/60, nil)
	if s.Stats().ShotsFired != 1 {
		t.Fatalf("shots = %d, want 1", s.Stats().ShotsFired)
	}
}

func TestInputControllerMovesAndSnaps(t *testing.T) {
	s := NewSession(ModeSingle, WithEmptyArena(), WithTuning(quietTuning()))
	p := s.Players[0]
	p.X, p.Heading = 410, HeadingLeft

	s.Tick(time.Second/60, StaticInput{1: {ActionUp: true}})
	if p.X != 404 {
		t.Fatalf("turn onto the vertical axis left X at %v, want 404", p.X)
	}
	if p.Y >= 444 {
		t.Fatalf("tank did not move up, y=%v", p.Y)
	}

	y := p.Y
	s.Tick(time.Second/60, StaticInput{1: {ActionLeft: true, ActionUp: true}})
	if p.Heading != HeadingUp || p.Y >= y {
		t.Fatalf("up must win over left: heading=%v y=%v", p.Heading, p.Y)
	}
}

func TestUnmappedIntentsReadAsNotHeld(t *testing.T) {
	var nilIntents Intents
	if nilIntents.Held(ActionFire) {
		t.Fatal("nil intents report fire held")
	}
	if _, moving := nilIntents.Direction(); moving {
		t.Fatal("nil intents report a direction")
	}
	src := StaticInput{2: {ActionFire: true}}
	if src.Intents(1).Held(ActionFire) {
		t.Fatal("missing player entry reads as held")
	}
	if intentsOf(nil, 1).Held(ActionUp) {
		t.Fatal("nil source reads as held")
	}

	s := NewSession(ModeSingle, WithEmptyArena())
	x, y := s.Players[0].X, s.Players[0].Y
	s.Tick(time.Second/60, src)
	if s.Players[0].X != x || s.Players[0].Y != y || s.Stats().ShotsFired != 0 {
		t.Fatal("player acted on another player's intents")
	}
}
