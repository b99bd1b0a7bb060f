package sim

import (
	"math"
	"time"
)

// Controller decides what a tank does in one tick. Player and AI tanks share
// every other piece of movement and fire logic.
type Controller interface {
	Control(s *Session, t *Tank, dt time.Duration)
}

// --- Local input ---

// InputController drives a tank from one player's held actions.
type InputController struct {
	Player PlayerID
}

// Control turns, moves and fires according to the player's intents. A turn
// onto the other axis first snaps the tank to the corridor grid; a blocked
// move falls back to a short alignment nudge toward the corridor centre.
func (c *InputController) Control(s *Session, t *Tank, dt time.Duration) {
	w := &s.World
	in := intentsOf(s.input, c.Player)

	if h, moving := in.Direction(); moving {
		if h != t.Heading {
			if h.Vertical() != t.Heading.Vertical() {
				w.SnapAxis(t, h)
			}
			t.Heading = h
		}
		dx, dy := h.Vector()
		step := t.Speed * dt.Seconds()
		if !w.AttemptMove(t, t.X+dx*step, t.Y+dy*step) {
			w.AlignToCorridor(t, h, dt)
		}
	}

	if in.Held(ActionFire) {
		s.fire(t)
	}
}

// --- AI ---

// AIState is the current goal of an AI tank.
type AIState int

const (
	AIPatrol       AIState = iota // wander on random headings
	AIAttackBase                  // head for the objective
	AIAttackPlayer                // head for the nearest live player
)

func (st AIState) String() string {
	switch st {
	case AIPatrol:
		return "patrol"
	case AIAttackBase:
		return "attack_base"
	case AIAttackPlayer:
		return "attack_player"
	default:
		return "unknown"
	}
}

// AIController is deliberately noisy arcade AI: a stochastically re-sampled
// goal, a heading re-picked on a random timer or on collision, and random
// fire.
type AIController struct {
	State  AIState
	retime time.Duration // time until the next heading re-plan
}

// NewAIController starts in Patrol with an immediate re-plan pending.
func NewAIController() *AIController {
	return &AIController{State: AIPatrol}
}

// Control runs one AI tick. Frozen enemies do nothing at all.
func (c *AIController) Control(s *Session, t *Tank, dt time.Duration) {
	if s.Frozen() {
		return
	}
	w, tu, rng := &s.World, s.World.Tuning, s.rng

	c.retime -= dt
	if rng.Float64() < tu.AIRerollChance {
		prev := c.State
		c.State = rollAIState(rng.Float64(), tu)
		if c.State != prev {
			s.record(tankEvent(EventAIStateChange, t, prev.String()+" → "+c.State.String()))
		}
	}
	if c.retime <= 0 {
		c.replan(s, t)
	}

	dx, dy := t.Heading.Vector()
	step := t.Speed * dt.Seconds()
	nx, ny := t.X+dx*step, t.Y+dy*step
	if w.CanOccupy(t, nx, ny) {
		t.X, t.Y = nx, ny
	} else {
		// Probe just past the leading edge; bricks in the way get shot.
		cx, cy := t.Center()
		px := cx + dx*(step+t.W/2+tu.AIObstacleProbe)
		py := cy + dy*(step+t.H/2+tu.AIObstacleProbe)
		if ref, ok := w.Grid.TileAt(px, py); ok && ref.Kind == TileBrick {
			s.fire(t)
		}
		c.replan(s, t)
	}

	if rng.Float64() < tu.AIFireChance {
		s.fire(t)
	}
}

// rollAIState maps a uniform roll onto the goal weights: AttackBase first,
// then Patrol, the remainder AttackPlayer.
func rollAIState(roll float64, tu Tuning) AIState {
	switch {
	case roll < tu.AIAttackBaseP:
		return AIAttackBase
	case roll < tu.AIAttackBaseP+tu.AIPatrolP:
		return AIPatrol
	default:
		return AIAttackPlayer
	}
}

// replan picks a new heading for the current goal and re-arms the timer.
func (c *AIController) replan(s *Session, t *Tank) {
	w, tu, rng := &s.World, s.World.Tuning, s.rng

	switch c.State {
	case AIPatrol:
		t.Heading = cardinalHeadings[rng.Intn(len(cardinalHeadings))]
	case AIAttackPlayer:
		if target := nearestLiveTank(t, w.Players); target != nil {
			t.Heading = headingToward(target.X-t.X, target.Y-t.Y)
			break
		}
		t.Heading = headingToward(w.Objective.Box.X-t.X, w.Objective.Box.Y-t.Y)
	default:
		t.Heading = headingToward(w.Objective.Box.X-t.X, w.Objective.Box.Y-t.Y)
	}
	c.retime = tu.AIRetimeMin + time.Duration(rng.Float64()*float64(tu.AIRetimeSpread))
}

// headingToward picks the cardinal heading along the dominant axis of the
// offset. Ties go vertical.
func headingToward(dx, dy float64) Heading {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return HeadingRight
		}
		return HeadingLeft
	}
	if dy > 0 {
		return HeadingDown
	}
	return HeadingUp
}

// nearestLiveTank returns the live tank in list closest to t, or nil.
func nearestLiveTank(t *Tank, list []*Tank) *Tank {
	var best *Tank
	bestDist := math.Inf(1)
	for _, o := range list {
		if !o.Alive {
			continue
		}
		d := math.Hypot(o.X-t.X, o.Y-t.Y)
		if d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}
