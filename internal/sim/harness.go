package sim

import (
	"math"
	"time"
)

// Harness is a headless driver used by tests and the report tool. It ticks a
// Session at a fixed rate with a chosen input source and keeps the full
// event log.
type Harness struct {
	Session *Session
	Log     *EventLog
	Input   InputSource
	Step    time.Duration

	mode Mode
}

// WithMode selects the mode of the harnessed session (default single).
func WithMode(m Mode) Option {
	return Option{kind: optHarness, hfn: func(h *Harness) { h.mode = m }}
}

// WithInput sets the input source delivered on every tick.
func WithInput(in InputSource) Option {
	return Option{kind: optHarness, hfn: func(h *Harness) { h.Input = in }}
}

// WithStep sets the simulated time per tick (default 1/60 s).
func WithStep(dt time.Duration) Option {
	return Option{kind: optHarness, hfn: func(h *Harness) { h.Step = dt }}
}

// NewHarness builds a session from opts. Harness options are applied first.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{Step: time.Second / 60}
	for _, o := range opts {
		if o.kind == optHarness && o.hfn != nil {
			o.hfn(h)
		}
	}
	h.Session = NewSession(h.mode, opts...)
	h.Log = h.Session.EventLog()
	return h
}

// RunTicks advances n ticks or until the round ends.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n && !h.Session.Outcome().Over; i++ {
		h.Session.Tick(h.Step, h.Input)
	}
}

// RunFor advances d of simulated time.
func (h *Harness) RunFor(d time.Duration) {
	h.RunTicks(int(math.Ceil(float64(d) / float64(h.Step))))
}

// RunUntil ticks until cond holds or maxTicks pass. It returns the number of
// ticks run and whether cond was met.
func (h *Harness) RunUntil(cond func(*Session) bool, maxTicks int) (int, bool) {
	for i := 0; i < maxTicks; i++ {
		if cond(h.Session) {
			return i, true
		}
		if h.Session.Outcome().Over {
			return i, false
		}
		h.Session.Tick(h.Step, h.Input)
	}
	return maxTicks, cond(h.Session)
}

// Player returns the tank of player id.
func (h *Harness) Player(id PlayerID) *Tank { return h.Session.PlayerTank(id) }

// --- Autopilot ---

// Autopilot plays every human seat with a simple hunt-and-shoot routine so
// whole rounds can run unattended. Each seat turns toward the nearest enemy,
// holds fire, and wanders on a random heading for a while when it has not
// moved for a second.
type Autopilot struct {
	s     *Session
	rng   Rand
	step  time.Duration // frame time the intents are sampled at
	seats map[PlayerID]*seat
}

type seat struct {
	lastX, lastY float64
	idle         time.Duration
	wander       time.Duration
	heading      Heading
}

// NewAutopilot binds an autopilot to s. Intents must be read once per seat
// per tick of length step.
func NewAutopilot(s *Session, rng Rand, step time.Duration) *Autopilot {
	return &Autopilot{s: s, rng: rng, step: step, seats: make(map[PlayerID]*seat)}
}

// Bind re-targets the autopilot to a new session.
func (a *Autopilot) Bind(s *Session) {
	a.s = s
	a.seats = make(map[PlayerID]*seat)
}

// Intents implements InputSource.
func (a *Autopilot) Intents(id PlayerID) Intents {
	t := a.s.PlayerTank(id)
	if t == nil || !t.Alive {
		return nil
	}
	st, ok := a.seats[id]
	if !ok {
		st = &seat{lastX: t.X, lastY: t.Y}
		a.seats[id] = st
	}
	dt := a.step
	if math.Abs(t.X-st.lastX) < 0.01 && math.Abs(t.Y-st.lastY) < 0.01 {
		st.idle += dt
	} else {
		st.idle = 0
	}
	st.lastX, st.lastY = t.X, t.Y

	if st.idle > time.Second && st.wander <= 0 {
		st.wander = time.Second + time.Duration(a.rng.Float64()*float64(time.Second))
		st.heading = cardinalHeadings[a.rng.Intn(len(cardinalHeadings))]
		st.idle = 0
	}

	h := t.Heading
	if st.wander > 0 {
		st.wander -= dt
		h = st.heading
	} else if target := nearestLiveTank(t, a.s.Enemies); target != nil {
		h = headingToward(target.X-t.X, target.Y-t.Y)
	}

	in := Intents{ActionFire: true}
	switch h {
	case HeadingUp:
		in[ActionUp] = true
	case HeadingDown:
		in[ActionDown] = true
	case HeadingLeft:
		in[ActionLeft] = true
	case HeadingRight:
		in[ActionRight] = true
	}
	return in
}
