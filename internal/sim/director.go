package sim

import (
	"errors"
	"fmt"
	"time"
)

// Phase is the top-level screen state of the game.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseModeSelect
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseModeSelect:
		return "mode_select"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a phase change is not allowed from
// the current phase.
var ErrInvalidTransition = errors.New("invalid phase transition")

// Director owns the phase machine and the current round. Pausing is handled
// here by not delivering ticks; the Session itself has no paused state.
type Director struct {
	phase   Phase
	session *Session
	seed    int64
	rounds  int64
	opts    []Option
}

// NewDirector starts at the menu. Each round gets its own seed derived from
// seed so consecutive rounds differ but a whole run is reproducible.
func NewDirector(seed int64, opts ...Option) *Director {
	return &Director{phase: PhaseMenu, seed: seed, opts: opts}
}

// Phase returns the current phase.
func (d *Director) Phase() Phase { return d.phase }

// Session returns the current round, or nil before the first Start.
func (d *Director) Session() *Session { return d.session }

func (d *Director) transition(to Phase, from ...Phase) error {
	for _, f := range from {
		if d.phase == f {
			d.phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.phase, to)
}

// OpenModeSelect moves from the menu to mode selection.
func (d *Director) OpenModeSelect() error {
	return d.transition(PhaseModeSelect, PhaseMenu)
}

// Start begins a fresh round of mode.
func (d *Director) Start(mode Mode) error {
	if err := d.transition(PhasePlaying, PhaseModeSelect); err != nil {
		return err
	}
	d.rounds++
	opts := append([]Option{WithSeed(d.seed + d.rounds)}, d.opts...)
	d.session = NewSession(mode, opts...)
	return nil
}

// Pause stops tick delivery.
func (d *Director) Pause() error {
	return d.transition(PhasePaused, PhasePlaying)
}

// Resume restarts tick delivery.
func (d *Director) Resume() error {
	return d.transition(PhasePlaying, PhasePaused)
}

// TogglePause flips between playing and paused.
func (d *Director) TogglePause() error {
	if d.phase == PhasePaused {
		return d.Resume()
	}
	return d.Pause()
}

// Advance ticks the round while playing and moves to game over when it ends.
// In any other phase it does nothing.
func (d *Director) Advance(dt time.Duration, in InputSource) {
	if d.phase != PhasePlaying || d.session == nil {
		return
	}
	d.session.Tick(dt, in)
	if d.session.Outcome().Over {
		d.phase = PhaseGameOver
	}
}

// ReturnToMenu abandons or closes the round and shows the menu.
func (d *Director) ReturnToMenu() error {
	return d.transition(PhaseMenu, PhaseGameOver, PhasePaused)
}

// ReturnToModeSelect abandons or closes the round and shows mode selection.
func (d *Director) ReturnToModeSelect() error {
	return d.transition(PhaseModeSelect, PhaseGameOver, PhasePaused)
}
