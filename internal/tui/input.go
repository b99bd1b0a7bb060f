// Package tui is the terminal front end: tcell rendering of round snapshots
// and a key-hold adapter for terminals that only report key presses.
package tui

import (
	"time"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// Terminals send no key-up events. A press holds its action until a deadline
// that auto-repeat keeps pushing forward; the first press covers the usual
// repeat delay so a held key does not stutter.
const (
	firstHold  = 550 * time.Millisecond
	repeatHold = 120 * time.Millisecond
)

// Binding is the player action a key drives.
type Binding struct {
	ID     sim.PlayerID
	Action sim.Action
}

// DefaultKeys maps key names to player actions: player 1 on WASD + space,
// player 2 on the arrows + enter.
func DefaultKeys() map[string]Binding {
	return map[string]Binding{
		"w":     {1, sim.ActionUp},
		"s":     {1, sim.ActionDown},
		"a":     {1, sim.ActionLeft},
		"d":     {1, sim.ActionRight},
		" ":     {1, sim.ActionFire},
		"up":    {2, sim.ActionUp},
		"down":  {2, sim.ActionDown},
		"left":  {2, sim.ActionLeft},
		"right": {2, sim.ActionRight},
		"enter": {2, sim.ActionFire},
	}
}

// HoldInput is a sim.InputSource built from timed key presses.
type HoldInput struct {
	keys  map[string]Binding
	until map[sim.PlayerID]map[sim.Action]time.Time
	now   time.Time
}

// NewHoldInput creates an adapter over the given key map.
func NewHoldInput(keys map[string]Binding) *HoldInput {
	return &HoldInput{keys: keys, until: make(map[sim.PlayerID]map[sim.Action]time.Time)}
}

// Press records a key press at now. It reports whether the key is bound.
// A direction press releases the player's other directions at once, so
// turning does not wait for the old key to time out.
func (h *HoldInput) Press(name string, now time.Time) bool {
	b, ok := h.keys[name]
	if !ok {
		return false
	}
	held := h.until[b.ID]
	if held == nil {
		held = make(map[sim.Action]time.Time)
		h.until[b.ID] = held
	}
	if b.Action != sim.ActionFire {
		for a := range held {
			if a != b.Action && a != sim.ActionFire {
				delete(held, a)
			}
		}
	}
	d, ok := held[b.Action]
	switch {
	case !ok || !d.After(now):
		held[b.Action] = now.Add(firstHold)
	case d.Before(now.Add(repeatHold)):
		held[b.Action] = now.Add(repeatHold)
	}
	return true
}

// Sample fixes the time at which Intents evaluates holds. Call once per
// frame before ticking.
func (h *HoldInput) Sample(now time.Time) { h.now = now }

// Release drops every hold, e.g. when a round ends.
func (h *HoldInput) Release() {
	h.until = make(map[sim.PlayerID]map[sim.Action]time.Time)
}

// Intents implements sim.InputSource.
func (h *HoldInput) Intents(id sim.PlayerID) sim.Intents {
	held := h.until[id]
	if len(held) == 0 {
		return nil
	}
	in := make(sim.Intents, len(held))
	for a, d := range held {
		if d.After(h.now) {
			in[a] = true
		}
	}
	return in
}
