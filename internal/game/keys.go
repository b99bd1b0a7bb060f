package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// Binding maps each action of one player to the keys that hold it.
type Binding map[sim.Action][]ebiten.Key

// DefaultBindings: player 1 on WASD + Space, player 2 on the arrows + Enter.
func DefaultBindings() map[sim.PlayerID]Binding {
	return map[sim.PlayerID]Binding{
		1: {
			sim.ActionUp:    {ebiten.KeyW},
			sim.ActionDown:  {ebiten.KeyS},
			sim.ActionLeft:  {ebiten.KeyA},
			sim.ActionRight: {ebiten.KeyD},
			sim.ActionFire:  {ebiten.KeySpace},
		},
		2: {
			sim.ActionUp:    {ebiten.KeyArrowUp},
			sim.ActionDown:  {ebiten.KeyArrowDown},
			sim.ActionLeft:  {ebiten.KeyArrowLeft},
			sim.ActionRight: {ebiten.KeyArrowRight},
			sim.ActionFire:  {ebiten.KeyEnter, ebiten.KeyNumpadEnter},
		},
	}
}

// Keyboard is a sim.InputSource sampled once per frame from key state.
type Keyboard struct {
	bindings map[sim.PlayerID]Binding
	pressed  func(ebiten.Key) bool
	held     map[sim.PlayerID]sim.Intents
}

// NewKeyboard reads live key state through ebiten.
func NewKeyboard(bindings map[sim.PlayerID]Binding) *Keyboard {
	return newKeyboard(bindings, ebiten.IsKeyPressed)
}

func newKeyboard(bindings map[sim.PlayerID]Binding, pressed func(ebiten.Key) bool) *Keyboard {
	return &Keyboard{
		bindings: bindings,
		pressed:  pressed,
		held:     make(map[sim.PlayerID]sim.Intents, len(bindings)),
	}
}

// Poll samples every bound key. Call once per frame before ticking.
func (k *Keyboard) Poll() {
	for id, b := range k.bindings {
		in := make(sim.Intents, len(b))
		for action, keys := range b {
			for _, key := range keys {
				if k.pressed(key) {
					in[action] = true
					break
				}
			}
		}
		k.held[id] = in
	}
}

// Intents implements sim.InputSource.
func (k *Keyboard) Intents(id sim.PlayerID) sim.Intents {
	return k.held[id]
}
