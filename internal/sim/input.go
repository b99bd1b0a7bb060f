package sim

// Action is a logical control a human player can hold.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "moveUp"
	case ActionDown:
		return "moveDown"
	case ActionLeft:
		return "moveLeft"
	case ActionRight:
		return "moveRight"
	case ActionFire:
		return "fire"
	default:
		return "unknown"
	}
}

// Intents maps actions to their held state for one player. Missing entries
// read as not held.
type Intents map[Action]bool

// Held reports whether a is currently held. Safe on a nil map.
func (in Intents) Held(a Action) bool { return in[a] }

// directionOrder is the priority used when several directions are held.
var directionOrder = [4]struct {
	action  Action
	heading Heading
}{
	{ActionUp, HeadingUp},
	{ActionDown, HeadingDown},
	{ActionLeft, HeadingLeft},
	{ActionRight, HeadingRight},
}

// Direction returns the heading requested by the first held direction in
// up, down, left, right order.
func (in Intents) Direction() (Heading, bool) {
	for _, d := range directionOrder {
		if in.Held(d.action) {
			return d.heading, true
		}
	}
	return HeadingUp, false
}

// InputSource supplies the held-action mapping for each human player. The
// concrete device (keyboard, terminal, touch overlay) lives outside the core.
type InputSource interface {
	Intents(id PlayerID) Intents
}

// StaticInput is an InputSource backed by a fixed map, handy for tests and
// scripted runs.
type StaticInput map[PlayerID]Intents

// Intents implements InputSource.
func (s StaticInput) Intents(id PlayerID) Intents { return s[id] }

// intentsOf reads one player's intents from a possibly nil source.
func intentsOf(src InputSource, id PlayerID) Intents {
	if src == nil {
		return nil
	}
	return src.Intents(id)
}
