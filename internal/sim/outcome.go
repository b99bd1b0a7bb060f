package sim

import "fmt"

// EndReason says why a round finished.
type EndReason int

const (
	EndNone               EndReason = iota // still running
	EndObjectiveDestroyed                  // the base fell
	EndLivesExhausted                      // no lives left (single / co-op pool)
	EndLastStanding                        // versus: one player remains
	EndDraw                                // versus: everyone went down together
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "running"
	case EndObjectiveDestroyed:
		return "objective_destroyed"
	case EndLivesExhausted:
		return "lives_exhausted"
	case EndLastStanding:
		return "last_standing"
	case EndDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of a round. Winner is NoPlayer unless a
// versus round produced a sole survivor.
type Outcome struct {
	Over   bool      `json:"over"`
	Reason EndReason `json:"reason"`
	Winner PlayerID  `json:"winner"`
}

// Draw reports a versus round with no survivor.
func (o Outcome) Draw() bool { return o.Reason == EndDraw }

// Won reports a round that ended with a named winner.
func (o Outcome) Won() bool { return o.Over && o.Winner != NoPlayer }

// Description is a one-line human summary of the outcome.
func (o Outcome) Description() string {
	switch o.Reason {
	case EndNone:
		return "round in progress"
	case EndObjectiveDestroyed:
		return "the base was destroyed"
	case EndLivesExhausted:
		return "no lives remaining"
	case EndLastStanding:
		return fmt.Sprintf("player %d is the last tank standing", o.Winner)
	case EndDraw:
		return "all players eliminated in the same moment"
	default:
		return "unknown"
	}
}

// event returns the round event announcing the outcome.
func (o Outcome) event() Event {
	e := Event{Kind: EventRoundLost, Player: o.Winner, Detail: o.Reason.String()}
	switch {
	case o.Won():
		e.Kind = EventRoundWon
		e.Detail = fmt.Sprintf("winner=P%d", o.Winner)
	case o.Draw():
		e.Kind = EventRoundDraw
	}
	return e
}
