package sim

import (
	"fmt"
	"time"
)

// Mode is the player arrangement of a round.
type Mode int

const (
	ModeSingle      Mode = iota // one player, own lives and score
	ModeCooperative             // two players, shared lives and score
	ModeVersus                  // two players, independent ledgers, friendly fire
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeCooperative:
		return "cooperative"
	case ModeVersus:
		return "versus"
	default:
		return "unknown"
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeSingle, ModeCooperative, ModeVersus} {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeSingle, fmt.Errorf("unknown mode %q (want single, cooperative or versus)", s)
}

// PilotSummary is the per-player HUD line.
type PilotSummary struct {
	ID     PlayerID      `json:"id"`
	Alive  bool          `json:"alive"`
	Lives  int           `json:"lives"`
	Score  int           `json:"score"`
	Health int           `json:"health"`
	Shield time.Duration `json:"shield"`
}

// Summary is everything a HUD shows about a round.
type Summary struct {
	Mode         Mode           `json:"mode"`
	Wave         int            `json:"wave"`
	ToSpawn      int            `json:"toSpawn"`
	EnemiesAlive int            `json:"enemiesAlive"`
	Shared       bool           `json:"shared"` // SharedLives/SharedScore apply
	SharedLives  int            `json:"sharedLives"`
	SharedScore  int            `json:"sharedScore"`
	Players      []PilotSummary `json:"players"`
	Frozen       time.Duration  `json:"frozen"`
	Headline     string         `json:"headline"` // final-score line for the game-over screen
}

// ModePolicy centralises every rule that differs between modes.
type ModePolicy interface {
	Mode() Mode
	// Setup creates the player tanks and initial ledgers.
	Setup(s *Session)
	// CreditKill awards an enemy kill made by shooter.
	CreditKill(s *Session, shooter PlayerID)
	// FriendlyFire reports whether player shells may hit other players.
	FriendlyFire() bool
	// PlayerHit applies one hit on target; shooter is NoPlayer for AI fire.
	PlayerHit(s *Session, target *Tank, shooter PlayerID)
	// ExtraLife applies an extra-life pickup collected by t.
	ExtraLife(s *Session, t *Tank)
	// Check reports whether the mode's own end condition has been reached.
	Check(s *Session) Outcome
	// Summary fills the mode-specific HUD fields.
	Summary(s *Session, sum *Summary)
}

// NewModePolicy returns the policy for m.
func NewModePolicy(m Mode) ModePolicy {
	switch m {
	case ModeCooperative:
		return &coopPolicy{}
	case ModeVersus:
		return &versusPolicy{}
	default:
		return &singlePolicy{}
	}
}

// --- Single ---

type singlePolicy struct{}

func (p *singlePolicy) Mode() Mode { return ModeSingle }

func (p *singlePolicy) Setup(s *Session) {
	s.addPlayer(1, VariantPlayer1, s.Tuning.Cols/2, s.Tuning.SingleLives)
}

func (p *singlePolicy) CreditKill(s *Session, _ PlayerID) {
	for _, t := range s.Players {
		t.Pilot.Score += s.Tuning.EnemyKillScore
	}
}

func (p *singlePolicy) FriendlyFire() bool { return false }

func (p *singlePolicy) PlayerHit(s *Session, target *Tank, _ PlayerID) {
	target.Pilot.Lives--
	if target.Pilot.Lives <= 0 {
		target.Pilot.Lives = 0
		s.eliminate(target)
		return
	}
	s.respawn(target)
}

func (p *singlePolicy) ExtraLife(_ *Session, t *Tank) { t.Pilot.Lives++ }

func (p *singlePolicy) Check(s *Session) Outcome {
	for _, t := range s.Players {
		if t.Pilot.Lives > 0 {
			return Outcome{}
		}
	}
	return Outcome{Over: true, Reason: EndLivesExhausted}
}

func (p *singlePolicy) Summary(s *Session, sum *Summary) {
	if len(s.Players) > 0 {
		sum.Headline = fmt.Sprintf("Score: %d", s.Players[0].Pilot.Score)
	}
}

// --- Cooperative ---

type coopPolicy struct {
	lives int
	score int
}

func (p *coopPolicy) Mode() Mode { return ModeCooperative }

func (p *coopPolicy) Setup(s *Session) {
	p.lives = s.Tuning.SharedLives
	mid, spread := s.Tuning.Cols/2, s.Tuning.PlayerSpreadCol
	s.addPlayer(1, VariantPlayer1, mid-spread, 0)
	s.addPlayer(2, VariantPlayer2, mid+spread, 0)
}

func (p *coopPolicy) CreditKill(s *Session, _ PlayerID) { p.score += s.Tuning.EnemyKillScore }

func (p *coopPolicy) FriendlyFire() bool { return false }

// PlayerHit drains the shared pool no matter who was hit. The last life ends
// the round, so the tank is not respawned then.
func (p *coopPolicy) PlayerHit(s *Session, target *Tank, _ PlayerID) {
	if p.lives > 0 {
		p.lives--
	}
	if p.lives == 0 {
		s.eliminate(target)
		return
	}
	s.respawn(target)
}

func (p *coopPolicy) ExtraLife(_ *Session, _ *Tank) { p.lives++ }

func (p *coopPolicy) Check(_ *Session) Outcome {
	if p.lives <= 0 {
		return Outcome{Over: true, Reason: EndLivesExhausted}
	}
	return Outcome{}
}

func (p *coopPolicy) Summary(_ *Session, sum *Summary) {
	sum.Shared = true
	sum.SharedLives = p.lives
	sum.SharedScore = p.score
	sum.Headline = fmt.Sprintf("Team score: %d", p.score)
}

// --- Versus ---

type versusPolicy struct{}

func (p *versusPolicy) Mode() Mode { return ModeVersus }

func (p *versusPolicy) Setup(s *Session) {
	mid, spread := s.Tuning.Cols/2, s.Tuning.PlayerSpreadCol
	s.addPlayer(1, VariantPlayer1, mid-spread, s.Tuning.VersusLives)
	s.addPlayer(2, VariantPlayer2, mid+spread, s.Tuning.VersusLives)
}

func (p *versusPolicy) CreditKill(s *Session, shooter PlayerID) {
	if t := s.PlayerTank(shooter); t != nil {
		t.Pilot.Score += s.Tuning.EnemyKillScore
	}
}

func (p *versusPolicy) FriendlyFire() bool { return true }

func (p *versusPolicy) PlayerHit(s *Session, target *Tank, shooter PlayerID) {
	if shooter != NoPlayer && shooter != target.Pilot.ID {
		if t := s.PlayerTank(shooter); t != nil {
			t.Pilot.Score += s.Tuning.PlayerHitScore
		}
	}
	target.Pilot.Lives--
	if target.Pilot.Lives <= 0 {
		target.Pilot.Lives = 0
		s.eliminate(target)
		return
	}
	s.respawn(target)
}

func (p *versusPolicy) ExtraLife(_ *Session, t *Tank) { t.Pilot.Lives++ }

// Check ends the round once at most one player is standing. Evaluated after
// the whole tick, so players eliminated in the same tick draw.
func (p *versusPolicy) Check(s *Session) Outcome {
	var standing []*Tank
	for _, t := range s.Players {
		if t.Alive && t.Pilot.Lives > 0 {
			standing = append(standing, t)
		}
	}
	switch len(standing) {
	case 0:
		return Outcome{Over: true, Reason: EndDraw}
	case 1:
		return Outcome{Over: true, Reason: EndLastStanding, Winner: standing[0].Pilot.ID}
	default:
		return Outcome{}
	}
}

func (p *versusPolicy) Summary(s *Session, sum *Summary) {
	o := s.Outcome()
	switch {
	case o.Winner != NoPlayer:
		if t := s.PlayerTank(o.Winner); t != nil {
			sum.Headline = fmt.Sprintf("Player %d wins. Score: %d", o.Winner, t.Pilot.Score)
		}
	case o.Over && o.Reason != EndObjectiveDestroyed:
		sum.Headline = "Draw"
	default:
		parts := ""
		for i, t := range s.Players {
			if i > 0 {
				parts += "  "
			}
			parts += fmt.Sprintf("P%d: %d", t.Pilot.ID, t.Pilot.Score)
		}
		sum.Headline = parts
	}
}
