package sim

import (
	"fmt"
	"strings"
	"time"
)

// Stats are running counters for one session, used by reports and tests.
type Stats struct {
	Ticks            int           `json:"ticks"`
	Elapsed          time.Duration `json:"elapsed"`
	Waves            int           `json:"waves"`
	ShotsFired       int           `json:"shotsFired"`
	TilesDestroyed   int           `json:"tilesDestroyed"`
	SteelHits        int           `json:"steelHits"`
	EnemiesSpawned   int           `json:"enemiesSpawned"`
	EnemiesDestroyed int           `json:"enemiesDestroyed"`
	PlayerHits       int           `json:"playerHits"`
	Respawns         int           `json:"respawns"`
	SpawnFallbacks   int           `json:"spawnFallbacks"`
	PickupsDropped   int           `json:"pickupsDropped"`
	PickupsCollected int           `json:"pickupsCollected"`
	PickupsExpired   int           `json:"pickupsExpired"`
}

// Accuracy is the fraction of shots that destroyed an enemy.
func (st Stats) Accuracy() float64 {
	if st.ShotsFired == 0 {
		return 0
	}
	return float64(st.EnemiesDestroyed) / float64(st.ShotsFired)
}

// String renders the counters as an aligned block.
func (st Stats) String() string {
	var sb strings.Builder
	row := func(k string, v any) { fmt.Fprintf(&sb, "  %-18s %v\n", k, v) }
	row("ticks", st.Ticks)
	row("elapsed", st.Elapsed.Round(time.Millisecond))
	row("waves", st.Waves)
	row("shots", st.ShotsFired)
	row("tiles destroyed", st.TilesDestroyed)
	row("steel hits", st.SteelHits)
	row("enemies spawned", st.EnemiesSpawned)
	row("enemies destroyed", st.EnemiesDestroyed)
	row("player hits", st.PlayerHits)
	row("respawns", st.Respawns)
	row("spawn fallbacks", st.SpawnFallbacks)
	row("pickups", fmt.Sprintf("%d dropped, %d collected, %d expired",
		st.PickupsDropped, st.PickupsCollected, st.PickupsExpired))
	return sb.String()
}

// Report is the plain-text round summary shown on game over and copied to
// the clipboard.
func (s *Session) Report() string {
	sum := s.Summary()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Brick Bastion, %s mode\n", s.mode)
	if s.outcome.Over {
		fmt.Fprintf(&sb, "Result: %s\n", s.outcome.Description())
	}
	fmt.Fprintf(&sb, "%s\n", sum.Headline)
	fmt.Fprintf(&sb, "Reached wave %d\n", sum.Wave)
	sb.WriteString(s.stats.String())
	return sb.String()
}
