package sim

// EventKind names a discrete happening that feedback collaborators (audio,
// HUD flashes, logs) may react to.
type EventKind int

const (
	EventShotFired EventKind = iota
	EventTileDestroyed
	EventTankHit // damaged but still alive
	EventExplosion
	EventPlayerHit
	EventPlayerRespawned
	EventPlayerEliminated
	EventSpawnFallback
	EventPickupSpawned
	EventPickupCollected
	EventPickupExpired
	EventEnemySpawned
	EventWaveStarted
	EventObjectiveDestroyed
	EventRoundLost
	EventRoundWon
	EventRoundDraw
	EventAIStateChange
)

var eventNames = [...]string{
	EventShotFired:          "shot_fired",
	EventTileDestroyed:      "tile_destroyed",
	EventTankHit:            "tank_hit",
	EventExplosion:          "explosion",
	EventPlayerHit:          "player_hit",
	EventPlayerRespawned:    "player_respawned",
	EventPlayerEliminated:   "player_eliminated",
	EventSpawnFallback:      "spawn_fallback",
	EventPickupSpawned:      "pickup_spawned",
	EventPickupCollected:    "pickup_collected",
	EventPickupExpired:      "pickup_expired",
	EventEnemySpawned:       "enemy_spawned",
	EventWaveStarted:        "wave_started",
	EventObjectiveDestroyed: "objective_destroyed",
	EventRoundLost:          "round_lost",
	EventRoundWon:           "round_won",
	EventRoundDraw:          "round_draw",
	EventAIStateChange:      "ai_state",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Category groups event kinds for log filtering.
func (k EventKind) Category() string {
	switch k {
	case EventShotFired, EventTankHit, EventExplosion, EventPlayerHit:
		return "combat"
	case EventTileDestroyed:
		return "terrain"
	case EventPlayerRespawned, EventPlayerEliminated, EventSpawnFallback, EventEnemySpawned:
		return "spawn"
	case EventPickupSpawned, EventPickupCollected, EventPickupExpired:
		return "pickup"
	case EventWaveStarted:
		return "wave"
	case EventObjectiveDestroyed, EventRoundLost, EventRoundWon, EventRoundDraw:
		return "round"
	case EventAIStateChange:
		return "ai"
	default:
		return "misc"
	}
}

// Event is one discrete happening in the tick it occurred.
type Event struct {
	Kind    EventKind
	Tick    int
	Actor   string // tank label, or "--" for global events
	Faction Faction
	Player  PlayerID // player involved, NoPlayer if none
	X, Y    float64
	Value   float64 // optional numeric payload (wave number, score, lives)
	Detail  string
}

// tankEvent builds an event positioned at t's centre.
func tankEvent(kind EventKind, t *Tank, detail string) Event {
	cx, cy := t.Center()
	e := Event{Kind: kind, Actor: t.Label, Faction: t.Faction, X: cx, Y: cy, Detail: detail}
	if t.Pilot != nil {
		e.Player = t.Pilot.ID
	}
	return e
}
