package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

const (
	feedPanelWidth = 280
	feedMaxEntries = 48
	feedLineHeight = 12
	feedRecent     = 3 // newest lines drawn highlighted
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Label   string // tank label, or "--"
	Faction sim.Faction
	Global  bool // wave, round and objective lines carry no faction colour
	Message string
}

// EventFeed is a ring buffer of recent round events rendered beside the arena.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(e FeedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// AddEvent turns a round event into a feed line. Shots and AI chatter are
// too frequent to read and are skipped.
func (f *EventFeed) AddEvent(e sim.Event) {
	msg, ok := feedMessage(e)
	if !ok {
		return
	}
	entry := FeedEntry{Tick: e.Tick, Label: e.Actor, Faction: e.Faction, Message: msg}
	if e.Actor == "" {
		entry.Label, entry.Global = "--", true
	}
	f.Add(entry)
}

// Reset empties the feed.
func (f *EventFeed) Reset() {
	f.head, f.count = 0, 0
}

// Len returns the number of stored entries.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

func feedMessage(e sim.Event) (string, bool) {
	switch e.Kind {
	case sim.EventShotFired, sim.EventAIStateChange, sim.EventPickupSpawned, sim.EventTileDestroyed:
		return "", false
	case sim.EventTankHit:
		return "hit, armour holds", true
	case sim.EventExplosion:
		if e.Actor == "" {
			return "", false
		}
		return "destroyed", true
	case sim.EventPlayerHit:
		return "hit " + e.Detail, true
	case sim.EventPlayerRespawned:
		return "respawned", true
	case sim.EventPlayerEliminated:
		return "eliminated", true
	case sim.EventSpawnFallback:
		return "spawn blocked, forced", true
	case sim.EventPickupCollected:
		return "picked up " + e.Detail, true
	case sim.EventPickupExpired:
		return e.Detail + " expired", true
	case sim.EventEnemySpawned:
		return "enters " + e.Detail, true
	case sim.EventWaveStarted:
		return fmt.Sprintf("wave %d", int(e.Value)), true
	case sim.EventObjectiveDestroyed:
		return "base destroyed", true
	default:
		return e.Kind.String(), true
	}
}

// Draw renders the feed panel at panelX, full height.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.DrawFilledRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 12, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 80, A: 255}, false)

	vector.DrawFilledRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 24, G: 24, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-feedRecent {
			vector.DrawFilledRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 34, G: 34, B: 48, A: 160}, false)
		}
		vector.DrawFilledRect(screen, float32(panelX+5), float32(y+3), 3, 5, feedDotColor(e), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += feedLineHeight
	}
}

func feedDotColor(e FeedEntry) color.RGBA {
	switch {
	case e.Global:
		return color.RGBA{R: 220, G: 200, B: 90, A: 255}
	case e.Faction == sim.FactionAlly:
		return color.RGBA{R: 90, G: 200, B: 110, A: 255}
	default:
		return color.RGBA{R: 210, G: 80, B: 70, A: 255}
	}
}
