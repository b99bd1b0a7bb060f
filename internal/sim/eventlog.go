package sim

import (
	"fmt"
	"strings"
)

// LogEntry is one recorded event, flattened for filtering and printing.
type LogEntry struct {
	Tick     int
	Actor    string  // tank label e.g. "P1", "E4", or "--" for global events
	Faction  string  // "ally", "enemy", or "--"
	Category string  // combat, terrain, spawn, pickup, wave, round, ai
	Key      string  // event kind name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric payload for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] P1   combat    shot_fired       heading=up
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-9s %-18s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// EventLog collects every event of a session in order. Unlike the per-tick
// event slice it is unbounded and meant for tests and reports.
type EventLog struct {
	entries []LogEntry
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, high-frequency events
// (shots, AI goal changes) are kept as well.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// noisy reports kinds that fire many times per second in a busy round.
func noisy(k EventKind) bool {
	return k == EventShotFired || k == EventAIStateChange
}

// Add records an event.
func (el *EventLog) Add(e Event) {
	if noisy(e.Kind) && !el.verbose {
		return
	}
	actor, faction := e.Actor, e.Faction.String()
	if actor == "" {
		actor, faction = "--", "--"
	}
	el.entries = append(el.entries, LogEntry{
		Tick:     e.Tick,
		Actor:    actor,
		Faction:  faction,
		Category: e.Kind.Category(),
		Key:      e.Kind.String(),
		Value:    e.Detail,
		NumVal:   e.Value,
	})
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []LogEntry {
	return el.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for one tank label.
func (el *EventLog) FilterActor(label string) []LogEntry {
	var out []LogEntry
	for _, e := range el.entries {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (LogEntry, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// FirstTick returns the tick of the first entry matching category+key, or -1.
func (el *EventLog) FirstTick(category, key string) int {
	for _, e := range el.entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if e.Category == category && e.Key == key && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Dump renders the whole log, one entry per line.
func (el *EventLog) Dump() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
