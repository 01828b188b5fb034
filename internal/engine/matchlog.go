package engine

import (
	"fmt"
	"strings"
)

// MatchLogEntry is one recorded event during a headless match run.
type MatchLogEntry struct {
	Time     VirtualTime
	Player   string  // player name, or "--" for global events
	Category string  // combat, economy, diplomacy, director, mode, unit
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[t=042.5s] Vex    combat     king_killed      by Korrin
func (e MatchLogEntry) String() string {
	return fmt.Sprintf("[t=%06.1fs] %-10s %-10s %-18s %s",
		float64(e.Time)/1000, e.Player, e.Category, e.Key, e.Value)
}

// MatchLog collects structured events during a headless match. Unlike the
// drained UI event stream it is unbounded and machine-queryable, which is
// what the scenario tests and the report tool grep through.
type MatchLog struct {
	entries []MatchLogEntry
	verbose bool
}

// NewMatchLog creates a MatchLog. If verbose is true, per-activation move
// entries are recorded too.
func NewMatchLog(verbose bool) *MatchLog {
	return &MatchLog{verbose: verbose}
}

// Add records a new entry.
func (ml *MatchLog) Add(t VirtualTime, player, category, key, value string, numVal float64) {
	ml.entries = append(ml.entries, MatchLogEntry{
		Time:     t,
		Player:   player,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MatchLog) AddVerbose(t VirtualTime, player, category, key, value string, numVal float64) {
	if !ml.verbose {
		return
	}
	ml.Add(t, player, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (ml *MatchLog) Entries() []MatchLogEntry {
	return ml.entries
}

// Filter returns entries matching the given category and/or key. Pass empty
// string to match any value for that field.
func (ml *MatchLog) Filter(category, key string) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.entries {
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

// FilterPlayer returns all entries for one player name.
func (ml *MatchLog) FilterPlayer(name string) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.entries {
		if e.Player == name {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory counts entries matching category/key.
func (ml *MatchLog) CountCategory(category, key string) int {
	return len(ml.Filter(category, key))
}

// LastOf returns the most recent entry matching category/key.
func (ml *MatchLog) LastOf(category, key string) (MatchLogEntry, bool) {
	matches := ml.Filter(category, key)
	if len(matches) == 0 {
		return MatchLogEntry{}, false
	}
	return matches[len(matches)-1], true
}

// HasEntry reports whether any entry matches category/key and contains
// valueSubstr in its value (empty substring matches anything).
func (ml *MatchLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range ml.Filter(category, key) {
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the whole log, one line per entry.
func (ml *MatchLog) Format() string {
	var sb strings.Builder
	for _, e := range ml.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
