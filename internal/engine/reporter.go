package engine

import (
	"fmt"
	"sort"
	"strings"
)

// MatchReport is a full snapshot of the match at one point in virtual time.
type MatchReport struct {
	Time        VirtualTime
	Phase       DirectorPhase
	AliveAgents int
	TotalUnits  int
	Zombies     int
	Vaults      int
	Alliances   int // distinct alliance pairs
	Wars        int // distinct war pairs
	TotalKills  int

	LeaderName     string
	LeaderMaterial int
}

// AgentGrade is the per-agent line of the final report.
type AgentGrade struct {
	Name         string
	Personality  Personality
	Eliminated   bool
	Material     int
	PeakMaterial int
	Kills        int
	KingsKilled  int
	Credits      int
}

// MatchReporter samples MatchReports over a run and summarises them. It is
// the analysis side of the headless tool: the harness drives ticks, the
// reporter answers "what kind of match was that".
type MatchReporter struct {
	history []MatchReport
}

func NewMatchReporter() *MatchReporter {
	return &MatchReporter{}
}

// Collect takes one snapshot of the engine.
func (r *MatchReporter) Collect(e *Engine) {
	rep := MatchReport{
		Time:        e.Now(),
		Phase:       e.Phase(),
		AliveAgents: e.AliveAgents(),
	}
	for _, u := range e.store.Units() {
		if u.Dead {
			continue
		}
		rep.TotalUnits++
		if u.Zombie {
			rep.Zombies++
		}
		if u.Type == Vault {
			rep.Vaults++
		}
	}
	var leader *Player
	for _, p := range e.store.Players() {
		if p.NPC {
			continue
		}
		rep.TotalKills += p.Kills
		rep.Alliances += len(p.Allies)
		rep.Wars += len(p.Enemies)
		if !p.Eliminated && (leader == nil || p.Material > leader.Material) {
			leader = p
		}
	}
	rep.Alliances /= 2
	rep.Wars /= 2
	if leader != nil {
		rep.LeaderName = leader.Name
		rep.LeaderMaterial = leader.Material
	}
	r.history = append(r.history, rep)
}

// Latest returns the most recent snapshot, or nil before the first Collect.
func (r *MatchReporter) Latest() *MatchReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all snapshots in collection order.
func (r *MatchReporter) History() []MatchReport {
	return r.history
}

// PhaseTimes returns when each director phase was first observed.
func (r *MatchReporter) PhaseTimes() map[DirectorPhase]VirtualTime {
	out := map[DirectorPhase]VirtualTime{}
	for _, rep := range r.history {
		if _, seen := out[rep.Phase]; !seen {
			out[rep.Phase] = rep.Time
		}
	}
	return out
}

// Grades returns the per-agent final standings, winners first.
func (r *MatchReporter) Grades(e *Engine) []AgentGrade {
	var grades []AgentGrade
	for _, p := range e.store.Players() {
		if p.NPC {
			continue
		}
		grades = append(grades, AgentGrade{
			Name:         p.Name,
			Personality:  p.Personality,
			Eliminated:   p.Eliminated,
			Material:     p.Material,
			PeakMaterial: p.PeakMaterial,
			Kills:        p.Kills,
			KingsKilled:  p.KingsKilled,
			Credits:      p.Credits,
		})
	}
	sort.Slice(grades, func(i, j int) bool {
		a, b := grades[i], grades[j]
		if a.Eliminated != b.Eliminated {
			return !a.Eliminated
		}
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		return a.PeakMaterial > b.PeakMaterial
	})
	return grades
}

// FormatLatest renders the most recent snapshot as a short block.
func (r *MatchReporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "(no snapshots)\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "t=%.1fs phase=%s alive=%d units=%d",
		float64(rep.Time)/1000, rep.Phase, rep.AliveAgents, rep.TotalUnits)
	if rep.Zombies > 0 {
		fmt.Fprintf(&sb, " zombies=%d", rep.Zombies)
	}
	if rep.Vaults > 0 {
		fmt.Fprintf(&sb, " vaults=%d", rep.Vaults)
	}
	if rep.Alliances > 0 || rep.Wars > 0 {
		fmt.Fprintf(&sb, " alliances=%d wars=%d", rep.Alliances, rep.Wars)
	}
	fmt.Fprintf(&sb, " kills=%d", rep.TotalKills)
	if rep.LeaderName != "" {
		fmt.Fprintf(&sb, " leader=%s(%d)", rep.LeaderName, rep.LeaderMaterial)
	}
	sb.WriteByte('\n')
	return sb.String()
}
