// headless-report runs batches of botmatches without a window and prints
// aggregate pacing and outcome statistics. It is the tuning loop's feedback
// instrument: tweak configs/balance.yaml, rerun, compare.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Garsondee/chess-royale/internal/config"
	"github.com/Garsondee/chess-royale/internal/engine"
)

type runStats struct {
	runIndex int
	seed     int64

	ticksRun     int
	winner       string
	hordeWin     bool
	endTime      engine.VirtualTime
	totalKills   int
	kingKills    int
	alliances    int
	wars         int
	phaseTimes   map[engine.DirectorPhase]engine.VirtualTime
	topGrade     engine.AgentGrade
	sampleReport string
}

func main() {
	var (
		runs     int
		ticks    int
		seedBase int64
		seedStep int64
		mode     string
		bots     int
		balPath  string
		verbose  bool
	)

	root := &cobra.Command{
		Use:   "headless-report",
		Short: "Run windowless bot matches and report pacing statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runs <= 0 {
				return fmt.Errorf("--runs must be > 0")
			}
			bal, err := config.Load(balPath)
			if err != nil {
				return err
			}
			var all []runStats
			for i := 0; i < runs; i++ {
				seed := seedBase + int64(i)*seedStep
				all = append(all, runOne(i+1, seed, ticks, parseMode(mode), bots, bal, verbose))
			}
			printSummary(all, verbose)
			return nil
		},
	}
	root.Flags().IntVar(&runs, "runs", 5, "number of headless match runs")
	root.Flags().IntVar(&ticks, "ticks", 20000, "max ticks per run (~16ms each)")
	root.Flags().Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	root.Flags().Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	root.Flags().StringVar(&mode, "mode", "standard", "game mode")
	root.Flags().IntVar(&bots, "bots", 12, "bot count")
	root.Flags().StringVar(&balPath, "balance", "", "balance YAML path")
	root.Flags().BoolVar(&verbose, "verbose", false, "include per-run detail")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func runOne(idx int, seed int64, maxTicks int, mode engine.GameMode, bots int, bal *config.Balance, verbose bool) runStats {
	tm := engine.NewTestMatch(
		engine.WithSeed(seed),
		engine.WithMode(mode),
		engine.WithBots(bots),
		engine.WithBalance(func(b *config.Balance) { *b = *bal }),
		engine.WithVerbose(verbose),
	)
	// The human seat idles; the match is bots fighting bots. Snapshots are
	// sampled every few seconds so phase timings land in the report.
	reporter := engine.NewMatchReporter()
	const sampleEvery = 250
	ticks := 0
	for ticks < maxTicks && tm.E.GameOver() == nil {
		tm.RunTicks(sampleEvery)
		ticks += sampleEvery
		reporter.Collect(tm.E)
	}

	st := runStats{
		runIndex:   idx,
		seed:       seed,
		ticksRun:   ticks,
		endTime:    tm.E.Now(),
		phaseTimes: reporter.PhaseTimes(),
	}
	if over := tm.E.GameOver(); over != nil {
		st.winner = over.WinnerName
		st.hordeWin = over.HordeWin
	}
	if latest := reporter.Latest(); latest != nil {
		st.totalKills = latest.TotalKills
		st.alliances = latest.Alliances
		st.wars = latest.Wars
	}
	st.kingKills = tm.Log.CountCategory("combat", "kill")
	if grades := reporter.Grades(tm.E); len(grades) > 0 {
		st.topGrade = grades[0]
	}
	if verbose {
		st.sampleReport = reporter.FormatLatest()
	}
	return st
}

func printSummary(all []runStats, verbose bool) {
	fmt.Printf("=== %d runs ===\n", len(all))
	decided := 0
	var durations []float64
	for _, st := range all {
		if st.winner != "" || st.hordeWin {
			decided++
		}
		durations = append(durations, float64(st.endTime)/1000)
	}
	sort.Float64s(durations)
	fmt.Printf("decided: %d/%d  median duration: %.0fs\n", decided, len(all), median(durations))

	for _, st := range all {
		outcome := "undecided"
		switch {
		case st.hordeWin:
			outcome = "horde win"
		case st.winner != "":
			outcome = st.winner + " wins"
		}
		fmt.Printf("run %d seed=%d ticks=%d t=%.0fs kills=%d wars=%d %s (top: %s %s k=%d)\n",
			st.runIndex, st.seed, st.ticksRun, float64(st.endTime)/1000,
			st.totalKills, st.wars, outcome,
			st.topGrade.Name, st.topGrade.Personality, st.topGrade.Kills)
		if verbose && st.sampleReport != "" {
			fmt.Print(indent(st.sampleReport))
		}
	}
}

func median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = "    " + lines[i]
	}
	return strings.Join(lines, "\n") + "\n"
}

func parseMode(s string) engine.GameMode {
	switch s {
	case "bullet":
		return engine.ModeBullet
	case "diplomacy":
		return engine.ModeDiplomacy
	case "zombies":
		return engine.ModeZombies
	case "adventure":
		return engine.ModeAdventure
	default:
		return engine.ModeStandard
	}
}
