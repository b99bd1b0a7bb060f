package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/Brick-Bastion/internal/config"
	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	mode     sim.Mode

	outcome  sim.Outcome
	ticks    int
	elapsed  time.Duration
	wave     int
	headline string

	firstKillTick      int
	firstPlayerHitTick int
	firstPickupTick    int
	firstFallbackTick  int

	stats sim.Stats
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var modeName string
	var configPath string

	flag.IntVar(&runs, "runs", 5, "number of headless rounds per mode")
	flag.IntVar(&ticks, "ticks", 60*60*5, "tick limit per round (60 ticks = 1s)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&modeName, "mode", "all", "single, cooperative, versus or all")
	flag.StringVar(&configPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	modes, err := parseModes(modeName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	tu, err := config.Load(configPath)
	if err != nil {
		log.New(os.Stderr).Fatal("load tuning", "err", err)
	}

	fmt.Printf("=== Headless Round Report ===\n")
	fmt.Printf("modes=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", modeName, runs, ticks, seedBase, seedStep)

	var all []runStats
	for _, m := range modes {
		for i := 0; i < runs; i++ {
			seed := seedBase + int64(i)*seedStep
			rs := runRound(i+1, seed, m, ticks, tu)
			all = append(all, rs)
			printRun(rs)
		}
	}
	printAggregate(all)
}

func parseModes(name string) ([]sim.Mode, error) {
	if name == "all" {
		return []sim.Mode{sim.ModeSingle, sim.ModeCooperative, sim.ModeVersus}, nil
	}
	m, err := sim.ParseMode(name)
	if err != nil {
		return nil, err
	}
	return []sim.Mode{m}, nil
}

// runRound plays one round with every seat on autopilot.
func runRound(runIndex int, seed int64, mode sim.Mode, ticks int, tu sim.Tuning) runStats {
	h := sim.NewHarness(
		sim.WithMode(mode),
		sim.WithSeed(seed),
		sim.WithTuning(tu),
	)
	h.Input = sim.NewAutopilot(h.Session, sim.NewRand(seed*7919+1), h.Step)
	h.RunTicks(ticks)

	s := h.Session
	el := h.Log
	st := s.Stats()
	return runStats{
		runIndex:           runIndex,
		seed:               seed,
		mode:               mode,
		outcome:            s.Outcome(),
		ticks:              s.Ticks(),
		elapsed:            st.Elapsed,
		wave:               s.Waves.Wave,
		headline:           s.Summary().Headline,
		firstKillTick:      firstEnemyKill(el),
		firstPlayerHitTick: el.FirstTick("combat", "player_hit"),
		firstPickupTick:    el.FirstTick("pickup", "pickup_collected"),
		firstFallbackTick:  el.FirstTick("spawn", "spawn_fallback"),
		stats:              st,
	}
}

// firstEnemyKill skips the objective and player explosions.
func firstEnemyKill(el *sim.EventLog) int {
	for _, e := range el.Filter("combat", "explosion") {
		if e.Faction == "enemy" {
			return e.Tick
		}
	}
	return -1
}

// classifyRun names how the round ended.
func classifyRun(rs runStats) string {
	if !rs.outcome.Over {
		return "timeout"
	}
	return rs.outcome.Reason.String()
}

// detectStall flags rounds that ran to the tick limit without the players
// making progress: fewer than one kill per minute, or stuck in wave 1.
func detectStall(rs runStats) (bool, string) {
	if rs.outcome.Over {
		return false, "round_ended"
	}
	var reasons []string
	minutes := rs.elapsed.Minutes()
	if minutes > 0 && float64(rs.stats.EnemiesDestroyed)/minutes < 1 {
		reasons = append(reasons, fmt.Sprintf("low_kill_rate=%.2f/min", float64(rs.stats.EnemiesDestroyed)/minutes))
	}
	if rs.wave <= 1 {
		reasons = append(reasons, "no_wave_progress")
	}
	if len(reasons) == 0 {
		return false, "progressing"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d %s (seed=%d) ---\n", rs.runIndex, rs.mode, rs.seed)
	fmt.Printf("result: %s (%s) ticks=%d elapsed=%s wave=%d\n",
		classifyRun(rs), rs.outcome.Description(), rs.ticks, rs.elapsed.Round(time.Millisecond), rs.wave)
	fmt.Printf("headline: %s\n", rs.headline)
	fmt.Printf("phase_markers: first_kill=%d first_player_hit=%d first_pickup=%d first_fallback=%d\n",
		rs.firstKillTick, rs.firstPlayerHitTick, rs.firstPickupTick, rs.firstFallbackTick)
	if stalled, reason := detectStall(rs); stalled {
		fmt.Printf("stall: %s\n", reason)
	}
	fmt.Print(rs.stats.String())
	fmt.Println()
}

func printAggregate(all []runStats) {
	type modeAgg struct {
		runs      int
		results   map[string]int
		waveSum   int
		tickSum   int
		killSum   int
		shotSum   int
		hitSum    int
		fallbacks int
		stalls    int
	}
	aggs := map[sim.Mode]*modeAgg{}
	for _, rs := range all {
		ag, ok := aggs[rs.mode]
		if !ok {
			ag = &modeAgg{results: map[string]int{}}
			aggs[rs.mode] = ag
		}
		ag.runs++
		ag.results[classifyRun(rs)]++
		ag.waveSum += rs.wave
		ag.tickSum += rs.ticks
		ag.killSum += rs.stats.EnemiesDestroyed
		ag.shotSum += rs.stats.ShotsFired
		ag.hitSum += rs.stats.PlayerHits
		ag.fallbacks += rs.stats.SpawnFallbacks
		if stalled, _ := detectStall(rs); stalled {
			ag.stalls++
		}
	}

	modes := make([]sim.Mode, 0, len(aggs))
	for m := range aggs {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	for _, m := range modes {
		ag := aggs[m]
		fmt.Printf("[%s] runs=%d results=%s stalls=%d\n", m, ag.runs, joinCounts(ag.results), ag.stalls)
		fmt.Printf("  avg_per_run: wave=%.1f ticks=%.0f kills=%.1f shots=%.1f player_hits=%.1f spawn_fallbacks=%.1f\n",
			avg(ag.waveSum, ag.runs), avg(ag.tickSum, ag.runs), avg(ag.killSum, ag.runs),
			avg(ag.shotSum, ag.runs), avg(ag.hitSum, ag.runs), avg(ag.fallbacks, ag.runs))
		fmt.Printf("  accuracy=%.1f%%\n", pct(ag.killSum, ag.shotSum))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ",")
}
