package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

func TestParseModes(t *testing.T) {
	all, err := parseModes("all")
	if err != nil || len(all) != 3 {
		t.Fatalf("all = %v err=%v", all, err)
	}
	one, err := parseModes("versus")
	if err != nil || len(one) != 1 || one[0] != sim.ModeVersus {
		t.Fatalf("versus = %v err=%v", one, err)
	}
	if _, err := parseModes("deathmatch"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestClassifyRun(t *testing.T) {
	if got := classifyRun(runStats{}); got != "timeout" {
		t.Fatalf("running round classified as %q", got)
	}
	rs := runStats{outcome: sim.Outcome{Over: true, Reason: sim.EndObjectiveDestroyed}}
	if got := classifyRun(rs); got != "objective_destroyed" {
		t.Fatalf("classified as %q", got)
	}
}

func TestDetectStall_TrueWhenTimedOutWithoutKills(t *testing.T) {
	rs := runStats{elapsed: 5 * time.Minute, wave: 1, stats: sim.Stats{EnemiesDestroyed: 2}}
	stalled, reason := detectStall(rs)
	if !stalled {
		t.Fatalf("expected stall=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "low_kill_rate") || !strings.Contains(reason, "no_wave_progress") {
		t.Fatalf("expected both reasons, got: %s", reason)
	}
}

func TestDetectStall_FalseWhenRoundEnded(t *testing.T) {
	rs := runStats{outcome: sim.Outcome{Over: true, Reason: sim.EndLivesExhausted}, elapsed: time.Minute, wave: 1}
	if stalled, reason := detectStall(rs); stalled {
		t.Fatalf("expected stall=false for a finished round (reason=%s)", reason)
	}
}

func TestDetectStall_FalseWhenProgressing(t *testing.T) {
	rs := runStats{elapsed: 2 * time.Minute, wave: 4, stats: sim.Stats{EnemiesDestroyed: 15}}
	if stalled, reason := detectStall(rs); stalled {
		t.Fatalf("expected stall=false (reason=%s)", reason)
	}
}

func TestRunRoundIsDeterministic(t *testing.T) {
	tu := sim.DefaultTuning()
	a := runRound(1, 99, sim.ModeCooperative, 1800, tu)
	b := runRound(1, 99, sim.ModeCooperative, 1800, tu)
	if a.ticks != b.ticks || a.stats != b.stats || a.outcome != b.outcome {
		t.Fatalf("same seed produced different rounds:\n%+v\n%+v", a, b)
	}
	if a.wave < 1 || a.stats.EnemiesSpawned == 0 {
		t.Fatalf("30s round never spawned an enemy: wave=%d spawned=%d", a.wave, a.stats.EnemiesSpawned)
	}
}
