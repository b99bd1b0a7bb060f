package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

func TestEmptyPathGivesDefaults(t *testing.T) {
	tu, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if tu != sim.DefaultTuning() {
		t.Fatal("empty path did not return the defaults")
	}
}

func TestPartialFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	body := "cols: 26\nrows: 18\nfire_cooldown: 450ms\nai_fire_chance: 0.03\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	tu, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tu.Cols != 26 || tu.Rows != 18 {
		t.Fatalf("arena = %dx%d, want 26x18", tu.Cols, tu.Rows)
	}
	if tu.FireCooldown != 450*time.Millisecond {
		t.Fatalf("fire_cooldown = %v", tu.FireCooldown)
	}
	if tu.AIFireChance != 0.03 {
		t.Fatalf("ai_fire_chance = %v", tu.AIFireChance)
	}
	if tu.TankSpeed != sim.DefaultTuning().TankSpeed {
		t.Fatal("unspecified field lost its default")
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	_, err := Parse(strings.NewReader("tank_sped: 200\n"))
	if err == nil || !strings.Contains(err.Error(), "tank_sped") {
		t.Fatalf("err = %v, want unknown field error", err)
	}
}

func TestInvalidTuningRejected(t *testing.T) {
	_, err := Parse(strings.NewReader("tank_size: 64\n"))
	if err == nil || !strings.Contains(err.Error(), "tank_size") {
		t.Fatalf("err = %v, want tank_size validation error", err)
	}
}

func TestMissingFileWrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist in chain", err)
	}
}

func TestWriteThenParse(t *testing.T) {
	want := sim.DefaultTuning()
	want.SpawnShield = 4 * time.Second
	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "spawn_shield: 4s") {
		t.Fatalf("durations should be written as strings:\n%s", buf.String())
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("round trip changed tuning:\n got %+v\nwant %+v", got, want)
	}
}
